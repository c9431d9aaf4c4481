package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Distribution describes the present samples of a scalar metric
type Distribution struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"stddev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	P10      float64 `json:"p10"`
	P25      float64 `json:"p25"`
	P50      float64 `json:"p50"`
	P75      float64 `json:"p75"`
	P90      float64 `json:"p90"`
	P99      float64 `json:"p99"`
}

// ScalarSummary aggregates one scalar metric. Distribution is nil when no
// trial produced the metric.
type ScalarSummary struct {
	Name         string        `json:"name"`
	Present      int           `json:"present"`
	Absent       int           `json:"absent"`
	AbsenceRate  float64       `json:"absence_rate"`
	Distribution *Distribution `json:"distribution,omitempty"`
}

// CategoricalSummary counts the values of a categorical metric
type CategoricalSummary struct {
	Name   string         `json:"name"`
	Counts map[string]int `json:"counts"`
}

// Summary is the aggregate of many observation sets, with metrics sorted
// by name
type Summary struct {
	Trials      int                  `json:"trials"`
	Scalars     []ScalarSummary      `json:"scalars"`
	Categorical []CategoricalSummary `json:"categorical"`
}

// Scalar returns the named scalar summary
func (s Summary) Scalar(name string) (ScalarSummary, bool) {
	for _, m := range s.Scalars {
		if m.Name == name {
			return m, true
		}
	}
	return ScalarSummary{}, false
}

// Category returns the named categorical summary
func (s Summary) Category(name string) (CategoricalSummary, bool) {
	for _, m := range s.Categorical {
		if m.Name == name {
			return m, true
		}
	}
	return CategoricalSummary{}, false
}

// Aggregator folds observation sets into a Summary. The summary depends only
// on the multiset of sets added, not on their order. Not safe for
// concurrent use; merge per-worker aggregators instead.
type Aggregator struct {
	trials     int
	samples    map[string][]float64
	absent     map[string]int
	categories map[string]map[string]int
}

// NewAggregator creates an empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		samples:    make(map[string][]float64),
		absent:     make(map[string]int),
		categories: make(map[string]map[string]int),
	}
}

// Trials returns the number of sets added
func (a *Aggregator) Trials() int { return a.trials }

// Add folds in the observations of one trial
func (a *Aggregator) Add(set ObservationSet) {
	a.trials++
	for _, o := range set.Observations {
		switch o.Kind {
		case KindCategorical:
			counts, ok := a.categories[o.Name]
			if !ok {
				counts = make(map[string]int)
				a.categories[o.Name] = counts
			}
			counts[o.Category]++
		default:
			if o.Present {
				a.samples[o.Name] = append(a.samples[o.Name], o.Value)
			} else {
				a.absent[o.Name]++
				if _, ok := a.samples[o.Name]; !ok {
					a.samples[o.Name] = nil
				}
			}
		}
	}
}

// Merge folds another aggregator into this one
func (a *Aggregator) Merge(other *Aggregator) {
	a.trials += other.trials
	for name, values := range other.samples {
		a.samples[name] = append(a.samples[name], values...)
	}
	for name, n := range other.absent {
		a.absent[name] += n
	}
	for name, counts := range other.categories {
		mine, ok := a.categories[name]
		if !ok {
			mine = make(map[string]int, len(counts))
			a.categories[name] = mine
		}
		for k, n := range counts {
			mine[k] += n
		}
	}
}

// Summary computes the aggregate. Samples are sorted before any arithmetic
// so floating point results do not depend on insertion order.
func (a *Aggregator) Summary() Summary {
	s := Summary{Trials: a.trials}

	names := make([]string, 0, len(a.samples))
	for name := range a.samples {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		values := append([]float64(nil), a.samples[name]...)
		sort.Float64s(values)
		m := ScalarSummary{Name: name, Present: len(values), Absent: a.absent[name]}
		if total := m.Present + m.Absent; total > 0 {
			m.AbsenceRate = float64(m.Absent) / float64(total)
		}
		m.Distribution = Describe(values)
		s.Scalars = append(s.Scalars, m)
	}

	cats := make([]string, 0, len(a.categories))
	for name := range a.categories {
		cats = append(cats, name)
	}
	sort.Strings(cats)
	for _, name := range cats {
		counts := make(map[string]int, len(a.categories[name]))
		for k, n := range a.categories[name] {
			counts[k] = n
		}
		s.Categorical = append(s.Categorical, CategoricalSummary{Name: name, Counts: counts})
	}
	return s
}

// Describe summarises sorted samples. It returns nil for no samples.
func Describe(sorted []float64) *Distribution {
	n := len(sorted)
	if n == 0 {
		return nil
	}
	variance := stat.PopVariance(sorted, nil)
	return &Distribution{
		Mean:     stat.Mean(sorted, nil),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Min:      sorted[0],
		Max:      sorted[n-1],
		P10:      Percentile(sorted, 0.10),
		P25:      Percentile(sorted, 0.25),
		P50:      Percentile(sorted, 0.50),
		P75:      Percentile(sorted, 0.75),
		P90:      Percentile(sorted, 0.90),
		P99:      Percentile(sorted, 0.99),
	}
}

// Percentile linearly interpolates the empirical distribution of sorted
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}
