package strategy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPolicy is returned for malformed mulligan policies
var ErrInvalidPolicy = errors.New("invalid mulligan policy")

// MulliganPolicy is the range of opening hand lands a strategy keeps
type MulliganPolicy struct {
	MinLands int
	MaxLands int
}

// ParseMulliganPolicy parses "min-max" such as "2-5". A single number keeps
// only hands with exactly that many lands.
func ParseMulliganPolicy(s string) (MulliganPolicy, error) {
	s = strings.TrimSpace(s)
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		hi = lo
	}
	lower, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return MulliganPolicy{}, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
	upper, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return MulliganPolicy{}, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
	if lower < 0 || upper < 1 || lower > upper {
		return MulliganPolicy{}, fmt.Errorf("%w: %q needs 0 <= min <= max and max >= 1", ErrInvalidPolicy, s)
	}
	return MulliganPolicy{MinLands: lower, MaxLands: upper}, nil
}

func (p MulliganPolicy) String() string {
	return fmt.Sprintf("%d-%d", p.MinLands, p.MaxLands)
}

// Apply sets the land bounds on opts
func (p MulliganPolicy) Apply(opts Options) Options {
	opts.MinLands = p.MinLands
	opts.MaxLands = p.MaxLands
	return opts
}
