package events

// Trace is the ordered event log of one trial
type Trace struct {
	TrialID string
	Events  []Event
}

// Len returns the number of recorded events
func (t *Trace) Len() int {
	return len(t.Events)
}

// OfType returns the events of one type, in order
func (t *Trace) OfType(eventType string) []Event {
	var out []Event
	for _, e := range t.Events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the final event, or nil for an empty trace
func (t *Trace) Last() Event {
	if len(t.Events) == 0 {
		return nil
	}
	return t.Events[len(t.Events)-1]
}

// TraceRecorder is a subscriber that appends every event to a Trace
type TraceRecorder struct {
	trace *Trace
}

// NewTraceRecorder creates a recorder for the given trial
func NewTraceRecorder(trialID string) *TraceRecorder {
	return &TraceRecorder{trace: &Trace{TrialID: trialID, Events: make([]Event, 0, 64)}}
}

func (r *TraceRecorder) ID() string               { return "trace_recorder" }
func (r *TraceRecorder) InterestedIn(string) bool { return true }
func (r *TraceRecorder) HandleEvent(e Event)      { r.trace.Events = append(r.trace.Events, e) }

// Trace returns the recorded trace
func (r *TraceRecorder) Trace() *Trace {
	return r.trace
}
