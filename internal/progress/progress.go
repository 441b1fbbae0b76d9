package progress

import "sync"

// Phase is the coarse lifecycle marker of an in-flight request
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseUploading  Phase = "uploading"
	PhaseProcessing Phase = "processing"
	PhaseComplete   Phase = "complete"
	PhaseFailed     Phase = "failed"
)

// Terminal reports whether no further progress can follow the phase
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseFailed
}

// TransferProgress is a snapshot of a request's transmission state
type TransferProgress struct {
	Phase   Phase `json:"phase"`
	Percent int   `json:"percent"`
}

// Reporter receives progress updates. It is a fire-and-forget callback, not a
// queue; consumers are expected to re-render on each invocation.
type Reporter func(phase Phase, percent int)

// Tracker owns the progress state machine of a single request. It guarantees
// that percent never decreases within a phase and that nothing is reported
// after a terminal phase. Exactly one Tracker exists per in-flight request.
type Tracker struct {
	mu       sync.Mutex
	current  TransferProgress
	reporter Reporter
}

// NewTracker creates a tracker starting at {Idle, 0}. A nil reporter is
// allowed; updates are then tracked but not surfaced.
func NewTracker(reporter Reporter) *Tracker {
	return &Tracker{
		current:  TransferProgress{Phase: PhaseIdle, Percent: 0},
		reporter: reporter,
	}
}

// Report records a progress update and forwards it to the reporter.
// Updates arriving after Complete or Failed are dropped, as are
// backwards percent moves within the current phase.
func (t *Tracker) Report(phase Phase, percent int) {
	t.mu.Lock()

	if t.current.Phase.Terminal() {
		t.mu.Unlock()
		return
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	if phase == t.current.Phase && percent < t.current.Percent {
		t.mu.Unlock()
		return
	}

	t.current = TransferProgress{Phase: phase, Percent: percent}
	reporter := t.reporter
	t.mu.Unlock()

	if reporter != nil {
		reporter(phase, percent)
	}
}

// Current returns the latest recorded progress
func (t *Tracker) Current() TransferProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}
