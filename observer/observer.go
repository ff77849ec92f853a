// Package observer defines the typed sink contract solvers report
// progress through, and an ordered registry that invokes each sink at
// its configured cadence. Concrete sinks (terminal, file, metrics
// backend) live under observers/ and depend on this package only.
package observer

import "github.com/go-argmin/argmin/kv"

// Observer receives a named init snapshot once, then a snapshot on
// every iteration that matches its registered Mode. StateView exposes
// only what a sink needs to decide cadence and render a line; solvers
// pass the concrete State in, callers type-assert if they need more.
type Observer interface {
	ObserveInit(name string, st StateView, snapshot *kv.KV) error
	ObserveIter(st StateView, snapshot *kv.KV) error
}

// StateView is the read-only slice of State an observer is guaranteed,
// independent of which concrete State shape (IterState, PopulationState)
// the running solver uses.
type StateView interface {
	Iter() uint64
	IsBest() bool
	BestCostF64() float64
}

// ModeKind discriminates the four cadences a registered observer can run
// at.
type ModeKind int

const (
	ModeNever ModeKind = iota
	ModeAlways
	ModeNewBest
	ModeEvery
)

// Mode pairs a cadence kind with the period Every needs; it is the zero
// value (Never) by default.
type Mode struct {
	kind   ModeKind
	period uint64
}

func Never() Mode   { return Mode{kind: ModeNever} }
func Always() Mode  { return Mode{kind: ModeAlways} }
func NewBest() Mode { return Mode{kind: ModeNewBest} }

// Every fires when state.Iter() % n == 0. n must be >= 1; n <= 0 is
// clamped to 1.
func Every(n uint64) Mode {
	if n < 1 {
		n = 1
	}
	return Mode{kind: ModeEvery, period: n}
}

// matches reports whether, given the state at the current iteration, a
// registrant in this mode should be invoked.
func (m Mode) matches(st StateView) bool {
	switch m.kind {
	case ModeAlways:
		return true
	case ModeNewBest:
		return st.IsBest()
	case ModeEvery:
		return st.Iter()%m.period == 0
	default:
		return false
	}
}

type entry struct {
	observer Observer
	mode     Mode
}

// Registry holds observers in registration order and invokes each at its
// own cadence; the first observer to return an error aborts the call,
// matching the engine's "abort the run with that error" rule.
type Registry struct {
	entries []entry
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry { return &Registry{} }

// Add appends an observer under mode, in call order.
func (r *Registry) Add(o Observer, mode Mode) {
	r.entries = append(r.entries, entry{observer: o, mode: mode})
}

// Len reports how many observers are registered.
func (r *Registry) Len() int { return len(r.entries) }

// Init invokes ObserveInit on every registered observer regardless of
// mode, in registration order, stopping at the first error.
func (r *Registry) Init(name string, st StateView, snapshot *kv.KV) error {
	for _, e := range r.entries {
		if err := e.observer.ObserveInit(name, st, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// Iter invokes ObserveIter on every observer whose mode matches the
// current state, in registration order, stopping at the first error.
func (r *Registry) Iter(st StateView, snapshot *kv.KV) error {
	for _, e := range r.entries {
		if !e.mode.matches(st) {
			continue
		}
		if err := e.observer.ObserveIter(st, snapshot); err != nil {
			return err
		}
	}
	return nil
}
