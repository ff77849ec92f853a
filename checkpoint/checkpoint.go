// Package checkpoint defines the Checkpoint contract the Executor drives
// at a configurable cadence, and a LoadOr helper for resuming a prior
// run. Concrete media (Redis, Postgres) live in sibling packages and
// depend only on this one.
package checkpoint

// ModeKind discriminates the three cadences a Checkpoint can save at.
type ModeKind int

const (
	ModeNever ModeKind = iota
	ModeAlways
	ModeEvery
)

// Mode pairs a cadence kind with the period Every needs.
type Mode struct {
	kind   ModeKind
	period uint64
}

func Never() Mode { return Mode{kind: ModeNever} }

func Always() Mode { return Mode{kind: ModeAlways} }

// Every saves when iter % n == 0. n < 1 is clamped to 1.
func Every(n uint64) Mode {
	if n < 1 {
		n = 1
	}
	return Mode{kind: ModeEvery, period: n}
}

// Due reports whether, given the iteration just completed, a save is
// owed under this mode.
func (m Mode) Due(iter uint64) bool {
	switch m.kind {
	case ModeAlways:
		return true
	case ModeEvery:
		period := m.period
		if period == 0 {
			period = 1
		}
		return iter%period == 0
	default:
		return false
	}
}

// Checkpoint serializes a (solver, state) pair as one snapshot and
// restores it. Save is called by the Executor after state.Update and the
// termination check, before that iteration's observers run. Load
// returning found == false means "no snapshot available" rather than an
// error.
type Checkpoint[Solver, St any] interface {
	Save(solver Solver, st St) error
	Load() (solver Solver, st St, found bool, err error)
}

// LoadOr restores (solver, state) from cp if a snapshot exists, else
// calls build to construct a fresh pair — the resume-or-start-fresh
// helper the engine contract names load_or.
func LoadOr[Solver, St any](cp Checkpoint[Solver, St], build func() (Solver, St)) (Solver, St, error) {
	solver, st, found, err := cp.Load()
	if err != nil {
		var zs Solver
		var zt St
		return zs, zt, err
	}
	if found {
		return solver, st, nil
	}
	solver, st = build()
	return solver, st, nil
}
