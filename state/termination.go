package state

import "fmt"

// TerminationReason is the closed set of reasons a run can latch.
type TerminationReason struct {
	kind string
	exit string // populated only for SolverExit
}

func MaxItersReached() TerminationReason  { return TerminationReason{kind: "MaxItersReached"} }
func TargetCostReached() TerminationReason { return TerminationReason{kind: "TargetCostReached"} }
func Interrupt() TerminationReason        { return TerminationReason{kind: "Interrupt"} }
func Timeout() TerminationReason          { return TerminationReason{kind: "Timeout"} }
func SolverConverged() TerminationReason  { return TerminationReason{kind: "SolverConverged"} }
func SolverExit(reason string) TerminationReason {
	return TerminationReason{kind: "SolverExit", exit: reason}
}

// Kind returns the reason's discriminant, one of MaxItersReached,
// TargetCostReached, Interrupt, Timeout, SolverConverged, SolverExit.
func (r TerminationReason) Kind() string { return r.kind }

// ExitMessage returns the descriptive string carried by a SolverExit
// reason, or "" for any other kind.
func (r TerminationReason) ExitMessage() string { return r.exit }

func (r TerminationReason) String() string {
	if r.kind == "SolverExit" {
		return fmt.Sprintf("SolverExit(%s)", r.exit)
	}
	return r.kind
}

// TerminationStatus is either NotTerminated or Terminated(reason), and
// once Terminated is latched it never changes.
type TerminationStatus struct {
	terminated bool
	reason     TerminationReason
}

// NotTerminated is the zero value of TerminationStatus.
func NotTerminated() TerminationStatus { return TerminationStatus{} }

// Terminated reports whether the run has latched a reason.
func (s TerminationStatus) Terminated() bool { return s.terminated }

// Reason returns the latched reason and true, or the zero TerminationReason
// and false if the status is NotTerminated.
func (s TerminationStatus) Reason() (TerminationReason, bool) {
	if !s.terminated {
		return TerminationReason{}, false
	}
	return s.reason, true
}

// Latch sets the status to Terminated(reason) if not already terminated;
// once terminated, calling Latch again is a no-op, preserving the
// exactly-once latching invariant.
func (s *TerminationStatus) Latch(reason TerminationReason) {
	if s.terminated {
		return
	}
	s.terminated = true
	s.reason = reason
}

func (s TerminationStatus) String() string {
	if !s.terminated {
		return "NotTerminated"
	}
	return "Terminated(" + s.reason.String() + ")"
}
