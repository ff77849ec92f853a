// Package runid generates the identifier that correlates one Executor
// run across logs, traces, and checkpoint storage.
package runid

import "github.com/google/uuid"

// ID identifies a single run.
type ID string

// New returns a fresh random run identifier.
func New() ID {
	return ID(uuid.New().String())
}

func (id ID) String() string { return string(id) }
