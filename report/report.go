// Package report collects a completed run's history and exposes it in a
// shape the xlsxreport and pdfreport exporters can render without
// depending on the generic Executor/State types — Recorder rides along
// as an ordinary observer.Observer and flattens whatever state shape the
// run used into plain Records.
package report

import (
	"time"

	"github.com/go-argmin/argmin/kv"
	"github.com/go-argmin/argmin/observer"
)

// Record is one observed point in a run's history.
type Record struct {
	Iter    uint64
	Cost    float64
	IsBest  bool
	Details map[string]string
}

// Recorder is an observer.Observer that appends a Record on every call,
// at ObserveInit and at whatever cadence it is registered under.
type Recorder struct {
	records []Record
}

// NewRecorder returns an empty Recorder. Register it with
// observer.Always() to capture every iteration, or a coarser Mode to
// keep the report's history bounded on long runs.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) ObserveInit(name string, st observer.StateView, snapshot *kv.KV) error {
	r.records = append(r.records, Record{Iter: 0, Cost: st.BestCostF64(), IsBest: true, Details: flatten(snapshot)})
	return nil
}

func (r *Recorder) ObserveIter(st observer.StateView, snapshot *kv.KV) error {
	r.records = append(r.records, Record{Iter: st.Iter(), Cost: st.BestCostF64(), IsBest: st.IsBest(), Details: flatten(snapshot)})
	return nil
}

// Records returns the accumulated history in observation order.
func (r *Recorder) Records() []Record { return r.records }

func flatten(snapshot *kv.KV) map[string]string {
	if snapshot.Len() == 0 {
		return nil
	}
	out := make(map[string]string, snapshot.Len())
	for _, key := range snapshot.Keys() {
		v, _ := snapshot.Get(key)
		out[key] = v.Render()
	}
	return out
}

// Data is the plain, exporter-agnostic shape a finished run is reduced
// to before handing it to xlsxreport or pdfreport. Callers assemble it
// from an OptimizationResult's Summary fields plus a Recorder that rode
// along as an observer during the run.
type Data struct {
	RunID             string
	SolverName        string
	TerminationReason string
	Iterations        uint64
	BestCost          float64
	Elapsed           time.Duration
	Counts            map[string]uint64
	History           []Record
}
