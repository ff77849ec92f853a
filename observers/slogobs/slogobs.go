// Package slogobs reports Executor run progress as structured log lines
// through an *slog.Logger, the same logging stack arglog configures for
// the rest of the engine.
package slogobs

import (
	"log/slog"

	"github.com/go-argmin/argmin/kv"
	"github.com/go-argmin/argmin/observer"
)

// Observer writes one log line per ObserveInit/ObserveIter call, at Info
// level, tagging every line with the solver name; ObserveIter lines also
// carry the iteration.
type Observer struct {
	log    *slog.Logger
	solver string
}

// New returns an Observer writing through log.
func New(log *slog.Logger) *Observer {
	return &Observer{log: log}
}

func (o *Observer) ObserveInit(name string, st observer.StateView, snapshot *kv.KV) error {
	o.solver = name
	o.log.Info("solver initialized",
		slog.String("solver", name),
		slog.Float64("best_cost", st.BestCostF64()),
		slog.Any("snapshot", render(snapshot)),
	)
	return nil
}

func (o *Observer) ObserveIter(st observer.StateView, snapshot *kv.KV) error {
	o.log.Info("iteration observed",
		slog.String("solver", o.solver),
		slog.Uint64("iter", st.Iter()),
		slog.Bool("is_best", st.IsBest()),
		slog.Float64("best_cost", st.BestCostF64()),
		slog.Any("snapshot", render(snapshot)),
	)
	return nil
}

func render(snapshot *kv.KV) map[string]string {
	out := make(map[string]string, snapshot.Len())
	for _, key := range snapshot.Keys() {
		v, _ := snapshot.Get(key)
		out[key] = v.Render()
	}
	return out
}
