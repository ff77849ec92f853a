package slogobs_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-argmin/argmin/kv"
	"github.com/go-argmin/argmin/observers/slogobs"
)

type fakeState struct {
	iter     uint64
	isBest   bool
	bestCost float64
}

func (f fakeState) Iter() uint64         { return f.iter }
func (f fakeState) IsBest() bool         { return f.isBest }
func (f fakeState) BestCostF64() float64 { return f.bestCost }

func TestObserverLogsInitAndIter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	obs := slogobs.New(log)

	require.NoError(t, obs.ObserveInit("steepest_descent", fakeState{bestCost: 10}, nil))
	require.NoError(t, obs.ObserveIter(fakeState{iter: 1, isBest: true, bestCost: 5}, kv.New().Set("alpha", kv.Float(0.5))))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "solver initialized", first["msg"])
	assert.Equal(t, "steepest_descent", first["solver"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "iteration observed", second["msg"])
	assert.Equal(t, true, second["is_best"])
}
