package mcmclog_test

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/aspartik-go/b3/dna"
	"github.com/aspartik-go/b3/likelihood"
	"github.com/aspartik-go/b3/likelihood/cpu"
	"github.com/aspartik-go/b3/mcmclog"
	"github.com/aspartik-go/b3/parameter"
	"github.com/aspartik-go/b3/rng"
	"github.com/aspartik-go/b3/state"
	"github.com/aspartik-go/b3/substitution"
	"github.com/aspartik-go/b3/tree"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *state.State {
	t.Helper()

	tr, err := tree.New([]int{0, 1}, []float64{0, 0, 1})
	require.NoError(t, err)

	base, err := dna.ParseBase('A')
	require.NoError(t, err)
	sites := [][]likelihood.Row{{base.Row(), base.Row()}}
	backend := cpu.New(sites)

	model, err := substitution.JukesCantor()
	require.NoError(t, err)

	params := map[string]parameter.Parameter{
		"kappa": &parameter.RealParam{Values: []float64{2.0, 3.0}},
	}

	rngSrc := rand.New(rng.NewPCG64(0, 1, 0, 1))
	s := state.New(tr, params, model, backend, rngSrc)
	s.ScaleAllWeights(1.0)
	s.Accept()
	return s
}

func TestLogWritesParametersAndDistributionsAtCadence(t *testing.T) {
	s := newTestState(t)
	var buf bytes.Buffer
	logger := &mcmclog.Logger{LogEvery: 2, Dst: &buf, Parameters: []string{"kappa"}}

	require.NoError(t, logger.Log(s, 1, nil))
	require.Zero(t, buf.Len(), "index not a multiple of LogEvery should not write")

	dists := map[string]float64{"likelihood": -1.23}
	require.NoError(t, logger.Log(s, 2, dists))
	require.NotZero(t, buf.Len())

	var decoded struct {
		Index         int                        `json:"index"`
		Parameters    map[string]json.RawMessage `json:"parameters"`
		Distributions map[string]float64         `json:"distributions"`
	}
	require.NoError(t, json.Unmarshal(bytes.TrimRight(buf.Bytes(), "\n"), &decoded))
	require.Equal(t, 2, decoded.Index)
	require.Contains(t, decoded.Parameters, "kappa")
	require.Equal(t, dists, decoded.Distributions)
}

func TestLogRejectsUnknownParameter(t *testing.T) {
	s := newTestState(t)
	var buf bytes.Buffer
	logger := &mcmclog.Logger{LogEvery: 1, Dst: &buf, Parameters: []string{"nope"}}

	err := logger.Log(s, 0, nil)
	require.Error(t, err)
}

func TestLogRejectsInvalidLogEvery(t *testing.T) {
	s := newTestState(t)
	var buf bytes.Buffer
	logger := &mcmclog.Logger{LogEvery: 0, Dst: &buf}

	err := logger.Log(s, 0, nil)
	require.Error(t, err)
}
