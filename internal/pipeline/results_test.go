package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsPreserveExecutionOrder(t *testing.T) {
	r := NewResults()
	r.Record(StageBuild, true, "app:1.0.0")
	r.Record(StageTest, true, "ok")
	r.Record(StageScan, false, nil)

	assert.Equal(t, []string{"build", "test", "scan"}, r.Stages())
}

func TestResultsAbsentStage(t *testing.T) {
	r := NewResults()
	r.Record(StageBuild, true, "app:1.0.0")

	assert.False(t, r.Has(StageSBOM))
	assert.False(t, r.Succeeded(StageSBOM))
	_, ok := r.Get(StageSBOM)
	assert.False(t, ok)
}

func TestExitCodeGatingStagesOnly(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*Results)
		want  int
	}{
		{"empty", func(*Results) {}, 0},
		{"build failed", func(r *Results) { r.Record(StageBuild, false, nil) }, 1},
		{"scan failed", func(r *Results) {
			r.Record(StageBuild, true, nil)
			r.Record(StageScan, false, nil)
		}, 1},
		{"policy failed", func(r *Results) {
			r.Record(StageBuild, true, nil)
			r.Record(StageScan, true, nil)
			r.Record(StagePolicy, false, nil)
		}, 1},
		{"sbom and sign failed", func(r *Results) {
			r.Record(StageBuild, true, nil)
			r.Record(StageScan, true, nil)
			r.Record(StageSBOM, false, nil)
			r.Record(StageSign, false, nil)
			r.Record(StagePush, false, nil)
		}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResults()
			tc.setup(r)
			assert.Equal(t, tc.want, r.ExitCode())
		})
	}
}

func TestResultsJSONShape(t *testing.T) {
	r := NewResults()
	r.Record(StageBuild, true, "app:1.0.0")
	r.Record(StageSBOM, false, "no SBOM tool found")

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]struct {
		Success bool `json:"success"`
		Output  any  `json:"output"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, decoded["build"].Success)
	assert.Equal(t, "app:1.0.0", decoded["build"].Output)
	assert.False(t, decoded["sbom"].Success)
	assert.NotContains(t, decoded, "scan")
}
