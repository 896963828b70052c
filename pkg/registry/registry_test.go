package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"parse-filter-criteria",
		"recommend-policies",
		"compare-policies",
		"search-policies",
		"company-analysis",
		"manage-session",
		"send-recommendations",
	}, reg.TaskTypes())

	for _, a := range reg.Activities {
		assert.NotEmpty(t, a.InputSchema, a.TaskType)
		assert.NotEmpty(t, a.OutputSchema, a.TaskType)
		assert.Contains(t, a.ErrorCodes, "INVALID_INPUT", a.TaskType)
	}
}

func TestFind(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	a, ok := reg.Find("compare-policies")
	require.True(t, ok)
	assert.Equal(t, "Compare Policies", a.DisplayName)

	_, ok = reg.Find("unknown")
	assert.False(t, ok)
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"version":"2","activities":[{"id":"a","taskType":"a"}]}`), 0o600))

		reg, err := LoadRegistry(path)
		require.NoError(t, err)
		assert.Equal(t, "2", reg.Version)
	})

	t.Run("duplicate task type", func(t *testing.T) {
		path := filepath.Join(dir, "dup.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"activities":[{"id":"a","taskType":"a"},{"id":"b","taskType":"a"}]}`), 0o600))

		_, err := LoadRegistry(path)
		assert.ErrorContains(t, err, "duplicate taskType")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRegistry(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})
}
