package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-workers/pkg/registry"
)

var fixedNow = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

func newActivity(id string) registry.Activity {
	return registry.Activity{
		ID:          id,
		DisplayName: "Display " + id,
		Description: "desc",
		Category:    "recommendation",
		TaskType:    id,
		InputSchema: map[string]interface{}{"type": "object"},
		ErrorCodes:  []string{"INVALID_INPUT"},
		Timeout:     "10s",
	}
}

func TestValidateRegistry_EmbeddedRegistryPasses(t *testing.T) {
	reg, err := registry.Load()
	require.NoError(t, err)
	assert.NoError(t, validateRegistry(reg))
}

func TestValidateRegistry_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *registry.Activity)
		wantErr string
	}{
		{"missing display name", func(a *registry.Activity) { a.DisplayName = "" }, "DisplayName"},
		{"missing category", func(a *registry.Activity) { a.Category = "" }, "Category"},
		{"bad timeout", func(a *registry.Activity) { a.Timeout = "soon" }, "invalid timeout"},
		{"unknown error code", func(a *registry.Activity) { a.ErrorCodes = []string{"NOPE"} }, "unknown error code NOPE"},
		{"schema does not compile", func(a *registry.Activity) {
			a.InputSchema = map[string]interface{}{"type": 42}
		}, "compile input schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newActivity("rank-policies")
			tt.mutate(&a)
			err := validateRegistry(&registry.ActivityRegistry{Activities: []registry.Activity{a}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("empty registry", func(t *testing.T) {
		assert.Error(t, validateRegistry(&registry.ActivityRegistry{}))
	})
}

func TestAddAndUpdateActivity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activities.json")

	require.NoError(t, addActivity(path, newActivity("rank-policies"), fixedNow))
	require.NoError(t, addActivity(path, newActivity("score-policies"), fixedNow))

	err := addActivity(path, newActivity("rank-policies"), fixedNow)
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, updateActivity(path, "rank-policies", "status", "implemented", fixedNow))
	require.NoError(t, updateActivity(path, "rank-policies", "retries", "2", fixedNow))

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", reg.LastUpdated)
	assert.Equal(t, []string{"rank-policies", "score-policies"}, reg.TaskTypes())

	a, ok := reg.Find("rank-policies")
	require.True(t, ok)
	assert.Equal(t, "implemented", a.ImplementationStatus)
	assert.Equal(t, 2, a.Retries)
}

func TestUpdateActivity_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, addActivity(path, newActivity("rank-policies"), fixedNow))

	assert.ErrorContains(t, updateActivity(path, "missing", "status", "x", fixedNow), "not found")
	assert.ErrorContains(t, updateActivity(path, "rank-policies", "owner", "x", fixedNow), "unknown field")
	assert.ErrorContains(t, updateActivity(path, "rank-policies", "retries", "many", fixedNow), "invalid retries")
	assert.ErrorContains(t, updateActivity(path, "rank-policies", "timeout", "later", fixedNow), "invalid timeout")

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
