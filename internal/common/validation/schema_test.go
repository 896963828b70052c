package validation

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-workers/internal/common/errors"
	"insurance-workers/pkg/registry"
)

func createTestValidator(t *testing.T) *SchemaValidator {
	reg, err := registry.Load()
	require.NoError(t, err)
	v, err := NewSchemaValidator(reg)
	require.NoError(t, err)
	return v
}

func TestSchemaValidator_Validate(t *testing.T) {
	v := createTestValidator(t)

	tests := []struct {
		name       string
		taskType   string
		variables  map[string]interface{}
		wantErr    bool
		wantDetail string
	}{
		{
			name:      "compare accepts two names",
			taskType:  "compare-policies",
			variables: map[string]interface{}{"policyNames": []interface{}{"Optima Secure", "Care Supreme"}},
		},
		{
			name:       "compare rejects a single name",
			taskType:   "compare-policies",
			variables:  map[string]interface{}{"policyNames": []interface{}{"Optima Secure"}},
			wantErr:    true,
			wantDetail: "policyNames",
		},
		{
			name:     "compare rejects five names",
			taskType: "compare-policies",
			variables: map[string]interface{}{"policyNames": []interface{}{
				"a", "b", "c", "d", "e",
			}},
			wantErr:    true,
			wantDetail: "policyNames",
		},
		{
			name:       "session requires action",
			taskType:   "manage-session",
			variables:  map[string]interface{}{"email": "a@b.co"},
			wantErr:    true,
			wantDetail: "action",
		},
		{
			name:       "session rejects unknown action",
			taskType:   "manage-session",
			variables:  map[string]interface{}{"action": "refresh"},
			wantErr:    true,
			wantDetail: "action",
		},
		{
			name:      "extra process variables are allowed",
			taskType:  "company-analysis",
			variables: map[string]interface{}{"company": "Star Health", "processStartedBy": "web"},
		},
		{
			name:      "empty wizard answers are valid",
			taskType:  "parse-filter-criteria",
			variables: nil,
		},
		{
			name:       "search size above page cap",
			taskType:   "search-policies",
			variables:  map[string]interface{}{"size": 500},
			wantErr:    true,
			wantDetail: "size",
		},
		{
			name:      "unregistered task type passes",
			taskType:  "unknown-task",
			variables: map[string]interface{}{"anything": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.taskType, tt.variables)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
			assert.Contains(t, stdErr.Details, tt.wantDetail)
			assert.Equal(t, tt.taskType, stdErr.Metadata["taskType"])
		})
	}
}

func TestNewSchemaValidator_InvalidSchema(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{{
		TaskType:    "broken",
		InputSchema: map[string]interface{}{"type": 42},
	}}}

	_, err := NewSchemaValidator(reg)
	assert.ErrorContains(t, err, "broken")
}

func TestSchemaValidator_Has(t *testing.T) {
	v := createTestValidator(t)
	assert.True(t, v.Has("recommend-policies"))
	assert.False(t, v.Has("build-response"))
}
