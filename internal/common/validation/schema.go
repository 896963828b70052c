package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"insurance-workers/internal/common/errors"
	"insurance-workers/pkg/registry"
)

// SchemaValidator checks job variables against the input schema of each
// registered activity.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles every input schema in reg.
func NewSchemaValidator(reg *registry.ActivityRegistry) (*SchemaValidator, error) {
	v := &SchemaValidator{schemas: make(map[string]*gojsonschema.Schema, len(reg.Activities))}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// Has reports whether taskType has a compiled schema.
func (v *SchemaValidator) Has(taskType string) bool {
	_, ok := v.schemas[taskType]
	return ok
}

// Validate returns an INVALID_INPUT error listing every schema violation.
// Task types without a schema always pass.
func (v *SchemaValidator) Validate(taskType string, variables map[string]interface{}) error {
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil
	}
	if variables == nil {
		variables = map[string]interface{}{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(variables))
	if err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("validation error: %v", err))
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		msgs[i] = desc.String()
	}
	sort.Strings(msgs)

	return errors.NewInvalidInputError(strings.Join(msgs, "; ")).
		WithMetadata("taskType", taskType)
}
