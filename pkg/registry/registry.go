// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

//go:embed activities.json
var embedded []byte

// Load parses the activity registry compiled into the binary.
func Load() (*ActivityRegistry, error) {
	return parse(embedded)
}

// LoadRegistry reads an activity registry from path.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry: %w", err)
	}

	seen := make(map[string]bool, len(reg.Activities))
	for _, a := range reg.Activities {
		if a.TaskType == "" {
			return nil, fmt.Errorf("activity %q has no taskType", a.ID)
		}
		if seen[a.TaskType] {
			return nil, fmt.Errorf("duplicate taskType %q", a.TaskType)
		}
		seen[a.TaskType] = true
	}
	return &reg, nil
}
