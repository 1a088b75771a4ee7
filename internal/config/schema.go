package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed scenario.schema.json
var scenarioSchemaJSON string

var scenarioSchema = jsonschema.MustCompileString("scenario.schema.json", scenarioSchemaJSON)

// SchemaJSON returns the scenario schema document, for tooling that wants to
// publish it alongside generated scenarios.
func SchemaJSON() string { return scenarioSchemaJSON }

// LoadJSON reads a JSON scenario, validates it against the schema, applies
// defaults and runs the semantic checks.
func LoadJSON(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if err := scenarioSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	var scn Scenario
	if err := json.Unmarshal(b, &scn); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	scn.ApplyDefaults()
	if err := scn.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &scn, nil
}
