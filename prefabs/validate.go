package prefabs

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const tuningSchemaFile = "tuning.schema.json"

var (
	tuningSchemaOnce sync.Once
	tuningSchema     *jsonschema.Schema
	tuningSchemaErr  error
)

func compiledTuningSchema() (*jsonschema.Schema, error) {
	tuningSchemaOnce.Do(func() {
		raw, err := PrefabsFS.ReadFile(tuningSchemaFile)
		if err != nil {
			tuningSchemaErr = fmt.Errorf("prefabs: read schema: %w", err)
			return
		}
		tuningSchema, tuningSchemaErr = jsonschema.CompileString(tuningSchemaFile, string(raw))
		if tuningSchemaErr != nil {
			tuningSchemaErr = fmt.Errorf("prefabs: compile schema: %w", tuningSchemaErr)
		}
	})
	return tuningSchema, tuningSchemaErr
}

// ValidateTuning checks a YAML tuning document against the embedded schema.
func ValidateTuning(data []byte) error {
	schema, err := compiledTuningSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("prefabs: parse tuning: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	// The validator expects encoding/json shaped values.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("prefabs: convert tuning: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("prefabs: convert tuning: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("prefabs: invalid tuning: %w", err)
	}
	return nil
}
