package wasmrun

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaCompiler caches compiled SKILL_INPUT schemas per skill root, the
// same cache-by-key shape as the teacher's config.SchemaCompiler.
type schemaCompiler struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func newSchemaCompiler() *schemaCompiler {
	return &schemaCompiler{cache: make(map[string]*jsonschema.Schema)}
}

// compile returns the compiled form of schemaDoc, the skill manifest's
// optional input_schema, compiling and caching it on first use per
// skillRoot. A nil or empty schemaDoc means the skill declares no schema
// and every SKILL_INPUT is accepted without validation.
func (sc *schemaCompiler) compile(skillRoot string, schemaDoc map[string]interface{}) (*jsonschema.Schema, error) {
	if len(schemaDoc) == 0 {
		return nil, nil
	}

	sc.mu.RLock()
	schema, ok := sc.cache[skillRoot]
	sc.mu.RUnlock()
	if ok {
		return schema, nil
	}

	raw, err := json.Marshal(schemaDoc)
	if err != nil {
		return nil, fmt.Errorf("marshaling input_schema: %w", err)
	}

	resource := skillRoot + "#input_schema"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("adding input_schema resource: %w", err)
	}
	schema, err = compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compiling input_schema: %w", err)
	}

	sc.mu.Lock()
	sc.cache[skillRoot] = schema
	sc.mu.Unlock()
	return schema, nil
}

// validateInput checks stdin (the JSON-encoded SKILL_INPUT) against the
// skill's declared input_schema, if any. A nil or empty schemaDoc is a
// no-op, matching the teacher's "no schema available - skip validation".
func (sc *schemaCompiler) validateInput(skillRoot string, schemaDoc map[string]interface{}, stdin []byte) error {
	schema, err := sc.compile(skillRoot, schemaDoc)
	if err != nil {
		return err
	}
	if schema == nil {
		return nil
	}

	var doc interface{}
	if len(stdin) > 0 {
		if err := json.Unmarshal(stdin, &doc); err != nil {
			return fmt.Errorf("SKILL_INPUT is not valid JSON: %w", err)
		}
	}
	return schema.Validate(doc)
}
