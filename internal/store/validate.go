package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/gitdo/internal/task"
)

//go:embed tasks.schema.json
var tasksSchema string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
)

// loadSchema compiles the embedded tasks schema once. A nil return means
// compilation failed and callers should fall back to minimal checks.
func loadSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource("tasks.schema.json", strings.NewReader(tasksSchema)); err != nil {
			return
		}
		schema, err := compiler.Compile("tasks.schema.json")
		if err != nil {
			return
		}
		compiledSchema = schema
	})
	return compiledSchema
}

// validateTasks checks that data is a well-formed task collection: a JSON
// array of records carrying the required fields with valid status tags and
// parseable timestamps. Schema validation is used when available, with
// minimal structural checks as a fallback.
func validateTasks(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse tasks file: %v", err)
	}

	if schema := loadSchema(); schema != nil {
		if err := schema.Validate(raw); err != nil {
			return fmt.Errorf("invalid tasks file: %v", err)
		}
		return nil
	}

	return validateMinimal(raw)
}

// validateMinimal performs structural checks without JSON Schema.
func validateMinimal(raw interface{}) error {
	records, ok := raw.([]interface{})
	if !ok {
		return fmt.Errorf("tasks file must contain a JSON array")
	}
	for i, rec := range records {
		obj, ok := rec.(map[string]interface{})
		if !ok {
			return fmt.Errorf("tasks[%d]: not an object", i)
		}
		for _, field := range []string{"id", "title", "status", "created_at"} {
			v, present := obj[field]
			if !present {
				return fmt.Errorf("tasks[%d].%s: missing required field", i, field)
			}
			if _, isString := v.(string); !isString {
				return fmt.Errorf("tasks[%d].%s: must be a string", i, field)
			}
		}
		if obj["id"] == "" {
			return fmt.Errorf("tasks[%d].id: must not be empty", i)
		}
		if status := task.Status(obj["status"].(string)); !status.Valid() {
			return fmt.Errorf("tasks[%d].status: invalid status %q", i, status)
		}
		if _, err := time.Parse(time.RFC3339, obj["created_at"].(string)); err != nil {
			return fmt.Errorf("tasks[%d].created_at: %v", i, err)
		}
	}
	return nil
}
