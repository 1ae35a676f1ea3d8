package intent

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// intentSchemaDoc is the top-level shape check layered in front of the
// lenient field-level parser: it rejects a payload that is not even an
// object, or whose `steps` field is not an array, before Parse ever looks
// at individual actions.
const intentSchemaDoc = `{
  "type": "object",
  "required": ["className", "testClassName", "steps"],
  "properties": {
    "className": {"type": "string"},
    "testClassName": {"type": "string"},
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["action"],
        "properties": {
          "action": {"type": "string"},
          "locator": {"type": "string"},
          "value": {"type": "string"},
          "timeout": {"type": "integer"},
          "description": {"type": "string"}
        }
      }
    }
  }
}`

var compiledSchema *jsonschema.Schema

func init() {
	var schemaDoc any
	if err := json.Unmarshal([]byte(intentSchemaDoc), &schemaDoc); err != nil {
		panic(fmt.Sprintf("intent: invalid embedded schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("intent.json", schemaDoc); err != nil {
		panic(fmt.Sprintf("intent: failed to register schema resource: %v", err))
	}
	schema, err := c.Compile("intent.json")
	if err != nil {
		panic(fmt.Sprintf("intent: failed to compile schema: %v", err))
	}
	compiledSchema = schema
}

// ValidateShape runs the structural pre-check against raw (after fence
// trimming), rejecting payloads that are not even shaped like a Test Intent
// before the lenient parser attempts per-step semantics.
func ValidateShape(raw string) error {
	trimmed := trimFences(raw)
	var doc any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return fmt.Errorf("intent: invalid JSON: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("intent: schema validation failed: %w", err)
	}
	return nil
}
