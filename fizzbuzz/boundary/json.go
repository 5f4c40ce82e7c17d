package boundary

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
)

//go:embed payload.schema.json
var payloadSchema []byte

const payloadSchemaURL = "schema://fizzbuzz/payload.json"

var compilePayloadSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(payloadSchema))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(payloadSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(payloadSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
})

// DecodeJSON decodes a JSON payload: a number, an array of numbers, or an
// object with integer "start", "stop" and optional "step". Integers keep
// full precision. Malformed JSON and payloads of any other shape fail with
// a *core.TypeMismatchError.
func DecodeJSON(data []byte) (Arg, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Arg{}, &core.TypeMismatchError{Got: "malformed JSON", Want: want}
	}

	schema, err := compilePayloadSchema()
	if err != nil {
		return Arg{}, fmt.Errorf("payload schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return Arg{}, &core.TypeMismatchError{Got: "JSON " + jsonType(parsed), Want: want}
	}

	return Decode(parsed)
}

// jsonType names the JSON type of a value produced by jsonschema.UnmarshalJSON.
func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "number"
	}
}
