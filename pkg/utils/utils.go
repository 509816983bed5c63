// Package utils holds the JSON-schema reflection helper shared by the
// project's config types.
package utils

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// SchemaFromConfig reflects a JSON schema from a config struct. The top-level
// struct is expanded in place, optional fields render as their wrapped
// primitive and time.Time as a date string, so editors validate the same YAML
// the unmarshallers accept.
func SchemaFromConfig(config any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t.String() {
			case "optional.Option[float64]":
				return &jsonschema.Schema{Type: "number"}
			case "optional.Option[string]":
				return &jsonschema.Schema{Type: "string"}
			case "time.Time":
				return &jsonschema.Schema{Type: "string", Format: "date"}
			}

			return nil
		},
	}

	return reflector.Reflect(config)
}

// GetSchemaFromConfig reflects a schema and renders it as indented JSON.
func GetSchemaFromConfig(config any) (string, error) {
	schemaBytes, err := json.MarshalIndent(SchemaFromConfig(config), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
