package expect

import (
	"github.com/datavet/datavet/pkg/types"
)

// cellFragment maps a column-values expectation's kwargs onto the JSON
// Schema fragment each cell is validated against. Returns false for an
// unrecognized expectation type.
func cellFragment(cfg types.ExpectationConfig) (map[string]any, bool) {
	switch cfg.Type {
	case "expect_column_values_to_not_be_null":
		return map[string]any{"not": map[string]any{"type": "null"}}, true

	case "expect_column_values_to_be_of_type":
		return map[string]any{"type": schemaType(typeKwarg(cfg))}, true

	case "expect_column_values_to_be_between":
		fragment := map[string]any{"type": "number"}
		if v, ok := cfg.Kwargs["min_value"]; ok {
			fragment["minimum"] = v
		}
		if v, ok := cfg.Kwargs["max_value"]; ok {
			fragment["maximum"] = v
		}
		return fragment, true

	case "expect_column_values_to_be_in_set":
		set, _ := cfg.Kwargs["value_set"].([]any)
		return map[string]any{"enum": set}, true

	case "expect_column_values_to_match_regex":
		regex, _ := cfg.Kwargs["regex"].(string)
		return map[string]any{"type": "string", "pattern": regex}, true

	case "expect_column_values_to_not_match_regex":
		regex, _ := cfg.Kwargs["regex"].(string)
		return map[string]any{
			"type": "string",
			"not":  map[string]any{"pattern": regex},
		}, true

	case "expect_column_value_lengths_to_be_between":
		fragment := map[string]any{"type": "string"}
		if v, ok := cfg.Kwargs["min_value"]; ok {
			fragment["minLength"] = v
		}
		if v, ok := cfg.Kwargs["max_value"]; ok {
			fragment["maxLength"] = v
		}
		return fragment, true
	}
	return nil, false
}

// typeKwarg reads the expected type name; suites written for the Python
// tool use "type_", newer ones plain "type".
func typeKwarg(cfg types.ExpectationConfig) string {
	if t, ok := cfg.Kwargs["type_"].(string); ok {
		return t
	}
	t, _ := cfg.Kwargs["type"].(string)
	return t
}

// schemaType maps suite type names to JSON Schema type names.
func schemaType(name string) string {
	switch name {
	case "int", "integer", "int64":
		return "integer"
	case "float", "double", "number", "float64":
		return "number"
	case "str", "string", "object":
		return "string"
	case "bool", "boolean":
		return "boolean"
	default:
		return name
	}
}
