// Package schema turns loosely-specified tool parameter schemas into the
// strict form the completion API accepts.
package schema

import "sort"

// Normalize fills in the object/properties/required/additionalProperties
// defaults of a JSON-Schema-like mapping. Every declared property becomes
// required: tool parameters are strict, not user-optional. The caller's
// additionalProperties value wins when present; otherwise it is forced to
// false. Normalize is idempotent and never mutates its input.
func Normalize(in map[string]any) map[string]any {
	out := map[string]any{
		"type": "object",
	}

	properties, _ := in["properties"].(map[string]any)
	if properties == nil {
		properties = map[string]any{}
	}
	out["properties"] = properties

	required := make([]string, 0, len(properties))
	for key := range properties {
		required = append(required, key)
	}
	sort.Strings(required)
	out["required"] = required

	if extra, ok := in["additionalProperties"]; ok {
		out["additionalProperties"] = extra
	} else {
		out["additionalProperties"] = false
	}

	return out
}
