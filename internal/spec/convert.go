package spec

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// convertSchema flattens a resolved schema into a JSON-Schema-like map.
// A schema reached again while it is still being converted is replaced by a
// stub, which cuts recursive definitions at their first repeat.
func convertSchema(ref *openapi3.SchemaRef, active map[*openapi3.Schema]bool) map[string]interface{} {
	if ref == nil || ref.Value == nil {
		return nil
	}
	s := ref.Value
	if active[s] {
		stub := map[string]interface{}{}
		if ref.Ref != "" {
			stub["description"] = "recursive reference to " + refName(ref.Ref)
		}
		return stub
	}
	active[s] = true
	defer delete(active, s)

	out := map[string]interface{}{}
	if types := s.Type.Slice(); len(types) == 1 {
		out["type"] = types[0]
	} else if len(types) > 1 {
		out["type"] = append([]string(nil), types...)
	}
	if s.Nullable {
		out["nullable"] = true
	}
	setString(out, "format", s.Format)
	setString(out, "title", s.Title)
	setString(out, "description", s.Description)
	setString(out, "pattern", s.Pattern)
	if len(s.Enum) > 0 {
		out["enum"] = append([]interface{}(nil), s.Enum...)
	}
	if s.Default != nil {
		out["default"] = s.Default
	}
	if s.Example != nil {
		out["example"] = s.Example
	}
	if s.ReadOnly {
		out["readOnly"] = true
	}
	if s.WriteOnly {
		out["writeOnly"] = true
	}
	if s.Min != nil {
		out["minimum"] = *s.Min
	}
	if s.Max != nil {
		out["maximum"] = *s.Max
	}
	if s.MinLength > 0 {
		out["minLength"] = s.MinLength
	}
	if s.MaxLength != nil {
		out["maxLength"] = *s.MaxLength
	}
	if s.MinItems > 0 {
		out["minItems"] = s.MinItems
	}
	if s.MaxItems != nil {
		out["maxItems"] = *s.MaxItems
	}

	if len(s.Properties) > 0 {
		props := make(map[string]interface{}, len(s.Properties))
		for name, p := range s.Properties {
			if converted := convertSchema(p, active); converted != nil {
				props[name] = converted
			}
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		if items := convertSchema(s.Items, active); items != nil {
			out["items"] = items
		}
	}
	if s.AdditionalProperties.Schema != nil {
		if ap := convertSchema(s.AdditionalProperties.Schema, active); ap != nil {
			out["additionalProperties"] = ap
		}
	} else if s.AdditionalProperties.Has != nil {
		out["additionalProperties"] = *s.AdditionalProperties.Has
	}

	setComposition(out, "allOf", s.AllOf, active)
	setComposition(out, "oneOf", s.OneOf, active)
	setComposition(out, "anyOf", s.AnyOf, active)
	if s.Not != nil {
		if not := convertSchema(s.Not, active); not != nil {
			out["not"] = not
		}
	}
	return out
}

func setComposition(out map[string]interface{}, key string, refs openapi3.SchemaRefs, active map[*openapi3.Schema]bool) {
	var list []interface{}
	for _, r := range refs {
		if converted := convertSchema(r, active); converted != nil {
			list = append(list, converted)
		}
	}
	if len(list) > 0 {
		out[key] = list
	}
}

func setString(out map[string]interface{}, key, value string) {
	if value != "" {
		out[key] = value
	}
}

func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
