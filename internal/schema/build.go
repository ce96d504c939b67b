package schema

import (
	"mime"
	"sort"
	"strconv"
	"strings"

	"yasmcp/internal/spec"
)

// BuildInput derives the argument schema of an operation. Parameters come
// first in declaration order; body fields follow sorted by name and replace
// any parameter of the same name.
func BuildInput(op *spec.Operation) *Object {
	obj := &Object{}
	for _, p := range op.Parameters {
		obj.set(Property{Name: p.Name, Location: p.In, Schema: copyMap(p.Schema)}, p.Required)
	}

	if op.RequestBody == nil {
		return obj
	}
	mt, ok := SelectContent(op.RequestBody.Content)
	if !ok {
		return obj
	}

	props, required, isObject := objectShape(mt.Schema)
	if !isObject {
		body := copyMap(mt.Schema)
		if body == nil {
			body = map[string]interface{}{}
		}
		obj.set(Property{Name: BodyProperty, Location: LocationBody, Schema: body}, op.RequestBody.Required)
		return obj
	}

	for _, name := range sortedKeys(props) {
		ps, _ := props[name].(map[string]interface{})
		if ps == nil {
			ps = map[string]interface{}{}
		}
		obj.set(Property{Name: name, Location: LocationBody, Schema: copyMap(ps)},
			op.RequestBody.Required && required[name])
	}
	return obj
}

// BuildOutput derives the schema of the success response: status 200 when
// declared, otherwise the lowest 2xx. Without one the result is an empty Opaque.
func BuildOutput(op *spec.Operation) Schema {
	code, ok := SuccessStatus(op)
	if !ok {
		return &Opaque{}
	}
	mt, ok := SelectContent(op.Responses[code])
	if !ok || mt.Schema == nil {
		return &Opaque{}
	}
	props, required, isObject := objectShape(mt.Schema)
	if !isObject {
		return &Opaque{Raw: copyMap(mt.Schema)}
	}
	out := &Object{}
	for _, name := range sortedKeys(props) {
		ps, _ := props[name].(map[string]interface{})
		if ps == nil {
			ps = map[string]interface{}{}
		}
		out.set(Property{Name: name, Schema: copyMap(ps)}, required[name])
	}
	return out
}

// SuccessStatus picks the response code whose content describes a successful call.
func SuccessStatus(op *spec.Operation) (string, bool) {
	if _, ok := op.Responses["200"]; ok {
		return "200", true
	}
	best, bestCode := "", 0
	for code := range op.Responses {
		n, err := strconv.Atoi(code)
		if err != nil || n < 200 || n > 299 {
			continue
		}
		if best == "" || n < bestCode {
			best, bestCode = code, n
		}
	}
	if best != "" {
		return best, true
	}
	for code := range op.Responses {
		if strings.EqualFold(code, "2XX") {
			return code, true
		}
	}
	return "", false
}

// SelectContent chooses a media type by priority: JSON (including +json
// suffixes), then text/plain, then the first one declared.
func SelectContent(content []spec.MediaType) (spec.MediaType, bool) {
	if len(content) == 0 {
		return spec.MediaType{}, false
	}
	for _, mt := range content {
		if baseType(mt.ContentType) == "application/json" {
			return mt, true
		}
	}
	for _, mt := range content {
		if strings.HasSuffix(baseType(mt.ContentType), "+json") {
			return mt, true
		}
	}
	for _, mt := range content {
		if baseType(mt.ContentType) == "text/plain" {
			return mt, true
		}
	}
	return content[0], true
}

// IsJSON reports whether a content type carries JSON.
func IsJSON(contentType string) bool {
	base := baseType(contentType)
	return base == "application/json" || strings.HasSuffix(base, "+json")
}

func baseType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// set adds or replaces a property. A replaced property moves to the end and
// loses its previous required flag.
func (o *Object) set(p Property, required bool) {
	for i, existing := range o.Properties {
		if existing.Name == p.Name {
			o.Properties = append(o.Properties[:i], o.Properties[i+1:]...)
			o.dropRequired(p.Name)
			break
		}
	}
	o.Properties = append(o.Properties, p)
	if required {
		o.Required = append(o.Required, p.Name)
	}
}

func (o *Object) dropRequired(name string) {
	out := o.Required[:0]
	for _, r := range o.Required {
		if r != name {
			out = append(out, r)
		}
	}
	o.Required = out
}

// objectShape reports the properties and required set of an object schema.
// Properties of allOf members are merged.
func objectShape(s map[string]interface{}) (map[string]interface{}, map[string]bool, bool) {
	if s == nil {
		return nil, nil, false
	}
	props := map[string]interface{}{}
	required := map[string]bool{}

	t, _ := s["type"].(string)
	own, hasProps := s["properties"].(map[string]interface{})
	isObject := t == "object" || (t == "" && hasProps)

	if all, ok := s["allOf"].([]interface{}); ok && t == "" && !hasProps {
		isObject = len(all) > 0
		for _, member := range all {
			m, _ := member.(map[string]interface{})
			mp, mr, ok := objectShape(m)
			if !ok {
				return nil, nil, false
			}
			for k, v := range mp {
				props[k] = v
			}
			for k := range mr {
				required[k] = true
			}
		}
	}
	if !isObject {
		return nil, nil, false
	}

	for k, v := range own {
		props[k] = v
	}
	for _, r := range stringList(s["required"]) {
		required[r] = true
	}
	return props, required, true
}

func stringList(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IsObjectSchema reports whether s is decomposed into properties by BuildInput.
func IsObjectSchema(s map[string]interface{}) bool {
	_, _, ok := objectShape(s)
	return ok
}
