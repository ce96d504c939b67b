// Package schema derives tool input and output schemas from API operations.
//
// A Schema is either an *Object, with ordered properties and a required
// list, or an *Opaque wrapper around an arbitrary JSON schema. Input schemas
// are always objects: every parameter and every body field becomes a
// property annotated with its request location.
package schema

import (
	"bytes"
	"encoding/json"
)

// Request locations stored in the x-location annotation.
const (
	LocationPath   = "path"
	LocationQuery  = "query"
	LocationHeader = "header"
	LocationCookie = "cookie"
	LocationBody   = "body"
)

// LocationKey is the property annotation naming where an argument is sent.
const LocationKey = "x-location"

// BodyProperty is the reserved property carrying a non-object request body.
const BodyProperty = "body"

// Schema is implemented by *Object and *Opaque.
type Schema interface {
	json.Marshaler
	// Map returns a JSON-compatible copy of the schema.
	Map() map[string]interface{}
	isSchema()
}

// Property is one named entry of an object schema.
type Property struct {
	Name     string
	Location string // empty for output schemas
	Schema   map[string]interface{}
}

// Object is an object schema with properties kept in insertion order.
type Object struct {
	Properties []Property
	Required   []string
}

// Opaque wraps a schema the builder does not decompose.
type Opaque struct {
	Raw map[string]interface{}
}

func (*Object) isSchema() {}
func (*Opaque) isSchema() {}

// Property returns the named property.
func (o *Object) Property(name string) (Property, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Names returns the property names in order.
func (o *Object) Names() []string {
	names := make([]string, 0, len(o.Properties))
	for _, p := range o.Properties {
		names = append(names, p.Name)
	}
	return names
}

// IsRequired reports whether name is listed as required.
func (o *Object) IsRequired(name string) bool {
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}

func (o *Object) propertySchema(p Property) map[string]interface{} {
	out := make(map[string]interface{}, len(p.Schema)+1)
	for k, v := range p.Schema {
		out[k] = v
	}
	if p.Location != "" {
		out[LocationKey] = p.Location
	}
	return out
}

// Map implements Schema.
func (o *Object) Map() map[string]interface{} {
	props := make(map[string]interface{}, len(o.Properties))
	for _, p := range o.Properties {
		props[p.Name] = o.propertySchema(p)
	}
	out := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(o.Required) > 0 {
		out["required"] = append([]string(nil), o.Required...)
	}
	return out
}

// MarshalJSON writes properties in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"object","properties":{`)
	for i, p := range o.Properties {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(o.propertySchema(p))
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	if len(o.Required) > 0 {
		req, err := json.Marshal(o.Required)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"required":`)
		buf.Write(req)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Map implements Schema.
func (o *Opaque) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(o.Raw))
	for k, v := range o.Raw {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the raw schema, or {} when there is none.
func (o *Opaque) MarshalJSON() ([]byte, error) {
	if len(o.Raw) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(o.Raw)
}

// IsObject reports whether s is an object schema.
func IsObject(s Schema) bool {
	_, ok := s.(*Object)
	return ok
}
