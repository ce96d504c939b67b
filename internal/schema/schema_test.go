package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yasmcp/internal/spec"
)

func str() map[string]interface{} { return map[string]interface{}{"type": "string"} }

func TestBuildInput_PathParameterOnly(t *testing.T) {
	op := &spec.Operation{
		Method:     "GET",
		Path:       "/todos/{id}",
		Parameters: []spec.Parameter{{Name: "id", In: spec.InPath, Required: true, Schema: str()}},
	}

	in := BuildInput(op)
	assert.Equal(t, []string{"id"}, in.Names())
	assert.Equal(t, []string{"id"}, in.Required)

	p, ok := in.Property("id")
	require.True(t, ok)
	assert.Equal(t, LocationPath, p.Location)
	assert.Equal(t, LocationPath, in.Map()["properties"].(map[string]interface{})["id"].(map[string]interface{})[LocationKey])
}

func TestBuildInput_ObjectBodyMerged(t *testing.T) {
	op := &spec.Operation{
		Method: "POST",
		Path:   "/projects",
		Parameters: []spec.Parameter{
			{Name: "dryRun", In: spec.InQuery, Schema: map[string]interface{}{"type": "boolean"}},
		},
		RequestBody: &spec.RequestBody{
			Required: true,
			Content: []spec.MediaType{{
				ContentType: "application/json",
				Schema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"name"},
					"properties": map[string]interface{}{
						"tags": map[string]interface{}{"type": "array"},
						"name": str(),
					},
				},
			}},
		},
	}

	in := BuildInput(op)
	assert.Equal(t, []string{"dryRun", "name", "tags"}, in.Names())
	assert.Equal(t, []string{"name"}, in.Required)
	p, _ := in.Property("tags")
	assert.Equal(t, LocationBody, p.Location)
}

func TestBuildInput_BodyRequiredOnlyWhenBodyRequired(t *testing.T) {
	op := &spec.Operation{
		Method: "PATCH",
		RequestBody: &spec.RequestBody{
			Required: false,
			Content: []spec.MediaType{{
				ContentType: "application/json",
				Schema: map[string]interface{}{
					"type":       "object",
					"required":   []string{"name"},
					"properties": map[string]interface{}{"name": str()},
				},
			}},
		},
	}

	in := BuildInput(op)
	assert.Equal(t, []string{"name"}, in.Names())
	assert.Empty(t, in.Required)
}

func TestBuildInput_BodyFieldShadowsParameter(t *testing.T) {
	op := &spec.Operation{
		Method: "PUT",
		Parameters: []spec.Parameter{
			{Name: "version", In: spec.InQuery, Required: true, Schema: map[string]interface{}{"type": "integer"}},
			{Name: "id", In: spec.InPath, Required: true, Schema: str()},
		},
		RequestBody: &spec.RequestBody{
			Content: []spec.MediaType{{
				ContentType: "application/json",
				Schema: map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{"version": str()},
				},
			}},
		},
	}

	in := BuildInput(op)
	assert.Equal(t, []string{"id", "version"}, in.Names())
	p, _ := in.Property("version")
	assert.Equal(t, LocationBody, p.Location)
	assert.Equal(t, "string", p.Schema["type"])
	assert.Equal(t, []string{"id"}, in.Required, "the shadowed parameter's required flag does not carry over")
}

func TestBuildInput_NonObjectBody(t *testing.T) {
	op := &spec.Operation{
		Method: "POST",
		RequestBody: &spec.RequestBody{
			Required: true,
			Content: []spec.MediaType{
				{ContentType: "application/xml", Schema: map[string]interface{}{"type": "object"}},
				{ContentType: "text/plain", Schema: str()},
			},
		},
	}

	in := BuildInput(op)
	assert.Equal(t, []string{BodyProperty}, in.Names())
	assert.Equal(t, []string{BodyProperty}, in.Required)
	p, _ := in.Property(BodyProperty)
	assert.Equal(t, "string", p.Schema["type"])
}

func TestBuildInput_AllOfBody(t *testing.T) {
	op := &spec.Operation{
		Method: "POST",
		RequestBody: &spec.RequestBody{
			Required: true,
			Content: []spec.MediaType{{
				ContentType: "application/json",
				Schema: map[string]interface{}{
					"allOf": []interface{}{
						map[string]interface{}{"type": "object", "properties": map[string]interface{}{"a": str()}, "required": []string{"a"}},
						map[string]interface{}{"properties": map[string]interface{}{"b": str()}},
					},
				},
			}},
		},
	}

	in := BuildInput(op)
	assert.Equal(t, []string{"a", "b"}, in.Names())
	assert.Equal(t, []string{"a"}, in.Required)
}

func TestSelectContent(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  string
	}{
		{"json wins", []string{"text/plain", "application/xml", "application/json"}, "application/json"},
		{"json with params", []string{"text/plain", "application/json; charset=utf-8"}, "application/json; charset=utf-8"},
		{"suffix json", []string{"application/xml", "application/vnd.api+json"}, "application/vnd.api+json"},
		{"text next", []string{"application/xml", "text/plain"}, "text/plain"},
		{"suffix json before text", []string{"text/plain", "application/hal+json"}, "application/hal+json"},
		{"first otherwise", []string{"application/xml", "application/octet-stream"}, "application/xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var content []spec.MediaType
			for _, ct := range tt.types {
				content = append(content, spec.MediaType{ContentType: ct})
			}
			got, ok := SelectContent(content)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.ContentType)
		})
	}

	_, ok := SelectContent(nil)
	assert.False(t, ok)
}

func TestBuildOutput(t *testing.T) {
	object := []spec.MediaType{{ContentType: "application/json", Schema: map[string]interface{}{
		"type":       "object",
		"required":   []string{"id"},
		"properties": map[string]interface{}{"id": str(), "done": map[string]interface{}{"type": "boolean"}},
	}}}
	array := []spec.MediaType{{ContentType: "application/json", Schema: map[string]interface{}{"type": "array"}}}

	t.Run("prefers 200", func(t *testing.T) {
		out := BuildOutput(&spec.Operation{Responses: map[string][]spec.MediaType{"201": array, "200": object}})
		obj, ok := out.(*Object)
		require.True(t, ok)
		assert.Equal(t, []string{"done", "id"}, obj.Names())
		assert.Equal(t, []string{"id"}, obj.Required)
	})

	t.Run("lowest 2xx", func(t *testing.T) {
		out := BuildOutput(&spec.Operation{Responses: map[string][]spec.MediaType{"204": nil, "202": array, "404": object}})
		op, ok := out.(*Opaque)
		require.True(t, ok)
		assert.Equal(t, "array", op.Raw["type"])
	})

	t.Run("no success response", func(t *testing.T) {
		out := BuildOutput(&spec.Operation{Responses: map[string][]spec.MediaType{"default": object}})
		raw, err := json.Marshal(out)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(raw))
		assert.False(t, IsObject(out))
	})
}

func TestMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(&Object{})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"object","properties":{}}`, string(raw))

	raw, err = json.Marshal(&Opaque{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))

	obj := &Object{
		Properties: []Property{
			{Name: "zeta", Location: LocationQuery, Schema: str()},
			{Name: "alpha", Location: LocationBody, Schema: str()},
		},
		Required: []string{"alpha"},
	}
	raw, err = json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"object","properties":{"zeta":{"type":"string","x-location":"query"},"alpha":{"type":"string","x-location":"body"}},"required":["alpha"]}`,
		string(raw))
}
