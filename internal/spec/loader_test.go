package spec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const todoYAML = `
openapi: 3.0.3
info:
  title: Todo API
  version: 1.2.0
servers:
  - url: https://api.example.com/v1
paths:
  /todos:
    post:
      summary: Create todo
      requestBody:
        required: true
        content:
          text/plain:
            schema:
              type: string
          application/json:
            schema:
              $ref: '#/components/schemas/Todo'
      responses:
        '201':
          description: created
    get:
      summary: List todos
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Todo'
  /todos/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: string
      - name: X-Trace
        in: header
        schema:
          type: string
    get:
      operationId: getTodo
      parameters:
        - name: X-Trace
          in: header
          required: true
          description: trace id
          schema:
            type: string
      responses:
        '200':
          description: ok
    delete:
      responses:
        '204':
          description: gone
components:
  schemas:
    Todo:
      type: object
      required: [title]
      properties:
        title:
          type: string
        done:
          type: boolean
        parent:
          $ref: '#/components/schemas/Todo'
`

func TestParse_YAMLDeclarationOrder(t *testing.T) {
	doc, err := Parse([]byte(todoYAML), "todo.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Todo API", doc.Title)
	assert.Equal(t, "1.2.0", doc.Version)
	assert.Equal(t, []string{"https://api.example.com/v1"}, doc.Servers)

	require.Len(t, doc.Paths, 2)
	assert.Equal(t, "/todos", doc.Paths[0].Path)
	assert.Equal(t, "/todos/{id}", doc.Paths[1].Path)

	var methods []string
	for _, op := range doc.Paths[0].Operations {
		methods = append(methods, op.Method)
	}
	assert.Equal(t, []string{"POST", "GET"}, methods, "operations keep declaration order")

	methods = nil
	for _, op := range doc.Paths[1].Operations {
		methods = append(methods, op.Method)
	}
	assert.Equal(t, []string{"GET", "DELETE"}, methods)
}

func TestParse_RequestBodyContentOrder(t *testing.T) {
	doc, err := Parse([]byte(todoYAML), "todo.yaml")
	require.NoError(t, err)

	op, ok := doc.Operation("/todos", "POST")
	require.True(t, ok)
	require.NotNil(t, op.RequestBody)
	assert.True(t, op.RequestBody.Required)
	require.Len(t, op.RequestBody.Content, 2)
	assert.Equal(t, "text/plain", op.RequestBody.Content[0].ContentType)
	assert.Equal(t, "application/json", op.RequestBody.Content[1].ContentType)

	body := op.RequestBody.Content[1].Schema
	assert.Equal(t, "object", body["type"])
	assert.Equal(t, []string{"title"}, body["required"])
}

func TestParse_RecursiveSchemaIsCut(t *testing.T) {
	doc, err := Parse([]byte(todoYAML), "todo.yaml")
	require.NoError(t, err)

	op, _ := doc.Operation("/todos", "POST")
	props := op.RequestBody.Content[1].Schema["properties"].(map[string]interface{})
	parent := props["parent"].(map[string]interface{})
	assert.NotContains(t, parent, "properties")
	assert.Equal(t, "recursive reference to Todo", parent["description"])
}

func TestParse_PathLevelParametersMerged(t *testing.T) {
	doc, err := Parse([]byte(todoYAML), "todo.yaml")
	require.NoError(t, err)

	op, ok := doc.Operation("/todos/{id}", "GET")
	require.True(t, ok)
	require.Len(t, op.Parameters, 2)

	assert.Equal(t, "id", op.Parameters[0].Name)
	assert.Equal(t, InPath, op.Parameters[0].In)
	assert.True(t, op.Parameters[0].Required)

	trace := op.Parameters[1]
	assert.Equal(t, "X-Trace", trace.Name)
	assert.True(t, trace.Required, "operation parameter replaces the path-level one")
	assert.Equal(t, "trace id", trace.Schema["description"])

	del, ok := doc.Operation("/todos/{id}", "DELETE")
	require.True(t, ok)
	require.Len(t, del.Parameters, 2)
	assert.False(t, del.Parameters[1].Required)
}

func TestParse_JSONSniffed(t *testing.T) {
	data := []byte(`{"openapi":"3.0.0","info":{"title":"t","version":"1"},"paths":{"/b":{"get":{"responses":{"200":{"description":"ok"}}}},"/a":{"get":{"responses":{"200":{"description":"ok"}}}}}}`)

	doc, err := Parse(data, "")
	require.NoError(t, err)
	require.Len(t, doc.Paths, 2)
	assert.Equal(t, "/b", doc.Paths[0].Path)
	assert.Equal(t, "/a", doc.Paths[1].Path)
}

func TestParse_Swagger2(t *testing.T) {
	data := []byte(`
swagger: "2.0"
info:
  title: Pets
  version: "1"
host: pets.example.com
basePath: /api
schemes: [https]
paths:
  /pets:
    post:
      consumes: [application/json]
      parameters:
        - in: body
          name: pet
          required: true
          schema:
            type: object
            properties:
              name:
                type: string
      responses:
        '200':
          description: ok
`)
	doc, err := Parse(data, "pets.yml")
	require.NoError(t, err)

	op, ok := doc.Operation("/pets", "POST")
	require.True(t, ok)
	require.NotNil(t, op.RequestBody)
	require.Len(t, op.RequestBody.Content, 1)
	assert.Equal(t, "application/json", op.RequestBody.Content[0].ContentType)
	assert.Contains(t, op.RequestBody.Content[0].Schema["properties"], "name")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind error
	}{
		{name: "empty", data: "", kind: ErrUnsupportedFormat},
		{name: "garbage", data: "{not: [valid", kind: ErrUnsupportedFormat},
		{name: "scalar", data: "just a string", kind: ErrMalformedDocument},
		{name: "list", data: "- a\n- b\n", kind: ErrMalformedDocument},
		{name: "no paths", data: "openapi: 3.0.0\ninfo: {title: t, version: '1'}\n", kind: ErrMalformedDocument},
		{name: "paths not object", data: "openapi: 3.0.0\npaths: [1, 2]\n", kind: ErrMalformedDocument},
		{name: "bad operation", data: "openapi: 3.0.0\npaths:\n  /x:\n    get: 12\n", kind: ErrMalformedDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "input.yaml")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, "input.yaml", perr.Source)
		})
	}
}

func TestParse_ExternalRefsRefused(t *testing.T) {
	data := []byte(`
openapi: 3.0.0
info: {title: t, version: '1'}
paths:
  /x:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: 'https://example.com/schemas.yaml#/Thing'
`)
	_, err := Parse(data, "x.yaml")
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(todoYAML), 0o600))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Operations(), 4)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
