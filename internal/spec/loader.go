package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"sigs.k8s.io/yaml"

	"yasmcp/pkg/logging"
)

type format int

const (
	formatJSON format = iota
	formatYAML
)

// methodOrder is used for operations the declaration walk could not place.
var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE"}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading api document %s: %w", path, err)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	logging.Info("Spec", "Loaded %s (%d paths)", path, len(doc.Paths))
	return doc, nil
}

// Parse decodes an OpenAPI 3.x or Swagger 2.0 document. formatHint is a file
// name or extension; when it does not name a format the content is sniffed.
func Parse(data []byte, formatHint string) (*Document, error) {
	raw, err := toJSON(data, formatHint)
	if err != nil {
		return nil, newParseError(formatHint, ErrUnsupportedFormat, err)
	}

	var top interface{}
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, newParseError(formatHint, ErrUnsupportedFormat, err)
	}
	obj, ok := top.(map[string]interface{})
	if !ok {
		return nil, newParseError(formatHint, ErrMalformedDocument, fmt.Errorf("top level is not an object"))
	}
	if _, ok := obj["paths"].(map[string]interface{}); !ok {
		return nil, newParseError(formatHint, ErrMalformedDocument, fmt.Errorf("missing paths object"))
	}

	var doc3 *openapi3.T
	if v, _ := obj["swagger"].(string); strings.HasPrefix(v, "2") {
		var doc2 openapi2.T
		if err := json.Unmarshal(raw, &doc2); err != nil {
			return nil, newParseError(formatHint, ErrMalformedDocument, err)
		}
		doc3, err = openapi2conv.ToV3(&doc2)
		if err != nil {
			return nil, newParseError(formatHint, ErrMalformedDocument, fmt.Errorf("converting swagger 2.0: %w", err))
		}
	} else {
		loader := openapi3.NewLoader()
		loader.IsExternalRefsAllowed = false
		doc3, err = loader.LoadFromData(raw)
		if err != nil {
			return nil, newParseError(formatHint, ErrMalformedDocument, err)
		}
	}

	return convertDocument(doc3, declarationOrder(data)), nil
}

func detectFormat(data []byte, hint string) format {
	ext := strings.ToLower(filepath.Ext(hint))
	if ext == "" && !strings.Contains(hint, ".") {
		ext = "." + strings.ToLower(hint)
	}
	switch ext {
	case ".json":
		return formatJSON
	case ".yaml", ".yml":
		return formatYAML
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return formatJSON
	}
	return formatYAML
}

// toJSON normalises the input to JSON, trying the detected format first and
// the other one second.
func toJSON(data []byte, hint string) ([]byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	tryJSON := func() ([]byte, error) {
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid JSON")
		}
		return data, nil
	}
	tryYAML := func() ([]byte, error) {
		return yaml.YAMLToJSON(data)
	}

	first, second := tryJSON, tryYAML
	if detectFormat(data, hint) == formatYAML {
		first, second = tryYAML, tryJSON
	}
	out, err := first()
	if err == nil {
		return out, nil
	}
	out, err2 := second()
	if err2 == nil {
		return out, nil
	}
	return nil, fmt.Errorf("%v; %v", err, err2)
}

func convertDocument(doc *openapi3.T, order *declOrder) *Document {
	out := &Document{}
	if doc.Info != nil {
		out.Title = doc.Info.Title
		out.Version = doc.Info.Version
	}
	for _, s := range doc.Servers {
		if s != nil && s.URL != "" {
			out.Servers = append(out.Servers, s.URL)
		}
	}
	if doc.Paths == nil {
		return out
	}

	items := doc.Paths.Map()
	for _, path := range order.sortPaths(keys(items)) {
		item := items[path]
		if item == nil {
			continue
		}
		pi := PathItem{Path: path}
		for _, method := range order.sortMethods(path, methodsOf(item)) {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			pi.Operations = append(pi.Operations, convertOperation(path, method, item, op, order))
		}
		out.Paths = append(out.Paths, pi)
	}
	return out
}

func methodsOf(item *openapi3.PathItem) []string {
	var methods []string
	for _, m := range methodOrder {
		if item.GetOperation(m) != nil {
			methods = append(methods, m)
		}
	}
	return methods
}

func convertOperation(path, method string, item *openapi3.PathItem, op *openapi3.Operation, order *declOrder) *Operation {
	out := &Operation{
		Method:      method,
		Path:        path,
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Description: op.Description,
		Responses:   map[string][]MediaType{},
	}

	out.Parameters = mergeParameters(item.Parameters, op.Parameters)

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		body := op.RequestBody.Value
		out.RequestBody = &RequestBody{
			Required: body.Required,
			Content:  convertContent(body.Content, order.bodyContent(path, method)),
		}
	}

	if op.Responses != nil {
		for code, ref := range op.Responses.Map() {
			if ref == nil || ref.Value == nil {
				continue
			}
			out.Responses[code] = convertContent(ref.Value.Content, order.responseContent(path, method, code))
		}
	}
	return out
}

// mergeParameters applies operation parameters over path-level ones keyed by (name, in).
func mergeParameters(pathLevel, opLevel openapi3.Parameters) []Parameter {
	var params []Parameter
	index := map[string]int{}
	add := func(refs openapi3.Parameters) {
		for _, ref := range refs {
			if ref == nil || ref.Value == nil {
				continue
			}
			p := convertParameter(ref.Value)
			key := p.In + "\x00" + p.Name
			if i, ok := index[key]; ok {
				params[i] = p
				continue
			}
			index[key] = len(params)
			params = append(params, p)
		}
	}
	add(pathLevel)
	add(opLevel)
	return params
}

func convertParameter(p *openapi3.Parameter) Parameter {
	out := Parameter{
		Name:        p.Name,
		In:          strings.ToLower(p.In),
		Required:    p.Required || strings.EqualFold(p.In, InPath),
		Description: p.Description,
	}
	switch {
	case p.Schema != nil:
		out.Schema = convertSchema(p.Schema, map[*openapi3.Schema]bool{})
	case len(p.Content) > 0:
		content := convertContent(p.Content, nil)
		out.Schema = content[0].Schema
	}
	if out.Schema == nil {
		out.Schema = map[string]interface{}{"type": "string"}
	}
	if out.Description != "" {
		if _, ok := out.Schema["description"]; !ok {
			out.Schema["description"] = out.Description
		}
	}
	return out
}

// convertContent orders media types by declaration when known, otherwise lexically.
func convertContent(content openapi3.Content, declared []string) []MediaType {
	if len(content) == 0 {
		return nil
	}
	var names []string
	seen := map[string]bool{}
	for _, ct := range declared {
		if _, ok := content[ct]; ok && !seen[ct] {
			names = append(names, ct)
			seen[ct] = true
		}
	}
	var rest []string
	for ct := range content {
		if !seen[ct] {
			rest = append(rest, ct)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	out := make([]MediaType, 0, len(names))
	for _, ct := range names {
		mt := MediaType{ContentType: ct}
		if m := content[ct]; m != nil && m.Schema != nil {
			mt.Schema = convertSchema(m.Schema, map[*openapi3.Schema]bool{})
		}
		out = append(out, mt)
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
