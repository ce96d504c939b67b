package spec

// Parameter locations recognised by the loader.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// Document is the parsed form of an API description.
type Document struct {
	Title   string
	Version string
	// Servers lists the server URLs declared by the document, in order.
	Servers []string
	Paths   []PathItem
}

// PathItem groups the operations declared under one path template.
type PathItem struct {
	Path       string
	Operations []*Operation
}

// Operation is a single (path, method) pair.
type Operation struct {
	Method      string // upper-case
	Path        string
	OperationID string
	Summary     string
	Description string
	Parameters  []Parameter
	RequestBody *RequestBody
	// Responses maps a status code ("200", "2XX", "default") to its content.
	Responses map[string][]MediaType
}

// Parameter is a declared path, query, header or cookie parameter.
type Parameter struct {
	Name        string
	In          string
	Required    bool
	Description string
	Schema      map[string]interface{}
}

// RequestBody describes the payload accepted by an operation.
type RequestBody struct {
	Required bool
	Content  []MediaType
}

// MediaType pairs a content type with its schema.
type MediaType struct {
	ContentType string
	Schema      map[string]interface{}
}

// Operations returns every operation of the document in declaration order.
func (d *Document) Operations() []*Operation {
	var ops []*Operation
	for _, item := range d.Paths {
		ops = append(ops, item.Operations...)
	}
	return ops
}

// Operation looks up a single operation by path template and method.
func (d *Document) Operation(path, method string) (*Operation, bool) {
	for _, item := range d.Paths {
		if item.Path != path {
			continue
		}
		for _, op := range item.Operations {
			if op.Method == method {
				return op, true
			}
		}
	}
	return nil, false
}
