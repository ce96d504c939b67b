package spec

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// declOrder records the order in which the source declares paths, methods
// and media types. The JSON conversion used for parsing loses key order,
// so it is recovered from the yaml.v3 node tree of the raw input.
type declOrder struct {
	paths     []string
	methods   map[string][]string
	body      map[string][]string
	responses map[string][]string
}

func declarationOrder(data []byte) *declOrder {
	o := &declOrder{
		methods:   map[string][]string{},
		body:      map[string][]string{},
		responses: map[string][]string{},
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return o
	}
	paths := mappingValue(documentNode(&root), "paths")
	if paths == nil || paths.Kind != yaml.MappingNode {
		return o
	}
	for i := 0; i+1 < len(paths.Content); i += 2 {
		path := paths.Content[i].Value
		o.paths = append(o.paths, path)
		item := paths.Content[i+1]
		if item.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(item.Content); j += 2 {
			method := strings.ToUpper(item.Content[j].Value)
			if !isMethod(method) {
				continue
			}
			o.methods[path] = append(o.methods[path], method)
			op := item.Content[j+1]
			key := path + " " + method
			o.body[key] = mappingKeys(mappingValue(mappingValue(op, "requestBody"), "content"))
			if responses := mappingValue(op, "responses"); responses != nil && responses.Kind == yaml.MappingNode {
				for k := 0; k+1 < len(responses.Content); k += 2 {
					code := responses.Content[k].Value
					o.responses[key+" "+code] = mappingKeys(mappingValue(responses.Content[k+1], "content"))
				}
			}
		}
	}
	return o
}

// sortPaths puts declared paths first, in declaration order, then the rest lexically.
func (o *declOrder) sortPaths(all []string) []string {
	return applyOrder(o.paths, all)
}

func (o *declOrder) sortMethods(path string, all []string) []string {
	return applyOrder(o.methods[path], all)
}

func (o *declOrder) bodyContent(path, method string) []string {
	return o.body[path+" "+method]
}

func (o *declOrder) responseContent(path, method, code string) []string {
	return o.responses[path+" "+method+" "+code]
}

func applyOrder(declared, all []string) []string {
	present := make(map[string]bool, len(all))
	for _, v := range all {
		present[v] = true
	}
	out := make([]string, 0, len(all))
	placed := map[string]bool{}
	for _, v := range declared {
		if present[v] && !placed[v] {
			out = append(out, v)
			placed[v] = true
		}
	}
	var rest []string
	for _, v := range all {
		if !placed[v] {
			rest = append(rest, v)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func documentNode(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func mappingKeys(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, n.Content[i].Value)
	}
	return out
}

func isMethod(m string) bool {
	for _, known := range methodOrder {
		if m == known {
			return true
		}
	}
	return false
}
