package adjust

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"yasmcp/pkg/logging"
)

// Set is a compiled adjustment document. The zero value and a nil *Set
// permit every route and override nothing.
type Set struct {
	Routes       []RouteRule
	Descriptions []DescriptionRule
}

// RouteRule permits the methods listed for paths matching Path.
type RouteRule struct {
	Path string
	// Methods holds upper-cased method names; AnyMethod is set for "*".
	Methods   []string
	AnyMethod bool

	pattern *regexp.Regexp
}

// DescriptionRule overrides per-method descriptions for paths matching Path.
type DescriptionRule struct {
	Path    string
	Updates []DescriptionUpdate

	pattern *regexp.Regexp
}

// DescriptionUpdate is one method override inside a DescriptionRule.
type DescriptionUpdate struct {
	Method         string
	NewDescription string
}

type document struct {
	Routes       []routeEntry       `yaml:"routes"`
	Descriptions []descriptionEntry `yaml:"descriptions"`
}

type routeEntry struct {
	Path    string  `yaml:"path"`
	Methods methods `yaml:"methods"`
}

type descriptionEntry struct {
	Path    string        `yaml:"path"`
	Updates []updateEntry `yaml:"updates"`
}

type updateEntry struct {
	Method         string `yaml:"method"`
	NewDescription string `yaml:"new_description"`
}

// methods accepts either a sequence of method names or a single scalar
// such as "*" or "GET".
type methods []string

func (m *methods) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*m = nil
			return nil
		}
		*m = methods{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		// An explicit empty list stays non-nil and permits nothing.
		if list == nil {
			list = []string{}
		}
		*m = list
		return nil
	default:
		return fmt.Errorf("line %d: methods must be a list or a string", node.Line)
	}
}

// Parse compiles an adjustment document. Empty input yields an empty Set.
func Parse(data []byte) (*Set, error) {
	return parse(data, "")
}

// LoadFile reads the adjustment document at path. An empty path or a file
// that does not exist yields an empty Set.
func LoadFile(path string) (*Set, error) {
	if path == "" {
		return &Set{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Warn("Adjust", "Adjustments file %s not found, exposing all routes", path)
			return &Set{}, nil
		}
		return nil, fmt.Errorf("reading adjustments file %s: %w", path, err)
	}
	set, err := parse(data, path)
	if err != nil {
		return nil, err
	}
	logging.Info("Adjust", "Loaded %d route rules and %d description rules from %s",
		len(set.Routes), len(set.Descriptions), path)
	return set, nil
}

func parse(data []byte, source string) (*Set, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Set{}, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	set := &Set{}
	for i, r := range doc.Routes {
		if strings.TrimSpace(r.Path) == "" {
			return nil, &ParseError{Source: source, Err: fmt.Errorf("routes[%d]: path is required", i)}
		}
		re, err := compilePattern(r.Path)
		if err != nil {
			return nil, &ParseError{Source: source, Err: fmt.Errorf("routes[%d]: %w", i, err)}
		}
		rule := RouteRule{Path: r.Path, pattern: re}
		for _, m := range r.Methods {
			m = strings.ToUpper(strings.TrimSpace(m))
			if m == "*" {
				rule.AnyMethod = true
				continue
			}
			if m != "" {
				rule.Methods = append(rule.Methods, m)
			}
		}
		if r.Methods == nil {
			rule.AnyMethod = true
		}
		set.Routes = append(set.Routes, rule)
	}

	for i, d := range doc.Descriptions {
		if strings.TrimSpace(d.Path) == "" {
			return nil, &ParseError{Source: source, Err: fmt.Errorf("descriptions[%d]: path is required", i)}
		}
		re, err := compilePattern(d.Path)
		if err != nil {
			return nil, &ParseError{Source: source, Err: fmt.Errorf("descriptions[%d]: %w", i, err)}
		}
		rule := DescriptionRule{Path: d.Path, pattern: re}
		for j, u := range d.Updates {
			if strings.TrimSpace(u.Method) == "" {
				return nil, &ParseError{Source: source, Err: fmt.Errorf("descriptions[%d].updates[%d]: method is required", i, j)}
			}
			rule.Updates = append(rule.Updates, DescriptionUpdate{
				Method:         strings.ToUpper(strings.TrimSpace(u.Method)),
				NewDescription: u.NewDescription,
			})
		}
		set.Descriptions = append(set.Descriptions, rule)
	}
	return set, nil
}

// Permits reports whether the route may be exposed as a tool.
func (s *Set) Permits(path, method string) bool {
	if s == nil || len(s.Routes) == 0 {
		return true
	}
	path = trimSlash(path)
	for _, r := range s.Routes {
		if !r.pattern.MatchString(path) {
			continue
		}
		if r.AnyMethod {
			return true
		}
		for _, m := range r.Methods {
			if strings.EqualFold(m, method) {
				return true
			}
		}
	}
	return false
}

// ResolveDescription returns the override for (path, method) if one exists,
// otherwise summary, otherwise "METHOD path".
func (s *Set) ResolveDescription(path, method, summary string) string {
	if s != nil {
		p := trimSlash(path)
		for _, d := range s.Descriptions {
			if !d.pattern.MatchString(p) {
				continue
			}
			for _, u := range d.Updates {
				if strings.EqualFold(u.Method, method) {
					return u.NewDescription
				}
			}
			break
		}
	}
	if summary != "" {
		return summary
	}
	return strings.ToUpper(method) + " " + path
}

// Empty reports whether the set neither filters nor overrides anything.
func (s *Set) Empty() bool {
	return s == nil || (len(s.Routes) == 0 && len(s.Descriptions) == 0)
}
