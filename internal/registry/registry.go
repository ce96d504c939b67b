package registry

import (
	"fmt"
	"sync/atomic"

	"yasmcp/internal/adjust"
	"yasmcp/internal/schema"
	"yasmcp/internal/spec"
	"yasmcp/pkg/logging"
)

// Snapshot is the immutable result of one Build.
type Snapshot struct {
	entries     []Entry
	index       map[string]int
	diagnostics []Diagnostic
}

// Build derives the tool set of doc filtered and annotated by adjustments.
// A nil adjustment set permits every route. Build never fails; naming
// collisions are reported through Diagnostics.
func Build(doc *spec.Document, adjustments *adjust.Set) *Snapshot {
	snap := &Snapshot{index: map[string]int{}}
	if doc == nil {
		return snap
	}

	for _, op := range doc.Operations() {
		if !adjustments.Permits(op.Path, op.Method) {
			logging.Debug("Registry", "Skipping %s %s: not permitted by adjustments", op.Method, op.Path)
			continue
		}

		name := ToolName(op.Path, op.Method)
		if i, taken := snap.index[name]; taken {
			winner := snap.entries[i].Route
			d := Diagnostic{
				Kind:   NamingCollision,
				Tool:   name,
				Path:   op.Path,
				Method: op.Method,
				Message: fmt.Sprintf("%s %s dropped: tool name %s already used by %s %s",
					op.Method, op.Path, name, winner.Method, winner.Path),
			}
			snap.diagnostics = append(snap.diagnostics, d)
			logging.Warn("Registry", "%s", d.Message)
			continue
		}

		snap.index[name] = len(snap.entries)
		snap.entries = append(snap.entries, buildEntry(name, op, adjustments))
	}
	logging.Debug("Registry", "Built %d tools (%d diagnostics)", len(snap.entries), len(snap.diagnostics))
	return snap
}

func buildEntry(name string, op *spec.Operation, adjustments *adjust.Set) Entry {
	summary := op.Summary
	if summary == "" {
		summary = op.Description
	}
	input := schema.BuildInput(op)

	route := Route{
		Path:   op.Path,
		Method: op.Method,
	}
	for _, p := range op.Parameters {
		route.Parameters = append(route.Parameters, RouteParameter{Name: p.Name, In: p.In, Required: p.Required})
	}

	if op.RequestBody != nil {
		if mt, ok := schema.SelectContent(op.RequestBody.Content); ok {
			route.HasBody = true
			route.BodyContentType = mt.ContentType
			if schema.IsObjectSchema(mt.Schema) {
				for _, p := range input.Properties {
					if p.Location == schema.LocationBody {
						route.BodyFields = append(route.BodyFields, p.Name)
					}
				}
			} else {
				route.RawBody = true
			}
		}
	}
	if code, ok := schema.SuccessStatus(op); ok {
		if mt, ok := schema.SelectContent(op.Responses[code]); ok {
			route.Accept = mt.ContentType
		}
	}

	return Entry{
		Tool: Tool{
			Name:         name,
			Description:  adjustments.ResolveDescription(op.Path, op.Method, summary),
			InputSchema:  input,
			OutputSchema: schema.BuildOutput(op),
			OperationID:  op.OperationID,
		},
		Route: route,
	}
}

// Entries returns the tools in build order.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{Tool: e.Tool, Route: e.Route.clone()}
	}
	return out
}

// Lookup returns a copy of the named entry.
func (s *Snapshot) Lookup(name string) (Entry, bool) {
	i, ok := s.index[name]
	if !ok {
		return Entry{}, false
	}
	e := s.entries[i]
	return Entry{Tool: e.Tool, Route: e.Route.clone()}, true
}

// Diagnostics returns the findings recorded during Build.
func (s *Snapshot) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diagnostics...)
}

// Len returns the number of tools.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Names returns the tool names in build order.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Tool.Name
	}
	return out
}

// Holder publishes the active Snapshot.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a Holder serving initial.
func NewHolder(initial *Snapshot) *Holder {
	h := &Holder{}
	h.Store(initial)
	return h
}

// Load returns the active Snapshot; never nil.
func (h *Holder) Load() *Snapshot {
	if s := h.current.Load(); s != nil {
		return s
	}
	return &Snapshot{index: map[string]int{}}
}

// Store replaces the active Snapshot and returns the previous one.
func (h *Holder) Store(s *Snapshot) *Snapshot {
	if s == nil {
		s = &Snapshot{index: map[string]int{}}
	}
	return h.current.Swap(s)
}
