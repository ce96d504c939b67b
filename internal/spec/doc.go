// Package spec loads OpenAPI 3.x and Swagger 2.0 documents into an ordered,
// reference-free model.
//
// Parsing is delegated to kin-openapi. References are resolved during load
// and external references are refused, so Parse never touches the network
// or the filesystem. The resulting Document lists paths and operations in
// the order the source declares them; downstream packages rely on that
// order to produce a deterministic tool set.
//
// Schemas are flattened into JSON-Schema-like maps that can be embedded in
// tool definitions without further conversion.
package spec
