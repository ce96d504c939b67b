// Package registry turns a parsed API document into an immutable set of
// tools.
//
// Build walks operations in declaration order, drops routes the adjustment
// set does not permit, derives names, descriptions and schemas, and records
// the route template needed to dispatch each tool. The result is a
// Snapshot. A Holder publishes the current Snapshot and lets a reload swap
// it atomically; callers that already looked up a route keep their copy.
package registry
