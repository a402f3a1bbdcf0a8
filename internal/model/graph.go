package model

import (
	"encoding/json"
	"fmt"
)

// RelationshipReferences is the relationship type recorded for every edge the
// traversal engine emits. Scope-specific relationship semantics (imports,
// foreign keys, event subscriptions) are flattened to "references" because the
// engine treats the expansion callback as opaque.
const RelationshipReferences = "references"

// Node is one discovered graph element.
// A node id is caller-defined and unique within a single crawl; the traversal
// engine emits each id at most once.
type Node struct {
	// ID is the caller-defined identifier (view name, table name, module path).
	ID string `json:"id"`

	// Type is a label describing what kind of element this is.
	// It is uniform per crawl and supplied by the caller (e.g. "view", "table").
	Type string `json:"type"`

	// Depth is the BFS distance from the crawl origin. The origin has depth 0.
	Depth int `json:"depth"`
}

// Edge records one observed adjacency between two node ids.
// Edges are append-only: the same target id may appear in multiple edges even
// though the node list holds each id only once, because edges reflect true
// adjacency rather than discovery order.
type Edge struct {
	// From is the id of the node that was being expanded.
	From string

	// To is the id of the discovered child.
	To string

	// Relationship is the relationship type, currently always "references".
	Relationship string
}

// MarshalJSON serializes the edge as a three-element array
// [from, to, relationship_type]. This compact form is the wire contract for
// crawl results; object-style edges would roughly triple the report size for
// large graphs.
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{e.From, e.To, e.Relationship})
}

// UnmarshalJSON parses the [from, to, relationship_type] array form.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var triple [3]string
	if err := json.Unmarshal(data, &triple); err != nil {
		return fmt.Errorf("edge must be a [from, to, relationship] array: %w", err)
	}

	e.From = triple[0]
	e.To = triple[1]
	e.Relationship = triple[2]
	return nil
}
