// Package codec decodes SCIM patch request bodies into the generic value
// tree the patch engine consumes, and encodes a resource.Node back into
// wire JSON. Full request/response envelope handling (content negotiation,
// HTTP status mapping) lives outside the core and is not this package's
// concern; it only owns the JSON <-> document boundary.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/scim-go/scimcore/internal/patch"
	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/scimerr"
)

// patchRequestWire mirrors the RFC 7644 §3.5.2 PatchOp request body.
type patchRequestWire struct {
	Schemas    []string        `json:"schemas"`
	Operations []operationWire `json:"Operations"`
}

type operationWire struct {
	Op    string          `json:"op"`
	Path  string          `json:"path,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// DecodePatchRequest unmarshals a PatchOp request body into patch.Request
// values ready for patch.ApplyAll.
func DecodePatchRequest(body []byte) ([]patch.Request, error) {
	var wire patchRequestWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, scimerr.InvalidSyntax("", fmt.Sprintf("malformed PatchOp body: %v", err))
	}
	if len(wire.Operations) == 0 {
		return nil, scimerr.InvalidValue("", "PatchOp body must list at least one operation")
	}

	reqs := make([]patch.Request, len(wire.Operations))
	for i, op := range wire.Operations {
		var value any
		if len(op.Value) > 0 {
			if err := json.Unmarshal(op.Value, &value); err != nil {
				return nil, scimerr.InvalidValue(op.Path, fmt.Sprintf("malformed operation value: %v", err))
			}
		}
		reqs[i] = patch.Request{Op: patch.Op(op.Op), Path: op.Path, Value: value}
	}
	return reqs, nil
}

// EncodeResource marshals root into its JSON wire representation.
func EncodeResource(root *resource.Node) ([]byte, error) {
	v, err := nodeToWire(root)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// nodeToWire converts a resource.Node back into plain Go values suitable
// for encoding/json, the inverse of the generic decode patch.buildValue
// consumes.
func nodeToWire(n *resource.Node) (any, error) {
	if n == nil {
		return nil, nil
	}
	switch {
	case n.IsObject():
		out := make(map[string]any, n.Len())
		for _, k := range n.Keys() {
			v, _ := n.Get(k)
			cv, err := nodeToWire(v)
			if err != nil {
				return nil, err
			}
			out[k] = cv
		}
		return out, nil
	case n.IsArray():
		items := n.Items()
		out := make([]any, len(items))
		for i, it := range items {
			cv, err := nodeToWire(it)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case n.IsLeaf():
		return leafToWire(n.LeafValue())
	default:
		return nil, fmt.Errorf("codec: node has no kind")
	}
}

func leafToWire(l *resource.Leaf) (any, error) {
	if l.Null {
		return nil, nil
	}
	if l.Def == nil {
		// Protocol-level fields (id, schemas, meta, ...) carry no
		// AttributeDef; they are always rendered as plain text.
		return l.Str, nil
	}
	switch l.Def.Type.String() {
	case "boolean":
		return l.Bool, nil
	case "integer":
		return l.Int, nil
	case "decimal":
		return l.Dec, nil
	default:
		return l.Str, nil
	}
}
