package codec

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/schema"
)

// DecodeDocument parses a full resource document's JSON body into a
// typed *resource.Node, resolving every top-level key against reg
// (including extension schema URIs, which hold their own sub-attribute
// object) and falling through to opaque text leaves for protocol-level
// fields (schemas, id, externalId, meta) that carry no AttributeDef.
func DecodeDocument(reg *schema.Registry, body []byte) (*resource.Node, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("codec: decode document: %w", err)
	}
	return decodeDocument(reg, raw)
}

func decodeDocument(reg *schema.Registry, raw map[string]any) (*resource.Node, error) {
	root := resource.NewObject()
	for key, val := range raw {
		if reg.IsExtension(key) {
			sub, ok := val.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("extension %q value must be a JSON object", key)
			}
			extObj := resource.NewObject()
			for subKey, subVal := range sub {
				def, err := reg.Resolve(key + ":" + subKey)
				if err != nil {
					return nil, err
				}
				n, err := decodeLeafOrContainer(def, subVal)
				if err != nil {
					return nil, err
				}
				extObj.Set(subKey, n)
			}
			root.Set(key, extObj)
			continue
		}

		def, err := reg.Resolve(key)
		if err != nil {
			if !isProtocolField(key) {
				return nil, err
			}
			n, uerr := decodeUntyped(val)
			if uerr != nil {
				return nil, uerr
			}
			root.Set(key, n)
			continue
		}
		n, err := decodeLeafOrContainer(def, val)
		if err != nil {
			return nil, err
		}
		root.Set(key, n)
	}
	return root, nil
}

// isProtocolField reports whether key is one of the SCIM envelope fields
// (RFC 7643 §3.1) that every resource carries outside of its schema's own
// attribute set.
func isProtocolField(key string) bool {
	switch key {
	case "schemas", "id", "externalId", "meta":
		return true
	default:
		return false
	}
}

func decodeLeafOrContainer(def *schema.AttributeDef, val any) (*resource.Node, error) {
	if val == nil {
		return resource.NewNullLeaf(def), nil
	}
	if def.MultiValued {
		items, ok := val.([]any)
		if !ok {
			return nil, fmt.Errorf("attribute %q must be a JSON array", def.Name)
		}
		out := make([]*resource.Node, len(items))
		for i, it := range items {
			n, err := decodeSingular(def, it)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return resource.NewArray(out...), nil
	}
	return decodeSingular(def, val)
}

func decodeSingular(def *schema.AttributeDef, val any) (*resource.Node, error) {
	if def.Type != schema.Complex {
		return decodeLeaf(def, val)
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("attribute %q must be a JSON object", def.Name)
	}
	obj := resource.NewObject()
	for k, v := range m {
		sub := def.SubAttribute(k)
		if sub == nil {
			return nil, fmt.Errorf("attribute %q has no sub-attribute %q", def.Name, k)
		}
		n, err := decodeLeafOrContainer(sub, v)
		if err != nil {
			return nil, err
		}
		obj.Set(k, n)
	}
	return obj, nil
}

func decodeLeaf(def *schema.AttributeDef, val any) (*resource.Node, error) {
	switch def.Type {
	case schema.Boolean:
		b, ok := val.(bool)
		if !ok {
			return nil, fmt.Errorf("attribute %q must be a boolean", def.Name)
		}
		return resource.NewLeaf(def, resource.Leaf{Bool: b}), nil
	case schema.Integer:
		f, ok := val.(float64)
		if !ok {
			return nil, fmt.Errorf("attribute %q must be a number", def.Name)
		}
		return resource.NewLeaf(def, resource.Leaf{Int: int64(f), Narrow: f >= -(1 << 31) && f < (1 << 31)}), nil
	case schema.Decimal:
		f, ok := val.(float64)
		if !ok {
			return nil, fmt.Errorf("attribute %q must be a number", def.Name)
		}
		return resource.NewLeaf(def, resource.Leaf{Dec: f}), nil
	default:
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("attribute %q must be a string", def.Name)
		}
		return resource.NewLeaf(def, resource.Leaf{Str: s}), nil
	}
}

// decodeUntyped rebuilds protocol-level JSON (schemas, id, meta) that has
// no schema.AttributeDef, using plain string leaves.
func decodeUntyped(v any) (*resource.Node, error) {
	switch t := v.(type) {
	case map[string]any:
		obj := resource.NewObject()
		for k, sub := range t {
			n, err := decodeUntyped(sub)
			if err != nil {
				return nil, err
			}
			obj.Set(k, n)
		}
		return obj, nil
	case []any:
		items := make([]*resource.Node, len(t))
		for i, sub := range t {
			n, err := decodeUntyped(sub)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return resource.NewArray(items...), nil
	case string:
		return resource.NewLeaf(nil, resource.Leaf{Str: t}), nil
	case bool:
		return resource.NewLeaf(nil, resource.Leaf{Str: strconv.FormatBool(t)}), nil
	case float64:
		return resource.NewLeaf(nil, resource.Leaf{Str: strconv.FormatFloat(t, 'f', -1, 64)}), nil
	case nil:
		return resource.NewNullLeaf(nil), nil
	default:
		return nil, fmt.Errorf("unsupported JSON value %v (%T)", v, v)
	}
}
