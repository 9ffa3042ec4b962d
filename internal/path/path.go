// Package path implements C5 of the core: resolving a parsed patch path
// against a resource document into mutable cursors, descending through
// complex attributes and multi-valued filter selections, creating missing
// containers on demand (spec §4.5).
package path

import (
	"github.com/scim-go/scimcore/internal/filter"
	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/scimerr"
	"github.com/scim-go/scimcore/internal/schema"
)

// Cursor addresses one mutable slot in a resource document: a key within
// an object, or an element of an array. Cursors returned for a filtered
// multi-valued segment share the same Parent array and carry ascending
// Index values; a caller removing more than one must iterate them in
// descending Index order so earlier removals don't shift later indices.
type Cursor struct {
	Parent *resource.Node
	Key    string
	Index  int
	HasIndex bool
	Def    *schema.AttributeDef
}

// Get returns the value currently at the cursor, and whether it is present.
func (c Cursor) Get() (*resource.Node, bool) {
	if c.HasIndex {
		n := c.Parent.At(c.Index)
		return n, n != nil
	}
	return c.Parent.Get(c.Key)
}

// Set writes v at the cursor, overwriting any existing value.
func (c Cursor) Set(v *resource.Node) {
	if c.HasIndex {
		c.Parent.SetAt(c.Index, v)
		return
	}
	c.Parent.Set(c.Key, v)
}

// Delete removes the value at the cursor. Always succeeds for an index
// cursor (the index was produced by a prior lookup against this Parent).
func (c Cursor) Delete() bool {
	if c.HasIndex {
		c.Parent.RemoveAt(c.Index)
		return true
	}
	return c.Parent.Delete(c.Key)
}

// location is an intermediate stop during path descent: a complex value
// already reached, plus the AttributeDef describing it (used to resolve
// the next segment's sub-attribute).
type location struct {
	container *resource.Node
	def       *schema.AttributeDef
}

// Resolve walks root along expr and returns the cursor(s) addressing its
// target. create controls whether missing intermediate containers
// (objects, arrays, and the extension root itself) are created along the
// way; callers pass true for add/replace and false for remove, per spec
// §4.6. A value-selection filter that matches nothing is a NoTarget error
// at any point in the path, per RFC 7644 §3.5.2.
func Resolve(root *resource.Node, expr *filter.PathExpr, reg *schema.Registry, create bool) ([]Cursor, error) {
	if expr == nil || len(expr.Segments) == 0 {
		return nil, scimerr.InvalidPath("", "path has no segments")
	}

	container, err := resolveSchemaRoot(root, expr, reg, create)
	if err != nil {
		return nil, err
	}

	locs := []location{{container: container, def: nil}}
	last := len(expr.Segments) - 1

	for i := 0; i < last || (i == last && expr.SubAttribute != ""); i++ {
		seg := expr.Segments[i]
		var next []location
		for _, loc := range locs {
			attrDef, err := resolveSegmentDef(expr, reg, loc, seg, i)
			if err != nil {
				return nil, err
			}
			subs, err := descendSegment(loc, seg, attrDef, create)
			if err != nil {
				return nil, err
			}
			next = append(next, subs...)
		}
		locs = next
	}

	lastSeg := expr.Segments[last]
	var cursors []Cursor
	for _, loc := range locs {
		if expr.SubAttribute != "" {
			attrDef := loc.def.SubAttribute(expr.SubAttribute)
			if attrDef == nil {
				return nil, scimerr.UnknownAttribute(expr.SubAttribute, "no such sub-attribute")
			}
			cursors = append(cursors, Cursor{Parent: loc.container, Key: expr.SubAttribute, Def: attrDef})
			continue
		}

		attrDef, err := resolveSegmentDef(expr, reg, loc, lastSeg, last)
		if err != nil {
			return nil, err
		}

		if lastSeg.Filter == nil {
			cursors = append(cursors, Cursor{Parent: loc.container, Key: lastSeg.Name, Def: attrDef})
			continue
		}

		node, ok := loc.container.Get(lastSeg.Name)
		if !ok {
			if !create {
				return nil, scimerr.NoTarget(attrDef.FullName(), "attribute not present")
			}
			node = resource.NewArray()
			loc.container.Set(lastSeg.Name, node)
		}
		indices, err := filter.EvaluateIndices(lastSeg.Filter, node, attrDef)
		if err != nil {
			return nil, err
		}
		if len(indices) == 0 {
			return nil, scimerr.NoTarget(attrDef.FullName(), "filter matched no elements")
		}
		for _, idx := range indices {
			cursors = append(cursors, Cursor{Parent: node, Index: idx, HasIndex: true, Def: attrDef})
		}
	}
	return cursors, nil
}

// resolveSegmentDef resolves the AttributeDef for segments[i] relative to
// loc: via the schema registry for the first segment, via the enclosing
// complex attribute's sub-attributes for every later one.
func resolveSegmentDef(expr *filter.PathExpr, reg *schema.Registry, loc location, seg filter.Segment, i int) (*schema.AttributeDef, error) {
	if loc.def != nil {
		def := loc.def.SubAttribute(seg.Name)
		if def == nil {
			return nil, scimerr.UnknownAttribute(seg.Name, "no such sub-attribute")
		}
		return def, nil
	}
	qualified := seg.Name
	if i == 0 && expr.ResourceURI != "" {
		qualified = expr.ResourceURI + ":" + seg.Name
	}
	def, err := reg.Resolve(qualified)
	if err != nil {
		return nil, scimerr.UnknownAttribute(qualified, err.Error())
	}
	return def, nil
}

// descendSegment advances from loc through seg, producing one location per
// matched element when seg carries a value filter over a multi-valued
// attribute, or a single location when it names a singular complex one.
func descendSegment(loc location, seg filter.Segment, attrDef *schema.AttributeDef, create bool) ([]location, error) {
	node, ok := loc.container.Get(seg.Name)
	if !ok {
		if !create {
			return nil, scimerr.NoTarget(attrDef.FullName(), "attribute not present")
		}
		node = newContainerFor(attrDef)
		loc.container.Set(seg.Name, node)
	}

	if attrDef.MultiValued {
		if seg.Filter == nil {
			return nil, scimerr.InvalidPath(attrDef.FullName(), "multi-valued attribute requires a value filter before further path traversal")
		}
		indices, err := filter.EvaluateIndices(seg.Filter, node, attrDef)
		if err != nil {
			return nil, err
		}
		if len(indices) == 0 {
			return nil, scimerr.NoTarget(attrDef.FullName(), "filter matched no elements")
		}
		out := make([]location, len(indices))
		for i, idx := range indices {
			out[i] = location{container: node.At(idx), def: attrDef}
		}
		return out, nil
	}

	if attrDef.Type != schema.Complex {
		return nil, scimerr.InvalidPath(attrDef.FullName(), "cannot traverse into a non-complex attribute")
	}
	return []location{{container: node, def: attrDef}}, nil
}

func newContainerFor(def *schema.AttributeDef) *resource.Node {
	if def.MultiValued {
		return resource.NewArray()
	}
	return resource.NewObject()
}

// resolveSchemaRoot returns the object a path's first segment addresses
// into: the resource root itself, or an extension schema's sub-object,
// creating the latter on demand when create is true.
func resolveSchemaRoot(root *resource.Node, expr *filter.PathExpr, reg *schema.Registry, create bool) (*resource.Node, error) {
	if expr.ResourceURI == "" || expr.ResourceURI == reg.PrimarySchemaURI() {
		return root, nil
	}
	if !reg.IsExtension(expr.ResourceURI) {
		return nil, scimerr.InvalidPath(expr.ResourceURI, "unknown schema URI")
	}
	sub, ok := root.Get(expr.ResourceURI)
	if ok {
		return sub, nil
	}
	if !create {
		return nil, scimerr.NoTarget(expr.ResourceURI, "extension schema not present on resource")
	}
	sub = resource.NewObject()
	root.Set(expr.ResourceURI, sub)
	return sub, nil
}
