// Package patch implements C6 of the core: applying RFC 7644 §3.5.2
// add/replace/remove operations against a resource document, built on
// C2-C5 (coercion, the filter/path grammar, and cursor resolution).
package patch

import (
	"fmt"

	"github.com/scim-go/scimcore/internal/filter"
	"github.com/scim-go/scimcore/internal/path"
	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/scimerr"
	"github.com/scim-go/scimcore/internal/schema"
)

// Op is a patch operation verb.
type Op string

const (
	OpAdd     Op = "add"
	OpReplace Op = "replace"
	OpRemove  Op = "remove"
)

// Request is one patch operation. Path is the raw, unparsed path string,
// empty for a resource-level add/replace. Value is the operation's JSON
// value already decoded into Go's generic representation
// (map[string]any / []any / string / float64 / bool / nil); nil for remove.
type Request struct {
	Op    Op
	Path  string
	Value any
}

// Result records whether an applied operation actually altered the
// document, per the equality-based no-op suppression rule (spec §4.6).
type Result struct {
	Op      Op
	Path    string
	Changed bool
}

// Apply runs a single operation against root and returns the resulting
// document. root itself is never mutated: on success a clone carrying the
// mutation is returned; on failure root is returned unchanged alongside
// the error.
func Apply(root *resource.Node, reg *schema.Registry, req Request) (*resource.Node, Result, error) {
	working := resource.Clone(root)
	before := resource.Clone(working)
	if err := apply(working, reg, req); err != nil {
		return root, Result{}, err
	}
	return working, Result{Op: req.Op, Path: req.Path, Changed: !resource.Equal(before, working)}, nil
}

// ApplyAll runs a sequence of operations atomically: if any operation
// fails, root is returned unchanged and none of the sequence's effects are
// visible, per the atomicity requirement of RFC 7644 §3.5.2.
func ApplyAll(root *resource.Node, reg *schema.Registry, reqs []Request) (*resource.Node, []Result, error) {
	working := resource.Clone(root)
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		before := resource.Clone(working)
		if err := apply(working, reg, req); err != nil {
			return root, nil, err
		}
		results = append(results, Result{Op: req.Op, Path: req.Path, Changed: !resource.Equal(before, working)})
	}
	return working, results, nil
}

func apply(root *resource.Node, reg *schema.Registry, req Request) error {
	switch req.Op {
	case OpAdd:
		return applyAdd(root, reg, req)
	case OpReplace:
		return applyReplace(root, reg, req)
	case OpRemove:
		return applyRemove(root, reg, req)
	default:
		return scimerr.InvalidSyntax(req.Path, fmt.Sprintf("unknown patch operation %q", req.Op))
	}
}

func applyAdd(root *resource.Node, reg *schema.Registry, req Request) error {
	if req.Path == "" {
		return applyAddNoPath(root, reg, req.Value)
	}

	expr, err := filter.ParsePath(req.Path)
	if err != nil {
		return err
	}
	if pathIsBareFilter(expr) {
		return scimerr.InvalidPath(req.Path, "add requires a sub-attribute when the path ends in a value filter")
	}

	cursors, err := path.Resolve(root, expr, reg, true)
	if err != nil {
		return err
	}

	for _, c := range cursors {
		existing, ok := c.Get()
		if err := checkMutable(c.Def, ok && !isAbsent(existing)); err != nil {
			return err
		}

		if !c.HasIndex && c.Def.MultiValued {
			if !ok || !existing.IsArray() {
				existing = resource.NewArray()
				c.Set(existing)
			}
			newVal, err := buildValue(c.Def, req.Value)
			if err != nil {
				return err
			}
			items := newVal.Items()
			if !newVal.IsArray() {
				items = []*resource.Node{newVal}
			}
			for _, it := range items {
				// Spec §4.6 idempotence: adding a value already present in a
				// simple multi-valued attribute is a no-op; duplicates are
				// allowed for multi-valued complex attributes.
				if c.Def.Type != schema.Complex && containsEqual(existing, it) {
					continue
				}
				existing.Append(it)
			}
			continue
		}

		if c.Def.Type == schema.Complex {
			newVal, err := buildForCursor(c, req.Value)
			if err != nil {
				return err
			}
			if ok && existing.IsObject() && newVal.IsObject() {
				resource.MergeObject(existing, newVal)
			} else {
				c.Set(newVal)
			}
			continue
		}

		newVal, err := buildForCursor(c, req.Value)
		if err != nil {
			return err
		}
		c.Set(newVal)
	}
	return nil
}

// buildForCursor builds the value to write at c: a single element when c
// addresses one index of an existing array, or the full attribute-shaped
// value (scalar, complex object, or array) otherwise.
func buildForCursor(c path.Cursor, v any) (*resource.Node, error) {
	if c.HasIndex {
		return buildElement(c.Def, v)
	}
	return buildValue(c.Def, v)
}

// pathIsBareFilter reports whether expr's last segment carries a value
// filter with no trailing sub-attribute, per spec §4.6 ADD rule 1: such a
// path names a set of elements, not a single writable target.
func pathIsBareFilter(expr *filter.PathExpr) bool {
	if expr.SubAttribute != "" {
		return false
	}
	last := expr.Segments[len(expr.Segments)-1]
	return last.Filter != nil
}

func applyAddNoPath(root *resource.Node, reg *schema.Registry, value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return scimerr.InvalidValue("", "add without a path requires a JSON object value")
	}
	built := resource.NewObject()
	for key, raw := range m {
		def, err := reg.Resolve(key)
		if err != nil {
			return scimerr.UnknownAttribute(key, err.Error())
		}
		if err := checkMutable(def, false); err != nil {
			return err
		}
		n, err := buildValue(def, raw)
		if err != nil {
			return err
		}
		built.Set(key, n)
	}
	resource.MergeObject(root, built)
	return nil
}

func applyReplace(root *resource.Node, reg *schema.Registry, req Request) error {
	if req.Path == "" {
		return applyReplaceNoPath(root, reg, req.Value)
	}

	cursors, err := resolveWritePath(root, reg, req.Path)
	if err != nil {
		return err
	}

	for _, c := range cursors {
		existing, ok := c.Get()
		if err := checkMutable(c.Def, ok && !isAbsent(existing)); err != nil {
			return err
		}
		newVal, err := buildForCursor(c, req.Value)
		if err != nil {
			return err
		}
		c.Set(newVal)
	}
	return nil
}

func applyReplaceNoPath(root *resource.Node, reg *schema.Registry, value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return scimerr.InvalidValue("", "replace without a path requires a JSON object value")
	}
	for key, raw := range m {
		def, err := reg.Resolve(key)
		if err != nil {
			return scimerr.UnknownAttribute(key, err.Error())
		}
		existing, ok := root.Get(key)
		if err := checkMutable(def, ok && !isAbsent(existing)); err != nil {
			return err
		}
		n, err := buildValue(def, raw)
		if err != nil {
			return err
		}
		root.Set(key, n)
	}
	return nil
}

func applyRemove(root *resource.Node, reg *schema.Registry, req Request) error {
	if req.Path == "" {
		return scimerr.InvalidPath("", "remove requires a path")
	}

	expr, err := filter.ParsePath(req.Path)
	if err != nil {
		return err
	}
	cursors, err := path.Resolve(root, expr, reg, false)
	if err != nil {
		if scimerr.As(err, scimerr.NoTargetKind) && !pathHasFilter(expr) {
			return nil
		}
		return err
	}

	for _, c := range cursors {
		existing, ok := c.Get()
		if err := checkMutable(c.Def, ok && !isAbsent(existing)); err != nil {
			return err
		}
	}
	for i := len(cursors) - 1; i >= 0; i-- {
		cursors[i].Delete()
	}
	return removeEmptyFilteredArray(root, reg, expr)
}

// removeEmptyFilteredArray implements spec §4.6 REMOVE rule 4: once a
// value-selection filter has deleted every matching element, a now-empty
// array is itself removed rather than left behind as an empty array.
func removeEmptyFilteredArray(root *resource.Node, reg *schema.Registry, expr *filter.PathExpr) error {
	if !pathIsBareFilter(expr) {
		return nil
	}
	last := len(expr.Segments) - 1
	stripped := *expr
	segs := make([]filter.Segment, len(expr.Segments))
	copy(segs, expr.Segments)
	segs[last] = filter.Segment{Name: segs[last].Name}
	stripped.Segments = segs

	cursors, err := path.Resolve(root, &stripped, reg, false)
	if err != nil {
		if scimerr.As(err, scimerr.NoTargetKind) {
			return nil
		}
		return err
	}
	for _, c := range cursors {
		arr, ok := c.Get()
		if ok && arr.IsArray() && arr.Len() == 0 {
			c.Delete()
		}
	}
	return nil
}

func resolveWritePath(root *resource.Node, reg *schema.Registry, rawPath string) ([]path.Cursor, error) {
	expr, err := filter.ParsePath(rawPath)
	if err != nil {
		return nil, err
	}
	return path.Resolve(root, expr, reg, true)
}

func pathHasFilter(expr *filter.PathExpr) bool {
	for _, seg := range expr.Segments {
		if seg.Filter != nil {
			return true
		}
	}
	return false
}

func containsEqual(array *resource.Node, v *resource.Node) bool {
	for _, it := range array.Items() {
		if resource.Equal(it, v) {
			return true
		}
	}
	return false
}

func isAbsent(n *resource.Node) bool {
	if n == nil {
		return true
	}
	return n.IsLeaf() && n.LeafValue().Null
}

// checkMutable enforces the Mutability constraint on a write, per spec
// §4.6: read-only attributes reject every write; immutable attributes
// reject a write only once a value already exists.
func checkMutable(def *schema.AttributeDef, existing bool) error {
	if def == nil {
		return nil
	}
	switch def.Mutability {
	case schema.ReadOnly:
		return scimerr.Mutability(def.FullName(), "attribute is read-only")
	case schema.Immutable:
		if existing {
			return scimerr.Mutability(def.FullName(), "attribute is immutable once set")
		}
	}
	return nil
}
