// Package resource implements the in-memory SCIM document tree the patch
// engine mutates: an ordered object/array/leaf structure whose leaves are
// bound to the schema.AttributeDef that describes their type.
package resource

import (
	"strings"

	"github.com/scim-go/scimcore/internal/schema"
)

// Kind tags the variant of a Node.
type Kind int

const (
	// KindObject is an ordered mapping from attribute base name to Node.
	KindObject Kind = iota
	// KindArray is an ordered sequence of Nodes.
	KindArray
	// KindLeaf is a typed scalar value.
	KindLeaf
)

// Node is one element of a SCIM resource document: an object, an array,
// or a leaf. Exactly one of the accessor groups below is meaningful for
// a given Kind.
type Node struct {
	Kind Kind

	obj   *object
	arr   []*Node
	leaf  *Leaf
}

// object is the ordered, case-insensitively addressed mapping backing a
// KindObject node. Base names are preserved verbatim for emit but looked
// up case-insensitively, per schema §3 invariant (iv).
type object struct {
	order []string          // emit-cased base names, insertion order
	keyOf map[string]string // lower(name) -> emit-cased name
	vals  map[string]*Node  // lower(name) -> value
}

// Leaf is a typed scalar value bound to the AttributeDef that describes it.
type Leaf struct {
	Def    *schema.AttributeDef
	Null   bool
	Str    string
	Bool   bool
	Int    int64
	Narrow bool // true if Int fits in signed 32 bits; affects emit width only.
	Dec    float64
}

// NewObject creates an empty object node.
func NewObject() *Node {
	return &Node{Kind: KindObject, obj: newObject()}
}

func newObject() *object {
	return &object{
		keyOf: make(map[string]string),
		vals:  make(map[string]*Node),
	}
}

// NewArray creates an array node containing items, in order.
func NewArray(items ...*Node) *Node {
	arr := make([]*Node, len(items))
	copy(arr, items)
	return &Node{Kind: KindArray, arr: arr}
}

// NewLeaf creates a leaf node carrying l's value, bound to def.
func NewLeaf(def *schema.AttributeDef, l Leaf) *Node {
	leaf := l
	leaf.Def = def
	return &Node{Kind: KindLeaf, leaf: &leaf}
}

// NewNullLeaf creates a leaf representing an explicit JSON null.
func NewNullLeaf(def *schema.AttributeDef) *Node {
	return &Node{Kind: KindLeaf, leaf: &Leaf{Def: def, Null: true}}
}

// IsObject, IsArray, IsLeaf report the node's kind.
func (n *Node) IsObject() bool { return n != nil && n.Kind == KindObject }
func (n *Node) IsArray() bool  { return n != nil && n.Kind == KindArray }
func (n *Node) IsLeaf() bool   { return n != nil && n.Kind == KindLeaf }

// LeafValue returns the node's leaf value, or nil if the node is not a leaf.
func (n *Node) LeafValue() *Leaf {
	if n == nil || n.Kind != KindLeaf {
		return nil
	}
	return n.leaf
}

// Get looks up a key in an object node, case-insensitively. Returns
// (nil, false) if n is not an object or the key is absent.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindObject {
		return nil, false
	}
	v, ok := n.obj.vals[strings.ToLower(key)]
	return v, ok
}

// Set inserts or overwrites a key in an object node. The first Set for a
// key fixes its emit casing; subsequent Sets with different casing keep
// the original casing. Panics if n is not an object.
func (n *Node) Set(key string, val *Node) {
	if n == nil || n.Kind != KindObject {
		panic("resource: Set called on non-object node")
	}
	lower := strings.ToLower(key)
	if _, exists := n.obj.vals[lower]; !exists {
		n.obj.order = append(n.obj.order, key)
		n.obj.keyOf[lower] = key
	}
	n.obj.vals[lower] = val
}

// Delete removes key from an object node. Returns true if the key was present.
func (n *Node) Delete(key string) bool {
	if n == nil || n.Kind != KindObject {
		return false
	}
	lower := strings.ToLower(key)
	if _, exists := n.obj.vals[lower]; !exists {
		return false
	}
	delete(n.obj.vals, lower)
	delete(n.obj.keyOf, lower)
	for i, k := range n.obj.order {
		if strings.ToLower(k) == lower {
			n.obj.order = append(n.obj.order[:i], n.obj.order[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns an object node's keys in emit-casing, insertion order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	out := make([]string, len(n.obj.order))
	copy(out, n.obj.order)
	return out
}

// Len returns the number of entries in an object or elements in an array.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindObject:
		return len(n.obj.order)
	case KindArray:
		return len(n.arr)
	default:
		return 0
	}
}

// Items returns an array node's elements, in order.
func (n *Node) Items() []*Node {
	if n == nil || n.Kind != KindArray {
		return nil
	}
	return n.arr
}

// At returns the i-th element of an array node.
func (n *Node) At(i int) *Node {
	if n == nil || n.Kind != KindArray || i < 0 || i >= len(n.arr) {
		return nil
	}
	return n.arr[i]
}

// Append adds items to the end of an array node.
func (n *Node) Append(items ...*Node) {
	if n == nil || n.Kind != KindArray {
		panic("resource: Append called on non-array node")
	}
	n.arr = append(n.arr, items...)
}

// RemoveAt deletes the element at index i from an array node.
func (n *Node) RemoveAt(i int) {
	if n == nil || n.Kind != KindArray || i < 0 || i >= len(n.arr) {
		return
	}
	n.arr = append(n.arr[:i], n.arr[i+1:]...)
}

// SetAt replaces the element at index i in an array node.
func (n *Node) SetAt(i int, val *Node) {
	if n == nil || n.Kind != KindArray || i < 0 || i >= len(n.arr) {
		return
	}
	n.arr[i] = val
}
