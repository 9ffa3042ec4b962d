package resource

// Clone produces a deep copy of n. The patch engine clones the caller's
// document before applying operations so a failed operation in a multi-operation patch can
// discard every mutation performed so far without the caller's original
// document ever having been touched.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindObject:
		o := newObject()
		o.order = append(o.order, n.obj.order...)
		for k, v := range n.obj.keyOf {
			o.keyOf[k] = v
		}
		for k, v := range n.obj.vals {
			o.vals[k] = Clone(v)
		}
		return &Node{Kind: KindObject, obj: o}
	case KindArray:
		items := make([]*Node, len(n.arr))
		for i, item := range n.arr {
			items[i] = Clone(item)
		}
		return &Node{Kind: KindArray, arr: items}
	case KindLeaf:
		l := *n.leaf
		return &Node{Kind: KindLeaf, leaf: &l}
	default:
		return nil
	}
}

// Equal reports whether a and b are deeply equal: same kind, same object
// entries (key membership and recursively equal values, order-independent),
// same array elements in the same order, or same leaf value. Used for the
// patch engine's equality-based no-op suppression (spec §4.6) and the
// atomicity property (spec §8).
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindObject:
		if len(a.obj.order) != len(b.obj.order) {
			return false
		}
		for k, av := range a.obj.vals {
			bv, ok := b.obj.vals[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindLeaf:
		return equalLeaf(a.leaf, b.leaf)
	default:
		return false
	}
}

func equalLeaf(a, b *Leaf) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Null != b.Null {
		return false
	}
	if a.Null {
		return true
	}
	if a.Def != nil && b.Def != nil && a.Def.Type != b.Def.Type {
		return false
	}
	return a.Str == b.Str && a.Bool == b.Bool && a.Int == b.Int && a.Dec == b.Dec
}
