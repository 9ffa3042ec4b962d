package resource

// MergeObject merges src into dst in place and returns dst, implementing
// the ADD-on-complex-attribute semantics of spec §4.6 rule 3 (and, applied
// at the document root, rule 6): existing keys survive unless overwritten,
// array-valued keys present on both sides are concatenated with dst's
// elements first and src's appended, with no deduplication (spec §4.6
// "Open question" — left as caller policy, RFC 7644 does not require it).
// dst must be an object node; src is read but never retained, so the
// caller's src may be discarded afterward.
func MergeObject(dst, src *Node) *Node {
	if dst == nil || dst.Kind != KindObject || src == nil || src.Kind != KindObject {
		return dst
	}
	for _, key := range src.Keys() {
		sv, _ := src.Get(key)
		dv, exists := dst.Get(key)
		if !exists {
			dst.Set(key, Clone(sv))
			continue
		}
		switch {
		case dv.IsArray() && sv.IsArray():
			merged := NewArray(append(append([]*Node{}, dv.Items()...), cloneAll(sv.Items())...)...)
			dst.Set(key, merged)
		case dv.IsObject() && sv.IsObject():
			MergeObject(dv, sv)
		default:
			dst.Set(key, Clone(sv))
		}
	}
	return dst
}

func cloneAll(items []*Node) []*Node {
	out := make([]*Node, len(items))
	for i, it := range items {
		out[i] = Clone(it)
	}
	return out
}
