package genesis

// Merge deep-merges src into dst and returns the merged value.
//
// Objects are merged member by member and arrays item by item, recursing
// into nested containers. A scalar in src replaces the value in dst. When
// src holds a container and dst holds a different kind, dst is replaced by a
// copy of src. Members of dst that src does not mention are kept, and so
// are trailing array items beyond the length of src.
func Merge(dst, src *Node) *Node {
	if src == nil {
		return dst
	}
	switch src.Kind() {
	case Object:
		if !dst.IsObject() {
			return src.Clone()
		}
		for _, m := range src.members {
			dst.Set(m.Key, Merge(dst.Get(m.Key), m.Value))
		}
		return dst
	case Array:
		if !dst.IsArray() {
			return src.Clone()
		}
		for i, it := range src.items {
			if i < len(dst.items) {
				dst.items[i] = Merge(dst.items[i], it)
			} else {
				dst.items = append(dst.items, it.Clone())
			}
		}
		return dst
	default:
		return src.Clone()
	}
}
