package genesis

import (
	"strings"
)

// ModulePrefixes are the historical prefixes a runtime module key may carry,
// in the order they are tried after the bare key.
var ModulePrefixes = []string{"module", "frame", "pallet", "orml"}

// ResolveKey finds the member of obj that holds module key. The bare key is
// tried first, then each prefixed variant; all comparisons ignore case. When
// nothing matches, key itself is returned with found == false so callers
// default to writing the unprefixed name.
func ResolveKey(obj *Node, key string) (resolved string, found bool) {
	candidates := make([]string, 0, len(ModulePrefixes)+1)
	candidates = append(candidates, key)
	for _, p := range ModulePrefixes {
		candidates = append(candidates, p+key)
	}

	keys := obj.Keys()
	for _, c := range candidates {
		for _, k := range keys {
			if strings.EqualFold(k, c) {
				return k, true
			}
		}
	}
	return key, false
}

// Lookup returns the module stored under key or one of its prefixed variants.
func Lookup(obj *Node, key string) *Node {
	resolved, ok := ResolveKey(obj, key)
	if !ok {
		return nil
	}
	return obj.Get(resolved)
}

// PatchModule shallow-merges the members of fields into the module stored
// under key, writing back to whichever variant of the key already exists.
// A module that is missing, or is not an object, is replaced by a copy of
// fields under the bare key name.
func PatchModule(obj *Node, key string, fields *Node) {
	if !obj.IsObject() {
		return
	}
	resolved, _ := ResolveKey(obj, key)
	existing := obj.Get(resolved)
	if !existing.IsObject() {
		existing = NewObject()
		obj.Set(resolved, existing)
	}
	for _, m := range fields.Members() {
		existing.Set(m.Key, m.Value)
	}
}

// ensureModule returns the object stored under key, creating an empty one
// under the bare key name when no variant exists.
func ensureModule(obj *Node, key string) *Node {
	resolved, _ := ResolveKey(obj, key)
	existing := obj.Get(resolved)
	if !existing.IsObject() {
		existing = NewObject()
		obj.Set(resolved, existing)
	}
	return existing
}
