// Package genesis patches chain-spec documents produced by a node binary.
//
// A chain spec is treated as an opaque tree rather than a typed schema: the
// runtime sections move between releases and pallet names pick up prefixes
// (module, frame, pallet, orml) depending on the chain spec version. Node
// keeps the key order and the literal text of numbers so that balances and
// ids above 2^53 survive a read-modify-write cycle untouched.
package genesis

import (
	"math/big"
	"strconv"
)

// Kind is the JSON type of a Node.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value *Node
}

// Node is a JSON value. Objects keep their members in insertion order.
// Number nodes hold the literal as it appeared in the source document.
type Node struct {
	kind    Kind
	boolean bool
	text    string
	items   []*Node
	members []Member
}

func NewNull() *Node { return &Node{kind: Null} }

func NewBool(b bool) *Node { return &Node{kind: Bool, boolean: b} }

func NewString(s string) *Node { return &Node{kind: String, text: s} }

func NewInt(i int64) *Node { return &Node{kind: Number, text: strconv.FormatInt(i, 10)} }

func NewBigInt(i *big.Int) *Node { return &Node{kind: Number, text: i.String()} }

// NewNumber wraps a JSON number literal. The caller guarantees lit is a
// valid literal.
func NewNumber(lit string) *Node { return &Node{kind: Number, text: lit} }

func NewArray(items ...*Node) *Node {
	return &Node{kind: Array, items: append([]*Node{}, items...)}
}

func NewObject(members ...Member) *Node {
	obj := &Node{kind: Object}
	for _, m := range members {
		obj.Set(m.Key, m.Value)
	}
	return obj
}

// Kind returns the node's JSON type. A nil node is reported as Null.
func (n *Node) Kind() Kind {
	if n == nil {
		return Null
	}
	return n.kind
}

func (n *Node) IsObject() bool { return n.Kind() == Object }

func (n *Node) IsArray() bool { return n.Kind() == Array }

// Str returns the value of a string node.
func (n *Node) Str() (string, bool) {
	if n.Kind() != String {
		return "", false
	}
	return n.text, true
}

// Literal returns the source text of a number node.
func (n *Node) Literal() (string, bool) {
	if n.Kind() != Number {
		return "", false
	}
	return n.text, true
}

// BoolValue returns the value of a bool node.
func (n *Node) BoolValue() (bool, bool) {
	if n.Kind() != Bool {
		return false, false
	}
	return n.boolean, true
}

// BigInt interprets a number node, or a string holding a decimal or 0x
// integer, as an arbitrary precision integer.
func (n *Node) BigInt() (*big.Int, bool) {
	switch n.Kind() {
	case Number:
		return integerLiteral(n.text)
	case String:
		v, ok := new(big.Int).SetString(n.text, 0)
		return v, ok
	default:
		return nil, false
	}
}

// Int returns the value of an integer number node that fits in an int64.
func (n *Node) Int() (int64, bool) {
	v, ok := n.BigInt()
	if !ok || !v.IsInt64() || n.Kind() != Number {
		return 0, false
	}
	return v.Int64(), true
}

// Len returns the number of array items or object members.
func (n *Node) Len() int {
	switch n.Kind() {
	case Array:
		return len(n.items)
	case Object:
		return len(n.members)
	default:
		return 0
	}
}

// Items returns the items of an array node.
func (n *Node) Items() []*Node {
	if n.Kind() != Array {
		return nil
	}
	return n.items
}

// Index returns the i-th array item or nil.
func (n *Node) Index(i int) *Node {
	if n.Kind() != Array || i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

// Append adds items to an array node.
func (n *Node) Append(items ...*Node) {
	if n.Kind() != Array {
		return
	}
	n.items = append(n.items, items...)
}

// Truncate drops every item of an array node, keeping the node itself so
// that other references observe the change.
func (n *Node) Truncate() {
	if n.Kind() != Array {
		return
	}
	n.items = n.items[:0]
}

// Members returns the members of an object node in order.
func (n *Node) Members() []Member {
	if n.Kind() != Object {
		return nil
	}
	return n.members
}

// Keys returns the member keys of an object node in order.
func (n *Node) Keys() []string {
	if n.Kind() != Object {
		return nil
	}
	keys := make([]string, len(n.members))
	for i, m := range n.members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the value stored under key or nil.
func (n *Node) Get(key string) *Node {
	if n.Kind() != Object {
		return nil
	}
	for _, m := range n.members {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Has reports whether an object node has a member named key.
func (n *Node) Has(key string) bool {
	if n.Kind() != Object {
		return false
	}
	for _, m := range n.members {
		if m.Key == key {
			return true
		}
	}
	return false
}

// Set replaces the value under key in place, or appends a new member.
func (n *Node) Set(key string, value *Node) {
	if n.Kind() != Object {
		return
	}
	if value == nil {
		value = NewNull()
	}
	for i, m := range n.members {
		if m.Key == key {
			n.members[i].Value = value
			return
		}
	}
	n.members = append(n.members, Member{Key: key, Value: value})
}

// Path walks nested objects by key and returns nil as soon as a step is
// missing.
func (n *Node) Path(keys ...string) *Node {
	cur := n
	for _, k := range keys {
		cur = cur.Get(k)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{kind: n.kind, boolean: n.boolean, text: n.text}
	if n.items != nil {
		c.items = make([]*Node, len(n.items))
		for i, it := range n.items {
			c.items[i] = it.Clone()
		}
	}
	if n.members != nil {
		c.members = make([]Member, len(n.members))
		for i, m := range n.members {
			c.members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return c
}
