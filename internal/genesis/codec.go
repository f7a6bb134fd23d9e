package genesis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var (
	errInvalidValue  = errors.New("genesis: invalid JSON value")
	errInvalidNumber = errors.New("genesis: invalid JSON number")
	errTrailingData  = errors.New("genesis: trailing data after document")

	streamAPI = jsoniter.Config{EscapeHTML: false}.Froze()

	// numberLiteral is the JSON number grammar: sign, integer part, fraction
	// and exponent.
	numberLiteral = regexp.MustCompile(`^(-?)(0|[1-9][0-9]*)(?:\.([0-9]+))?(?:[eE]([+-]?[0-9]+))?$`)
)

// maxExpandedDigits bounds the digits an exponent literal may expand to.
// Larger literals are written back as they were read.
const maxExpandedDigits = 4096

// Parse decodes a JSON document into a Node tree, keeping object key order
// and number literals.
func Parse(data []byte) (*Node, error) {
	p := &parser{iter: jsoniter.ParseBytes(jsoniter.ConfigDefault, data)}
	root := p.read()
	if p.err != nil {
		return nil, p.err
	}
	if err := p.iter.Error; err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	// Only whitespace may follow the document: the iterator reports EOF
	// after skipping it.
	if p.iter.WhatIsNext() != jsoniter.InvalidValue || !errors.Is(p.iter.Error, io.EOF) {
		return nil, errTrailingData
	}
	return root, nil
}

type parser struct {
	iter *jsoniter.Iterator
	err  error
}

func (p *parser) read() *Node {
	if p.err != nil {
		return nil
	}
	it := p.iter
	switch it.WhatIsNext() {
	case jsoniter.ObjectValue:
		obj := NewObject()
		it.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
			v := p.read()
			if v == nil {
				return false
			}
			obj.Set(field, v)
			return it.Error == nil
		})
		return p.check(obj)
	case jsoniter.ArrayValue:
		arr := NewArray()
		it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			v := p.read()
			if v == nil {
				return false
			}
			arr.Append(v)
			return it.Error == nil
		})
		return p.check(arr)
	case jsoniter.StringValue:
		return p.check(NewString(it.ReadString()))
	case jsoniter.NumberValue:
		lit := string(it.ReadNumber())
		if n := p.check(NewNumber(lit)); n == nil || numberLiteral.MatchString(lit) {
			return n
		}
		p.err = fmt.Errorf("%w: %q", errInvalidNumber, lit)
		return nil
	case jsoniter.BoolValue:
		return p.check(NewBool(it.ReadBool()))
	case jsoniter.NilValue:
		it.ReadNil()
		return p.check(NewNull())
	default:
		p.err = errInvalidValue
		return nil
	}
}

func (p *parser) check(n *Node) *Node {
	if p.err != nil {
		return nil
	}
	if err := p.iter.Error; err != nil && !errors.Is(err, io.EOF) {
		p.err = fmt.Errorf("genesis: %w", err)
		return nil
	}
	return n
}

// Marshal encodes n as JSON indented by two spaces. Integral numbers are
// written as plain decimal literals: exponent forms such as 1e+21 are
// expanded, since node binaries reject them for integer fields.
func Marshal(n *Node) ([]byte, error) {
	compact, err := MarshalCompact(n)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("genesis: indent: %w", err)
	}
	return out.Bytes(), nil
}

// MarshalCompact encodes n as JSON without insignificant whitespace.
func MarshalCompact(n *Node) ([]byte, error) {
	stream := streamAPI.BorrowStream(nil)
	defer streamAPI.ReturnStream(stream)

	writeNode(stream, n)
	if stream.Error != nil {
		return nil, fmt.Errorf("genesis: encode: %w", stream.Error)
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

// MarshalJSON lets a Node be embedded in values encoded with encoding/json.
func (n *Node) MarshalJSON() ([]byte, error) {
	return MarshalCompact(n)
}

func writeNode(s *jsoniter.Stream, n *Node) {
	switch n.Kind() {
	case Null:
		s.WriteNil()
	case Bool:
		s.WriteBool(n.boolean)
	case Number:
		s.WriteRaw(canonicalNumber(n.text))
	case String:
		s.WriteString(n.text)
	case Array:
		s.WriteArrayStart()
		for i, it := range n.items {
			if i > 0 {
				s.WriteMore()
			}
			writeNode(s, it)
		}
		s.WriteArrayEnd()
	case Object:
		s.WriteObjectStart()
		for i, m := range n.members {
			if i > 0 {
				s.WriteMore()
			}
			s.WriteObjectField(m.Key)
			writeNode(s, m.Value)
		}
		s.WriteObjectEnd()
	}
}

// canonicalNumber rewrites integral literals as full decimal digits and
// leaves fractional literals alone.
func canonicalNumber(lit string) string {
	if v, ok := integerLiteral(lit); ok {
		return v.String()
	}
	return lit
}

// integerLiteral reports the exact value of an integral literal. Fractions
// and exponent forms expanding past maxExpandedDigits are not integral.
func integerLiteral(lit string) (*big.Int, bool) {
	if v, ok := new(big.Int).SetString(lit, 10); ok {
		return v, true
	}
	m := numberLiteral.FindStringSubmatch(lit)
	if m == nil {
		return nil, false
	}
	exp := 0
	if m[4] != "" {
		e, err := strconv.Atoi(m[4])
		if err != nil || e > maxExpandedDigits || e < -maxExpandedDigits {
			return nil, false
		}
		exp = e
	}

	digits := strings.TrimLeft(m[2]+m[3], "0")
	if digits == "" {
		return new(big.Int), true
	}
	shift := exp - len(m[3])
	switch {
	case shift < 0:
		if len(digits)-len(strings.TrimRight(digits, "0")) < -shift {
			return nil, false
		}
		digits = digits[:len(digits)+shift]
	case len(digits)+shift > maxExpandedDigits:
		return nil, false
	default:
		digits += strings.Repeat("0", shift)
	}

	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, false
	}
	if m[1] == "-" {
		v.Neg(v)
	}
	return v, true
}

// FromYAML converts a decoded YAML tree into a Node. Mapping order is kept
// and integer scalars are converted without passing through float64.
// A zero yaml.Node yields nil.
func FromYAML(y *yaml.Node) (*Node, error) {
	if y == nil || y.Kind == 0 {
		return nil, nil
	}
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return NewNull(), nil
		}
		return FromYAML(y.Content[0])
	case yaml.AliasNode:
		return FromYAML(y.Alias)
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(y.Content); i += 2 {
			v, err := FromYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(y.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := NewArray()
		for _, c := range y.Content {
			v, err := FromYAML(c)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(y)
	default:
		return nil, fmt.Errorf("genesis: unsupported yaml node kind %d at line %d", y.Kind, y.Line)
	}
}

func yamlScalar(y *yaml.Node) (*Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return NewNull(), nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, fmt.Errorf("genesis: line %d: %w", y.Line, err)
		}
		return NewBool(b), nil
	case "!!int":
		v, ok := new(big.Int).SetString(strings.ReplaceAll(y.Value, "_", ""), 0)
		if !ok {
			return nil, fmt.Errorf("genesis: line %d: invalid integer %q", y.Line, y.Value)
		}
		return NewBigInt(v), nil
	case "!!float":
		// Integers beyond 64 bits resolve as floats; keep their digits.
		if v, ok := new(big.Int).SetString(strings.ReplaceAll(y.Value, "_", ""), 10); ok {
			return NewBigInt(v), nil
		}
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, fmt.Errorf("genesis: line %d: %w", y.Line, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("genesis: line %d: %q is not representable in JSON", y.Line, y.Value)
		}
		if f == math.Trunc(f) {
			v, _ := big.NewFloat(f).Int(nil)
			return NewBigInt(v), nil
		}
		return NewNumber(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return NewString(y.Value), nil
	}
}
