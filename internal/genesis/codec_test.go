package genesis_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"paralaunch/internal/genesis"
)

func TestParseKeepsOrderAndLiterals(t *testing.T) {
	in := `{"zeta":1,"alpha":{"b":true,"a":null},"big":340282366920938463463374607431768211455,"list":[1,"two",[]]}`
	n := mustParse(t, in)

	require.Equal(t, []string{"zeta", "alpha", "big", "list"}, n.Keys())
	require.Equal(t, []string{"b", "a"}, n.Get("alpha").Keys())

	lit, ok := n.Get("big").Literal()
	require.True(t, ok)
	require.Equal(t, "340282366920938463463374607431768211455", lit)

	require.Equal(t, in, compact(t, n))
}

func TestMarshalExpandsExponents(t *testing.T) {
	n := mustParse(t, `{"a":1e+21,"b":1.5E3,"c":0.25,"d":-0,"e":[2e2]}`)
	require.Equal(t, `{"a":1000000000000000000000,"b":1500,"c":0.25,"d":0,"e":[200]}`, compact(t, n))
}

func TestMarshalExpandsLargeExponentsExactly(t *testing.T) {
	n := mustParse(t, `[1e1500,1.2345678901234567890123e22,-2.50e1,12300e-2,1e5000,1.5e-3]`)

	want := "[1" + strings.Repeat("0", 1500) + ",12345678901234567890123,-25,123,1e5000,1.5e-3]"
	require.Equal(t, want, compact(t, n))

	v, ok := n.Index(0).BigInt()
	require.True(t, ok)
	require.Equal(t, 1501, len(v.String()))

	_, ok = n.Index(4).BigInt()
	require.False(t, ok)
}

func TestMarshalIndent(t *testing.T) {
	n := mustParse(t, `{"a":[1,2],"b":{},"c":[],"d":"x"}`)
	out, err := genesis.Marshal(n)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {},\n  \"c\": [],\n  \"d\": \"x\"\n}", string(out))
}

func TestMarshalIsDeterministic(t *testing.T) {
	spec := loadSpec(t, "relay.txtar", "nested.json")
	a, err := genesis.Marshal(spec)
	require.NoError(t, err)

	again, err := genesis.Parse(a)
	require.NoError(t, err)
	b, err := genesis.Marshal(again)
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))
}

func TestMarshalEscapesStrings(t *testing.T) {
	n := genesis.NewObject(genesis.Member{Key: "k\"ey", Value: genesis.NewString("<a>\n\"b\"")})
	require.Equal(t, `{"k\"ey":"<a>\n\"b\""}`, compact(t, n))
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{``, `{"a" 1}`, `{"a":}`, `[1,}`, `{"a":1} x`, `{} {}`, `nope`, `01`, `{"a":01}`, `[-]`, `[1.]`, `[1e]`} {
		_, err := genesis.Parse([]byte(in))
		require.Error(t, err, "input %q", in)
	}
}

func TestFromYAML(t *testing.T) {
	src := `
hrmp:
  preopenHrmpChannels:
    - sender: 2000
      recipient: 2001
      maxCapacity: 8
      maxMessageSize: 102400
configuration:
  config:
    validation_upgrade_delay: 10
    huge: 1234567890123456789012345
    ratio: 0.5
    rounded: 2.0
    enabled: true
    label: "x"
    nothing: ~
`
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))

	n, err := genesis.FromYAML(&doc)
	require.NoError(t, err)
	require.Equal(t, []string{"hrmp", "configuration"}, n.Keys())
	require.Equal(t,
		`{"validation_upgrade_delay":10,"huge":1234567890123456789012345,"ratio":0.5,"rounded":2,"enabled":true,"label":"x","nothing":null}`,
		compact(t, n.Path("configuration", "config")),
	)

	empty, err := genesis.FromYAML(&yaml.Node{})
	require.NoError(t, err)
	require.Nil(t, empty)
}

func TestBigIntAccessor(t *testing.T) {
	v, ok := genesis.NewString("0x10").BigInt()
	require.True(t, ok)
	require.Equal(t, int64(16), v.Int64())

	_, ok = genesis.NewNumber("1.5").BigInt()
	require.False(t, ok)

	i, ok := genesis.NewInt(2000).Int()
	require.True(t, ok)
	require.Equal(t, int64(2000), i)
}
