package genesis_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"paralaunch/internal/genesis"
)

func TestResolveKey(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		key   string
		want  string
		found bool
	}{
		{"bare", `{"balances":{}}`, "balances", "balances", true},
		{"prefixed", `{"palletBalances":{}}`, "balances", "palletBalances", true},
		{"case insensitive", `{"PalletCollatorSelection":{}}`, "collatorSelection", "PalletCollatorSelection", true},
		{"module prefix", `{"moduleSession":{}}`, "session", "moduleSession", true},
		{"orml prefix", `{"ormlTokens":{}}`, "tokens", "ormlTokens", true},
		{"bare wins over prefixed", `{"palletBalances":{},"balances":{}}`, "balances", "balances", true},
		{"prefix order", `{"ormlBalances":{},"frameBalances":{}}`, "balances", "frameBalances", true},
		{"unknown prefix ignored", `{"xBalances":{}}`, "balances", "balances", false},
		{"missing", `{}`, "sudo", "sudo", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := genesis.ResolveKey(mustParse(t, tt.doc), tt.key)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.found, found)
		})
	}
}

func TestPatchModuleUpdatesPrefixedKeyInPlace(t *testing.T) {
	runtime := mustParse(t, `{"system":{},"palletBalances":{"balances":[["a",1]],"other":true}}`)

	genesis.PatchModule(runtime, "balances", genesis.NewObject(
		genesis.Member{Key: "balances", Value: genesis.NewArray()},
	))

	require.False(t, runtime.Has("balances"))
	require.Equal(t, `{"system":{},"palletBalances":{"balances":[],"other":true}}`, compact(t, runtime))
}

func TestPatchModuleCreatesBareKey(t *testing.T) {
	runtime := mustParse(t, `{"system":{}}`)
	genesis.PatchModule(runtime, "collatorSelection", genesis.NewObject(
		genesis.Member{Key: "invulnerables", Value: genesis.NewArray(genesis.NewString("a"))},
	))
	require.Equal(t, `{"system":{},"collatorSelection":{"invulnerables":["a"]}}`, compact(t, runtime))
}

func TestLookup(t *testing.T) {
	runtime := mustParse(t, `{"FrameSudo":{"key":"x"}}`)
	require.Equal(t, `{"key":"x"}`, compact(t, genesis.Lookup(runtime, "sudo")))
	require.Nil(t, genesis.Lookup(runtime, "balances"))
}
