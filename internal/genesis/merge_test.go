package genesis_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"paralaunch/internal/genesis"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		dst  string
		src  string
		want string
	}{
		{"scalar override", `{"a":1,"b":2}`, `{"b":3}`, `{"a":1,"b":3}`},
		{"nested", `{"a":{"x":1,"y":2}}`, `{"a":{"y":5,"z":6}}`, `{"a":{"x":1,"y":5,"z":6}}`},
		{"arrays by index", `{"a":[1,2,3]}`, `{"a":[9]}`, `{"a":[9,2,3]}`},
		{"array grows", `{"a":[1]}`, `{"a":[1,2]}`, `{"a":[1,2]}`},
		{"array of objects", `{"a":[{"x":1,"y":1}]}`, `{"a":[{"y":2}]}`, `{"a":[{"x":1,"y":2}]}`},
		{"kind change", `{"a":{"x":1}}`, `{"a":[1]}`, `{"a":[1]}`},
		{"null assigned", `{"a":1}`, `{"a":null}`, `{"a":null}`},
		{"new key appended", `{"a":1}`, `{"b":{"c":[]}}`, `{"a":1,"b":{"c":[]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := mustParse(t, tt.dst)
			got := genesis.Merge(dst, mustParse(t, tt.src))
			require.Equal(t, tt.want, compact(t, got))
		})
	}
}

func TestMergeDoesNotAliasSource(t *testing.T) {
	src := mustParse(t, `{"b":{"c":1}}`)
	dst := genesis.Merge(mustParse(t, `{}`), src)

	dst.Get("b").Set("c", genesis.NewInt(2))
	require.Equal(t, `{"b":{"c":1}}`, compact(t, src))
}
