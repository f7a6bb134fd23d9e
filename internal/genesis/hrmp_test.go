package genesis_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"paralaunch/internal/genesis"
)

func TestNormalizeHRMPChannel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"object", `{"recipient":2001,"sender":2000,"maxMessageSize":1024,"maxCapacity":8}`, `[2000,2001,8,1024]`},
		{"tuple", `[2000,2001,8,1024]`, `[2000,2001,8,1024]`},
		{"missing field", `{"sender":2000,"recipient":2001,"maxCapacity":8}`, `[2000,2001,8,null]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := genesis.NormalizeHRMPChannel(mustParse(t, tt.in))
			require.Equal(t, tt.want, compact(t, once))

			twice := genesis.NormalizeHRMPChannel(once)
			require.Equal(t, compact(t, once), compact(t, twice))
		})
	}
}

func TestNormalizeHRMP(t *testing.T) {
	overrides := mustParse(t, `{"hrmp":{"preopenHrmpChannels":[{"sender":1,"recipient":2,"maxCapacity":3,"maxMessageSize":4},[2,1,3,4]]}}`)
	genesis.NormalizeHRMP(overrides)
	require.Equal(t, `{"hrmp":{"preopenHrmpChannels":[[1,2,3,4],[2,1,3,4]]}}`, compact(t, overrides))

	untouched := mustParse(t, `{"configuration":{}}`)
	genesis.NormalizeHRMP(untouched)
	require.Equal(t, `{"configuration":{}}`, compact(t, untouched))
}
