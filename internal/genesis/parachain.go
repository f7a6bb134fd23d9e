package genesis

import (
	"errors"
	"fmt"
	"math/big"
)

// DefaultTokenDecimals is used when a chain spec declares no token decimals.
const DefaultTokenDecimals = 15

// endowmentUnits is the number of whole tokens credited to every endowed
// account.
const endowmentUnits = 1000

var errBalanceEntry = errors.New("genesis: malformed balances entry")

// ParachainPatch is everything a parachain genesis is patched with. Account
// values are already resolved to addresses.
type ParachainPatch struct {
	ID int
	// Sudo is set as sudo key when non-empty and the runtime has a sudo
	// module.
	Sudo string
	// Collators become the invulnerable set and the aura session keys, in
	// order.
	Collators []string
}

// PatchParachain clears the boot nodes, sets the parachain id, installs sudo
// and collators and endows every account it installed.
func PatchParachain(spec *Node, patch ParachainPatch) error {
	spec.Set("bootNodes", NewArray())

	runtime, err := RuntimeConfig(spec)
	if err != nil {
		return err
	}

	PatchModule(runtime, "parachainInfo", NewObject(
		Member{"parachainId", NewInt(int64(patch.ID))},
	))

	var endowed []string

	if patch.Sudo != "" {
		if sudo := Lookup(runtime, "sudo"); sudo.IsObject() {
			sudo.Set("key", NewString(patch.Sudo))
			endowed = append(endowed, patch.Sudo)
		}
	}

	if len(patch.Collators) > 0 {
		invulnerables := NewArray()
		keys := NewArray()
		for _, addr := range patch.Collators {
			invulnerables.Append(NewString(addr))
			keys.Append(NewArray(
				NewString(addr),
				NewString(addr),
				NewObject(Member{"aura", NewString(addr)}),
			))
		}
		PatchModule(runtime, "collatorSelection", NewObject(Member{"invulnerables", invulnerables}))
		PatchModule(runtime, "session", NewObject(Member{"keys", keys}))
		endowed = append(endowed, patch.Collators...)
	}

	if len(endowed) == 0 {
		return nil
	}
	return endow(runtime, endowed, Endowment(TokenDecimals(spec)))
}

// TokenDecimals reads properties.tokenDecimals, which is either a number or
// a list whose first entry is the native token.
func TokenDecimals(spec *Node) int {
	td := spec.Path("properties", "tokenDecimals")
	if td.IsArray() {
		td = td.Index(0)
	}
	if v, ok := td.BigInt(); ok && v.IsInt64() && v.Sign() >= 0 {
		return int(v.Int64())
	}
	return DefaultTokenDecimals
}

// Endowment returns 1000 tokens expressed in the smallest unit.
func Endowment(decimals int) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return scale.Mul(scale, big.NewInt(endowmentUnits))
}

// endow adds amount on top of the balance of every endowed address. Existing
// entries keep their position; the last entry wins when an address appears
// twice. An address endowed twice is credited twice.
func endow(runtime *Node, endowed []string, amount *big.Int) error {
	var (
		order    []string
		balances = make(map[string]*big.Int)
	)
	put := func(addr string, v *big.Int) {
		if _, ok := balances[addr]; !ok {
			order = append(order, addr)
		}
		balances[addr] = v
	}

	existing, err := arrayMember(ensureModule(runtime, "balances"), "balances")
	if err != nil {
		return fmt.Errorf("balances.balances: %w", err)
	}
	for i, entry := range existing.Items() {
		addr, ok := entry.Index(0).Str()
		if !ok || entry.Len() < 2 {
			return fmt.Errorf("%w at index %d", errBalanceEntry, i)
		}
		v, ok := entry.Index(1).BigInt()
		if !ok {
			return fmt.Errorf("%w at index %d: amount is not an integer", errBalanceEntry, i)
		}
		put(addr, v)
	}

	for _, addr := range endowed {
		prev, ok := balances[addr]
		if !ok {
			prev = new(big.Int)
		}
		put(addr, new(big.Int).Add(prev, amount))
	}

	list := NewArray()
	for _, addr := range order {
		list.Append(NewArray(NewString(addr), NewBigInt(balances[addr])))
	}
	PatchModule(runtime, "balances", NewObject(Member{"balances", list}))
	return nil
}
