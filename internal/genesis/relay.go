package genesis

import (
	"errors"
	"fmt"

	"paralaunch/internal/identity"
)

var (
	errNoRuntime       = errors.New("genesis: chain spec has no runtime genesis config")
	errNotArray        = errors.New("genesis: expected an array")
	errInvalidOverride = errors.New("genesis: runtime genesis overrides must be a mapping")
)

// RuntimeConfig locates the runtime genesis config of a chain spec. Older
// specs nest it under genesis.runtime.runtime_genesis_config, most use
// genesis.runtime directly, and newer ones carry it as
// genesis.runtimeGenesis.patch or genesis.runtimeGenesis.config.
func RuntimeConfig(spec *Node) (*Node, error) {
	if rt := spec.Path("genesis", "runtime"); rt.IsObject() {
		if inner := rt.Get("runtime_genesis_config"); inner.IsObject() {
			return inner, nil
		}
		return rt, nil
	}
	rg := spec.Path("genesis", "runtimeGenesis")
	for _, k := range []string{"patch", "config"} {
		if n := rg.Get(k); n.IsObject() {
			return n, nil
		}
	}
	return nil, errNoRuntime
}

// ParaGenesis is the exported genesis of one parachain, registered in the
// relay chain's para registry.
type ParaGenesis struct {
	ID             int
	Head           string
	ValidationCode string
	// Parachain is written as the registry's parachain flag when set.
	Parachain *bool
}

// RelayPatch is everything the relay chain genesis is patched with.
type RelayPatch struct {
	// Validators in configuration order; position is the authority index.
	Validators []identity.RelayIdentity
	// Overrides is deep-merged into the runtime config. May be nil.
	Overrides *Node
	Paras     []ParaGenesis
}

// PatchRelay rewrites the session keys, applies overrides and registers the
// parachains of a relay chain spec in place.
func PatchRelay(spec *Node, patch RelayPatch) error {
	runtime, err := RuntimeConfig(spec)
	if err != nil {
		return err
	}

	keys, err := arrayMember(ensureModule(runtime, "session"), "keys")
	if err != nil {
		return fmt.Errorf("session.keys: %w", err)
	}
	keys.Truncate()
	for _, v := range patch.Validators {
		keys.Append(SessionKey(v))
	}

	if patch.Overrides != nil {
		if !patch.Overrides.IsObject() {
			return errInvalidOverride
		}
		overrides := patch.Overrides.Clone()
		NormalizeHRMP(overrides)
		Merge(runtime, overrides)
	}

	paras, err := arrayMember(ensureModule(runtime, "paras"), "paras")
	if err != nil {
		return fmt.Errorf("paras.paras: %w", err)
	}
	for _, p := range patch.Paras {
		paras.Append(ParaEntry(p))
	}
	return nil
}

// SessionKey builds the [stash, controller, keys] session tuple of one
// validator.
func SessionKey(v identity.RelayIdentity) *Node {
	return NewArray(
		NewString(v.Stash),
		NewString(v.Stash),
		NewObject(
			Member{"grandpa", NewString(v.Grandpa)},
			Member{"babe", NewString(v.Babe)},
			Member{"im_online", NewString(v.ImOnline)},
			Member{"parachain_validator", NewString(v.ParachainValidator)},
			Member{"authority_discovery", NewString(v.AuthorityDiscovery)},
			Member{"para_validator", NewString(v.ParaValidator)},
			Member{"para_assignment", NewString(v.ParaAssignment)},
			Member{"beefy", NewString(v.Beefy)},
		),
	)
}

// ParaEntry builds the [id, {genesis_head, validation_code, parachain}]
// registry tuple of one parachain.
func ParaEntry(p ParaGenesis) *Node {
	body := NewObject(
		Member{"genesis_head", NewString(p.Head)},
		Member{"validation_code", NewString(p.ValidationCode)},
	)
	if p.Parachain != nil {
		body.Set("parachain", NewBool(*p.Parachain))
	}
	return NewArray(NewInt(int64(p.ID)), body)
}

// arrayMember returns obj[key] as an array, creating an empty one when the
// member is missing or null.
func arrayMember(obj *Node, key string) (*Node, error) {
	v := obj.Get(key)
	switch v.Kind() {
	case Array:
		return v, nil
	case Null:
		arr := NewArray()
		obj.Set(key, arr)
		return arr, nil
	default:
		return nil, fmt.Errorf("%w, found %s", errNotArray, v.Kind())
	}
}
