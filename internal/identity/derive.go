// Package identity derives the deterministic development identities used in
// generated genesis files: SS58 addresses for operator supplied names and the
// per-validator session key bundles of relay chain nodes.
//
// Every function here is pure. The same name and scheme always produce the
// same address, so genesis files can be reproduced from configuration alone.
package identity

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	subkey "github.com/vedhavyas/go-subkey/v2"
	"github.com/vedhavyas/go-subkey/v2/ecdsa"
	"github.com/vedhavyas/go-subkey/v2/ed25519"
	"github.com/vedhavyas/go-subkey/v2/sr25519"
)

// Scheme selects the signature scheme a key is derived under.
type Scheme int

const (
	Sr25519 Scheme = iota
	Ed25519
	Ecdsa
)

func (s Scheme) String() string {
	switch s {
	case Sr25519:
		return "sr25519"
	case Ed25519:
		return "ed25519"
	case Ecdsa:
		return "ecdsa"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

const stashJunction = "stash"

var (
	errEmptyName     = errors.New("identity: empty name")
	errUnknownScheme = errors.New("identity: unknown scheme")
)

// RelayIdentity is the set of addresses registered for one relay chain
// validator. Controller equals Stash and every sr25519 session role shares
// the Babe address.
type RelayIdentity struct {
	Stash              string
	Grandpa            string
	Babe               string
	ImOnline           string
	ParachainValidator string
	AuthorityDiscovery string
	ParaValidator      string
	ParaAssignment     string
	Beefy              string
}

// URI returns the canonical derivation path for a human readable name.
func URI(name string, junctions ...string) string {
	var b strings.Builder
	b.WriteString("//")
	b.WriteString(StartCase(name))
	for _, j := range junctions {
		b.WriteString("//")
		b.WriteString(j)
	}
	return b.String()
}

// PublicKey derives the public key for a secret URI under scheme.
// ECDSA keys are returned in their 33-byte compressed form.
func PublicKey(uri string, scheme Scheme) ([]byte, error) {
	var s subkey.Scheme
	switch scheme {
	case Sr25519:
		s = sr25519.Scheme{}
	case Ed25519:
		s = ed25519.Scheme{}
	case Ecdsa:
		s = ecdsa.Scheme{}
	default:
		return nil, fmt.Errorf("%w: %v", errUnknownScheme, scheme)
	}
	kp, err := subkey.DeriveKeyPair(s, uri)
	if err != nil {
		return nil, fmt.Errorf("derive %s key: %w", scheme, err)
	}
	return kp.Public(), nil
}

// Pinned reports whether val is already an address: either an SS58 string
// with a valid checksum or a 0x-prefixed hex public key. The returned
// address is re-encoded with the generic prefix.
func Pinned(val string) (string, bool) {
	if rest, ok := strings.CutPrefix(val, "0x"); ok {
		raw, err := hex.DecodeString(rest)
		if err != nil {
			return "", false
		}
		addr, err := EncodeSS58(raw, GenericPrefix)
		if err != nil {
			return "", false
		}
		return addr, true
	}
	_, pub, err := DecodeSS58(val)
	if err != nil {
		return "", false
	}
	addr, err := EncodeSS58(pub, GenericPrefix)
	if err != nil {
		return "", false
	}
	return addr, true
}

// DeriveAddress turns an operator supplied value into an address. Values that
// already decode as an address are returned re-encoded and no key is derived.
// Anything else is treated as a name and derived under scheme at //<Name>.
func DeriveAddress(val string, scheme Scheme) (string, error) {
	if addr, ok := Pinned(val); ok {
		return addr, nil
	}
	return NamedAddress(val, scheme)
}

// NamedAddress derives the address of //<Name> under scheme, ignoring the
// pinned-address form.
func NamedAddress(name string, scheme Scheme, junctions ...string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errEmptyName
	}
	pub, err := PublicKey(URI(name, junctions...), scheme)
	if err != nil {
		return "", err
	}
	return EncodeSS58(pub, GenericPrefix)
}

// StashAddress derives the sr25519 stash address //<Name>//stash.
func StashAddress(name string) (string, error) {
	return NamedAddress(name, Sr25519, stashJunction)
}

// Relay derives the full validator identity for a relay chain node name.
func Relay(name string) (RelayIdentity, error) {
	stash, err := StashAddress(name)
	if err != nil {
		return RelayIdentity{}, err
	}
	sr, err := NamedAddress(name, Sr25519)
	if err != nil {
		return RelayIdentity{}, err
	}
	ed, err := NamedAddress(name, Ed25519)
	if err != nil {
		return RelayIdentity{}, err
	}
	beefy, err := NamedAddress(name, Ecdsa)
	if err != nil {
		return RelayIdentity{}, err
	}
	return RelayIdentity{
		Stash:              stash,
		Grandpa:            ed,
		Babe:               sr,
		ImOnline:           sr,
		ParachainValidator: sr,
		AuthorityDiscovery: sr,
		ParaValidator:      sr,
		ParaAssignment:     sr,
		Beefy:              beefy,
	}, nil
}

// NodeKey is the libp2p network identity of a node: the secret key passed
// with --node-key and the peer id other nodes dial it by.
type NodeKey struct {
	Key    string
	PeerID string
}
