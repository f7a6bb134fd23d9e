package identity

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// GenericPrefix is the SS58 network prefix used for every address this
// package emits.
const GenericPrefix uint16 = 42

var (
	ss58Pre = []byte("SS58PRE")

	errInvalidKeyLength = errors.New("ss58: unsupported public key length")
	errInvalidPrefix    = errors.New("ss58: invalid network prefix")
	errInvalidChecksum  = errors.New("ss58: invalid checksum")
	errTooShort         = errors.New("ss58: address too short")
)

// EncodeSS58 encodes a public key (or account id) with the given network
// prefix. Keys of 32 and 33 bytes carry a two-byte checksum, the short
// lengths 1, 2, 4 and 8 a one-byte checksum.
func EncodeSS58(pub []byte, prefix uint16) (string, error) {
	switch len(pub) {
	case 1, 2, 4, 8, 32, 33:
	default:
		return "", fmt.Errorf("%w: %d", errInvalidKeyLength, len(pub))
	}
	if prefix >= 16384 || prefix == 46 || prefix == 47 {
		return "", fmt.Errorf("%w: %d", errInvalidPrefix, prefix)
	}

	var payload []byte
	if prefix < 64 {
		payload = append(payload, byte(prefix))
	} else {
		payload = append(payload,
			byte((prefix&0b0000_0000_1111_1100)>>2)|0b0100_0000,
			byte(prefix>>8)|byte((prefix&0b0000_0000_0000_0011)<<6),
		)
	}
	payload = append(payload, pub...)

	sum := ss58Hash(payload)
	payload = append(payload, sum[:checksumLength(len(pub))]...)
	return base58.Encode(payload), nil
}

// DecodeSS58 decodes an SS58 address and verifies its checksum.
func DecodeSS58(addr string) (uint16, []byte, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return 0, nil, fmt.Errorf("ss58: %w", err)
	}
	if len(raw) < 2 {
		return 0, nil, errTooShort
	}
	if raw[0]&0b1000_0000 != 0 || raw[0] == 46 || raw[0] == 47 {
		return 0, nil, errInvalidPrefix
	}

	prefixLen := 1
	prefix := uint16(raw[0])
	if raw[0]&0b0100_0000 != 0 {
		prefixLen = 2
		prefix = uint16(raw[0]&0b0011_1111)<<2 | uint16(raw[1]>>6) | uint16(raw[1]&0b0011_1111)<<8
	}

	csLen := 1
	if len(raw) == 34+prefixLen || len(raw) == 35+prefixLen {
		csLen = 2
	}
	if len(raw) <= prefixLen+csLen {
		return 0, nil, errTooShort
	}

	body := raw[:len(raw)-csLen]
	sum := ss58Hash(body)
	if !bytes.Equal(sum[:csLen], raw[len(raw)-csLen:]) {
		return 0, nil, errInvalidChecksum
	}

	pub := make([]byte, len(body)-prefixLen)
	copy(pub, body[prefixLen:])
	return prefix, pub, nil
}

func checksumLength(keyLen int) int {
	if keyLen == 32 || keyLen == 33 {
		return 2
	}
	return 1
}

func ss58Hash(data []byte) [blake2b.Size]byte {
	buf := make([]byte, 0, len(ss58Pre)+len(data))
	buf = append(buf, ss58Pre...)
	buf = append(buf, data...)
	return blake2b.Sum512(buf)
}
