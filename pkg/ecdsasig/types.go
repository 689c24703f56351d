package ecdsasig

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Message is a 32-byte digest. It is produced upstream and never rehashed here.
type Message [MessageLength]byte

// PrivKey is a 32-byte secp256k1 secret scalar.
type PrivKey [PrivKeyLength]byte

// PubKey is an uncompressed secp256k1 point x || y without the 0x04 tag.
type PubKey [PubKeyLength]byte

// Address identifies a signer. It is derived from a PubKey by an AddressFunc.
type Address = common.Address

// HashMessage returns the Keccak-256 digest of message.
func HashMessage(message []byte) Message {
	var m Message
	copy(m[:], crypto.Keccak256(message))
	return m
}

// MessageFromHex decodes a 32-byte hex digest, with or without a 0x prefix.
func MessageFromHex(s string) (Message, error) {
	var m Message
	b, err := decodeFixedHex(s, MessageLength)
	if err != nil {
		return m, fmt.Errorf("failed to parse message digest: %w", err)
	}
	copy(m[:], b)
	return m, nil
}

// String returns the 0x-prefixed hex digest.
func (m Message) String() string {
	return hexutil.Encode(m[:])
}

// PrivKeyFromHex decodes a 32-byte hex secret, with or without a 0x prefix.
// Range validation happens when the key is used.
func PrivKeyFromHex(s string) (PrivKey, error) {
	var k PrivKey
	b, err := decodeFixedHex(s, PrivKeyLength)
	if err != nil {
		return k, fmt.Errorf("failed to parse private key: %w", err)
	}
	copy(k[:], b)
	return k, nil
}

// String never reveals key material.
func (k PrivKey) String() string {
	return "PrivKey(redacted)"
}

// GoString never reveals key material.
func (k PrivKey) GoString() string {
	return k.String()
}

// Format writes the redacted placeholder for every verb.
func (k PrivKey) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, k.String())
}

// PubKeyFromHex decodes a 64-byte hex public key. A 65-byte input carrying the
// 0x04 uncompressed tag is accepted and the tag dropped.
func PubKeyFromHex(s string) (PubKey, error) {
	var p PubKey
	b, err := hexutil.Decode(ensure0x(s))
	if err != nil {
		return p, fmt.Errorf("failed to parse public key: %w", err)
	}
	if len(b) == PubKeyLength+1 && b[0] == uncompressedTag {
		b = b[1:]
	}
	if len(b) != PubKeyLength {
		return p, fmt.Errorf("%w: public key is %d bytes, want %d", ErrLengthMismatch, len(b), PubKeyLength)
	}
	copy(p[:], b)
	return p, nil
}

// String returns the 0x-prefixed hex of x || y.
func (p PubKey) String() string {
	return hexutil.Encode(p[:])
}

// Address derives the default address of p.
func (p PubKey) Address() Address {
	return PubkeyToAddress(p)
}

func decodeFixedHex(s string, size int) ([]byte, error) {
	b, err := hex.DecodeString(trim0x(s))
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrLengthMismatch, len(b), size)
	}
	return b, nil
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func ensure0x(s string) string {
	return "0x" + trim0x(s)
}
