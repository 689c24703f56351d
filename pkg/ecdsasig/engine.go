package ecdsasig

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

//go:generate mockgen -destination=mock_engine_test.go -package=$GOPACKAGE . Engine

const (
	// uncompressedTag prefixes an uncompressed point in SEC1 encoding.
	uncompressedTag = 0x04

	// compactSigMagicOffset is added to the recovery id in decred's compact
	// [code || r || s] signature layout.
	compactSigMagicOffset = 27

	// maxRecoveryID is the largest recovery id the curve can produce.
	maxRecoveryID = 3
)

// Engine is the boundary to the elliptic-curve implementation. Points are
// exchanged in 65-byte SEC1 uncompressed form (0x04 || x || y).
//
// Implementations must be safe for concurrent use.
type Engine interface {
	// SignRecoverable produces a deterministic, low-s compact signature r || s
	// and its recovery id in [0, 3].
	SignRecoverable(msg Message, key PrivKey) (sig [64]byte, recID byte, err error)

	// Verify returns nil when sig is a valid signature of msg by pub, and
	// ErrIncorrectSignature when it is not. Any other error means the inputs
	// could not be evaluated.
	Verify(msg Message, sig [64]byte, pub [65]byte) error

	// Recover returns the public key that produced sig over msg.
	Recover(msg Message, sig [64]byte, recID byte) ([65]byte, error)

	// PublicKey derives the public key of key.
	PublicKey(key PrivKey) ([65]byte, error)
}

// Secp256k1 is the process-wide engine backed by decred's secp256k1. It holds
// no mutable state.
var Secp256k1 Engine = secp256k1Engine{}

type secp256k1Engine struct{}

// parsePrivKey copies key into a scalar and rejects zero and values >= n
// instead of letting the library reduce them silently.
func parsePrivKey(key PrivKey) (*secp256k1.PrivateKey, error) {
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(key[:]); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: %w", ErrEngineFailure, ErrInvalidPrivKey)
	}
	return secp256k1.NewPrivateKey(&scalar), nil
}

func (secp256k1Engine) SignRecoverable(msg Message, key PrivKey) ([64]byte, byte, error) {
	var sig [64]byte
	priv, err := parsePrivKey(key)
	if err != nil {
		return sig, 0, err
	}

	// Output is <27 + recovery id><32-byte r><32-byte s>, s already low.
	compact := ecdsa.SignCompact(priv, msg[:], false)
	if len(compact) != len(sig)+1 {
		return sig, 0, fmt.Errorf("%w: unexpected compact signature size %d", ErrEngineFailure, len(compact))
	}
	recID := compact[0] - compactSigMagicOffset
	if recID > maxRecoveryID {
		return sig, 0, fmt.Errorf("%w: %w: engine produced code %d", ErrEngineFailure, ErrInvalidRecoveryID, compact[0])
	}
	copy(sig[:], compact[1:])
	return sig, recID, nil
}

func (secp256k1Engine) Verify(msg Message, sig [64]byte, pub [65]byte) error {
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:scalarLength]); overflow {
		return fmt.Errorf("%w: signature r is >= curve order", ErrEngineFailure)
	}
	if overflow := s.SetByteSlice(sig[scalarLength:]); overflow {
		return fmt.Errorf("%w: signature s is >= curve order", ErrEngineFailure)
	}

	pubKey, err := secp256k1.ParsePubKey(pub[:])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPoint, err)
	}

	// Only normalized signatures verify.
	if s.IsOverHalfOrder() {
		return ErrIncorrectSignature
	}
	if !ecdsa.NewSignature(&r, &s).Verify(msg[:], pubKey) {
		return ErrIncorrectSignature
	}
	return nil
}

func (secp256k1Engine) Recover(msg Message, sig [64]byte, recID byte) ([65]byte, error) {
	var out [65]byte
	if recID > maxRecoveryID {
		return out, fmt.Errorf("%w: %d", ErrInvalidRecoveryID, recID)
	}

	var compact [65]byte
	compact[0] = compactSigMagicOffset + recID
	copy(compact[1:], sig[:])

	pubKey, _, err := ecdsa.RecoverCompact(compact[:], msg[:])
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrEngineFailure, err)
	}
	copy(out[:], pubKey.SerializeUncompressed())
	return out, nil
}

func (secp256k1Engine) PublicKey(key PrivKey) ([65]byte, error) {
	var out [65]byte
	priv, err := parsePrivKey(key)
	if err != nil {
		return out, err
	}
	copy(out[:], priv.PubKey().SerializeUncompressed())
	return out, nil
}
