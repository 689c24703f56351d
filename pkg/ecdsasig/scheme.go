package ecdsasig

import (
	"errors"
	"fmt"
	"sync"
)

// Recoverer recovers the public key behind a signature.
type Recoverer interface {
	Recover(sig Signature, msg Message) (PubKey, error)
}

var _ Recoverer = (*Scheme)(nil)

// Scheme binds the signature operations to a curve engine and an address
// derivation function. A Scheme is immutable and safe for concurrent use.
type Scheme struct {
	engine  Engine
	address AddressFunc
}

// NewScheme creates a scheme on top of engine, deriving addresses with
// PubkeyToAddress.
func NewScheme(engine Engine) *Scheme {
	return &Scheme{
		engine:  engine,
		address: PubkeyToAddress,
	}
}

// WithAddressFunc returns a copy of the scheme using fn for address derivation.
func (sc *Scheme) WithAddressFunc(fn AddressFunc) *Scheme {
	cp := *sc
	cp.address = fn
	return &cp
}

var (
	defaultSchemeOnce sync.Once
	defaultScheme     *Scheme
)

// Default returns the process-wide scheme backed by Secp256k1.
func Default() *Scheme {
	defaultSchemeOnce.Do(func() {
		defaultScheme = NewScheme(Secp256k1)
	})
	return defaultScheme
}

// Sign signs msg with priv. The result is always low-s.
func (sc *Scheme) Sign(priv PrivKey, msg Message) (Signature, error) {
	compact, recID, err := sc.engine.SignRecoverable(msg, priv)
	if err != nil {
		return Signature{}, fmt.Errorf("failed to sign message: %w", err)
	}

	var sig Signature
	copy(sig[:vOffset], compact[:])
	sig[vOffset] = recID
	return sig, nil
}

// VerifyPublic reports whether sig is a signature of msg by pub.
//
// A signature that simply does not match yields (false, nil). An error means
// the signature or key could not be evaluated at all.
func (sc *Scheme) VerifyPublic(pub PubKey, sig Signature, msg Message) (bool, error) {
	if sig.V() > maxRecoveryID {
		return false, fmt.Errorf("%w: %d", ErrInvalidRecoveryID, sig.V())
	}

	var tagged [65]byte
	tagged[0] = uncompressedTag
	copy(tagged[1:], pub[:])

	err := sc.engine.Verify(msg, sig.compact(), tagged)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrIncorrectSignature):
		return false, nil
	default:
		return false, fmt.Errorf("failed to verify signature: %w", err)
	}
}

// VerifyAddress recovers the signer of msg and compares its address with addr.
// A recovery failure is returned as an error, never as a mismatch.
func (sc *Scheme) VerifyAddress(addr Address, sig Signature, msg Message) (bool, error) {
	recovered, err := sc.RecoverAddress(sig, msg)
	if err != nil {
		return false, err
	}
	return recovered == addr, nil
}

// Recover returns the public key that produced sig over msg. It does not check
// the key against any identity.
func (sc *Scheme) Recover(sig Signature, msg Message) (PubKey, error) {
	var pub PubKey
	if sig.V() > maxRecoveryID {
		return pub, fmt.Errorf("%w: %d", ErrInvalidRecoveryID, sig.V())
	}

	tagged, err := sc.engine.Recover(msg, sig.compact(), sig.V())
	if err != nil {
		return pub, fmt.Errorf("failed to recover public key: %w", err)
	}
	if tagged[0] != uncompressedTag {
		return pub, fmt.Errorf("%w: unexpected point tag %#x", ErrMalformedPoint, tagged[0])
	}
	copy(pub[:], tagged[1:])
	return pub, nil
}

// RecoverAddress recovers the signer of msg and derives its address.
func (sc *Scheme) RecoverAddress(sig Signature, msg Message) (Address, error) {
	pub, err := sc.Recover(sig, msg)
	if err != nil {
		return Address{}, err
	}
	return sc.address(pub), nil
}

// PublicKey derives the public key of priv.
func (sc *Scheme) PublicKey(priv PrivKey) (PubKey, error) {
	var pub PubKey
	tagged, err := sc.engine.PublicKey(priv)
	if err != nil {
		return pub, fmt.Errorf("failed to derive public key: %w", err)
	}
	copy(pub[:], tagged[1:])
	return pub, nil
}

// Address derives the address of pub with the scheme's AddressFunc.
func (sc *Scheme) Address(pub PubKey) Address {
	return sc.address(pub)
}

// Sign signs msg with priv using the default scheme.
func Sign(priv PrivKey, msg Message) (Signature, error) {
	return Default().Sign(priv, msg)
}

// VerifyPublic verifies sig against pub using the default scheme.
func VerifyPublic(pub PubKey, sig Signature, msg Message) (bool, error) {
	return Default().VerifyPublic(pub, sig, msg)
}

// VerifyAddress verifies sig against addr using the default scheme.
func VerifyAddress(addr Address, sig Signature, msg Message) (bool, error) {
	return Default().VerifyAddress(addr, sig, msg)
}

// Recover recovers the signer's public key using the default scheme.
func Recover(sig Signature, msg Message) (PubKey, error) {
	return Default().Recover(sig, msg)
}

// RecoverAddress recovers the signer's address using the default scheme.
func RecoverAddress(sig Signature, msg Message) (Address, error) {
	return Default().RecoverAddress(sig, msg)
}

// PublicKeyOf derives the public key of priv using the default scheme.
func PublicKeyOf(priv PrivKey) (PubKey, error) {
	return Default().PublicKey(priv)
}
