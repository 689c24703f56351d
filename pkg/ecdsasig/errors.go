package ecdsasig

import "errors"

var (
	// ErrInvalidRecoveryID is returned when the recovery byte of a signature is
	// outside the range accepted by the operation.
	ErrInvalidRecoveryID = errors.New("invalid recovery id")

	// ErrMalformedPoint is returned when public key bytes do not describe a
	// point on the secp256k1 curve.
	ErrMalformedPoint = errors.New("malformed public key point")

	// ErrEngineFailure wraps any other failure reported by the curve engine.
	ErrEngineFailure = errors.New("curve engine failure")

	// ErrIncorrectSignature is the engine's negative verification outcome.
	// VerifyPublic turns it into (false, nil); it is never returned to callers
	// of the Scheme.
	ErrIncorrectSignature = errors.New("incorrect signature")

	// ErrLengthMismatch is returned when decoding input of the wrong length or
	// element count.
	ErrLengthMismatch = errors.New("signature length mismatch")

	// ErrInvalidPrivKey is returned when a private key is zero or not below the
	// curve order.
	ErrInvalidPrivKey = errors.New("private key out of range")

	// ErrElementRange is returned when a sequence element does not fit in a byte.
	ErrElementRange = errors.New("sequence element out of byte range")

	// ErrNonCanonical is reported by the batch verifier for signatures rejected
	// by the configured IsValid/IsLowS pre-checks.
	ErrNonCanonical = errors.New("non-canonical signature")

	// ErrSkipped marks batch records that were not processed because the batch
	// stopped early.
	ErrSkipped = errors.New("record skipped")
)
