package ecdsasig

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/OneOfOne/xxhash"
	"github.com/holiman/uint256"
)

const (
	// SignatureLength is the size of an encoded signature: r (32) || s (32) || v (1).
	SignatureLength = 65

	// MessageLength is the size of a message digest.
	MessageLength = 32

	// PrivKeyLength is the size of a secret scalar.
	PrivKeyLength = 32

	// PubKeyLength is the size of an uncompressed public key without its
	// format tag.
	PubKeyLength = 64

	scalarLength = 32
	vOffset      = 2 * scalarLength
)

var (
	// secp256k1N is the order of the secp256k1 group.
	secp256k1N = uint256.MustFromHex("0xfffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

	// secp256k1HalfN is floor(n/2), the largest canonical s.
	secp256k1HalfN = uint256.MustFromHex("0x7fffffffffffffffffffffffffffffff5d576e7357a4501ddfe92f46681b20a0")
)

// Signature is a secp256k1 recoverable signature laid out as r || s || v.
//
// The zero value is a structurally valid placeholder that never verifies.
type Signature [SignatureLength]byte

// FromRSV assembles a signature from its components. No validation is done;
// use IsValid for that.
func FromRSV(r, s [32]byte, v byte) Signature {
	var sig Signature
	copy(sig[:scalarLength], r[:])
	copy(sig[scalarLength:vOffset], s[:])
	sig[vOffset] = v
	return sig
}

// FromSlice copies b into a Signature. b must be exactly SignatureLength bytes.
func FromSlice(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != SignatureLength {
		return sig, fmt.Errorf("%w: got %d bytes, want %d", ErrLengthMismatch, len(b), SignatureLength)
	}
	copy(sig[:], b)
	return sig, nil
}

// ParseHex decodes the output of Signature.String. A 0x prefix is accepted.
func ParseHex(s string) (Signature, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return Signature{}, fmt.Errorf("failed to decode signature hex: %w", err)
	}
	return FromSlice(b)
}

// R returns the first scalar component.
func (s Signature) R() [32]byte {
	var r [32]byte
	copy(r[:], s[:scalarLength])
	return r
}

// S returns the second scalar component.
func (s Signature) S() [32]byte {
	var out [32]byte
	copy(out[:], s[scalarLength:vOffset])
	return out
}

// V returns the recovery id.
func (s Signature) V() byte {
	return s[vOffset]
}

// Bytes returns a copy of the 65 signature bytes.
func (s Signature) Bytes() []byte {
	b := make([]byte, SignatureLength)
	copy(b, s[:])
	return b
}

// compact returns r || s.
func (s Signature) compact() [64]byte {
	var c [64]byte
	copy(c[:], s[:vOffset])
	return c
}

// IsValid reports whether v is 0 or 1 and both r and s lie in [1, n).
func (s Signature) IsValid() bool {
	if s.V() > 1 {
		return false
	}
	r := new(uint256.Int).SetBytes32(s[:scalarLength])
	sv := new(uint256.Int).SetBytes32(s[scalarLength:vOffset])
	return inScalarRange(r) && inScalarRange(sv)
}

// IsLowS reports whether s <= n/2.
func (s Signature) IsLowS() bool {
	sv := new(uint256.Int).SetBytes32(s[scalarLength:vOffset])
	return !sv.Gt(secp256k1HalfN)
}

func inScalarRange(x *uint256.Int) bool {
	return !x.IsZero() && x.Lt(secp256k1N)
}

// Equal reports whether both signatures have identical bytes.
func (s Signature) Equal(other Signature) bool {
	return s == other
}

// Hash returns a 64-bit xxhash of the signature bytes.
func (s Signature) Hash() uint64 {
	return xxhash.Checksum64(s[:])
}

// String returns the lowercase hex encoding of r || s || v.
func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

// GoString renders each component separately.
func (s Signature) GoString() string {
	return fmt.Sprintf("Signature{r: %s, s: %s, v: %02x}",
		hex.EncodeToString(s[:scalarLength]),
		hex.EncodeToString(s[scalarLength:vOffset]),
		s[vOffset])
}

// Format implements fmt.Formatter. %+v and %#v print the component form,
// %v, %s and %x the flat hex form.
func (s Signature) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') || f.Flag('#') {
			_, _ = io.WriteString(f, s.GoString())
			return
		}
		_, _ = io.WriteString(f, s.String())
	case 's', 'x':
		_, _ = io.WriteString(f, s.String())
	case 'X':
		_, _ = io.WriteString(f, strings.ToUpper(s.String()))
	default:
		_, _ = fmt.Fprintf(f, "%%!%c(ecdsasig.Signature=%s)", verb, s.String())
	}
}
