package ecdsasig

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/fxamacker/cbor/v2"
)

// Codec encodes and decodes a Signature in one wire format. The format is
// chosen by the protocol or storage layer; the signature itself has no
// preferred encoding.
type Codec interface {
	// Name identifies the format.
	Name() string
	// Marshal encodes sig.
	Marshal(sig Signature) ([]byte, error)
	// Unmarshal decodes data into a signature.
	Unmarshal(data []byte) (Signature, error)
}

var (
	_ Codec = FixedCodec{}
	_ Codec = RLPCodec{}
	_ Codec = JSONSequenceCodec{}
	_ Codec = CBORSequenceCodec{}

	_ encoding.BinaryMarshaler   = Signature{}
	_ encoding.BinaryUnmarshaler = (*Signature)(nil)
	_ rlp.Encoder                = Signature{}
	_ rlp.Decoder                = (*Signature)(nil)
	_ json.Marshaler             = Signature{}
	_ json.Unmarshaler           = (*Signature)(nil)
	_ cbor.Marshaler             = Signature{}
	_ cbor.Unmarshaler           = (*Signature)(nil)
)

// FixedCodec writes the 65 bytes verbatim.
type FixedCodec struct{}

func (FixedCodec) Name() string { return "fixed" }

func (FixedCodec) Marshal(sig Signature) ([]byte, error) {
	return sig.MarshalBinary()
}

func (FixedCodec) Unmarshal(data []byte) (Signature, error) {
	var sig Signature
	err := sig.UnmarshalBinary(data)
	return sig, err
}

// RLPCodec writes the 65 bytes as a single RLP string.
type RLPCodec struct{}

func (RLPCodec) Name() string { return "rlp" }

func (RLPCodec) Marshal(sig Signature) ([]byte, error) {
	return rlp.EncodeToBytes(sig)
}

func (RLPCodec) Unmarshal(data []byte) (Signature, error) {
	var sig Signature
	if err := rlp.DecodeBytes(data, &sig); err != nil {
		return Signature{}, fmt.Errorf("failed to decode rlp signature: %w", err)
	}
	return sig, nil
}

// JSONSequenceCodec writes the signature as a JSON array of 65 integers.
type JSONSequenceCodec struct{}

func (JSONSequenceCodec) Name() string { return "json" }

func (JSONSequenceCodec) Marshal(sig Signature) ([]byte, error) {
	return json.Marshal(sig)
}

func (JSONSequenceCodec) Unmarshal(data []byte) (Signature, error) {
	var sig Signature
	if err := sig.UnmarshalJSON(data); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// CBORSequenceCodec writes the signature as a CBOR array of 65 unsigned
// integers.
type CBORSequenceCodec struct{}

func (CBORSequenceCodec) Name() string { return "cbor" }

func (CBORSequenceCodec) Marshal(sig Signature) ([]byte, error) {
	return cbor.Marshal(sig)
}

func (CBORSequenceCodec) Unmarshal(data []byte) (Signature, error) {
	var sig Signature
	if err := sig.UnmarshalCBOR(data); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// Codecs lists every available codec.
func Codecs() []Codec {
	return []Codec{FixedCodec{}, RLPCodec{}, JSONSequenceCodec{}, CBORSequenceCodec{}}
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	for _, c := range Codecs() {
		if strings.EqualFold(c.Name(), name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

// MarshalBinary returns the 65 raw bytes.
func (s Signature) MarshalBinary() ([]byte, error) {
	return s.Bytes(), nil
}

// UnmarshalBinary requires exactly 65 bytes.
func (s *Signature) UnmarshalBinary(data []byte) error {
	sig, err := FromSlice(data)
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

// EncodeRLP writes the signature as an RLP string.
func (s Signature) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, s[:])
}

// DecodeRLP reads an RLP string of exactly 65 bytes.
func (s *Signature) DecodeRLP(st *rlp.Stream) error {
	b, err := st.Bytes()
	if err != nil {
		return err
	}
	sig, err := FromSlice(b)
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

// MarshalJSON writes the signature as an array of 65 integers.
func (s Signature) MarshalJSON() ([]byte, error) {
	elems := make([]uint16, SignatureLength)
	for i, b := range s {
		elems[i] = uint16(b)
	}
	return json.Marshal(elems)
}

// UnmarshalJSON reads the first 65 elements of a JSON array. Fewer elements
// is an error; anything after the 65th element is left unread.
func (s *Signature) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	if !json.Valid(data) {
		return fmt.Errorf("failed to read signature sequence: invalid JSON")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read signature sequence: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("signature sequence must be a JSON array, got %v", tok)
	}

	var sig Signature
	for i := 0; i < SignatureLength; i++ {
		if !dec.More() {
			return fmt.Errorf("%w: sequence has %d elements, want %d", ErrLengthMismatch, i, SignatureLength)
		}
		var elem *int64
		if err := dec.Decode(&elem); err != nil {
			return fmt.Errorf("failed to read signature element %d: %w", i, err)
		}
		if elem == nil {
			return fmt.Errorf("signature element %d is null", i)
		}
		if *elem < 0 || *elem > 0xff {
			return fmt.Errorf("%w: element %d is %d", ErrElementRange, i, *elem)
		}
		sig[i] = byte(*elem)
	}
	*s = sig
	return nil
}

// MarshalCBOR writes the signature as a CBOR array of 65 unsigned integers.
func (s Signature) MarshalCBOR() ([]byte, error) {
	elems := make([]uint64, SignatureLength)
	for i, b := range s {
		elems[i] = uint64(b)
	}
	return cbor.Marshal(elems)
}

// UnmarshalCBOR reads the first 65 elements of a CBOR array. Fewer elements
// is an error; the remainder is not decoded.
func (s *Signature) UnmarshalCBOR(data []byte) error {
	var elems []cbor.RawMessage
	if err := cbor.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("failed to read signature sequence: %w", err)
	}
	if len(elems) < SignatureLength {
		return fmt.Errorf("%w: sequence has %d elements, want %d", ErrLengthMismatch, len(elems), SignatureLength)
	}

	var sig Signature
	for i, raw := range elems[:SignatureLength] {
		var elem uint64
		if err := cbor.Unmarshal(raw, &elem); err != nil {
			return fmt.Errorf("failed to read signature element %d: %w", i, err)
		}
		if elem > 0xff {
			return fmt.Errorf("%w: element %d is %d", ErrElementRange, i, elem)
		}
		sig[i] = byte(elem)
	}
	*s = sig
	return nil
}
