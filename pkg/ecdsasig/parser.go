package ecdsasig

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Record is a signature to be checked, with the digest it signs and, when
// known, the address expected to have produced it.
type Record struct {
	Message    Message
	Signature  Signature
	Address    Address
	HasAddress bool
}

// SignatureParser defines the interface for parsing signature records from various sources.
type SignatureParser interface {
	// ParseSignatures parses records from a source and returns them.
	ParseSignatures(source string) ([]*Record, error)
}

// Fields names the keys (JSON) or columns (CSV) a record is read from.
// Empty names fall back to the defaults in DefaultFields.
type Fields struct {
	Digest    string // 32-byte hex digest (default: "digest")
	Message   string // raw message, hashed with Keccak-256 when no digest is present (default: "message")
	Signature string // 65-byte hex signature (default: "signature")
	R         string // r component, used when no signature is present (default: "r")
	S         string // s component (default: "s")
	V         string // recovery id (default: "v")
	Address   string // expected signer address, optional (default: "address")

	// NormalizeV maps Ethereum-style 27/28 recovery bytes to 0/1.
	NormalizeV bool
}

// DefaultFields returns the default field names.
func DefaultFields() Fields {
	return Fields{
		Digest:    "digest",
		Message:   "message",
		Signature: "signature",
		R:         "r",
		S:         "s",
		V:         "v",
		Address:   "address",
	}
}

func (f Fields) withDefaults() Fields {
	d := DefaultFields()
	if f.Digest == "" {
		f.Digest = d.Digest
	}
	if f.Message == "" {
		f.Message = d.Message
	}
	if f.Signature == "" {
		f.Signature = d.Signature
	}
	if f.R == "" {
		f.R = d.R
	}
	if f.S == "" {
		f.S = d.S
	}
	if f.V == "" {
		f.V = d.V
	}
	if f.Address == "" {
		f.Address = d.Address
	}
	return f
}

// JSONParser parses records from JSON files.
type JSONParser struct {
	Fields Fields
}

// ParseSignatures parses records from a JSON file.
//
// Expected format:
//
//	[
//	  {"digest": "0x...", "signature": "0x...", "address": "0x..."},
//	  {"message": "...", "r": "0x...", "s": "0x...", "v": 1}
//	]
func (p *JSONParser) ParseSignatures(jsonFile string) ([]*Record, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse parses records from r.
func (p *JSONParser) Parse(r io.Reader) ([]*Record, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber() // Preserve large numbers as json.Number instead of float64

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	fields := p.Fields.withDefaults()
	records := make([]*Record, 0, len(items))
	for i, item := range items {
		rec, err := buildRecord(item, fields)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// CSVParser parses records from CSV files with a header row.
type CSVParser struct {
	Fields Fields
}

// ParseSignatures parses records from a CSV file.
func (p *CSVParser) ParseSignatures(csvFile string) ([]*Record, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse parses records from r.
func (p *CSVParser) Parse(r io.Reader) ([]*Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	fields := p.Fields.withDefaults()
	hasSig := false
	hasRS := 0
	for _, col := range header {
		switch col {
		case fields.Signature:
			hasSig = true
		case fields.R, fields.S:
			hasRS++
		}
	}
	if !hasSig && hasRS < 2 {
		return nil, fmt.Errorf("missing required columns: %s or %s and %s", fields.Signature, fields.R, fields.S)
	}

	records := make([]*Record, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		item := make(map[string]interface{}, len(header))
		for i, col := range header {
			if i < len(row) && row[i] != "" {
				item[col] = row[i]
			}
		}

		rec, err := buildRecord(item, fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func buildRecord(item map[string]interface{}, fields Fields) (*Record, error) {
	rec := &Record{}

	// Get the digest, or hash the message
	if dVal, ok := item[fields.Digest]; ok {
		s, ok := dVal.(string)
		if !ok {
			return nil, fmt.Errorf("%s field must be a hex string", fields.Digest)
		}
		m, err := MessageFromHex(s)
		if err != nil {
			return nil, err
		}
		rec.Message = m
	} else if mVal, ok := item[fields.Message]; ok {
		s, ok := mVal.(string)
		if !ok {
			return nil, fmt.Errorf("%s field must be a string", fields.Message)
		}
		rec.Message = HashMessage([]byte(s))
	} else {
		return nil, fmt.Errorf("missing %s or %s field", fields.Digest, fields.Message)
	}

	// Get the signature, either whole or as r, s, v
	if sVal, ok := item[fields.Signature]; ok {
		s, ok := sVal.(string)
		if !ok {
			return nil, fmt.Errorf("%s field must be a hex string", fields.Signature)
		}
		sig, err := ParseHex(s)
		if err != nil {
			return nil, err
		}
		rec.Signature = sig
	} else {
		sig, err := rsvSignature(item, fields)
		if err != nil {
			return nil, err
		}
		rec.Signature = sig
	}

	if fields.NormalizeV && rec.Signature[vOffset] >= compactSigMagicOffset {
		rec.Signature[vOffset] -= compactSigMagicOffset
	}

	if aVal, ok := item[fields.Address]; ok {
		s, ok := aVal.(string)
		if !ok || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid %s field: %v", fields.Address, aVal)
		}
		rec.Address = common.HexToAddress(s)
		rec.HasAddress = true
	}

	return rec, nil
}

func rsvSignature(item map[string]interface{}, fields Fields) (Signature, error) {
	var r, s [32]byte
	var v byte

	for _, c := range []struct {
		name string
		dst  *[32]byte
	}{{fields.R, &r}, {fields.S, &s}} {
		val, ok := item[c.name]
		if !ok {
			return Signature{}, fmt.Errorf("missing %s or %s field", fields.Signature, c.name)
		}
		n, err := parseBigInt(val)
		if err != nil {
			return Signature{}, fmt.Errorf("failed to parse %s: %w", c.name, err)
		}
		if n.Sign() < 0 || n.BitLen() > 256 {
			return Signature{}, fmt.Errorf("%s does not fit in 32 bytes", c.name)
		}
		n.FillBytes(c.dst[:])
	}

	val, ok := item[fields.V]
	if !ok {
		return Signature{}, fmt.Errorf("missing %s field", fields.V)
	}
	n, err := parseBigInt(val)
	if err != nil {
		return Signature{}, fmt.Errorf("failed to parse %s: %w", fields.V, err)
	}
	if !n.IsUint64() || n.Uint64() > 0xff {
		return Signature{}, fmt.Errorf("%s does not fit in a byte", fields.V)
	}
	v = byte(n.Uint64())

	return FromRSV(r, s, v), nil
}

// parseBigInt parses an integer from a hex string, a decimal string or a JSON
// number. Unprefixed strings are read as hex when they contain hex letters or
// are exactly 64 digits long.
func parseBigInt(val interface{}) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") || len(v) == 64 || strings.ContainsAny(v, "abcdefABCDEF") {
			z, ok := new(big.Int).SetString(trim0x(v), 16)
			if !ok {
				return nil, fmt.Errorf("invalid hex number: %s", v)
			}
			return z, nil
		}
		z, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case json.Number:
		z, ok := new(big.Int).SetString(string(v), 10)
		if !ok {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case float64:
		return big.NewInt(int64(v)), nil

	case int:
		return big.NewInt(int64(v)), nil

	default:
		return nil, fmt.Errorf("unsupported type: %T", val)
	}
}
