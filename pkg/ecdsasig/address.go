package ecdsasig

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddressFunc derives an Address from a public key.
type AddressFunc func(PubKey) Address

// PubkeyToAddress returns the last 20 bytes of Keccak-256(x || y).
func PubkeyToAddress(p PubKey) Address {
	return common.BytesToAddress(crypto.Keccak256(p[:])[12:])
}
