package ecdsasig

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
)

const (
	// testPrivKeyHex is a fixed key used for deterministic signing tests.
	testPrivKeyHex = "80762b900f072d199e35ea9b1ee0e2e631a87762f8855b32d4ec13e37a3a65c1"

	curveOrderHex     = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
	curveOrderM1Hex   = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140"
	halfCurveOrderHex = "7fffffffffffffffffffffffffffffff5d576e7357a4501ddfe92f46681b20a0"
	halfCurveOrderP1  = "7fffffffffffffffffffffffffffffff5d576e7357a4501ddfe92f46681b20a1"
)

// mustHex32 decodes a 64-digit hex string into a 32-byte array.
func mustHex32(t *testing.T, s string) [32]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, b, 32)
	var out [32]byte
	copy(out[:], b)
	return out
}

// scalar returns a 32-byte big-endian encoding of a small integer.
func scalar(n byte) [32]byte {
	var out [32]byte
	out[31] = n
	return out
}

func testPrivKey(t *testing.T) PrivKey {
	t.Helper()
	k, err := PrivKeyFromHex(testPrivKeyHex)
	require.NoError(t, err)
	return k
}

func randomPrivKey(t *testing.T) PrivKey {
	t.Helper()
	k, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	var out PrivKey
	copy(out[:], k.Serialize())
	return out
}

type keyPair struct {
	priv PrivKey
	pub  PubKey
	addr Address
}

func newKeyPair(t *testing.T, priv PrivKey) keyPair {
	t.Helper()
	pub, err := PublicKeyOf(priv)
	require.NoError(t, err)
	return keyPair{priv: priv, pub: pub, addr: PubkeyToAddress(pub)}
}

// writeFixture writes content to name inside a per-test directory.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
