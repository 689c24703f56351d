package ecdsasig

import (
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	for i := 0; i < 20; i++ {
		kp := newKeyPair(t, randomPrivKey(t))
		msg := HashMessage([]byte{byte(i), 1, 2, 3})

		sig, err := Sign(kp.priv, msg)
		require.NoError(t, err)

		ok, err := VerifyPublic(kp.pub, sig, msg)
		require.NoError(t, err)
		assert.True(t, ok)

		assert.True(t, sig.IsLowS(), "signing must always produce low s")
		assert.True(t, sig.IsValid())
		assert.LessOrEqual(t, sig.V(), byte(1))
	}
}

func TestSignAndRecover(t *testing.T) {
	for i := 0; i < 20; i++ {
		kp := newKeyPair(t, randomPrivKey(t))
		msg := HashMessage([]byte{byte(i)})

		sig, err := Sign(kp.priv, msg)
		require.NoError(t, err)

		pub, err := Recover(sig, msg)
		require.NoError(t, err)
		assert.Equal(t, kp.pub, pub)

		ok, err := VerifyAddress(kp.addr, sig, msg)
		require.NoError(t, err)
		assert.True(t, ok)

		addr, err := RecoverAddress(sig, msg)
		require.NoError(t, err)
		assert.Equal(t, kp.addr, addr)
	}
}

func TestSign_Deterministic(t *testing.T) {
	kp := newKeyPair(t, testPrivKey(t))
	msg := HashMessage(nil)

	sig1, err := Sign(kp.priv, msg)
	require.NoError(t, err)
	sig2, err := Sign(kp.priv, msg)
	require.NoError(t, err)

	assert.Equal(t, sig1, sig2)
	assert.Equal(t, sig1.String(), sig2.String())
	t.Logf("signature %+v", sig1)

	ok, err := VerifyPublic(kp.pub, sig1, msg)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSign_InvalidPrivKey(t *testing.T) {
	msg := HashMessage([]byte("msg"))
	tests := map[string]PrivKey{
		"zero":        {},
		"curve order": PrivKey(mustHex32(t, curveOrderHex)),
		"all ones":    PrivKey(mustHex32(t, "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")),
	}

	for name, key := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Sign(key, msg)
			assert.ErrorIs(t, err, ErrEngineFailure)
			assert.ErrorIs(t, err, ErrInvalidPrivKey)

			_, err = PublicKeyOf(key)
			assert.ErrorIs(t, err, ErrInvalidPrivKey)
		})
	}
}

func TestVerifyPublic_TamperDetection(t *testing.T) {
	kp := newKeyPair(t, testPrivKey(t))
	msg := HashMessage([]byte("tamper"))

	sig, err := Sign(kp.priv, msg)
	require.NoError(t, err)

	for bit := 0; bit < 2*scalarLength*8; bit += 37 {
		tampered := sig
		tampered[bit/8] ^= 1 << (bit % 8)

		ok, err := VerifyPublic(kp.pub, tampered, msg)
		require.NoError(t, err, "bit %d", bit)
		assert.False(t, ok, "bit %d", bit)
	}
}

func TestVerifyPublic_WrongKeyOrMessage(t *testing.T) {
	kp := newKeyPair(t, testPrivKey(t))
	other := newKeyPair(t, randomPrivKey(t))
	msg := HashMessage([]byte("one"))

	sig, err := Sign(kp.priv, msg)
	require.NoError(t, err)

	ok, err := VerifyPublic(other.pub, sig, msg)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = VerifyPublic(kp.pub, sig, HashMessage([]byte("two")))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = VerifyAddress(other.addr, sig, msg)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPublic_MalformedInputs(t *testing.T) {
	kp := newKeyPair(t, testPrivKey(t))
	msg := HashMessage([]byte("malformed"))

	sig, err := Sign(kp.priv, msg)
	require.NoError(t, err)

	t.Run("public key not on curve", func(t *testing.T) {
		_, err := VerifyPublic(PubKey{}, sig, msg)
		assert.ErrorIs(t, err, ErrMalformedPoint)
	})

	t.Run("recovery id out of range", func(t *testing.T) {
		bad := sig
		bad[64] = 4
		_, err := VerifyPublic(kp.pub, bad, msg)
		assert.ErrorIs(t, err, ErrInvalidRecoveryID)
	})

	t.Run("r overflows curve order", func(t *testing.T) {
		bad := FromRSV(mustHex32(t, curveOrderHex), sig.S(), sig.V())
		_, err := VerifyPublic(kp.pub, bad, msg)
		assert.ErrorIs(t, err, ErrEngineFailure)
	})

	t.Run("zero components are a negative result", func(t *testing.T) {
		ok, err := VerifyPublic(kp.pub, Signature{}, msg)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMalleatedSignature(t *testing.T) {
	kp := newKeyPair(t, testPrivKey(t))
	msg := HashMessage([]byte("malleate"))

	sig, err := Sign(kp.priv, msg)
	require.NoError(t, err)

	// (r, n - s, v ^ 1) is the high-s twin of (r, s, v).
	s := sig.S()
	highS := new(uint256.Int).Sub(secp256k1N, new(uint256.Int).SetBytes32(s[:])).Bytes32()
	twin := FromRSV(sig.R(), highS, sig.V()^1)
	require.False(t, twin.IsLowS())
	require.True(t, twin.IsValid())

	pub, err := Recover(twin, msg)
	require.NoError(t, err)
	assert.Equal(t, kp.pub, pub)

	ok, err := VerifyPublic(kp.pub, twin, msg)
	require.NoError(t, err)
	assert.False(t, ok, "only normalized signatures verify")
}

func TestRecover_Errors(t *testing.T) {
	kp := newKeyPair(t, testPrivKey(t))
	msg := HashMessage([]byte("recover"))

	sig, err := Sign(kp.priv, msg)
	require.NoError(t, err)

	for _, v := range []byte{4, 27, 255} {
		bad := sig
		bad[64] = v
		_, err := Recover(bad, msg)
		assert.ErrorIs(t, err, ErrInvalidRecoveryID, "v=%d", v)

		_, err = VerifyAddress(kp.addr, bad, msg)
		assert.ErrorIs(t, err, ErrInvalidRecoveryID, "v=%d", v)
	}

	_, err = Recover(Signature{}, msg)
	assert.ErrorIs(t, err, ErrEngineFailure)

	_, err = VerifyAddress(kp.addr, Signature{}, msg)
	assert.ErrorIs(t, err, ErrEngineFailure, "recovery failure must not be reported as a mismatch")
}

func TestScheme_EngineOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := NewMockEngine(ctrl)
	scheme := NewScheme(engine)

	msg := HashMessage([]byte("mock"))
	sig := FromRSV(scalar(1), scalar(2), 1)
	var pub PubKey
	pub[0] = 0xaa

	var tagged [65]byte
	tagged[0] = uncompressedTag
	copy(tagged[1:], pub[:])

	t.Run("incorrect signature is false", func(t *testing.T) {
		engine.EXPECT().Verify(msg, sig.compact(), tagged).Return(ErrIncorrectSignature)
		ok, err := scheme.VerifyPublic(pub, sig, msg)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other engine errors propagate", func(t *testing.T) {
		engine.EXPECT().Verify(msg, sig.compact(), tagged).Return(ErrMalformedPoint)
		ok, err := scheme.VerifyPublic(pub, sig, msg)
		assert.ErrorIs(t, err, ErrMalformedPoint)
		assert.False(t, ok)
	})

	t.Run("success", func(t *testing.T) {
		engine.EXPECT().Verify(msg, sig.compact(), tagged).Return(nil)
		ok, err := scheme.VerifyPublic(pub, sig, msg)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("sign packs r s v", func(t *testing.T) {
		priv := PrivKey(scalar(5))
		engine.EXPECT().SignRecoverable(msg, priv).Return(sig.compact(), byte(1), nil)
		got, err := scheme.Sign(priv, msg)
		require.NoError(t, err)
		assert.Equal(t, sig, got)
	})

	t.Run("sign surfaces engine failure", func(t *testing.T) {
		priv := PrivKey(scalar(5))
		engine.EXPECT().SignRecoverable(msg, priv).Return([64]byte{}, byte(0), ErrEngineFailure)
		_, err := scheme.Sign(priv, msg)
		assert.ErrorIs(t, err, ErrEngineFailure)
	})

	t.Run("recover strips tag", func(t *testing.T) {
		engine.EXPECT().Recover(msg, sig.compact(), byte(1)).Return(tagged, nil)
		got, err := scheme.Recover(sig, msg)
		require.NoError(t, err)
		assert.Equal(t, pub, got)
	})

	t.Run("recover rejects untagged point", func(t *testing.T) {
		engine.EXPECT().Recover(msg, sig.compact(), byte(1)).Return([65]byte{}, nil)
		_, err := scheme.Recover(sig, msg)
		assert.ErrorIs(t, err, ErrMalformedPoint)
	})

	t.Run("address check propagates recovery failure", func(t *testing.T) {
		engineErr := errors.New("boom")
		engine.EXPECT().Recover(msg, sig.compact(), byte(1)).Return([65]byte{}, engineErr)
		ok, err := scheme.VerifyAddress(Address{}, sig, msg)
		assert.ErrorIs(t, err, engineErr)
		assert.False(t, ok)
	})

	t.Run("invalid recovery id never reaches the engine", func(t *testing.T) {
		bad := sig
		bad[64] = 4
		_, err := scheme.Recover(bad, msg)
		assert.ErrorIs(t, err, ErrInvalidRecoveryID)
		_, err = scheme.VerifyPublic(pub, bad, msg)
		assert.ErrorIs(t, err, ErrInvalidRecoveryID)
	})
}

func TestScheme_WithAddressFunc(t *testing.T) {
	kp := newKeyPair(t, testPrivKey(t))
	msg := HashMessage([]byte("custom address"))

	want := Address{0x01}
	scheme := NewScheme(Secp256k1).WithAddressFunc(func(PubKey) Address { return want })

	sig, err := scheme.Sign(kp.priv, msg)
	require.NoError(t, err)

	ok, err := scheme.VerifyAddress(want, sig, msg)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = scheme.VerifyAddress(kp.addr, sig, msg)
	require.NoError(t, err)
	assert.False(t, ok)

	// The default scheme is unaffected.
	assert.Equal(t, kp.addr, Default().Address(kp.pub))
}

func TestScheme_ConcurrentUse(t *testing.T) {
	kp := newKeyPair(t, testPrivKey(t))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := HashMessage([]byte{byte(i)})
			sig, err := Sign(kp.priv, msg)
			if err != nil {
				errs <- err
				return
			}
			pub, err := Recover(sig, msg)
			if err != nil {
				errs <- err
				return
			}
			if pub != kp.pub {
				errs <- errors.New("recovered wrong key")
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
