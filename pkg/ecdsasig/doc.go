// Package ecdsasig provides secp256k1 recoverable signatures: signing a
// 32-byte digest, verifying against a public key or an address, recovering
// the signer's public key, and encoding the 65-byte r || s || v value.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/ecdsa-recoverable/pkg/ecdsasig"
//
//	msg := ecdsasig.HashMessage([]byte("hello"))
//
//	sig, err := ecdsasig.Sign(priv, msg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ok, err := ecdsasig.VerifyAddress(addr, sig, msg)
//
// A signature that does not match is reported as (false, nil). An error means
// the signature could not be evaluated at all, for example because its
// recovery id is out of range or the public key is not on the curve.
//
// # Encodings
//
// The same 65 bytes can be carried in two families of formats, selected by the
// caller through a Codec:
//
//	blob, _ := ecdsasig.FixedCodec{}.Marshal(sig)        // 65 raw bytes
//	seq, _ := ecdsasig.JSONSequenceCodec{}.Marshal(sig)  // [12,34,...] 65 elements
//
// RLPCodec and CBORSequenceCodec are the RLP and CBOR members of the two
// families.
//
// # Batch Verification
//
// Files of signature records can be checked concurrently:
//
//	client := ecdsasig.NewClient().
//	    WithParser(&ecdsasig.CSVParser{}).
//	    WithBatchConfig(ecdsasig.BatchConfig{NumWorkers: 8, RequireLowS: true})
//
//	report, err := client.VerifyFile(ctx, "signatures.csv")
//
// # Custom Engines
//
// The curve arithmetic sits behind the Engine interface. Secp256k1 is the
// default; NewScheme accepts any other implementation:
//
//	scheme := ecdsasig.NewScheme(myEngine).WithAddressFunc(myAddressFunc)
package ecdsasig
