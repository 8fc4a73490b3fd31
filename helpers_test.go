package aggsig

import (
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/blake2b"
)

// testKey derives a deterministic canonical secret key from a label.
func testKey(t testing.TB, label string) []byte {
	t.Helper()
	digest := blake2b.Sum256([]byte(label))
	var k secp256k1.ModNScalar
	k.SetBytes(&digest)
	if k.IsZero() {
		k.SetInt(1)
	}
	var out [32]byte
	k.PutBytes(&out)
	return out[:]
}

// testSeed derives a deterministic nonce-stream seed from a label.
func testSeed(label string) []byte {
	digest := blake2b.Sum256([]byte("seed/" + label))
	return digest[:]
}

// testCosigners builds n deterministic keypairs.
func testCosigners(t testing.TB, label string, n int) ([][]byte, []*btcec.PublicKey) {
	t.Helper()
	secKeys := make([][]byte, n)
	pubKeys := make([]*btcec.PublicKey, n)
	for i := 0; i < n; i++ {
		secKeys[i] = testKey(t, fmt.Sprintf("%s/%d", label, i))
		priv, _ := btcec.PrivKeyFromBytes(secKeys[i])
		pubKeys[i] = priv.PubKey()
	}
	return secKeys, pubKeys
}

// curveOrderBytes returns the group order as 32 big-endian bytes, the
// smallest scalar-overflow value.
func curveOrderBytes() []byte {
	return secp256k1.S256().N.FillBytes(make([]byte, 32))
}

// signAggregate drives a full session: nonces for every position, a
// partial from every position, then combination.
func signAggregate(t testing.TB, secKeys [][]byte, pubKeys []*btcec.PublicKey, msg, seed []byte) *Signature {
	t.Helper()
	ctx, err := NewContext(pubKeys, seed)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	defer ctx.Destroy()

	for i := range pubKeys {
		if err := ctx.GenerateNonce(i); err != nil {
			t.Fatalf("GenerateNonce(%d): %v", i, err)
		}
	}
	partials := make([]*PartialSignature, len(pubKeys))
	for i := range pubKeys {
		partial, err := ctx.PartialSign(msg, secKeys[i], i)
		if err != nil {
			t.Fatalf("PartialSign(%d): %v", i, err)
		}
		partials[i] = partial
	}
	sig, err := ctx.Combine(partials)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	return sig
}
