package aggsig

import (
	"github.com/btcsuite/btcd/btcec/v2"
	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	sha256 "github.com/minio/sha256-simd"
)

// hashSingle computes the single-signer challenge e = H(R ‖ m) with R in
// compressed form, reduced to a scalar. The second return is false when
// the raw digest is not a canonical scalar; callers reject rather than
// accept the reduced value.
func hashSingle(pubNonce *btcec.PublicKey, msg []byte) (secp256k1.ModNScalar, bool) {
	h := sha256.New()
	h.Write(pubNonce.SerializeCompressed())
	h.Write(msg)

	var e secp256k1.ModNScalar
	overflow := e.SetByteSlice(h.Sum(nil))
	return e, !overflow
}

// computePrehash hashes everything all cosigners sign: the cosigner keys
// in caller order, the joint nonce's x coordinate, and the message. The
// per-position challenges are all derived from this one digest.
func computePrehash(pubKeys []*btcec.PublicKey, rx *secp256k1.FieldVal, msg []byte) [32]byte {
	h := sha256.New()
	for _, pk := range pubKeys {
		h.Write(pk.SerializeCompressed())
	}
	rxBytes := rx.Bytes()
	h.Write(rxBytes[:])
	h.Write(msg)

	var out [32]byte
	h.Sum(out[:0])
	return out
}

// hashIndexed customizes the prehash for one cosigner position,
// e_i = H(bytes(i) ‖ prehash). The index is absorbed as base-128
// little-endian bytes with no continuation bit, seven value bits per
// byte; index 0 contributes no bytes at all. The encoding is only ever
// hashed, never parsed back, so the ambiguity with ordinary varints is
// irrelevant — but the byte sequence itself is part of the signature
// format and must not be swapped for a standard varint.
//
// The second return follows the same reject-on-overflow rule as
// hashSingle.
func hashIndexed(prehash *[32]byte, index int) (secp256k1.ModNScalar, bool) {
	h := sha256.New()
	for i := index; i > 0; i >>= 7 {
		h.Write([]byte{byte(i & 0x7f)})
	}
	h.Write(prehash[:])

	var e secp256k1.ModNScalar
	overflow := e.SetByteSlice(h.Sum(nil))
	return e, !overflow
}
