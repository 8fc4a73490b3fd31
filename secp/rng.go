package secp

import (
	"crypto/hmac"
	"errors"
	"hash"

	sha256 "github.com/minio/sha256-simd"
)

// rngSeedSize is the only seed length the nonce stream accepts.
const rngSeedSize = 32

// NonceRNG is a deterministic stream of 32-byte blocks derived from a seed
// with the RFC 6979 HMAC-SHA256 construction (HMAC-DRBG state update, no
// per-message re-keying). It is used to derive secret signing nonces, so a
// given seed always yields the same nonce sequence.
//
// A NonceRNG is not safe for concurrent use.
type NonceRNG struct {
	v     [32]byte
	k     [32]byte
	retry bool
}

func newSHA256() hash.Hash {
	return sha256.New()
}

// NewNonceRNG initializes a nonce stream from a 32-byte seed, following
// RFC 6979 section 3.2 steps b through g with the seed as key material.
func NewNonceRNG(seed []byte) (*NonceRNG, error) {
	if len(seed) != rngSeedSize {
		return nil, errors.New("secp: nonce rng seed must be 32 bytes")
	}

	rng := &NonceRNG{}
	for i := range rng.v {
		rng.v[i] = 0x01
	}
	// k starts all zero.
	rng.k = rng.mac(rng.v[:], []byte{0x00}, seed)
	rng.v = rng.mac(rng.v[:])
	rng.k = rng.mac(rng.v[:], []byte{0x01}, seed)
	rng.v = rng.mac(rng.v[:])
	return rng, nil
}

// mac computes HMAC-SHA256 over the concatenation of data, keyed with the
// current k state.
func (r *NonceRNG) mac(data ...[]byte) [32]byte {
	m := hmac.New(newSHA256, r.k[:])
	for _, d := range data {
		m.Write(d)
	}
	var out [32]byte
	m.Sum(out[:0])
	return out
}

// Generate fills out with the next bytes of the stream. Every call after
// the first re-keys the state first (RFC 6979 section 3.2 step h), so
// successive calls never repeat output.
func (r *NonceRNG) Generate(out []byte) {
	if r.retry {
		r.k = r.mac(r.v[:], []byte{0x00})
		r.v = r.mac(r.v[:])
	}
	for len(out) > 0 {
		r.v = r.mac(r.v[:])
		n := copy(out, r.v[:])
		out = out[n:]
	}
	r.retry = true
}

// Finalize wipes the stream state. The RNG must not be used afterwards;
// calling Finalize more than once is harmless.
func (r *NonceRNG) Finalize() {
	for i := range r.v {
		r.v[i] = 0
	}
	for i := range r.k {
		r.k[i] = 0
	}
	r.retry = false
}
