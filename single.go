package aggsig

import (
	"github.com/btcsuite/btcd/btcec/v2"
	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/f3rmion/aggsig/secp"
)

// ExportSecNonce derives one secret nonce from a one-shot nonce stream
// over the 32-byte seed and returns its 32 bytes, already normalized so
// its public point has a quadratic-residue y. The result can later be
// fed back to [SignSingle] as an externally supplied nonce.
func ExportSecNonce(seed []byte) ([]byte, error) {
	rng, err := secp.NewNonceRNG(seed)
	if err != nil {
		return nil, ErrInvalidSeed
	}
	defer rng.Finalize()

	k, _ := generateNonce(rng)
	out := make([]byte, 32)
	k.PutBytes((*[32]byte)(out))
	k.Zero()
	return out, nil
}

// SignSingle produces an ordinary Schnorr signature over the 32-byte msg
// with the 32-byte secret key.
//
// With secNonce nil, the secret nonce is derived from a one-shot nonce
// stream over seed, which must then be 32 bytes. With secNonce supplied,
// it is reparsed (an out-of-range value is reduced, not rejected), its
// public point recomputed, and the quadratic-residue normalization
// reapplied, so a nonce from [ExportSecNonce] signs identically to the
// internal path.
//
// With pubNonce supplied, the challenge binds to it instead of the
// signature's own nonce point; the two paths produce bit-identical
// signatures when pubNonce equals the normalized nonce point. Supplying
// anything else yields a signature that only verifies against that same
// pubNonce argument — which is the point of the parameter: it lets
// protocols commit to a nonce that differs from the one the final
// signature will carry.
func SignSingle(msg, secKey, secNonce []byte, pubNonce *btcec.PublicKey, seed []byte) (*Signature, error) {
	if len(msg) != MessageSize {
		return nil, ErrInvalidMessage
	}

	var k secp256k1.ModNScalar
	var r secp256k1.JacobianPoint
	if secNonce == nil {
		rng, err := secp.NewNonceRNG(seed)
		if err != nil {
			return nil, ErrInvalidSeed
		}
		k, r = generateNonce(rng)
		rng.Finalize()
	} else {
		if len(secNonce) != 32 {
			return nil, ErrInvalidNonce
		}
		k.SetByteSlice(secNonce)
		secp256k1.ScalarBaseMultNonConst(&k, &r)
		if secp.IsInfinity(&r) {
			k.Zero()
			return nil, ErrInvalidNonce
		}
		if !secp.HasQuadYVar(&r) {
			k.Negate()
			secp.NegateVar(&r)
		}
	}

	rPub, err := secp.PubKey(&r)
	if err != nil {
		k.Zero()
		return nil, err
	}

	hashNonce := pubNonce
	if hashNonce == nil {
		hashNonce = rPub
	}
	e, ok := hashSingle(hashNonce, msg)
	if !ok {
		k.Zero()
		return nil, ErrChallengeOverflow
	}

	var x secp256k1.ModNScalar
	if overflow := x.SetByteSlice(secKey); overflow {
		x.Zero()
		k.Zero()
		return nil, ErrInvalidSecretKey
	}

	// s = k + e·x
	var s secp256k1.ModNScalar
	s.Mul2(&e, &x).Add(&k)

	var sig Signature
	s.PutBytes((*[32]byte)(sig[:32]))
	affine := r
	affine.ToAffine()
	rxBytes := affine.X.Bytes()
	copy(sig[32:], rxBytes[:])

	s.Zero()
	x.Zero()
	k.Zero()
	return &sig, nil
}

// VerifySingle checks an ordinary Schnorr signature against one public
// key. With pubNonce nil, the nonce point is reconstructed from the
// signature's x coordinate as the quadratic-residue root; with pubNonce
// supplied, the challenge binds to it exactly as in [SignSingle].
//
// Acceptance requires both that the recomputed point matches the
// signature's x coordinate and that its y is a quadratic residue; an
// x-only match would also admit the negated point.
func VerifySingle(sig *Signature, msg []byte, pubNonce, pubKey *btcec.PublicKey) bool {
	if sig == nil || pubKey == nil || len(msg) != MessageSize {
		return false
	}

	var s secp256k1.ModNScalar
	if overflow := s.SetBytes((*[32]byte)(sig[:32])); overflow != 0 {
		return false
	}
	var rx secp256k1.FieldVal
	if overflow := rx.SetByteSlice(sig[32:]); overflow {
		return false
	}

	var e secp256k1.ModNScalar
	var ok bool
	if pubNonce != nil {
		e, ok = hashSingle(pubNonce, msg)
	} else {
		noncePt, valid := secp.SetXQuadVar(&rx)
		if !valid {
			return false
		}
		noncePub, err := secp.PubKey(noncePt)
		if err != nil {
			return false
		}
		e, ok = hashSingle(noncePub, msg)
	}
	if !ok {
		return false
	}

	scratch, err := secp.NewScratch(easyScratchBytes)
	if err != nil {
		return false
	}

	// Q = s·G − e·P
	q, err := secp.MultiExpVar(scratch, &s, func(int) (*secp256k1.ModNScalar, *secp256k1.JacobianPoint, error) {
		var negE secp256k1.ModNScalar
		negE.Set(&e).Negate()
		var p secp256k1.JacobianPoint
		pubKey.AsJacobian(&p)
		return &negE, &p, nil
	}, 1)
	if err != nil {
		return false
	}
	return nonceMatches(q, &rx)
}
