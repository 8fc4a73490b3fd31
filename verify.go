package aggsig

import (
	"github.com/btcsuite/btcd/btcec/v2"
	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/f3rmion/aggsig/secp"
)

// easyScratchBytes sizes the scratch the convenience verifiers allocate
// per call: four multi-exponentiation terms per batch, enough that small
// cosigner sets verify in a single pass.
const easyScratchBytes = 4096

// nonceMatches reports whether q equals the signature's nonce point:
// its affine x must match rx and its y must be a quadratic residue.
func nonceMatches(q *secp256k1.JacobianPoint, rx *secp256k1.FieldVal) bool {
	affine := *q
	affine.ToAffine()
	var want secp256k1.FieldVal
	want.Set(rx).Normalize()
	return affine.X.Equals(&want) && secp.HasQuadYVar(q)
}

// VerifyWithScratch checks an aggregate signature against the ordered
// cosigner set, using the caller's scratch region for the batched
// multi-scalar multiplication. The key order must match the order fixed
// at signing time. The scratch may be reused across calls but must not
// be shared by concurrent ones.
//
// The check reconstructs every per-position challenge from the prehash
// and evaluates Q = s·G − Σ e_i·P_i in one batched multiplication,
// streaming the (−e_i, P_i) pairs to the engine as it asks for them.
// Acceptance requires Q to match the signature's x coordinate and carry
// a quadratic-residue y.
func VerifyWithScratch(scratch *secp.Scratch, sig *Signature, msg []byte, pubKeys []*btcec.PublicKey) bool {
	if sig == nil || len(msg) != MessageSize || len(pubKeys) == 0 {
		return false
	}
	for _, pk := range pubKeys {
		if pk == nil {
			return false
		}
	}

	var s secp256k1.ModNScalar
	if overflow := s.SetBytes((*[32]byte)(sig[:32])); overflow != 0 {
		return false
	}
	var rx secp256k1.FieldVal
	if overflow := rx.SetByteSlice(sig[32:]); overflow {
		return false
	}

	prehash := computePrehash(pubKeys, &rx, msg)

	q, err := secp.MultiExpVar(scratch, &s, func(i int) (*secp256k1.ModNScalar, *secp256k1.JacobianPoint, error) {
		e, ok := hashIndexed(&prehash, i)
		if !ok {
			return nil, nil, ErrChallengeOverflow
		}
		e.Negate()
		var p secp256k1.JacobianPoint
		pubKeys[i].AsJacobian(&p)
		return &e, &p, nil
	}, len(pubKeys))
	if err != nil {
		return false
	}
	return nonceMatches(q, &rx)
}

// Verify checks an aggregate signature against the ordered cosigner set,
// allocating a bounded scratch region for the duration of the call.
// Callers verifying in bulk should allocate one [secp.Scratch] and use
// [VerifyWithScratch] instead.
func Verify(sig *Signature, msg []byte, pubKeys []*btcec.PublicKey) bool {
	scratch, err := secp.NewScratch(easyScratchBytes)
	if err != nil {
		return false
	}
	return VerifyWithScratch(scratch, sig, msg, pubKeys)
}
