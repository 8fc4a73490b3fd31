package secp

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// IsInfinity reports whether p is the point at infinity. The underlying
// library encodes infinity as an all-zero point; a zero z coordinate is
// accepted as well since no affine point maps to it.
func IsInfinity(p *secp256k1.JacobianPoint) bool {
	var x, y, z secp256k1.FieldVal
	x.Set(&p.X).Normalize()
	y.Set(&p.Y).Normalize()
	z.Set(&p.Z).Normalize()
	return (x.IsZero() && y.IsZero()) || z.IsZero()
}

// HasQuadYVar reports whether the affine y coordinate of p is a quadratic
// residue modulo the field prime. The test avoids the affine conversion:
// with y = Y/Z³, multiplying by the square Z⁴ shows QR(y) = QR(Y·Z).
// Returns false for the point at infinity.
//
// This function is not constant time and must only see public points.
func HasQuadYVar(p *secp256k1.JacobianPoint) bool {
	if IsInfinity(p) {
		return false
	}
	var yz, root secp256k1.FieldVal
	yz.Mul2(&p.Y, &p.Z).Normalize()
	return root.SquareRootVal(&yz)
}

// NegateVar negates p in place.
func NegateVar(p *secp256k1.JacobianPoint) {
	p.Y.Normalize()
	p.Y.Negate(1).Normalize()
}

// SetXQuadVar decompresses x to the curve point whose y coordinate is a
// quadratic residue. The candidate root is computed as rhs^((p+1)/4); for
// this prime that root is itself a residue, so no parity fixup is needed.
// Returns false when x is not the abscissa of any curve point.
func SetXQuadVar(x *secp256k1.FieldVal) (*secp256k1.JacobianPoint, bool) {
	// rhs = x³ + 7
	var rhs, seven secp256k1.FieldVal
	rhs.SquareVal(x).Mul(x)
	seven.SetInt(7)
	rhs.Add(&seven).Normalize()

	var y secp256k1.FieldVal
	if !y.SquareRootVal(&rhs) {
		return nil, false
	}

	var p secp256k1.JacobianPoint
	p.X.Set(x)
	p.X.Normalize()
	p.Y.Set(&y)
	p.Y.Normalize()
	p.Z.SetInt(1)
	return &p, true
}

// PubKey converts p to a public key, the form the challenge hashes consume.
// The point at infinity has no key encoding and is rejected.
func PubKey(p *secp256k1.JacobianPoint) (*btcec.PublicKey, error) {
	if IsInfinity(p) {
		return nil, errors.New("secp: point at infinity has no public key form")
	}
	affine := *p
	affine.ToAffine()
	return btcec.NewPublicKey(&affine.X, &affine.Y), nil
}
