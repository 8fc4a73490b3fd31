package secp

import (
	"errors"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// termStride is the scratch space accounted to one multi-exponentiation
// term. The value matches the per-point cost of the table-based batch
// multipliers this implementation stands in for, so scratch sizes chosen
// for those carry over.
const termStride = 1024

// TermFunc supplies the i-th coefficient and point of a multi-scalar
// multiplication. Returning an error aborts the whole computation; the
// scalar and point are copied before the next invocation and may be
// reused by the callback.
type TermFunc func(i int) (*secp256k1.ModNScalar, *secp256k1.JacobianPoint, error)

// Scratch is a reusable workspace for [MultiExpVar]. It bounds how many
// terms are materialized at once; computations with more terms than the
// scratch holds proceed in batches. A Scratch may be reused across calls
// but not shared by concurrent ones.
type Scratch struct {
	points []secp256k1.JacobianPoint
	kbytes [][32]byte
}

// NewScratch allocates a workspace of at most maxBytes, at 1024 bytes per
// term. Sizes below one term are rejected.
func NewScratch(maxBytes int) (*Scratch, error) {
	terms := maxBytes / termStride
	if terms < 1 {
		return nil, errors.New("secp: scratch smaller than one term")
	}
	return &Scratch{
		points: make([]secp256k1.JacobianPoint, terms),
		kbytes: make([][32]byte, terms),
	}, nil
}

// Capacity returns the number of terms the scratch holds per batch.
func (s *Scratch) Capacity() int {
	return len(s.points)
}

// MultiExpVar computes gScalar·G + Σ k_i·P_i for i in [0, n), streaming
// the (k_i, P_i) pairs from term. A nil gScalar contributes nothing, so
// n = 0 with a nil gScalar yields the point at infinity.
//
// Each batch of terms is accumulated with an interleaved binary ladder:
// one shared chain of 256 doublings serves every term in the batch, with
// per-term additions at set bits. This function is not constant time and
// must only see public scalars.
func MultiExpVar(scratch *Scratch, gScalar *secp256k1.ModNScalar, term TermFunc, n int) (*secp256k1.JacobianPoint, error) {
	var result secp256k1.JacobianPoint
	if gScalar != nil {
		secp256k1.ScalarBaseMultNonConst(gScalar, &result)
	}
	if n == 0 {
		return &result, nil
	}
	if scratch == nil {
		return nil, errors.New("secp: nil scratch")
	}

	for base := 0; base < n; base += scratch.Capacity() {
		count := scratch.Capacity()
		if base+count > n {
			count = n - base
		}
		for j := 0; j < count; j++ {
			k, p, err := term(base + j)
			if err != nil {
				return nil, err
			}
			scratch.points[j] = *p
			k.PutBytes(&scratch.kbytes[j])
		}

		var acc secp256k1.JacobianPoint
		for bit := 255; bit >= 0; bit-- {
			var doubled secp256k1.JacobianPoint
			secp256k1.DoubleNonConst(&acc, &doubled)
			acc = doubled
			for j := 0; j < count; j++ {
				if scratch.kbytes[j][31-bit/8]>>(uint(bit)&7)&1 == 1 {
					var sum secp256k1.JacobianPoint
					secp256k1.AddNonConst(&acc, &scratch.points[j], &sum)
					acc = sum
				}
			}
		}

		var sum secp256k1.JacobianPoint
		secp256k1.AddNonConst(&result, &acc, &sum)
		result = sum
	}
	return &result, nil
}
