// Package secp provides the secp256k1 primitives consumed by the aggsig
// protocol core: quadratic-residue predicates on jacobian points, x-only
// decompression to the residue root, a deterministic HMAC-SHA256 nonce
// stream, and a bounded-scratch multi-scalar multiplication driven by a
// coefficient callback.
//
// This package wraps the secp256k1 implementation from
// github.com/decred/dcrd/dcrec/secp256k1/v4, providing the handful of
// operations that library does not expose directly. It performs no
// hashing of messages and holds no protocol state.
//
// # Quadratic-residue convention
//
// Aggregate signatures transmit only the x coordinate of the joint nonce.
// The missing y bit is replaced by a convention: the point on the wire is
// always the one whose y coordinate is a quadratic residue mod the field
// prime. [HasQuadYVar] tests a jacobian point against that convention
// without converting to affine coordinates, and [SetXQuadVar] decompresses
// an x coordinate directly to the residue root.
//
// # Variable time
//
// Everything in this package except [NonceRNG] operates on public values
// and is free to run in variable time. Secret scalars never reach the
// scratch or the multi-exponentiation; callers keep secret-dependent work
// on the constant-time scalar type of the underlying library.
package secp
