// Package aggsig implements n-of-n aggregate Schnorr signatures over
// secp256k1. A set of cosigners, each holding one private key, jointly
// produce a single 64-byte signature that verifies against the ordered
// set of their public keys. With a single cosigner the scheme degenerates
// to an ordinary Schnorr signature, available through [SignSingle] and
// [VerifySingle].
//
// # Protocol
//
// Signing is phase-structured. Each cosigner position moves through an
// explicit state machine — nonce unknown, nonce generated, signed — and
// partial signing is gated on every position having a known nonce:
//
//  1. [NewContext] fixes the ordered cosigner set and seeds the
//     deterministic nonce stream.
//  2. [Context.GenerateNonce] draws position i's secret nonce and folds
//     its public half into the joint nonce sum.
//  3. [Context.PartialSign] produces position i's scalar contribution
//     s_i = k_i + e_i·x_i once all nonces are in.
//  4. [Context.Combine] sums the contributions into the final signature.
//
// Verification recomputes every per-position challenge and checks the
// batched equation s·G − Σ e_i·P_i against the signature's nonce:
//
//	sig, err := session.QuickSign(secKeys, pubKeys, msg, seed)
//	...
//	if !aggsig.Verify(sig, msg, pubKeys) {
//		// reject
//	}
//
// # Challenge binding
//
// Every per-position challenge e_i is derived from a prehash over the
// full ordered cosigner set, the joint nonce's x coordinate, and the
// message, then customized with the position index. Signatures therefore
// bind to both the key order and each signer's position; permuting keys
// or positions invalidates them. The index customization prevents
// cosigners with algebraically related keys from cancelling each other
// out of the aggregate.
//
// Signatures carry only the x coordinate of the joint nonce. The
// convention that the nonce's y coordinate is always a quadratic residue
// replaces the missing sign bit; signing, combination, and verification
// all apply the same normalization.
//
// # Wire format
//
// A [Signature] is 64 bytes: the scalar s big-endian, then the nonce x
// coordinate big-endian. A [PartialSignature] is a bare 32-byte
// big-endian scalar. Messages are exactly 32 bytes; callers hash longer
// inputs first. Public keys enter the challenge hashes in their 33-byte
// compressed encoding.
//
// # Ownership and concurrency
//
// A [Context] is a single-owner state machine: nothing in it is safe for
// concurrent mutation, and destruction wipes all secret material.
// Verification is purely functional and may run concurrently as long as
// each call owns its scratch region.
package aggsig
