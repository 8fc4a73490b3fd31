package aggsig

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/f3rmion/aggsig/secp"
)

const (
	// SignatureSize is the length of a serialized signature: the scalar s
	// followed by the joint nonce's x coordinate, both 32-byte
	// big-endian.
	SignatureSize = 64

	// PartialSignatureSize is the length of one cosigner's contribution,
	// a bare big-endian scalar.
	PartialSignatureSize = 32

	// MessageSize is the only message length the scheme signs.
	MessageSize = 32

	// SeedSize is the required length of nonce-stream seeds.
	SeedSize = 32
)

// Signature is a complete aggregate (or single-signer) signature.
type Signature [SignatureSize]byte

// PartialSignature is one cosigner's scalar contribution. Summing the
// contributions of every cosigner yields the s half of the signature.
type PartialSignature [PartialSignatureSize]byte

// NonceProgress tracks one cosigner position through the signing session.
type NonceProgress uint8

const (
	// NonceUnknown: no nonce has been generated or received for the
	// position.
	NonceUnknown NonceProgress = iota

	// NonceOther: a public nonce was received from another party.
	// Reserved for a future nonce-exchange surface; nothing in this
	// package writes it.
	NonceOther

	// NonceOurs: the position's nonce was generated here and has not
	// been used to sign.
	NonceOurs

	// NonceSigned: the position's nonce was generated here and consumed
	// by PartialSign. A nonce is never used twice.
	NonceSigned
)

// Context is the state of one aggregate signing session: the ordered
// cosigner set, each position's secret nonce, the running joint nonce
// sum, and per-position progress.
//
// A Context is a single-owner state machine. It is not safe for
// concurrent use; callers that share one must serialize access. Call
// [Context.Destroy] when done to wipe secret material.
type Context struct {
	pubKeys     []*btcec.PublicKey
	secNonces   []secp256k1.ModNScalar
	pubNonceSum secp256k1.JacobianPoint
	progress    []NonceProgress
	rng         *secp.NonceRNG
}

// NewContext creates a signing session over the given cosigner keys, in
// the order verification will later use. Keys are copied in; the caller's
// slice is not retained. The 32-byte seed determines the session's entire
// nonce stream.
func NewContext(pubKeys []*btcec.PublicKey, seed []byte) (*Context, error) {
	if len(pubKeys) == 0 {
		return nil, ErrEmptyKeySet
	}
	rng, err := secp.NewNonceRNG(seed)
	if err != nil {
		return nil, ErrInvalidSeed
	}

	keys := make([]*btcec.PublicKey, len(pubKeys))
	for i, pk := range pubKeys {
		if pk == nil {
			return nil, fmt.Errorf("%w: cosigner %d is nil", ErrEmptyKeySet, i)
		}
		// Round-tripping the compressed encoding both deep-copies the key
		// and re-asserts it is a valid non-infinity curve point.
		clone, err := btcec.ParsePubKey(pk.SerializeCompressed())
		if err != nil {
			return nil, fmt.Errorf("aggsig: cosigner %d: %w", i, err)
		}
		keys[i] = clone
	}

	return &Context{
		pubKeys:   keys,
		secNonces: make([]secp256k1.ModNScalar, len(pubKeys)),
		progress:  make([]NonceProgress, len(pubKeys)),
		rng:       rng,
	}, nil
}

// NumCosigners returns the size of the cosigner set fixed at creation.
func (c *Context) NumCosigners() int {
	return len(c.pubKeys)
}

// Progress returns the state of one cosigner position.
func (c *Context) Progress(i int) (NonceProgress, error) {
	if i < 0 || i >= len(c.progress) {
		return NonceUnknown, ErrIndexOutOfRange
	}
	return c.progress[i], nil
}

// generateNonce draws a secret nonce from rng, derives its public point,
// and normalizes the pair so the public y coordinate is a quadratic
// residue.
func generateNonce(rng *secp.NonceRNG) (secp256k1.ModNScalar, secp256k1.JacobianPoint) {
	var k secp256k1.ModNScalar
	var buf [32]byte
	for {
		rng.Generate(buf[:])
		overflow := k.SetBytes(&buf)
		if overflow == 0 && !k.IsZero() {
			break
		}
		// Hitting this branch requires an HMAC-SHA256 block that is all
		// zero or at or above the group order.
	}
	for i := range buf {
		buf[i] = 0
	}

	var r secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k, &r)
	if !secp.HasQuadYVar(&r) {
		k.Negate()
		secp.NegateVar(&r)
	}
	return k, r
}

// GenerateNonce draws the secret nonce for cosigner position i and folds
// its public half into the joint nonce sum. Each position may generate
// exactly once; the position then moves from NonceUnknown to NonceOurs.
func (c *Context) GenerateNonce(i int) error {
	if i < 0 || i >= len(c.pubKeys) {
		return ErrIndexOutOfRange
	}
	if c.progress[i] != NonceUnknown {
		return ErrNonceExists
	}

	k, r := generateNonce(c.rng)
	var sum secp256k1.JacobianPoint
	secp256k1.AddNonConst(&c.pubNonceSum, &r, &sum)
	c.pubNonceSum = sum

	c.secNonces[i] = k
	c.progress[i] = NonceOurs
	return nil
}

// PartialSign produces cosigner i's contribution to the signature over
// msg. It fails unless every position's nonce is known, position i still
// holds an unused nonce generated here, and secKey parses as a canonical
// scalar. The secret key and all scalar temporaries are wiped before
// returning, on every path that saw them.
func (c *Context) PartialSign(msg, secKey []byte, i int) (*PartialSignature, error) {
	if len(msg) != MessageSize {
		return nil, ErrInvalidMessage
	}
	if i < 0 || i >= len(c.pubKeys) {
		return nil, ErrIndexOutOfRange
	}
	for _, p := range c.progress {
		if p == NonceUnknown {
			return nil, ErrNoncesIncomplete
		}
	}
	if c.progress[i] != NonceOurs {
		return nil, ErrNonceSpent
	}

	// If the joint nonce's y is a non-residue, flip our secret share of
	// it. Every cosigner runs the same test against the same sum, and
	// Combine flips the public point once to match.
	if !secp.HasQuadYVar(&c.pubNonceSum) {
		c.secNonces[i].Negate()
	}

	agg := c.pubNonceSum
	agg.ToAffine()
	prehash := computePrehash(c.pubKeys, &agg.X, msg)
	e, ok := hashIndexed(&prehash, i)
	if !ok {
		return nil, ErrChallengeOverflow
	}

	var x secp256k1.ModNScalar
	if overflow := x.SetByteSlice(secKey); overflow {
		x.Zero()
		return nil, ErrInvalidSecretKey
	}

	// s_i = k_i + e_i·x_i
	var s secp256k1.ModNScalar
	s.Mul2(&e, &x).Add(&c.secNonces[i])

	var partial PartialSignature
	s.PutBytes((*[32]byte)(&partial))
	s.Zero()
	x.Zero()

	c.progress[i] = NonceSigned
	return &partial, nil
}

// Combine sums the cosigners' partial signatures into the final
// signature. The partial count must match the cosigner set, and each
// partial must parse as a canonical scalar.
//
// Combine normalizes the stored joint nonce in place; the session is
// done afterwards and should be destroyed, not reused.
func (c *Context) Combine(partials []*PartialSignature) (*Signature, error) {
	if len(partials) != len(c.pubKeys) {
		return nil, ErrPartialCount
	}

	var s secp256k1.ModNScalar
	for _, partial := range partials {
		if partial == nil {
			return nil, ErrInvalidPartial
		}
		var t secp256k1.ModNScalar
		if overflow := t.SetBytes((*[32]byte)(partial)); overflow != 0 {
			return nil, ErrInvalidPartial
		}
		s.Add(&t)
	}

	// Every signer negated its secret nonce at signing time when the
	// sum's y was a non-residue; flip the public point once to match.
	if !secp.HasQuadYVar(&c.pubNonceSum) {
		secp.NegateVar(&c.pubNonceSum)
	}
	agg := c.pubNonceSum
	agg.ToAffine()

	var sig Signature
	s.PutBytes((*[32]byte)(sig[:32]))
	rxBytes := agg.X.Bytes()
	copy(sig[32:], rxBytes[:])
	return &sig, nil
}

// Destroy wipes the session: secret nonces and progress are zeroed, the
// key copies dropped, and the nonce stream finalized. Destroying a nil
// or already-destroyed context is a no-op.
func (c *Context) Destroy() {
	if c == nil {
		return
	}
	for i := range c.secNonces {
		c.secNonces[i].Zero()
	}
	for i := range c.progress {
		c.progress[i] = NonceUnknown
	}
	c.secNonces = nil
	c.progress = nil
	c.pubKeys = nil
	c.pubNonceSum = secp256k1.JacobianPoint{}
	if c.rng != nil {
		c.rng.Finalize()
		c.rng = nil
	}
}
