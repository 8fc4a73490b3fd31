package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/f3rmion/aggsig"
)

// Ceremony manages one aggregate signing session from nonce collection
// through combination. Create instances with [NewCeremony].
//
// A Ceremony serializes its own method calls, so it is safe to drive the
// positions from multiple goroutines, though the protocol itself imposes
// an order: all nonces before any signature.
type Ceremony struct {
	mu        sync.Mutex
	ctx       *aggsig.Context
	pubKeys   []*btcec.PublicKey
	msg       []byte
	partials  []*aggsig.PartialSignature
	collected int
	finalized bool
}

// NewCeremony starts a ceremony over the ordered cosigner keys for the
// given 32-byte message. The 32-byte seed determines every nonce drawn
// during the ceremony; distinct ceremonies must use distinct seeds.
func NewCeremony(pubKeys []*btcec.PublicKey, msg, seed []byte) (*Ceremony, error) {
	if len(msg) != aggsig.MessageSize {
		return nil, aggsig.ErrInvalidMessage
	}
	ctx, err := aggsig.NewContext(pubKeys, seed)
	if err != nil {
		return nil, err
	}

	keys := make([]*btcec.PublicKey, len(pubKeys))
	copy(keys, pubKeys)
	msgCopy := make([]byte, len(msg))
	copy(msgCopy, msg)

	return &Ceremony{
		ctx:      ctx,
		pubKeys:  keys,
		msg:      msgCopy,
		partials: make([]*aggsig.PartialSignature, len(pubKeys)),
	}, nil
}

// NumCosigners returns the size of the cosigner set.
func (c *Ceremony) NumCosigners() int {
	return len(c.pubKeys)
}

// Message returns the message being signed.
func (c *Ceremony) Message() []byte {
	return c.msg
}

// AddNonce contributes position i's nonce to the joint nonce. Every
// position must contribute exactly once before any position can sign.
func (c *Ceremony) AddNonce(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalized {
		return errors.New("session: ceremony already finalized")
	}
	return c.ctx.GenerateNonce(i)
}

// Sign produces and collects position i's partial signature using its
// 32-byte secret key. The key is only read; the caller keeps ownership
// and should wipe it when done with it.
func (c *Ceremony) Sign(i int, secKey []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalized {
		return errors.New("session: ceremony already finalized")
	}

	partial, err := c.ctx.PartialSign(c.msg, secKey, i)
	if err != nil {
		return fmt.Errorf("session: position %d: %w", i, err)
	}
	c.partials[i] = partial
	c.collected++
	return nil
}

// Finalize combines the collected partial signatures into the final
// signature and destroys the underlying session.
//
// Finalize consumes the ceremony: a second call returns an error, which
// also shields against accidental reuse of the session's nonces.
func (c *Ceremony) Finalize() (*aggsig.Signature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalized {
		return nil, errors.New("session: ceremony already finalized")
	}
	if c.collected != len(c.pubKeys) {
		return nil, fmt.Errorf("session: %d of %d partial signatures collected",
			c.collected, len(c.pubKeys))
	}

	// Mark consumed before combining so a failure cannot be retried
	// against half-wiped state.
	c.finalized = true
	defer c.destroyLocked()

	return c.ctx.Combine(c.partials)
}

// Close wipes the ceremony's secret material. It is safe to call at any
// point and any number of times, including after Finalize.
func (c *Ceremony) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finalized = true
	c.destroyLocked()
}

func (c *Ceremony) destroyLocked() {
	c.ctx.Destroy()
	for i := range c.partials {
		c.partials[i] = nil
	}
}

// QuickSign runs a complete n-of-n ceremony in one call: every position
// draws a nonce, signs with its key from secKeys, and the contributions
// are combined. secKeys and pubKeys correspond by index.
//
// This is for callers that hold every secret key locally. [Ceremony]
// runs the same phases one call at a time.
func QuickSign(secKeys [][]byte, pubKeys []*btcec.PublicKey, msg, seed []byte) (*aggsig.Signature, error) {
	if len(secKeys) != len(pubKeys) {
		return nil, errors.New("session: secret and public key counts differ")
	}

	c, err := NewCeremony(pubKeys, msg, seed)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	for i := range pubKeys {
		if err := c.AddNonce(i); err != nil {
			return nil, err
		}
	}
	for i, key := range secKeys {
		if err := c.Sign(i, key); err != nil {
			return nil, err
		}
	}
	return c.Finalize()
}
