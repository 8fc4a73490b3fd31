// Package session provides a high-level API for aggregate signing
// ceremonies. It wraps the low-level state machine in the aggsig package
// with an interface that tracks collected contributions and prevents
// common mistakes: finalizing twice, signing a position twice, or leaving
// secret nonces behind after the ceremony.
//
// # Running a ceremony
//
// A [Ceremony] fixes the cosigner set, the message, and the nonce seed up
// front, then walks the protocol's phases:
//
//	c, err := session.NewCeremony(pubKeys, msg, seed)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	// Phase 1: every position contributes a nonce.
//	for i := 0; i < c.NumCosigners(); i++ {
//		if err := c.AddNonce(i); err != nil {
//			return err
//		}
//	}
//
//	// Phase 2: every position signs.
//	for i, key := range secKeys {
//		if err := c.Sign(i, key); err != nil {
//			return err
//		}
//	}
//
//	// Phase 3: combine into the final signature.
//	sig, err := c.Finalize()
//
// Finalize consumes the ceremony; calling it a second time returns an
// error, and Close wipes all secret material whether or not the ceremony
// completed.
//
// # One-shot signing
//
// When every secret key is available locally — tests, single-machine
// setups, or a party signing with several of its own keys — [QuickSign]
// runs the whole ceremony in one call.
//
// # Transport agnostic
//
// This package does not move partial signatures between parties, and
// neither does the aggsig package. An [aggsig.Context] generates every
// position's nonce itself; it has no way to take in a public nonce drawn
// by another party.
package session
