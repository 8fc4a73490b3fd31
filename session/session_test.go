package session

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/aggsig"
)

// testKeys derives n deterministic keypairs.
func testKeys(label string, n int) ([][]byte, []*btcec.PublicKey) {
	secKeys := make([][]byte, n)
	pubKeys := make([]*btcec.PublicKey, n)
	for i := 0; i < n; i++ {
		digest := blake2b.Sum256([]byte(fmt.Sprintf("session/%s/%d", label, i)))
		priv, _ := btcec.PrivKeyFromBytes(digest[:])
		secKeys[i] = priv.Serialize()
		pubKeys[i] = priv.PubKey()
	}
	return secKeys, pubKeys
}

func testSeed(label string) []byte {
	digest := blake2b.Sum256([]byte("session-seed/" + label))
	return digest[:]
}

func TestCeremony(t *testing.T) {
	secKeys, pubKeys := testKeys("ceremony", 3)
	msg := bytes.Repeat([]byte{0x61}, aggsig.MessageSize)

	c, err := NewCeremony(pubKeys, msg, testSeed("ceremony"))
	if err != nil {
		t.Fatalf("NewCeremony: %v", err)
	}
	defer c.Close()

	if c.NumCosigners() != 3 {
		t.Fatalf("NumCosigners = %d, want 3", c.NumCosigners())
	}
	if !bytes.Equal(c.Message(), msg) {
		t.Fatal("message not retained")
	}

	for i := 0; i < c.NumCosigners(); i++ {
		if err := c.AddNonce(i); err != nil {
			t.Fatalf("AddNonce(%d): %v", i, err)
		}
	}
	for i, key := range secKeys {
		if err := c.Sign(i, key); err != nil {
			t.Fatalf("Sign(%d): %v", i, err)
		}
	}

	sig, err := c.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !aggsig.Verify(sig, msg, pubKeys) {
		t.Error("ceremony signature does not verify")
	}

	// Finalize consumes the ceremony.
	if _, err := c.Finalize(); err == nil {
		t.Error("second Finalize succeeded")
	}
	if err := c.AddNonce(0); err == nil {
		t.Error("AddNonce succeeded after Finalize")
	}
}

func TestCeremonyOrderEnforced(t *testing.T) {
	secKeys, pubKeys := testKeys("order", 2)
	msg := bytes.Repeat([]byte{0x62}, aggsig.MessageSize)

	c, err := NewCeremony(pubKeys, msg, testSeed("order"))
	if err != nil {
		t.Fatalf("NewCeremony: %v", err)
	}
	defer c.Close()

	if err := c.AddNonce(0); err != nil {
		t.Fatalf("AddNonce(0): %v", err)
	}
	// Position 1 has no nonce yet; nobody may sign.
	if err := c.Sign(0, secKeys[0]); err == nil {
		t.Error("Sign succeeded before all nonces were added")
	}
	if err := c.AddNonce(1); err != nil {
		t.Fatalf("AddNonce(1): %v", err)
	}

	if err := c.Sign(0, secKeys[0]); err != nil {
		t.Fatalf("Sign(0): %v", err)
	}
	if err := c.Sign(0, secKeys[0]); err == nil {
		t.Error("second Sign on the same position succeeded")
	}

	// One partial missing.
	if _, err := c.Finalize(); err == nil {
		t.Error("Finalize succeeded with a missing partial")
	}
}

func TestCeremonyValidation(t *testing.T) {
	_, pubKeys := testKeys("validation", 2)

	if _, err := NewCeremony(pubKeys, make([]byte, 16), testSeed("v")); err == nil {
		t.Error("short message accepted")
	}
	if _, err := NewCeremony(nil, bytes.Repeat([]byte{1}, aggsig.MessageSize), testSeed("v")); err == nil {
		t.Error("empty cosigner set accepted")
	}
	if _, err := NewCeremony(pubKeys, bytes.Repeat([]byte{1}, aggsig.MessageSize), nil); err == nil {
		t.Error("missing seed accepted")
	}
}

func TestCeremonyCloseIdempotent(t *testing.T) {
	_, pubKeys := testKeys("close", 2)
	msg := bytes.Repeat([]byte{0x63}, aggsig.MessageSize)

	c, err := NewCeremony(pubKeys, msg, testSeed("close"))
	if err != nil {
		t.Fatalf("NewCeremony: %v", err)
	}
	c.Close()
	c.Close()
	if err := c.AddNonce(0); err == nil {
		t.Error("AddNonce succeeded after Close")
	}
}

func TestQuickSign(t *testing.T) {
	secKeys, pubKeys := testKeys("quick", 4)
	msg := bytes.Repeat([]byte{0x64}, aggsig.MessageSize)

	sig, err := QuickSign(secKeys, pubKeys, msg, testSeed("quick"))
	if err != nil {
		t.Fatalf("QuickSign: %v", err)
	}
	if !aggsig.Verify(sig, msg, pubKeys) {
		t.Error("QuickSign signature does not verify")
	}

	if _, err := QuickSign(secKeys[:3], pubKeys, msg, testSeed("quick")); err == nil {
		t.Error("mismatched key counts accepted")
	}
}
