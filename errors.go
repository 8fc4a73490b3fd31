package aggsig

import "errors"

var (
	// ErrEmptyKeySet is returned when a context is created with no
	// cosigner public keys.
	ErrEmptyKeySet = errors.New("aggsig: cosigner set is empty")

	// ErrInvalidSeed is returned when the nonce-stream seed is not
	// exactly 32 bytes.
	ErrInvalidSeed = errors.New("aggsig: seed must be 32 bytes")

	// ErrInvalidMessage is returned when the message is not exactly 32
	// bytes. The package never hashes messages down itself.
	ErrInvalidMessage = errors.New("aggsig: message must be 32 bytes")

	// ErrInvalidNonce is returned when an externally supplied secret
	// nonce is not exactly 32 bytes or maps to the point at infinity.
	ErrInvalidNonce = errors.New("aggsig: invalid secret nonce")

	// ErrIndexOutOfRange is returned when a cosigner index does not fall
	// within the set fixed at context creation.
	ErrIndexOutOfRange = errors.New("aggsig: cosigner index out of range")

	// ErrNonceExists is returned by a second GenerateNonce for the same
	// index.
	ErrNonceExists = errors.New("aggsig: nonce already generated for index")

	// ErrNoncesIncomplete is returned by PartialSign while any cosigner
	// position still has no nonce.
	ErrNoncesIncomplete = errors.New("aggsig: joint nonce is incomplete")

	// ErrNonceSpent is returned by PartialSign when the index holds no
	// unused secret nonce, either because it never generated one here or
	// because it already signed.
	ErrNonceSpent = errors.New("aggsig: no unused secret nonce for index")

	// ErrInvalidSecretKey is returned when a secret key does not parse
	// as a canonical scalar.
	ErrInvalidSecretKey = errors.New("aggsig: secret key overflows group order")

	// ErrChallengeOverflow is returned when a challenge digest is not a
	// canonical scalar. Reaching this requires a SHA-256 output at or
	// above the group order.
	ErrChallengeOverflow = errors.New("aggsig: challenge overflows group order")

	// ErrPartialCount is returned by Combine when the number of partial
	// signatures differs from the cosigner count.
	ErrPartialCount = errors.New("aggsig: partial signature count mismatch")

	// ErrInvalidPartial is returned by Combine when a partial signature
	// is missing or does not parse as a canonical scalar.
	ErrInvalidPartial = errors.New("aggsig: invalid partial signature")
)
