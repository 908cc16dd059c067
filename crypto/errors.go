package crypto

import "errors"

// Sentinel errors for transport cipher operations.
// These errors enable reliable error classification using errors.Is().

// Configuration errors.
var (
	// ErrInvalidKey indicates the secret key is not exactly 32 bytes,
	// or is all zeros (a weak key the protocol forbids).
	ErrInvalidKey = errors.New("invalid secret key: must be exactly 32 non-zero bytes")

	// ErrUnsupportedMode indicates an unrecognized encryption mode name.
	ErrUnsupportedMode = errors.New("unsupported encryption mode")

	// ErrModeUnavailable indicates the requested mode is recognized but
	// cannot run on this platform (AES-256-GCM without hardware support).
	ErrModeUnavailable = errors.New("encryption mode not available on this platform")

	// ErrNotConfigured indicates encrypt/decrypt was attempted before a
	// secret key and concrete mode were set.
	ErrNotConfigured = errors.New("transport cipher not configured")

	// ErrClosed indicates the cipher was used after Close.
	ErrClosed = errors.New("transport cipher not initialized")
)

// Input validation errors.
var (
	// ErrHeaderTooShort indicates the RTP header is below the 12-byte minimum.
	ErrHeaderTooShort = errors.New("RTP header too short")

	// ErrBlobTooShort indicates the ciphertext blob cannot hold a tag plus
	// the trailing nonce bytes.
	ErrBlobTooShort = errors.New("ciphertext too short")
)

// Cryptographic failures. Authentication failure is deliberately distinct
// from generic crypto failure: it signals tampering or a wrong key, which
// callers may want to log or alert on differently.
var (
	// ErrAuthenticationFailed indicates the AEAD tag did not verify.
	ErrAuthenticationFailed = errors.New("authentication failed: tag verification error")

	// ErrCryptoFailed indicates the underlying AEAD primitive failed.
	ErrCryptoFailed = errors.New("encryption operation failed")
)
