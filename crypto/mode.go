package crypto

import (
	"crypto/rand"
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"
)

// Mode identifies a transport encryption mode by its protocol name.
// The string values are exchanged with the voice server during mode
// negotiation and must match it byte for byte.
type Mode string

const (
	// ModeNone is the pre-configuration placeholder. A cipher in this
	// mode cannot encrypt or decrypt.
	ModeNone Mode = "none"

	// ModeAES256GCM is AES-256-GCM with RTP size handling.
	ModeAES256GCM Mode = "aes256_gcm_rtpsize"

	// ModeXChaCha20Poly1305 is XChaCha20-Poly1305 with RTP size handling.
	ModeXChaCha20Poly1305 Mode = "aead_xchacha20_poly1305_rtpsize"
)

// IsAES256GCMAvailable reports whether this platform has the hardware
// support needed to run AES-256-GCM at voice packet rates. Without
// dedicated AES instructions the mode is refused, matching the behavior
// of native voice clients.
func IsAES256GCMAvailable() bool {
	return cpu.X86.HasAES && cpu.X86.HasPCLMULQDQ ||
		cpu.ARM64.HasAES && cpu.ARM64.HasPMULL ||
		cpu.S390X.HasAES && cpu.S390X.HasAESGCM
}

// SupportedModes returns the encryption modes usable on this platform,
// the always-available mode first. AES-256-GCM is included only when
// hardware support exists.
func SupportedModes() []Mode {
	modes := []Mode{ModeXChaCha20Poly1305}
	if IsAES256GCMAvailable() {
		modes = append(modes, ModeAES256GCM)
	}
	return modes
}

// ValidMode reports whether name is an encryption mode this platform can
// actually run. Unknown names and unavailable modes both return false.
func ValidMode(name string) bool {
	switch Mode(name) {
	case ModeAES256GCM:
		return IsAES256GCMAvailable()
	case ModeXChaCha20Poly1305:
		return true
	}
	return false
}

// GenerateSecretKey returns a fresh random 32-byte transport key.
// Intended for tests and loopback use; production keys come from the
// voice server.
func GenerateSecretKey() ([]byte, error) {
	key := make([]byte, SecretKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate secret key: %w", err)
	}
	return key, nil
}

// CryptoVersion returns a description of the cryptographic provider,
// analogous to the version string a native client would report for its
// crypto library.
func CryptoVersion() string {
	return fmt.Sprintf("%s (crypto/cipher, golang.org/x/crypto)", runtime.Version())
}
