package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/chacha20poly1305"
)

// Wire layout constants for the Discord voice transport.
const (
	// SecretKeySize is the length of the transport key (256 bits).
	SecretKeySize = 32

	// AESGCMTagSize is the AES-256-GCM authentication tag length.
	AESGCMTagSize = 16

	// XChaCha20Poly1305TagSize is the XChaCha20-Poly1305 tag length.
	XChaCha20Poly1305TagSize = 16

	// NonceSize is the length of the incremental nonce appended to every
	// encrypted packet: the 32-bit counter in network byte order.
	NonceSize = 4

	// RTPHeaderSize is the minimum RTP header length accepted as AEAD
	// additional data.
	RTPHeaderSize = 12

	// MaxPacketSize is the largest voice packet the transport carries.
	MaxPacketSize = 4096
)

// TransportCipher encrypts and decrypts voice transport packets for a
// single connection.
//
// The cipher keeps a monotonic 32-bit packet counter that supplies the
// AEAD nonce on encrypt and is appended to the wire output. Decrypt reads
// the counter back from the packet instead, so the internal counter is an
// encrypt-side concern only. See the package documentation for the exact
// wire convention.
//
// Not safe for concurrent use; serialize access per connection.
type TransportCipher struct {
	mode         Mode
	secretKey    []byte // nil until SetSecretKey; always SecretKeySize bytes once set
	nonceCounter uint32
	closed       bool
}

// Option configures a TransportCipher at construction time.
type Option func(*TransportCipher) error

// WithMode selects the initial encryption mode. Fails construction with
// ErrUnsupportedMode or ErrModeUnavailable like SetMode would.
func WithMode(mode Mode) Option {
	return func(c *TransportCipher) error {
		return c.SetMode(mode)
	}
}

// NewTransportCipher creates a transport cipher with no key and, unless
// WithMode is given, no encryption mode. The secret key must be supplied
// with SetSecretKey before the cipher can encrypt or decrypt.
func NewTransportCipher(opts ...Option) (*TransportCipher, error) {
	c := &TransportCipher{mode: ModeNone}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			c.destroyKey()
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewTransportCipher",
		"mode":     string(c.mode),
	}).Debug("Transport cipher created")

	return c, nil
}

// SetSecretKey installs the 32-byte transport key received from the voice
// server. The previous key, if any, is zeroized before being replaced.
// Returns ErrInvalidKey for wrong-length or all-zero keys.
func (c *TransportCipher) SetSecretKey(key []byte) error {
	if c.closed {
		return ErrClosed
	}
	if len(key) != SecretKeySize || allZero(key) {
		return ErrInvalidKey
	}

	if c.secretKey == nil {
		c.secretKey = make([]byte, SecretKeySize)
	} else {
		ZeroBytes(c.secretKey)
	}
	copy(c.secretKey, key)

	return nil
}

// SetMode selects the encryption mode for subsequent packets. AES-256-GCM
// is refused with ErrModeUnavailable when the hardware probe fails;
// unrecognized names fail with ErrUnsupportedMode.
func (c *TransportCipher) SetMode(mode Mode) error {
	if c.closed {
		return ErrClosed
	}

	switch mode {
	case ModeAES256GCM:
		if !IsAES256GCMAvailable() {
			return fmt.Errorf("%w: %s", ErrModeUnavailable, mode)
		}
	case ModeXChaCha20Poly1305:
		// Always available.
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, string(mode))
	}

	c.mode = mode

	logrus.WithFields(logrus.Fields{
		"function": "TransportCipher.SetMode",
		"mode":     string(mode),
	}).Debug("Encryption mode selected")

	return nil
}

// Encrypt seals payload under the active mode with header as additional
// authenticated data and returns ciphertext||tag||counter per the wire
// convention. The packet counter is incremented by exactly one on
// success and left untouched on any failure.
func (c *TransportCipher) Encrypt(header, payload []byte) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.mode == ModeNone || c.secretKey == nil {
		return nil, ErrNotConfigured
	}
	if len(header) < RTPHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrHeaderTooShort, len(header), RTPHeaderSize)
	}

	aead, err := c.newAEAD()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailed, err)
	}

	nonce := make([]byte, aead.NonceSize())
	binary.BigEndian.PutUint32(nonce[aead.NonceSize()-NonceSize:], c.nonceCounter)

	out := make([]byte, 0, len(payload)+aead.Overhead()+NonceSize)
	out = aead.Seal(out, nonce, payload, header)
	out = append(out, nonce[aead.NonceSize()-NonceSize:]...)

	c.nonceCounter++
	return out, nil
}

// Decrypt opens an encrypted packet. The trailing four bytes of blob are
// the sender's counter value and are used to rebuild the nonce, which
// tolerates packet loss and reordering without a local expectation of the
// next counter. The internal counter is never mutated.
//
// Returns ErrAuthenticationFailed when the tag does not verify (wrong
// key, corruption, or tampering); no plaintext is ever emitted in that
// case.
func (c *TransportCipher) Decrypt(header, blob []byte) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.mode == ModeNone || c.secretKey == nil {
		return nil, ErrNotConfigured
	}
	if len(header) < RTPHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrHeaderTooShort, len(header), RTPHeaderSize)
	}
	if len(blob) < c.TagSize()+NonceSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrBlobTooShort, len(blob), c.TagSize()+NonceSize)
	}

	aead, err := c.newAEAD()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailed, err)
	}

	nonce := make([]byte, aead.NonceSize())
	copy(nonce[aead.NonceSize()-NonceSize:], blob[len(blob)-NonceSize:])

	plaintext, err := aead.Open(nil, nonce, blob[:len(blob)-NonceSize], header)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "TransportCipher.Decrypt",
			"mode":     string(c.mode),
			"size":     len(blob),
		}).Warn("Packet failed authentication")
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}

// SetNonce overwrites the packet counter, typically after a voice
// reconnect that resumes a prior session at a known counter value.
func (c *TransportCipher) SetNonce(value uint32) {
	c.nonceCounter = value
}

// GetNonce returns the current packet counter.
func (c *TransportCipher) GetNonce() uint32 {
	return c.nonceCounter
}

// IncrementNonce advances the packet counter by one and returns the new
// value.
func (c *TransportCipher) IncrementNonce() uint32 {
	c.nonceCounter++
	return c.nonceCounter
}

// Reset returns the packet counter to zero. Key and mode are unaffected.
func (c *TransportCipher) Reset() {
	c.nonceCounter = 0
}

// Mode returns the active encryption mode name.
func (c *TransportCipher) Mode() Mode {
	return c.mode
}

// SecretKeySize returns the required key length in bytes.
func (c *TransportCipher) SecretKeySize() int {
	return SecretKeySize
}

// TagSize returns the authentication tag length of the active mode, or 0
// when no mode is configured.
func (c *TransportCipher) TagSize() int {
	switch c.mode {
	case ModeAES256GCM:
		return AESGCMTagSize
	case ModeXChaCha20Poly1305:
		return XChaCha20Poly1305TagSize
	}
	return 0
}

// NonceSize returns the length of the trailing wire nonce in bytes.
func (c *TransportCipher) NonceSize() int {
	return NonceSize
}

// Close zeroizes the key and renders the cipher unusable. Safe to call
// more than once; subsequent calls are no-ops.
func (c *TransportCipher) Close() error {
	if c.closed {
		return nil
	}
	c.destroyKey()
	c.mode = ModeNone
	c.closed = true

	logrus.WithFields(logrus.Fields{
		"function": "TransportCipher.Close",
	}).Debug("Transport cipher closed")

	return nil
}

func (c *TransportCipher) destroyKey() {
	if c.secretKey != nil {
		ZeroBytes(c.secretKey)
		c.secretKey = nil
	}
}

// newAEAD builds the AEAD for the active mode over the current key.
func (c *TransportCipher) newAEAD() (cipher.AEAD, error) {
	switch c.mode {
	case ModeAES256GCM:
		block, err := aes.NewCipher(c.secretKey)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case ModeXChaCha20Poly1305:
		return chacha20poly1305.NewX(c.secretKey)
	}
	return nil, ErrNotConfigured
}

func allZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}
