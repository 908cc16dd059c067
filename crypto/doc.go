// Package crypto implements the transport encryption layer for Discord
// voice connections.
//
// The central type is [TransportCipher], a per-connection AEAD engine that
// encrypts RTP-headered voice packets under one of two interchangeable
// modes:
//
//   - [ModeAES256GCM] ("aes256_gcm_rtpsize"), preferred when the CPU has
//     hardware AES support
//   - [ModeXChaCha20Poly1305] ("aead_xchacha20_poly1305_rtpsize"), always
//     available, required as the portable fallback
//
// Both modes share one wire convention: the RTP header is authenticated but
// not encrypted (AEAD additional data), and the cipher's 32-bit packet
// counter is appended to the ciphertext as four big-endian bytes. The
// counter also forms the low bytes of the AEAD nonce, zero-padded to the
// nonce size of the active mode (12 bytes for GCM, 24 for XChaCha20).
//
//	cipher, _ := crypto.NewTransportCipher()
//	_ = cipher.SetSecretKey(key)                        // 32 bytes from the voice server
//	_ = cipher.SetMode(crypto.ModeXChaCha20Poly1305)
//	packet, _ := cipher.Encrypt(rtpHeader, opusFrame)
//	defer cipher.Close()                                // zeroizes the key
//
// On decrypt the counter is read back from the trailing wire bytes rather
// than from local state, so packets may be decrypted out of order after
// loss or reordering. Replay protection is the concern of a higher layer.
//
// # Key hygiene
//
// The cipher owns an exclusive copy of the secret key. The key is
// overwritten with zeros before every replacement and on Close, using
// [SecureWipe].
//
// # Thread safety
//
// A TransportCipher is not safe for concurrent use. The intended ownership
// model is one cipher per voice connection, driven only from that
// connection's packet path. Distinct instances are fully independent.
package crypto
