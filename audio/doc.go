// Package audio provides Opus frame handling for voice connections.
//
// Voice packets decrypted by package crypto carry Opus-encoded audio.
// This package validates those packets against the Opus packet layout
// and decodes them to PCM using the pure Go pion/opus decoder.
//
// Decoding only: the pion/opus library does not include an encoder, so
// outbound audio must be encoded by the application before it reaches
// the transport layer.
package audio
