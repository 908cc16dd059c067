package audio

import "errors"

var (
	// ErrEmptyPacket is returned when a zero-length packet is decoded or
	// validated.
	ErrEmptyPacket = errors.New("empty audio packet")

	// ErrPacketTooLarge is returned when a packet exceeds MaxPacketSize.
	ErrPacketTooLarge = errors.New("audio packet exceeds maximum size")

	// ErrMalformedPacket is returned when the packet header does not
	// parse as a valid Opus table-of-contents.
	ErrMalformedPacket = errors.New("malformed opus packet")

	// ErrDecoderClosed is returned when decoding through a closed
	// decoder.
	ErrDecoderClosed = errors.New("audio decoder closed")

	// ErrInvalidFrameSize is returned for PCM frame sizes that do not
	// correspond to a legal Opus frame duration.
	ErrInvalidFrameSize = errors.New("invalid opus frame size")
)
