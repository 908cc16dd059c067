package audio

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Voice channel audio parameters. The voice transport negotiates these
// values; they are fixed for a connection.
const (
	// SampleRate is the audio sample rate in Hz.
	SampleRate = 48000

	// Channels is the channel count (stereo).
	Channels = 2

	// FrameSize is the samples per channel in a standard 20ms frame.
	FrameSize = 960

	// Bitrate is the default encoder bit rate in bits per second.
	Bitrate = 64000

	// MaxPacketSize is the largest Opus packet accepted from the wire.
	MaxPacketSize = 4000
)

// maxFramesPerPacket is the Opus limit for code-3 packets (120ms total).
const maxFramesPerPacket = 48

// PacketInfo describes an Opus packet header (the table-of-contents
// byte and, for code-3 packets, the frame count byte).
type PacketInfo struct {
	Config     uint8 // mode/bandwidth/duration configuration, 0..31
	Stereo     bool
	FrameCode  uint8 // 0: one frame, 1: two equal, 2: two sized, 3: arbitrary
	FrameCount int
}

// ValidatePacket parses the Opus packet header and rejects packets that
// cannot be legal Opus. It does not decode the payload.
func ValidatePacket(data []byte) (PacketInfo, error) {
	if len(data) == 0 {
		return PacketInfo{}, ErrEmptyPacket
	}
	if len(data) > MaxPacketSize {
		logrus.WithFields(logrus.Fields{
			"function":    "audio.ValidatePacket",
			"packet_size": len(data),
			"max_size":    MaxPacketSize,
		}).Warn("Oversized audio packet rejected")
		return PacketInfo{}, ErrPacketTooLarge
	}

	toc := data[0]
	info := PacketInfo{
		Config:    toc >> 3,
		Stereo:    toc&0x04 != 0,
		FrameCode: toc & 0x03,
	}

	switch info.FrameCode {
	case 0:
		info.FrameCount = 1
	case 1, 2:
		info.FrameCount = 2
	case 3:
		if len(data) < 2 {
			return PacketInfo{}, fmt.Errorf("%w: code 3 packet without frame count byte", ErrMalformedPacket)
		}
		count := int(data[1] & 0x3F)
		if count == 0 || count > maxFramesPerPacket {
			return PacketInfo{}, fmt.Errorf("%w: code 3 frame count %d out of range", ErrMalformedPacket, count)
		}
		info.FrameCount = count
	}

	return info, nil
}

// ValidateFrameSize checks that a PCM frame length corresponds to a
// legal Opus frame duration (2.5, 5, 10, 20, 40, or 60 ms).
func ValidateFrameSize(samplesPerChannel int, sampleRate uint32) error {
	if sampleRate == 0 {
		return fmt.Errorf("%w: zero sample rate", ErrInvalidFrameSize)
	}

	// Durations scaled x10 to keep the 2.5ms case integral. The
	// round-trip check catches truncated divisions.
	tenths := samplesPerChannel * 10000 / int(sampleRate)
	if tenths*int(sampleRate) == samplesPerChannel*10000 {
		switch tenths {
		case 25, 50, 100, 200, 400, 600:
			return nil
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":            "audio.ValidateFrameSize",
		"samples_per_channel": samplesPerChannel,
		"sample_rate":         sampleRate,
	}).Debug("Frame size validation failed")

	return fmt.Errorf("%w: %d samples at %d Hz", ErrInvalidFrameSize, samplesPerChannel, sampleRate)
}
