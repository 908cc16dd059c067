package audio

import (
	"fmt"

	"github.com/pion/opus"
	"github.com/sirupsen/logrus"
)

// Decoder decodes Opus voice packets to PCM.
//
// Not safe for concurrent use; one instance per voice stream.
type Decoder struct {
	dec    *opus.Decoder
	output []byte // reusable decode buffer
	closed bool
}

// NewDecoder creates an Opus decoder for one voice stream.
func NewDecoder() *Decoder {
	logrus.WithFields(logrus.Fields{
		"function": "audio.NewDecoder",
	}).Debug("Creating Opus decoder")

	dec := opus.NewDecoder()
	return &Decoder{
		dec: &dec,
		// 40ms at 48kHz covers the largest frame the decoder emits,
		// two bytes per int16 sample.
		output: make([]byte, 1920*2),
	}
}

// DecodeFrame decodes one Opus packet to PCM samples. The returned
// sample rate is derived from the bandwidth the packet was encoded at.
func (d *Decoder) DecodeFrame(data []byte) ([]int16, uint32, error) {
	if d.closed {
		return nil, 0, ErrDecoderClosed
	}
	if _, err := ValidatePacket(data); err != nil {
		return nil, 0, err
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Decoder.DecodeFrame",
		"packet_size": len(data),
	}).Debug("Decoding Opus packet")

	bandwidth, isStereo, err := d.dec.Decode(data, d.output)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Decoder.DecodeFrame",
			"error":    err.Error(),
		}).Error("Opus decode failed")
		return nil, 0, fmt.Errorf("opus decode failed: %w", err)
	}

	sampleCount := len(d.output) / 2
	pcm := make([]int16, sampleCount)
	for i := 0; i < sampleCount; i++ {
		pcm[i] = int16(d.output[i*2]) | int16(d.output[i*2+1])<<8
	}

	sampleRate := uint32(bandwidth.SampleRate())

	logrus.WithFields(logrus.Fields{
		"function":    "Decoder.DecodeFrame",
		"packet_size": len(data),
		"pcm_samples": len(pcm),
		"sample_rate": sampleRate,
		"bandwidth":   bandwidth.String(),
		"is_stereo":   isStereo,
	}).Debug("Opus decode completed")

	return pcm, sampleRate, nil
}

// SupportedSampleRates returns the sample rates Opus can decode.
func (d *Decoder) SupportedSampleRates() []uint32 {
	return []uint32{8000, 12000, 16000, 24000, 48000}
}

// Close releases the decoder. Safe to call more than once.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.dec = nil
	d.output = nil
	return nil
}

// Version reports the decoder implementation.
func Version() string {
	return "opus (pure Go, decode only)"
}
