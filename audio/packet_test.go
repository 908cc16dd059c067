package audio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePacket(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    PacketInfo
		wantErr error
	}{
		{
			name:    "empty packet",
			data:    nil,
			wantErr: ErrEmptyPacket,
		},
		{
			name:    "oversized packet",
			data:    bytes.Repeat([]byte{0x00}, MaxPacketSize+1),
			wantErr: ErrPacketTooLarge,
		},
		{
			name: "code 0 single frame",
			data: []byte{0xF8, 0x01}, // config 31, mono, code 0
			want: PacketInfo{Config: 31, Stereo: false, FrameCode: 0, FrameCount: 1},
		},
		{
			name: "code 1 two equal frames stereo",
			data: []byte{0x05, 0x01}, // config 0, stereo, code 1
			want: PacketInfo{Config: 0, Stereo: true, FrameCode: 1, FrameCount: 2},
		},
		{
			name: "code 2 two sized frames",
			data: []byte{0x0A, 0x01, 0x01}, // config 1, mono, code 2
			want: PacketInfo{Config: 1, Stereo: false, FrameCode: 2, FrameCount: 2},
		},
		{
			name: "code 3 with frame count",
			data: []byte{0x0B, 0x03, 0x01}, // config 1, mono, code 3, 3 frames
			want: PacketInfo{Config: 1, Stereo: false, FrameCode: 3, FrameCount: 3},
		},
		{
			name:    "code 3 missing count byte",
			data:    []byte{0x0B},
			wantErr: ErrMalformedPacket,
		},
		{
			name:    "code 3 zero frames",
			data:    []byte{0x0B, 0x40}, // padding bit set, count 0
			wantErr: ErrMalformedPacket,
		},
		{
			name:    "code 3 too many frames",
			data:    []byte{0x0B, 0x31}, // count 49
			wantErr: ErrMalformedPacket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ValidatePacket(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, info)
		})
	}
}

func TestValidateFrameSize(t *testing.T) {
	tests := []struct {
		name       string
		samples    int
		sampleRate uint32
		ok         bool
	}{
		{"2.5ms at 48kHz", 120, 48000, true},
		{"5ms at 48kHz", 240, 48000, true},
		{"10ms at 48kHz", 480, 48000, true},
		{"20ms at 48kHz", FrameSize, SampleRate, true},
		{"40ms at 48kHz", 1920, 48000, true},
		{"60ms at 48kHz", 2880, 48000, true},
		{"20ms at 8kHz", 160, 8000, true},
		{"off by one", 961, 48000, false},
		{"30ms is not a legal duration", 1440, 48000, false},
		{"zero samples", 0, 48000, false},
		{"zero rate", 960, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFrameSize(tt.samples, tt.sampleRate)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidFrameSize)
			}
		})
	}
}

func TestDecoderRejectsBadPackets(t *testing.T) {
	d := NewDecoder()
	defer d.Close()

	_, _, err := d.DecodeFrame(nil)
	assert.ErrorIs(t, err, ErrEmptyPacket)

	_, _, err = d.DecodeFrame(bytes.Repeat([]byte{0x00}, MaxPacketSize+1))
	assert.ErrorIs(t, err, ErrPacketTooLarge)

	// Valid header but a CELT-only configuration the pure Go decoder
	// does not handle; the decode itself must fail cleanly.
	_, _, err = d.DecodeFrame([]byte{0xF8, 0x00, 0x01, 0x02})
	assert.Error(t, err)
}

func TestDecoderClose(t *testing.T) {
	d := NewDecoder()

	require.NoError(t, d.Close())
	require.NoError(t, d.Close(), "second Close must be a no-op")

	_, _, err := d.DecodeFrame([]byte{0xF8, 0x00})
	assert.ErrorIs(t, err, ErrDecoderClosed)
}

func TestSupportedSampleRates(t *testing.T) {
	d := NewDecoder()
	defer d.Close()

	rates := d.SupportedSampleRates()
	assert.Contains(t, rates, uint32(SampleRate))
	assert.Contains(t, rates, uint32(8000))
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version())
}
