package zstdstream

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/opd-ai/voicewire/gateway"
)

// Inflate decompresses a standalone zstd payload in one call. The input
// may hold several concatenated frames; the output is their decoded
// contents in order.
func Inflate(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, gateway.ErrEmptyInput
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(MaxFrameSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode error: %w", err)
	}
	return out, nil
}
