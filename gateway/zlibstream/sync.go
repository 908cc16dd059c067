package zlibstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/opd-ai/voicewire/gateway"
)

// Inflate decompresses a standalone zlib payload in one call, for the
// per-packet payload compression mode where every gateway packet is its
// own complete zlib stream. Sync-flushed payloads without a stream
// trailer are accepted; whatever decompressed cleanly is returned.
func Inflate(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, gateway.ErrEmptyInput
	}

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize inflate stream: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("inflate error: %w", err)
	}
	return out, nil
}
