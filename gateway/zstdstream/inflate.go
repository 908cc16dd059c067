package zstdstream

import (
	"errors"
	"runtime"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/voicewire/gateway"
)

// InflateStream is the incremental decompressor for zstd-stream transport
// compression. Frames are self-delimiting, so input is scanned for
// complete frames and each one is decoded as soon as its last byte
// arrives; a partial frame waits in the input buffer.
//
// Not safe for concurrent use; one instance per gateway connection.
type InflateStream struct {
	dec    *zstd.Decoder
	input  []byte
	output []byte

	initialized  bool
	finished     bool
	lastErr      int
	lastMsg      string
	bytesRead    uint64
	bytesWritten uint64
	frames       uint64
}

// Stats is a point-in-time snapshot of session throughput. Derived
// fields are zero when no input has been processed yet.
type Stats struct {
	BytesRead         uint64
	BytesWritten      uint64
	FramesProcessed   uint64
	Ratio             float64
	AverageInputSize  float64
	AverageOutputSize float64
}

type config struct {
	inputBufferSize  int
	outputBufferSize int
	maxFrameSize     uint64
}

// Option configures an InflateStream at construction time.
type Option func(*config)

// WithInputBufferSize sets the initial capacity of the compressed input
// accumulator. Non-positive values fall back to the default.
func WithInputBufferSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.inputBufferSize = size
		}
	}
}

// WithOutputBufferSize sets the initial capacity of the decompressed
// output accumulator. Non-positive values fall back to the default.
func WithOutputBufferSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.outputBufferSize = size
		}
	}
}

// NewInflateStream creates a streaming decompressor for one gateway
// connection.
func NewInflateStream(opts ...Option) (*InflateStream, error) {
	cfg := config{
		inputBufferSize:  DefaultInputBufferSize,
		outputBufferSize: DefaultOutputBufferSize,
		maxFrameSize:     MaxFrameSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(cfg.maxFrameSize),
	)
	if err != nil {
		return nil, err
	}

	s := &InflateStream{
		dec:         dec,
		input:       make([]byte, 0, cfg.inputBufferSize),
		output:      make([]byte, 0, cfg.outputBufferSize),
		initialized: true,
	}

	logrus.WithFields(logrus.Fields{
		"function":           "zstdstream.NewInflateStream",
		"input_buffer_size":  cfg.inputBufferSize,
		"output_buffer_size": cfg.outputBufferSize,
	}).Debug("Inflate stream created")

	return s, nil
}

// Push appends chunk to the input accumulator and decodes every complete
// frame found in it. It reports true when at least one frame was
// consumed, false when everything stayed buffered waiting for more
// input.
//
// Codec errors are not returned here: they park in Err/Message and halt
// production until Reset. The returned error covers usage only (stream
// closed).
func (s *InflateStream) Push(chunk []byte) (bool, error) {
	if !s.initialized {
		return false, gateway.ErrNotInitialized
	}
	if s.finished {
		return false, gateway.ErrStreamFinished
	}
	if len(chunk) == 0 {
		return false, nil
	}

	s.input = append(s.input, chunk...)
	s.bytesRead += uint64(len(chunk))

	if s.lastErr != CodeNoError {
		return false, nil
	}
	return s.drain(), nil
}

// Flush re-runs the decode pass over buffered input. Frames are decoded
// eagerly by Push, so this only matters after a Reset cleared an error
// with input still queued behind it. An incomplete trailing frame is
// never an error; it simply stays buffered.
func (s *InflateStream) Flush() error {
	if !s.initialized {
		return gateway.ErrNotInitialized
	}
	if s.lastErr != CodeNoError {
		return nil
	}
	s.drain()
	return nil
}

// drain decodes complete frames from the front of the input buffer until
// it runs out of whole frames or hits an error. A frame that fails to
// decode is left in place.
func (s *InflateStream) drain() bool {
	off := 0
	consumed := false

	for off < len(s.input) {
		n, skippable, err := frameExtent(s.input[off:])
		if err != nil {
			s.fail(scanErrorCode(err), err.Error())
			break
		}
		if n == 0 {
			break // incomplete frame, wait for more input
		}
		if skippable {
			off += n
			consumed = true
			continue
		}

		out, err := s.dec.DecodeAll(s.input[off:off+n], nil)
		if err != nil {
			s.fail(decodeErrorCode(err), err.Error())
			break
		}
		s.output = append(s.output, out...)
		s.bytesWritten += uint64(len(out))
		s.frames++
		off += n
		consumed = true
	}

	if off > 0 {
		s.input = append(s.input[:0], s.input[off:]...)
	}
	return consumed
}

func scanErrorCode(err error) int {
	switch {
	case errors.Is(err, errPrefixUnknown):
		return CodePrefixUnknown
	case errors.Is(err, errFrameSizeBounds):
		return CodeMemoryAllocation
	default:
		return CodeCorruptionDetected
	}
}

func decodeErrorCode(err error) int {
	switch {
	case errors.Is(err, zstd.ErrMagicMismatch):
		return CodePrefixUnknown
	case errors.Is(err, zstd.ErrCRCMismatch):
		return CodeChecksumWrong
	case errors.Is(err, zstd.ErrDecoderSizeExceeded),
		errors.Is(err, zstd.ErrWindowSizeExceeded),
		errors.Is(err, zstd.ErrFrameSizeExceeded):
		return CodeMemoryAllocation
	default:
		return CodeCorruptionDetected
	}
}

func (s *InflateStream) fail(code int, msg string) {
	s.lastErr = code
	s.lastMsg = msg
	logrus.WithFields(logrus.Fields{
		"function": "zstdstream.InflateStream",
		"code":     code,
		"name":     ErrorName(code),
		"message":  msg,
	}).Warn("Inflate stream error")
}

// Reset reinitializes the session in place: empty accumulators, cleared
// counters and error state. The decoder itself is stateless between
// frames and is reused.
func (s *InflateStream) Reset() error {
	if !s.initialized {
		return gateway.ErrNotInitialized
	}
	s.input = s.input[:0]
	s.output = s.output[:0]
	s.finished = false
	s.lastErr = CodeNoError
	s.lastMsg = ""
	s.bytesRead = 0
	s.bytesWritten = 0
	s.frames = 0
	return nil
}

// Close releases the decoder. Safe to call more than once. Push after
// Close fails with gateway.ErrNotInitialized.
func (s *InflateStream) Close() error {
	if !s.initialized {
		return nil
	}
	s.initialized = false
	s.finished = true
	s.dec.Close()
	s.dec = nil
	s.input = nil
	s.output = nil
	return nil
}

// Buffer returns a copy of the accumulated decompressed output. The
// stream retains no alias into the returned slice.
func (s *InflateStream) Buffer() []byte {
	out := make([]byte, len(s.output))
	copy(out, s.output)
	return out
}

// ClearBuffer discards accumulated output without touching the decode
// session.
func (s *InflateStream) ClearBuffer() {
	s.output = s.output[:0]
}

// Err returns the sticky status code; CodeNoError means healthy.
func (s *InflateStream) Err() int { return s.lastErr }

// Message returns the message attached to the sticky status, or "".
func (s *InflateStream) Message() string { return s.lastMsg }

// Finished reports whether the session was closed. Zstd frames carry no
// end-of-stream marker, so only Close finishes the session.
func (s *InflateStream) Finished() bool { return s.finished }

// BytesRead returns total compressed bytes pushed since the last Reset.
func (s *InflateStream) BytesRead() uint64 { return s.bytesRead }

// BytesWritten returns total decompressed bytes produced since the last
// Reset.
func (s *InflateStream) BytesWritten() uint64 { return s.bytesWritten }

// FramesProcessed returns the number of data frames decoded since the
// last Reset. Skippable frames are consumed but not counted.
func (s *InflateStream) FramesProcessed() uint64 { return s.frames }

// Stats returns a snapshot of session throughput with derived averages.
func (s *InflateStream) Stats() Stats {
	st := Stats{
		BytesRead:       s.bytesRead,
		BytesWritten:    s.bytesWritten,
		FramesProcessed: s.frames,
	}
	if s.bytesRead > 0 {
		st.Ratio = float64(s.bytesWritten) / float64(s.bytesRead)
	}
	if s.frames > 0 {
		st.AverageInputSize = float64(s.bytesRead) / float64(s.frames)
		st.AverageOutputSize = float64(s.bytesWritten) / float64(s.frames)
	}
	return st
}

// Version reports the decompressor implementation.
func Version() string {
	return "zstd (pure Go, " + runtime.Version() + ")"
}

var _ gateway.Inflator = (*InflateStream)(nil)
