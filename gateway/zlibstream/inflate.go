package zlibstream

import (
	"bytes"
	"errors"
	"io"
	"runtime"

	"github.com/klauspost/compress/flate"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/voicewire/gateway"
)

// InflateStream is the incremental decompressor for zlib-stream transport
// compression. The decompression context lives for the whole connection:
// the deflate history window is carried from one message to the next and
// is only discarded by Reset or Close.
//
// Not safe for concurrent use; one instance per gateway connection.
type InflateStream struct {
	fr        io.ReadCloser // flate reader, re-armed per message via flate.Resetter
	input     []byte
	output    []byte
	window    []byte // last 32K of cumulative decompressed output
	scratch   []byte
	chunkSize int
	raw       bool // negative window bits: raw deflate, no zlib header
	sawHeader bool

	initialized  bool
	finished     bool
	lastErr      int
	lastMsg      string
	bytesRead    uint64
	bytesWritten uint64
}

type config struct {
	chunkSize  int
	windowBits int
}

// Option configures an InflateStream at construction time.
type Option func(*config)

// WithChunkSize sets the decode scratch buffer size. Non-positive values
// fall back to DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithWindowBits sets the zlib window bits. Only the sign is meaningful
// to this implementation: negative values select a raw deflate stream
// with no zlib header, matching inflateInit2 semantics. The magnitude is
// accepted for wire compatibility and otherwise ignored (the deflate
// window is always 32K).
func WithWindowBits(bits int) Option {
	return func(c *config) {
		c.windowBits = bits
	}
}

// NewInflateStream creates a streaming decompressor for one gateway
// connection.
func NewInflateStream(opts ...Option) *InflateStream {
	cfg := config{chunkSize: DefaultChunkSize, windowBits: 15}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &InflateStream{
		fr:          flate.NewReaderDict(bytes.NewReader(nil), nil),
		chunkSize:   cfg.chunkSize,
		scratch:     make([]byte, cfg.chunkSize),
		raw:         cfg.windowBits < 0,
		initialized: true,
	}

	logrus.WithFields(logrus.Fields{
		"function":   "zlibstream.NewInflateStream",
		"chunk_size": cfg.chunkSize,
		"raw":        s.raw,
	}).Debug("Inflate stream created")

	return s
}

// HasSuffix reports whether data ends with the zlib sync-flush marker.
func HasSuffix(data []byte) bool {
	return len(data) >= SuffixSize && bytes.Equal(data[len(data)-SuffixSize:], Suffix)
}

// Push appends chunk to the input accumulator. If the accumulated input
// now ends with the sync-flush suffix, the whole buffered message is
// decompressed and Push reports true; otherwise the bytes are buffered
// for a later call and Push reports false.
//
// Codec errors are not returned here: they park in Err/Message and halt
// production until Reset. The returned error covers usage only (stream
// closed or finished).
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

	if s.lastErr != ZOK {
		// Error state is sticky; buffer but produce nothing until Reset.
		return false, nil
	}
	if !HasSuffix(s.input) {
		return false, nil
	}

	s.inflateBuffered(false)
	return true, nil
}

// Flush forces a final decode pass over any buffered input regardless of
// suffix presence, for connection teardown. The stream is marked finished
// only if the decoder reports true stream completion.
func (s *InflateStream) Flush() error {
	if !s.initialized {
		return gateway.ErrNotInitialized
	}
	if len(s.input) == 0 || s.lastErr != ZOK {
		return nil
	}
	s.inflateBuffered(true)
	return nil
}

// inflateBuffered runs the accumulated input through the decompressor and
// clears the input accumulator. finish marks the teardown pass.
func (s *InflateStream) inflateBuffered(finish bool) {
	data := s.input
	s.input = s.input[:0]

	if !s.raw && !s.sawHeader {
		rest, ok := s.consumeZlibHeader(data)
		if !ok {
			return
		}
		data = rest
	}

	if err := s.fr.(flate.Resetter).Reset(bytes.NewReader(data), s.window); err != nil {
		s.fail(ZStreamError, err.Error())
		return
	}

	start := len(s.output)
	var produced int
	for {
		n, err := s.fr.Read(s.scratch)
		if n > 0 {
			produced += n
			if produced > MaxMessageSize {
				s.fail(ZMemError, "decompressed message exceeds size limit")
				return
			}
			s.output = append(s.output, s.scratch[:n]...)
			s.bytesWritten += uint64(n)
		}
		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, io.ErrUnexpectedEOF):
			// Normal end of a sync-flushed message: all input consumed,
			// deflate stream still open.
			if finish {
				s.lastErr = ZBufError
			}
		case errors.Is(err, io.EOF):
			// The sender terminated the deflate stream.
			if finish {
				s.finished = true
				s.lastErr = ZStreamEnd
			}
		default:
			s.fail(ZDataError, err.Error())
			return
		}
		break
	}

	s.slideWindow(s.output[start:])
}

// consumeZlibHeader validates and strips the two-byte CMF/FLG pair that
// opens the connection's zlib stream. Returns false after parking a
// sticky error.
func (s *InflateStream) consumeZlibHeader(data []byte) ([]byte, bool) {
	if len(data) < zlibHeaderSize {
		s.fail(ZDataError, "incomplete zlib header")
		return nil, false
	}
	cmf, flg := data[0], data[1]
	if cmf&0x0F != 8 {
		s.fail(ZDataError, "unknown compression method")
		return nil, false
	}
	if (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		s.fail(ZDataError, "incorrect header check")
		return nil, false
	}
	if flg&0x20 != 0 {
		s.fail(ZNeedDict, "need dictionary")
		return nil, false
	}
	s.sawHeader = true
	return data[zlibHeaderSize:], true
}

// slideWindow keeps the trailing 32K of cumulative output as the preset
// dictionary for the next message. The deflate window after a sync flush
// is exactly that, so resetting the reader with it reproduces the shared
// context of a single long-lived inflate stream.
func (s *InflateStream) slideWindow(produced []byte) {
	if len(produced) >= deflateWindowSize {
		s.window = append(s.window[:0], produced[len(produced)-deflateWindowSize:]...)
		return
	}
	s.window = append(s.window, produced...)
	if len(s.window) > deflateWindowSize {
		s.window = append(s.window[:0:0], s.window[len(s.window)-deflateWindowSize:]...)
	}
}

func (s *InflateStream) fail(code int, msg string) {
	s.lastErr = code
	s.lastMsg = msg
	logrus.WithFields(logrus.Fields{
		"function": "zlibstream.InflateStream",
		"code":     code,
		"message":  msg,
	}).Warn("Inflate stream error")
}

// Reset reinitializes the stream in place: fresh decompression context,
// empty accumulators, cleared counters and error state. Equivalent to
// starting a new logical stream without reallocating.
func (s *InflateStream) Reset() error {
	if !s.initialized {
		return gateway.ErrNotInitialized
	}
	s.input = s.input[:0]
	s.output = nil
	s.window = nil
	s.sawHeader = false
	s.finished = false
	s.lastErr = ZOK
	s.lastMsg = ""
	s.bytesRead = 0
	s.bytesWritten = 0
	return nil
}

// Close releases the decompression context. Safe to call more than once.
// Push after Close fails with gateway.ErrNotInitialized.
func (s *InflateStream) Close() error {
	if !s.initialized {
		return nil
	}
	s.initialized = false
	s.finished = true
	_ = s.fr.Close()
	s.fr = nil
	s.input = nil
	s.output = nil
	s.window = nil
	return nil
}

// Buffer returns a copy of the accumulated decompressed output. The
// stream retains no alias into the returned slice.
func (s *InflateStream) Buffer() []byte {
	out := make([]byte, len(s.output))
	copy(out, s.output)
	return out
}

// ClearBuffer discards accumulated output. The shared history window is
// unaffected; decompression continues normally.
func (s *InflateStream) ClearBuffer() {
	s.output = s.output[:0]
}

// Err returns the sticky status code; ZOK means healthy.
func (s *InflateStream) Err() int { return s.lastErr }

// Message returns the message attached to the sticky status, or "".
func (s *InflateStream) Message() string { return s.lastMsg }

// Finished reports whether the decoder saw true stream completion.
func (s *InflateStream) Finished() bool { return s.finished }

// BytesRead returns total compressed bytes pushed since the last Reset.
func (s *InflateStream) BytesRead() uint64 { return s.bytesRead }

// BytesWritten returns total decompressed bytes produced since the last
// Reset.
func (s *InflateStream) BytesWritten() uint64 { return s.bytesWritten }

// Version reports the decompressor implementation.
func Version() string {
	return "zlib (pure Go, " + runtime.Version() + ")"
}

var _ gateway.Inflator = (*InflateStream)(nil)
