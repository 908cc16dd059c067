package zlibstream

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/voicewire/gateway"
)

// gatewayCompressor mimics the remote end of a zlib-stream connection:
// one shared zlib writer for all messages, each message terminated by a
// sync flush so its compressed chunk ends with the 00 00 FF FF suffix.
type gatewayCompressor struct {
	buf bytes.Buffer
	w   *zlib.Writer
}

func newGatewayCompressor() *gatewayCompressor {
	c := &gatewayCompressor{}
	c.w = zlib.NewWriter(&c.buf)
	return c
}

func (c *gatewayCompressor) compress(t *testing.T, msg []byte) []byte {
	t.Helper()
	_, err := c.w.Write(msg)
	require.NoError(t, err)
	require.NoError(t, c.w.Flush())

	chunk := append([]byte(nil), c.buf.Bytes()...)
	c.buf.Reset()
	require.True(t, HasSuffix(chunk), "sync flush must leave the suffix")
	return chunk
}

// end terminates the shared stream, returning the trailing bytes (final
// deflate block plus zlib checksum) that carry no suffix.
func (c *gatewayCompressor) end(t *testing.T) []byte {
	t.Helper()
	require.NoError(t, c.w.Close())
	return append([]byte(nil), c.buf.Bytes()...)
}

func TestPushCompleteMessage(t *testing.T) {
	comp := newGatewayCompressor()
	msg := []byte(`{"op":10,"d":{"heartbeat_interval":41250}}`)
	chunk := comp.compress(t, msg)

	s := NewInflateStream()
	defer s.Close()

	ok, err := s.Push(chunk)
	require.NoError(t, err)
	assert.True(t, ok, "a suffix-terminated chunk must be processed")

	assert.Equal(t, msg, s.Buffer())
	assert.Equal(t, ZOK, s.Err())
	assert.Empty(t, s.Message())
	assert.False(t, s.Finished())
	assert.Equal(t, uint64(len(chunk)), s.BytesRead())
	assert.Equal(t, uint64(len(msg)), s.BytesWritten())
}

func TestSplitPushWaitsForSuffix(t *testing.T) {
	comp := newGatewayCompressor()
	msg := bytes.Repeat([]byte("incremental gateway payload "), 64)
	chunk := comp.compress(t, msg)

	s := NewInflateStream()
	defer s.Close()

	// Split so the suffix only arrives with the second call.
	split := len(chunk) - 2
	ok, err := s.Push(chunk[:split])
	require.NoError(t, err)
	assert.False(t, ok, "no suffix yet: chunk must be buffered")
	assert.Empty(t, s.Buffer())

	ok, err = s.Push(chunk[split:])
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, msg, s.Buffer())
}

func TestSharedContextAcrossMessages(t *testing.T) {
	// Later messages back-reference earlier ones through the shared
	// deflate window; decoding them correctly proves the context is
	// carried between messages.
	comp := newGatewayCompressor()
	msg1 := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 32)
	msg2 := append([]byte("again: "), msg1...)
	msg3 := bytes.Repeat([]byte("the quick brown fox"), 100)

	s := NewInflateStream()
	defer s.Close()

	for _, msg := range [][]byte{msg1, msg2, msg3} {
		chunk := comp.compress(t, msg)
		ok, err := s.Push(chunk)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, ZOK, s.Err(), "message: %v", s.Message())
		assert.Equal(t, msg, s.Buffer())
		s.ClearBuffer()
	}
}

func TestLargeMessageSlidesWindow(t *testing.T) {
	comp := newGatewayCompressor()

	// Bigger than the 32K deflate window, then a message that references
	// only the tail of it.
	big := make([]byte, 100_000)
	for i := range big {
		big[i] = byte('a' + i%23)
	}
	tail := append([]byte("tail: "), big[len(big)-1000:]...)

	s := NewInflateStream()
	defer s.Close()

	for _, msg := range [][]byte{big, tail} {
		chunk := comp.compress(t, msg)
		ok, err := s.Push(chunk)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, msg, s.Buffer())
		s.ClearBuffer()
	}
}

func TestGarbageWithSuffixSetsStickyError(t *testing.T) {
	s := NewInflateStream()
	defer s.Close()

	garbage := append([]byte{0x12, 0x34, 0x56, 0x78, 0x9A}, Suffix...)
	ok, err := s.Push(garbage)
	require.NoError(t, err, "codec errors are polled, never returned from Push")
	assert.True(t, ok, "a processing pass ran")

	assert.NotEqual(t, ZOK, s.Err())
	assert.NotEmpty(t, s.Message())
	assert.False(t, s.Finished())

	// Production halts while the error is parked.
	comp := newGatewayCompressor()
	chunk := comp.compress(t, []byte("valid"))
	ok, err = s.Push(chunk)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, s.Buffer())
}

func TestCorruptDeflateBodySetsStickyError(t *testing.T) {
	// Valid zlib header, then a deflate block with the reserved type
	// (BTYPE=11), then the suffix. The block type is always invalid.
	bad := append([]byte{0x78, 0x9C, 0x07}, Suffix...)

	s := NewInflateStream()
	defer s.Close()

	ok, err := s.Push(bad)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ZDataError, s.Err())
	assert.NotEmpty(t, s.Message())
}

func TestResetClearsErrorAndState(t *testing.T) {
	s := NewInflateStream()
	defer s.Close()

	garbage := append([]byte{0xFF, 0xFE}, Suffix...)
	_, err := s.Push(garbage)
	require.NoError(t, err)
	require.NotEqual(t, ZOK, s.Err())

	require.NoError(t, s.Reset())
	assert.Equal(t, ZOK, s.Err())
	assert.Empty(t, s.Message())
	assert.Zero(t, s.BytesRead())
	assert.Zero(t, s.BytesWritten())

	// A fresh logical stream decodes fine after the reset.
	comp := newGatewayCompressor()
	msg := []byte("post-reset message")
	ok, err := s.Push(comp.compress(t, msg))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ZOK, s.Err(), "message: %v", s.Message())
	assert.Equal(t, msg, s.Buffer())
}

func TestFlushMarksFinishedOnStreamEnd(t *testing.T) {
	comp := newGatewayCompressor()
	msg := []byte("last message before teardown")

	s := NewInflateStream()
	defer s.Close()

	ok, err := s.Push(comp.compress(t, msg))
	require.NoError(t, err)
	require.True(t, ok)

	// The stream trailer has no suffix, so it just buffers.
	trailer := comp.end(t)
	ok, err = s.Push(trailer)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Flush())
	assert.True(t, s.Finished())
	assert.Equal(t, ZStreamEnd, s.Err())
	assert.Equal(t, msg, s.Buffer())

	// Finished stream refuses further input until Reset.
	_, err = s.Push([]byte("late"))
	assert.ErrorIs(t, err, gateway.ErrStreamFinished)
}

func TestFlushWithoutBufferedInput(t *testing.T) {
	s := NewInflateStream()
	defer s.Close()

	require.NoError(t, s.Flush())
	assert.False(t, s.Finished())
	assert.Equal(t, ZOK, s.Err())
}

func TestCloseIsIdempotent(t *testing.T) {
	s := NewInflateStream()

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second Close must be a no-op")

	_, err := s.Push([]byte("data"))
	assert.ErrorIs(t, err, gateway.ErrNotInitialized)
	assert.ErrorIs(t, s.Flush(), gateway.ErrNotInitialized)
	assert.ErrorIs(t, s.Reset(), gateway.ErrNotInitialized)
}

func TestEmptyPushIsNoop(t *testing.T) {
	s := NewInflateStream()
	defer s.Close()

	ok, err := s.Push(nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, s.BytesRead())
}

func TestClearBufferKeepsContext(t *testing.T) {
	comp := newGatewayCompressor()
	msg1 := bytes.Repeat([]byte("shared history "), 40)
	msg2 := bytes.Repeat([]byte("shared history "), 41)

	s := NewInflateStream()
	defer s.Close()

	_, err := s.Push(comp.compress(t, msg1))
	require.NoError(t, err)
	s.ClearBuffer()
	assert.Empty(t, s.Buffer())

	_, err = s.Push(comp.compress(t, msg2))
	require.NoError(t, err)
	assert.Equal(t, msg2, s.Buffer(), "draining output must not break the window")
}

func TestBufferReturnsCopy(t *testing.T) {
	comp := newGatewayCompressor()
	msg := []byte("aliasing check")

	s := NewInflateStream()
	defer s.Close()

	_, err := s.Push(comp.compress(t, msg))
	require.NoError(t, err)

	got := s.Buffer()
	got[0] ^= 0xFF
	assert.Equal(t, msg, s.Buffer(), "caller mutation must not reach internal state")
}

func TestHasSuffix(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want bool
	}{
		{"exact suffix", []byte{0x00, 0x00, 0xFF, 0xFF}, true},
		{"data then suffix", []byte{0x01, 0x02, 0x00, 0x00, 0xFF, 0xFF}, true},
		{"too short", []byte{0x00, 0xFF, 0xFF}, false},
		{"wrong bytes", []byte{0x00, 0x00, 0xFF, 0xFE}, false},
		{"suffix not at end", []byte{0x00, 0x00, 0xFF, 0xFF, 0x01}, false},
		{"empty", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasSuffix(tc.data))
		})
	}
}

func TestInflateOneShot(t *testing.T) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	msg := bytes.Repeat([]byte("one-shot payload "), 20)
	_, err := w.Write(msg)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := Inflate(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, msg, out)
}

func TestInflateOneShotSyncFlushed(t *testing.T) {
	// A sync-flushed payload has no stream trailer; Inflate still
	// returns everything that decoded cleanly.
	comp := newGatewayCompressor()
	msg := []byte("truncated but decodable")
	chunk := comp.compress(t, msg)

	out, err := Inflate(chunk)
	require.NoError(t, err)
	assert.Equal(t, msg, out)
}

func TestInflateOneShotErrors(t *testing.T) {
	_, err := Inflate(nil)
	assert.ErrorIs(t, err, gateway.ErrEmptyInput)

	_, err = Inflate([]byte{0x12, 0x34, 0x56})
	assert.Error(t, err, "bad zlib header must fail")
}
