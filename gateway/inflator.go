package gateway

import "errors"

// Sentinel errors shared by the decompression engines. Codec-level stream
// errors are not represented here; those are sticky per-stream state
// exposed through Inflator.Err and Inflator.Message.
var (
	// ErrNotInitialized indicates the stream was used after Close.
	ErrNotInitialized = errors.New("stream not initialized")

	// ErrStreamFinished indicates input was pushed after the stream
	// reached its terminal state. Reset clears the condition.
	ErrStreamFinished = errors.New("stream is finished")

	// ErrEmptyInput indicates a one-shot decompression helper received
	// no data.
	ErrEmptyInput = errors.New("input data cannot be empty")
)

// Inflator is the capability shared by the gateway decompression
// engines. An Inflator owns its codec state exclusively and is not safe
// for concurrent use; one instance serves one gateway connection.
type Inflator interface {
	// Push appends chunk to the input accumulator and runs a
	// decompression pass if the engine's framing allows one. It reports
	// whether a pass ran. Codec errors do not surface here; poll Err.
	Push(chunk []byte) (bool, error)

	// Flush forces a final decode pass over any buffered input,
	// typically at connection teardown.
	Flush() error

	// Reset reinitializes the codec state in place and clears
	// accumulators, counters, and any sticky error.
	Reset() error

	// Close releases the codec state. Calling Close again is a no-op.
	Close() error

	// Buffer returns a copy of the accumulated decompressed output.
	Buffer() []byte

	// ClearBuffer discards the accumulated output.
	ClearBuffer()

	// Err returns the engine's sticky status code; the success value is
	// codec specific but always zero.
	Err() int

	// Message returns the human-readable message for the sticky status,
	// or the empty string when there is none.
	Message() string

	// Finished reports whether the stream reached its terminal state.
	Finished() bool

	// BytesRead returns the total compressed bytes consumed since the
	// last Reset.
	BytesRead() uint64

	// BytesWritten returns the total decompressed bytes produced since
	// the last Reset.
	BytesWritten() uint64
}
