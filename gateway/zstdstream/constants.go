package zstdstream

// DefaultInputBufferSize is the initial capacity of the compressed input
// accumulator.
const DefaultInputBufferSize = 128 * 1024

// DefaultOutputBufferSize is the initial capacity of the decompressed
// output accumulator.
const DefaultOutputBufferSize = 128 * 1024

// MaxFrameSize bounds the decompressed size of a single frame. A frame
// header may announce a tiny compressed payload that expands without
// limit; exceeding the cap sets a sticky CodeMemoryAllocation.
const MaxFrameSize = 512 << 20

// Status codes reported by Err, mirroring the reference zstd error
// taxonomy. CodeNoError is the healthy state; everything else is a
// sticky stream error.
const (
	CodeNoError             = 0
	CodeGeneric             = 1
	CodePrefixUnknown       = 10
	CodeCorruptionDetected  = 20
	CodeChecksumWrong       = 22
	CodeDictionaryCorrupted = 30
	CodeMemoryAllocation    = 64
	CodeDstSizeTooSmall     = 70
)

// ErrorName returns a short human-readable name for a status code.
func ErrorName(code int) string {
	switch code {
	case CodeNoError:
		return "no error"
	case CodeGeneric:
		return "generic error"
	case CodePrefixUnknown:
		return "unknown frame prefix"
	case CodeCorruptionDetected:
		return "corrupted data"
	case CodeChecksumWrong:
		return "checksum mismatch"
	case CodeDictionaryCorrupted:
		return "dictionary corrupted"
	case CodeMemoryAllocation:
		return "allocation limit exceeded"
	case CodeDstSizeTooSmall:
		return "destination too small"
	default:
		return "unknown error code"
	}
}
