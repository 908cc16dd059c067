package zlibstream

// Suffix is the zlib sync-flush marker that terminates every compressed
// gateway message. Exact byte sequence and position (the last four bytes
// of accumulated input) are wire contract.
var Suffix = []byte{0x00, 0x00, 0xFF, 0xFF}

// SuffixSize is the length of the sync-flush marker.
const SuffixSize = 4

// DefaultChunkSize is the default decode scratch buffer size.
const DefaultChunkSize = 32768

// MaxMessageSize bounds the decompressed size of a single suffix-framed
// message. The scratch buffer otherwise grows geometrically with no upper
// bound, which would let an adversarial peer expand a small compressed
// chunk without limit. Exceeding the cap sets a sticky ZMemError.
const MaxMessageSize = 512 << 20

// deflateWindowSize is the history window carried across messages.
const deflateWindowSize = 32768

// zlibHeaderSize is the CMF/FLG pair that opens a zlib stream.
const zlibHeaderSize = 2

// Flush mode tokens, mirroring the zlib API. Callers treat these as
// opaque integers.
const (
	ZNoFlush      = 0
	ZPartialFlush = 1
	ZSyncFlush    = 2
	ZFullFlush    = 3
	ZFinish       = 4
)

// Status tokens, mirroring zlib return codes. ZOK is the success value
// reported by Err; negative values are sticky stream errors.
const (
	ZOK          = 0
	ZStreamEnd   = 1
	ZNeedDict    = 2
	ZErrno       = -1
	ZStreamError = -2
	ZDataError   = -3
	ZMemError    = -4
	ZBufError    = -5
)
