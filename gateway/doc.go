// Package gateway defines the shared surface for the incremental
// decompression engines used on Discord gateway connections.
//
// Two transport compression schemes exist, implemented in subpackages:
//
//   - [github.com/opd-ai/voicewire/gateway/zlibstream]: zlib-stream
//     transport compression, where message boundaries are marked by the
//     trailing 4-byte sync-flush suffix 00 00 FF FF in the compressed
//     input.
//   - [github.com/opd-ai/voicewire/gateway/zstdstream]: zstd-stream
//     transport compression, where the zstd container's own frame
//     structure delimits messages.
//
// Both engines implement [Inflator]: bytes from the socket go in through
// Push, decompressed payload accumulates internally, and the caller
// drains it with Buffer/ClearBuffer. Codec-level stream errors are sticky
// state polled through Err/Message rather than returned from Push, since
// the streams are long-lived and error state must survive past the call
// that caused it. Usage errors (pushing after Close or after the stream
// finished) are returned as Go errors.
package gateway
