// Package zstdstream implements Discord's zstd-stream transport
// compression for gateway connections.
//
// Unlike the zlib transport, zstd frames are self-delimiting: no suffix
// marker exists, and message boundaries are recovered from the frame
// format itself. [InflateStream] buffers socket reads, scans the
// accumulated input for complete frames, and decodes each one as it
// completes. A partial frame stays buffered until the rest of it
// arrives; skippable frames are consumed and discarded.
//
//	stream := zstdstream.NewInflateStream()
//	defer stream.Close()
//
//	ok, err := stream.Push(socketChunk)
//	if err != nil {
//		// pushed after Close
//	}
//	if ok && stream.Err() == zstdstream.CodeNoError {
//		payload := stream.Buffer()
//		stream.ClearBuffer()
//	}
//
// Codec errors are sticky, same model as package zlibstream: Push keeps
// accepting input but stops producing until Reset. A frame that fails to
// decode is left in the input buffer, so the caller can inspect it
// before discarding the session.
package zstdstream
