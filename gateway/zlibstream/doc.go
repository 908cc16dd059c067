// Package zlibstream implements Discord's zlib-stream transport
// compression for gateway connections.
//
// The gateway sends one continuous zlib stream for the lifetime of the
// connection. Message boundaries carry no length prefix; instead the
// sender ends every message with a zlib sync flush, which leaves the
// bytes 00 00 FF FF as the final four bytes of the compressed chunk.
// [InflateStream] buffers socket reads until that suffix appears, then
// decodes the whole buffered chunk through a decompression context whose
// history window is shared across all messages on the connection.
//
//	stream := zlibstream.NewInflateStream()
//	defer stream.Close()
//
//	ok, err := stream.Push(socketChunk)
//	if err != nil {
//		// pushed after Close or after the stream finished
//	}
//	if ok && stream.Err() == zlibstream.ZOK {
//		payload := stream.Buffer() // one or more complete gateway messages
//		stream.ClearBuffer()
//	}
//
// The suffix check looks at exactly the last four bytes of accumulated
// input. The compression format guarantees the marker only lands there at
// a true flush boundary chosen by the sender, so no escaping or deeper
// inspection is needed. The check must not be replaced by explicit
// framing, since the wire contract is fixed by the remote end.
//
// Codec errors (corrupt data, dictionary required) are sticky: Push keeps
// accepting input but stops producing, and the caller polls Err and
// Message, then decides between Reset and Close.
package zlibstream
