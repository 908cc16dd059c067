package crypto

import (
	"crypto/subtle"
	"errors"
	"runtime"
)

// SecureWipe overwrites a byte slice holding sensitive material with
// zeros. It returns an error if the slice is nil.
//
// The constant-time compare before the overwrite, together with the
// KeepAlive calls, keeps the compiler from treating the zeroing as a dead
// store and eliding it.
func SecureWipe(data []byte) error {
	if data == nil {
		return errors.New("cannot wipe nil data")
	}

	zeros := make([]byte, len(data))
	subtle.ConstantTimeCompare(data, zeros)
	copy(data, zeros)

	runtime.KeepAlive(data)
	runtime.KeepAlive(zeros)

	return nil
}

// ZeroBytes erases the contents of a byte slice containing sensitive
// data. Convenience wrapper around SecureWipe that ignores the error.
func ZeroBytes(data []byte) {
	_ = SecureWipe(data)
}
