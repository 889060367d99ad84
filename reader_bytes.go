package variadic

import "io"

// BytesReader is an in-memory io.ReadSeeker over a byte slice, used as the
// default backing store for a loading archive. Backward seeks are supported,
// which the legacy-format probe relies on.
type BytesReader struct {
	B []byte // source slice
	N int    // current read position
}

// NewBytesReader creates a new BytesReader.
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b}
}

// Read implements the io.Reader interface.
func (r *BytesReader) Read(p []byte) (int, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	n := copy(p, r.B[r.N:])
	r.N += n
	return n, nil
}

// ReadByte implements the io.ByteReader interface.
func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	b := r.B[r.N]
	r.N++
	return b, nil
}

// Seek implements the io.Seeker interface.
func (r *BytesReader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(r.N) + offset
	case io.SeekEnd:
		abs = int64(len(r.B)) + offset
	default:
		return int64(r.N), ErrInvalidWhence
	}

	if abs < 0 {
		return int64(r.N), ErrInvalidSeek
	}

	r.N = int(abs)
	return abs, nil
}

// Reset allows the underlying byte slice to be reused.
func (r *BytesReader) Reset() {
	r.N = 0
}

// Available returns the number of bytes left to read.
func (r *BytesReader) Available() int {
	if n := len(r.B) - r.N; n > 0 {
		return n
	}
	return 0
}
