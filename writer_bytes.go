package variadic

import "io"

// BytesWriter is a growable in-memory io.WriteSeeker used as the default
// backing store for a saving archive. Unlike bytes.Buffer it supports
// seeking back into already-written data, which the length-prefixed frame
// format needs to patch a payload size after the payload is written.
type BytesWriter struct {
	B []byte // written data, len(B) is the high-water mark
	N int    // current write position
}

// NewBytesWriter creates a new BytesWriter. The given slice, if any, seeds
// the initial capacity; its contents are discarded.
func NewBytesWriter(p []byte) *BytesWriter {
	return &BytesWriter{B: p[:0]}
}

// Write implements the io.Writer interface. Writing past the high-water mark
// grows the buffer; writing inside it overwrites in place.
func (w *BytesWriter) Write(p []byte) (int, error) {
	end := w.N + len(p)
	if end > cap(w.B) {
		// Round the new capacity up to keep growth amortized for the many
		// small primitive writes an archive produces.
		nb := make([]byte, len(w.B), Roundup(end, 256))
		copy(nb, w.B)
		w.B = nb
	}
	if end > len(w.B) {
		w.B = w.B[:end]
	}
	copy(w.B[w.N:end], p)
	w.N = end
	return len(p), nil
}

// WriteByte implements the io.ByteWriter interface.
func (w *BytesWriter) WriteByte(c byte) error {
	_, err := w.Write([]byte{c})
	return err
}

// Seek implements the io.Seeker interface. Seeking beyond the high-water
// mark is an error; the archive only ever revisits written regions.
func (w *BytesWriter) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.N) + offset
	case io.SeekEnd:
		abs = int64(len(w.B)) + offset
	default:
		return int64(w.N), ErrInvalidWhence
	}

	if abs < 0 || abs > int64(len(w.B)) {
		return int64(w.N), ErrInvalidSeek
	}

	w.N = int(abs)
	return abs, nil
}

// Reset allows the underlying byte slice to be reused.
func (w *BytesWriter) Reset() {
	w.B = w.B[:0]
	w.N = 0
}

// Len returns the number of bytes written.
func (w *BytesWriter) Len() int { return len(w.B) }

// Bytes returns a slice view of the written data.
func (w *BytesWriter) Bytes() []byte { return w.B }
