package variadic

import (
	"encoding/binary"
	"io"
)

// Guid identifies a custom-version track carried by an archive. Streams
// record which feature versions they were written under; readers gate
// migration paths on them.
type Guid [4]uint32

// Writer is a saving archive over an io.WriteSeeker. It tracks the first
// error that occurs; after an error, all subsequent operations become
// no-ops. Seeking is required by the frame format, which patches each
// payload size after the payload has been written.
type Writer struct {
	w        io.WriteSeeker
	pos      int64
	err      error // first error encountered. Subsequent writes become no-ops.
	order    binary.ByteOrder
	text     bool
	versions map[Guid]int32
}

// NewWriter creates a saving archive. BytesWriter is the usual in-memory
// target; an os.File works as well.
func NewWriter(w io.WriteSeeker) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}
	return &Writer{w: w, order: Order}, nil
}

// WithByteOrder sets a custom wire order for framing integers and returns
// the configured writer for chaining.
func (w *Writer) WithByteOrder(order binary.ByteOrder) *Writer {
	w.order = order
	return w
}

// WithTextFormat marks the archive as textual. Binary-only migration paths
// refuse such archives instead of mis-parsing them.
func (w *Writer) WithTextFormat() *Writer {
	w.text = true
	return w
}

// IsTextFormat reports whether the archive is in a textual mode.
func (w *Writer) IsTextFormat() bool { return w.text }

// SetCustomVersion records the version of a feature track in the archive.
func (w *Writer) SetCustomVersion(g Guid, ver int32) {
	if w.versions == nil {
		w.versions = make(map[Guid]int32)
	}
	w.versions[g] = ver
}

// CustomVersion returns the recorded version for a track, or -1 if the
// archive does not carry it.
func (w *Writer) CustomVersion(g Guid) int32 {
	if ver, ok := w.versions[g]; ok {
		return ver
	}
	return -1
}

// Tell returns the current write position.
func (w *Writer) Tell() int64 { return w.pos }

// Err returns the first error encountered, if any.
func (w *Writer) Err() error { return w.err }

// setError records the first non-nil error. This preserves the root cause
// of a failure chain instead of a later, less relevant error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Write implements the io.Writer interface.
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.pos += int64(n)
	w.setError(err)
	return n, w.err
}

// Seek moves the write position.
func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	if w.err != nil {
		return w.pos, w.err
	}
	pos, err := w.w.Seek(offset, whence)
	w.pos = pos
	w.setError(err)
	return pos, err
}

// PatchUint32 overwrites a previously reserved 4-byte field at the given
// position, then restores the write position. This is the second pass of
// the length-prefixed framing.
func (w *Writer) PatchUint32(at int64, v uint32) {
	if w.err != nil {
		return
	}
	end := w.pos
	w.Seek(at, io.SeekStart)
	w.WriteUint32(v)
	w.Seek(end, io.SeekStart)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(p []byte) {
	_, _ = w.Write(p)
}

// WriteString writes a length-prefixed string (u16 length + bytes). The
// empty string is a valid, self-delimiting "no type" marker.
func (w *Writer) WriteString(s string) {
	w.WriteUint16(uint16(len(s)))
	_, _ = w.Write([]byte(s))
}

// --- Primitive Write Operations ---

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

func (w *Writer) WriteUint8(v uint8) {
	_, _ = w.Write([]byte{v})
}

func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	var buf [2]byte
	w.order.PutUint16(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	w.order.PutUint32(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	w.order.PutUint64(buf[:], v)
	_, _ = w.Write(buf[:])
}
