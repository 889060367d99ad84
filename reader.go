package variadic

import (
	"encoding/binary"
	"io"
)

// Reader is a loading archive. It tracks the first error that occurs; after
// an error, all subsequent operations become no-ops. Plain io.Readers are
// wrapped with a forward-only seeker, which is enough to skip unknown
// payloads; the legacy-format probe additionally needs backward seeking
// (BytesReader, os.File).
type Reader struct {
	r        io.ReadSeeker
	pos      int64
	err      error // first error encountered.
	order    binary.ByteOrder
	text     bool
	versions map[Guid]int32
}

// NewReader creates a loading archive.
func NewReader(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	return &Reader{r: ForwardSeeker(r), order: Order}, nil
}

// WithByteOrder sets a custom wire order for framing integers and returns
// the configured reader for chaining.
func (r *Reader) WithByteOrder(order binary.ByteOrder) *Reader {
	r.order = order
	return r
}

// WithTextFormat marks the archive as textual. Binary-only migration paths
// refuse such archives instead of mis-parsing them.
func (r *Reader) WithTextFormat() *Reader {
	r.text = true
	return r
}

// IsTextFormat reports whether the archive is in a textual mode.
func (r *Reader) IsTextFormat() bool { return r.text }

// SetCustomVersion records the version of a feature track the stream was
// produced under, typically read from a file header by the caller.
func (r *Reader) SetCustomVersion(g Guid, ver int32) {
	if r.versions == nil {
		r.versions = make(map[Guid]int32)
	}
	r.versions[g] = ver
}

// CustomVersion returns the recorded version for a track, or -1 if the
// archive does not carry it.
func (r *Reader) CustomVersion(g Guid) int32 {
	if ver, ok := r.versions[g]; ok {
		return ver
	}
	return -1
}

// Tell returns the current read position.
func (r *Reader) Tell() int64 { return r.pos }

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.pos += int64(n)
	r.setError(err)
	return n, r.err
}

// Seek moves the read position.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if r.err != nil {
		return r.pos, r.err
	}
	pos, err := r.r.Seek(offset, whence)
	r.pos = pos
	r.setError(err)
	return pos, err
}

// Skip advances the read position by n bytes. It is how a reader steps over
// a payload it cannot or should not interpret.
func (r *Reader) Skip(n int64) {
	if r.err != nil || n <= 0 {
		return
	}
	_, _ = r.Seek(r.pos+n, io.SeekStart)
}

// readFull is an internal helper to read an exact number of bytes.
func (r *Reader) readFull(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if err == io.EOF {
			// A partial read is different from a clean end-of-stream.
			r.err = io.ErrUnexpectedEOF
		} else {
			r.err = err
		}
		return nil
	}
	r.pos += int64(n)
	return buf
}

// ReadBytes reads n bytes and returns a new byte slice.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return r.readFull(n)
}

// ReadBytesTo reads exactly len(dest) bytes into dest.
func (r *Reader) ReadBytesTo(dest []byte) {
	if r.err != nil || len(dest) == 0 {
		return
	}
	n, err := io.ReadFull(r.r, dest)
	r.pos += int64(n)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	r.setError(err)
}

// ReadString reads a length-prefixed string (u16 length + bytes).
func (r *Reader) ReadString(dest *string) {
	var n uint16
	r.ReadUint16(&n)
	if r.err != nil || n == 0 {
		*dest = ""
		return
	}
	buf := r.readFull(int(n))
	if r.err == nil {
		*dest = string(buf)
	}
}

// --- Primitive Read Operations ---

func (r *Reader) ReadBool(dest *bool) {
	var b uint8
	r.ReadUint8(&b)
	if r.err == nil {
		*dest = b != 0
	}
}

func (r *Reader) ReadUint8(dest *uint8) {
	buf := r.readFull(1)
	if r.err == nil {
		*dest = buf[0]
	}
}

func (r *Reader) ReadUint16(dest *uint16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = r.order.Uint16(buf)
	}
}

func (r *Reader) ReadUint32(dest *uint32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = r.order.Uint32(buf)
	}
}

func (r *Reader) ReadUint64(dest *uint64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = r.order.Uint64(buf)
	}
}
