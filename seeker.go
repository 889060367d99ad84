package variadic

import (
	"fmt"
	"io"
)

// forwardSeeker wraps an io.Reader, adding a forward-only Seek capability by
// reading and discarding data. It lets a loading archive skip unknown
// payloads on plain streams, at the cost of refusing the backward seeks the
// legacy-format probe needs.
type forwardSeeker struct {
	r      io.Reader
	offset int64
}

// ForwardSeeker wraps an io.Reader to make it a forward-only io.ReadSeeker.
// If the provided reader already implements io.ReadSeeker, it is returned directly.
func ForwardSeeker(r io.Reader) io.ReadSeeker {
	if r == nil {
		panic("variadic: ForwardSeeker called with a nil io.Reader")
	}
	if seeker, ok := r.(io.ReadSeeker); ok {
		return seeker
	}
	return &forwardSeeker{r: r}
}

// Read implements the io.Reader interface.
func (s *forwardSeeker) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.offset += int64(n)
	return n, err
}

// Seek supports io.SeekCurrent and io.SeekStart, and returns an error for
// any backward seek attempt.
func (s *forwardSeeker) Seek(offset int64, whence int) (int64, error) {
	var skip int64

	switch whence {
	case io.SeekCurrent:
		skip = offset
	case io.SeekStart:
		skip = offset - s.offset
	default:
		return s.offset, fmt.Errorf("%w: value %d is not supported", ErrInvalidWhence, whence)
	}

	if skip < 0 {
		return s.offset, ErrUnsupportedNegativeSeek
	}
	if skip == 0 {
		return s.offset, nil
	}

	// Discard data to perform the "seek".
	written, err := io.CopyN(io.Discard, s.r, skip)
	s.offset += written
	return s.offset, err
}
