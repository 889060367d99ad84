package variadic

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with a nil stream.
	ErrNilIO = errors.New("variadic: NewReader/NewWriter called with a nil stream")

	// ErrUnsupportedType indicates an attempt to initialize a container with a
	// descriptor from the container deny-list (a container-of-container type).
	// This is a programmer error and is raised as a panic, never returned.
	ErrUnsupportedType = errors.New("variadic: unsupported container-of-container type")

	// ErrTypeMismatch indicates that a reference-returning typed accessor was
	// used with a type the container does not hold and cannot narrow to.
	ErrTypeMismatch = errors.New("variadic: stored type mismatch")

	// ErrUnregisteredType indicates that a Go type has no descriptor in the
	// registry passed to the operation.
	ErrUnregisteredType = errors.New("variadic: type is not registered")

	// ErrDuplicateType indicates that a name or Go type is already registered.
	ErrDuplicateType = errors.New("variadic: type already registered")

	// ErrVariableSize indicates that a registered Go type contains
	// variable-size fields (slices, maps, strings) and has no fixed layout.
	ErrVariableSize = errors.New("variadic: type has no fixed binary size")

	// ErrInvalidParent indicates that a derived registration does not embed its
	// declared parent type as the first field, so no base view exists.
	ErrInvalidParent = errors.New("variadic: parent type is not the leading field")

	// ErrCorruptStream indicates that a network archive claimed to carry a
	// valid value but its type could not be resolved. Not recoverable by the
	// container; the caller owns the connection teardown.
	ErrCorruptStream = errors.New("variadic: corrupt network stream")

	// ErrMalformedText indicates an unparsable token during text import.
	ErrMalformedText = errors.New("variadic: malformed text value")

	// ErrInvalidSeek indicates a seek to a position outside the written data.
	ErrInvalidSeek = errors.New("variadic: seek to an invalid position")

	// ErrInvalidWhence indicates an unsupported 'whence' value for a Seek.
	ErrInvalidWhence = errors.New("variadic: unsupported whence for seek")

	// ErrUnsupportedNegativeSeek indicates a backward seek on a forward-only reader.
	ErrUnsupportedNegativeSeek = errors.New("variadic: unsupported negative offset for forward-only seeker")
)
