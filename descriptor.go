package variadic

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"
)

// CompareFlags adjusts how a type's compare operation weighs fields.
type CompareFlags uint32

// CompareNone is the default, full-value comparison.
const CompareNone CompareFlags = 0

// Ops is the operation set a descriptor exposes over raw value slots. Every
// field is optional; nil operations fall back to the structural defaults
// derived from the type's fixed binary layout.
type Ops struct {
	// Construct default-initializes an uninitialized slot.
	Construct func(value []byte)

	// Destroy releases whatever the value owns. The slot bytes may retain
	// garbage afterwards.
	Destroy func(value []byte)

	// Copy deep-assigns src over an already-constructed dst.
	Copy func(dst, src []byte)

	// Compare reports whether two constructed values are identical.
	Compare func(a, b []byte, flags CompareFlags) bool

	// Serialize writes the value payload, diffed against defaults when
	// non-nil. It must be symmetric with Deserialize.
	Serialize func(w *Writer, value, defaults []byte)

	// Deserialize reads the value payload. payload is the recorded frame
	// size; custom codecs that wrote a delta can use it to detect an
	// empty frame.
	Deserialize func(r *Reader, payload uint32, value, defaults []byte)

	// ExportText appends the type's textual form of the value.
	ExportText func(sb *strings.Builder, value []byte)

	// ImportText parses the type's textual form, returning the unconsumed
	// remainder of the input.
	ImportText func(in string, value []byte) (rest string, err error)

	// NetSend / NetRecv are the optional native network fast path. When
	// absent, net serialization falls back to a Replicator or raw bytes.
	NetSend func(w *Writer, value []byte) bool
	NetRecv func(r *Reader, value []byte) bool
}

// TypeDescriptor identifies one registered structural type: its stable name,
// fixed layout, optional parent for base-view narrowing, and operation set.
// Descriptors are immutable after registration and compared by pointer.
type TypeDescriptor struct {
	name      string
	size      int
	align     int
	parent    *TypeDescriptor
	goType    reflect.Type
	ops       Ops
	container bool
}

// Name returns the stable fully-qualified type name used on the wire.
func (td *TypeDescriptor) Name() string { return td.name }

// Size returns the value layout size in bytes.
func (td *TypeDescriptor) Size() int { return td.size }

// Align returns the minimum alignment of the value layout.
func (td *TypeDescriptor) Align() int { return td.align }

// Parent returns the base-type descriptor, or nil.
func (td *TypeDescriptor) Parent() *TypeDescriptor { return td.parent }

// GoType returns the Go type the descriptor was registered for.
func (td *TypeDescriptor) GoType() reflect.Type { return td.goType }

// IsChildOf reports whether td is base itself or a descendant of base.
func (td *TypeDescriptor) IsChildOf(base *TypeDescriptor) bool {
	for d := td; d != nil; d = d.parent {
		if d == base {
			return true
		}
	}
	return false
}

// Option adjusts a descriptor at registration time.
type Option func(*TypeDescriptor)

// WithParent declares the descriptor a kind-of parent. The registered Go
// type must embed the parent's Go type as its first field so the base view
// is the leading slice of the value slot.
func WithParent(parent *TypeDescriptor) Option {
	return func(td *TypeDescriptor) { td.parent = parent }
}

// WithAlign overrides the minimum alignment. Values above BufferAlign force
// the heap slot regardless of size.
func WithAlign(align int) Option {
	return func(td *TypeDescriptor) { td.align = align }
}

// WithOps installs custom operations. Fields left nil keep the structural
// defaults.
func WithOps(ops Ops) Option {
	return func(td *TypeDescriptor) { td.ops = ops }
}

// AsContainerType marks the descriptor as a value-container wrapper itself.
// Such types are denied storage inside a VariadicStruct; nesting one
// container format in another re-enters serialization recursively.
func AsContainerType() Option {
	return func(td *TypeDescriptor) { td.container = true }
}

// sizeCache avoids the reflection cost of binary.Size on every layout query.
var sizeCache = xsync.NewMap[reflect.Type, int]()

// binarySizeOf returns the fixed binary size of t, or -1 when t contains
// variable-size fields.
func binarySizeOf(t reflect.Type) int {
	if size, ok := sizeCache.Load(t); ok {
		return size
	}
	size := binary.Size(reflect.Zero(t).Interface())
	sizeCache.Store(t, size)
	return size
}

// newDescriptor builds and validates a descriptor for t without touching a
// registry. Registration wires it into the lookup maps.
func newDescriptor(t reflect.Type, name string, opts ...Option) (*TypeDescriptor, error) {
	size := binarySizeOf(t)
	if size < 0 {
		return nil, fmt.Errorf("%w: %s", ErrVariableSize, t)
	}

	td := &TypeDescriptor{
		name:   name,
		size:   size,
		align:  t.Align(),
		goType: t,
	}
	for _, opt := range opts {
		opt(td)
	}

	if td.parent != nil {
		if t.Kind() != reflect.Struct || t.NumField() == 0 || t.Field(0).Type != td.parent.goType {
			return nil, fmt.Errorf("%w: %s does not lead with %s", ErrInvalidParent, name, td.parent.name)
		}
	}
	return td, nil
}

// --- Operation dispatch with structural fallbacks ---

func (td *TypeDescriptor) construct(value []byte) {
	if td.ops.Construct != nil {
		td.ops.Construct(value)
		return
	}
	clear(value)
}

func (td *TypeDescriptor) destroy(value []byte) {
	if td.ops.Destroy != nil {
		td.ops.Destroy(value)
	}
}

func (td *TypeDescriptor) copyAssign(dst, src []byte) {
	if td.ops.Copy != nil {
		td.ops.Copy(dst, src)
		return
	}
	copy(dst, src)
}

func (td *TypeDescriptor) compare(a, b []byte, flags CompareFlags) bool {
	if td.ops.Compare != nil {
		return td.ops.Compare(a, b, flags)
	}
	return bytes.Equal(a, b)
}

func (td *TypeDescriptor) serialize(w *Writer, value, defaults []byte) {
	if td.ops.Serialize != nil {
		td.ops.Serialize(w, value, defaults)
		return
	}
	// Structural delta: a value identical to its defaults costs zero
	// payload bytes.
	if defaults != nil && bytes.Equal(value, defaults) {
		return
	}
	w.WriteBytes(value)
}

func (td *TypeDescriptor) deserialize(r *Reader, payload uint32, value, defaults []byte) {
	if td.ops.Deserialize != nil {
		td.ops.Deserialize(r, payload, value, defaults)
		return
	}
	if payload == 0 {
		if defaults != nil {
			copy(value, defaults)
		}
		return
	}
	if int(payload) < len(value) {
		// Foreign or truncated layout: absorb what the frame carries.
		r.ReadBytesTo(value[:payload])
		return
	}
	r.ReadBytesTo(value)
}

func (td *TypeDescriptor) exportText(sb *strings.Builder, value []byte) {
	if td.ops.ExportText != nil {
		td.ops.ExportText(sb, value)
		return
	}
	fmt.Fprintf(sb, "(0x%x)", value)
}

func (td *TypeDescriptor) importText(in string, value []byte) (string, error) {
	if td.ops.ImportText != nil {
		return td.ops.ImportText(in, value)
	}

	rest, ok := strings.CutPrefix(in, "(0x")
	if !ok {
		return in, fmt.Errorf("%w: %s value must start with \"(0x\"", ErrMalformedText, td.name)
	}
	body, rest, ok := strings.Cut(rest, ")")
	if !ok {
		return in, fmt.Errorf("%w: unterminated %s value", ErrMalformedText, td.name)
	}
	raw, err := hex.DecodeString(body)
	if err != nil || len(raw) != len(value) {
		return in, fmt.Errorf("%w: bad %s payload", ErrMalformedText, td.name)
	}
	copy(value, raw)
	return rest, nil
}
