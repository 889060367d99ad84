// Package variadic implements a type-erased value container with small
// buffer optimization. A VariadicStruct holds one value of any registered
// fixed-layout type, inline when the layout fits the buffer and on the heap
// otherwise, and serializes to a length-prefixed frame that readers can
// skip without understanding the payload.
package variadic

import (
	"fmt"
	"reflect"
)

const (
	// BufferSize is the inline slot capacity in bytes. Any type whose layout
	// fits (and whose alignment does not exceed BufferAlign) is stored
	// without a heap allocation.
	BufferSize = 24

	// BufferAlign is the strongest alignment the inline slot guarantees.
	// BufferSize >= BufferAlign, so the heap/inline decision never needs to
	// probe the slot address itself.
	BufferAlign = 16
)

// VariadicStruct is the container. The zero value is empty and ready to
// use. It has single-owner value semantics: share it by pointer, duplicate
// it with Clone or CopyFrom, transfer it with MoveFrom. A plain struct
// assignment would alias the heap slot and is not supported.
type VariadicStruct struct {
	buf  [BufferSize]byte
	heap []byte
	desc *TypeDescriptor
}

// needsHeap reports whether a type's value lives on the heap. A pure
// function of the descriptor: the answer never depends on container state.
func needsHeap(td *TypeDescriptor) bool {
	return td.size > BufferSize || td.align > BufferAlign
}

// slot returns the live value bytes, or nil when empty.
func (v *VariadicStruct) slot() []byte {
	switch {
	case v.desc == nil:
		return nil
	case needsHeap(v.desc):
		return v.heap
	default:
		return v.buf[:v.desc.size]
	}
}

// IsValid reports whether the container holds a value.
func (v *VariadicStruct) IsValid() bool { return v.desc != nil }

// Descriptor returns the descriptor of the held value, or nil when empty.
func (v *VariadicStruct) Descriptor() *TypeDescriptor { return v.desc }

// IsInline reports whether the held value lives in the inline buffer.
// False when empty.
func (v *VariadicStruct) IsInline() bool {
	return v.desc != nil && !needsHeap(v.desc)
}

// Memory returns the value bytes for reading, or nil when empty. Callers
// must not retain the slice across a re-initialization.
func (v *VariadicStruct) Memory() []byte { return v.slot() }

// MutableMemory returns the value bytes for writing, or nil when empty.
func (v *VariadicStruct) MutableMemory() []byte { return v.slot() }

// InitializeAs constructs a value of the given type in the container,
// copy-assigning from src when non-nil and default-constructing otherwise.
// A nil descriptor resets the container. Re-initializing with the current
// type reuses the existing slot, skipping the free/allocate round-trip.
//
// Panics with ErrUnsupportedType for deny-listed container-of-container
// descriptors; that is a precondition violation, not a recoverable error.
func (v *VariadicStruct) InitializeAs(td *TypeDescriptor, src []byte) {
	if td != nil && td.container {
		panic(fmt.Errorf("%w: %s", ErrUnsupportedType, td.name))
	}

	// Same type: reuse the slot, wherever it lives.
	if v.desc != nil && v.desc == td {
		mem := v.slot()
		if src != nil {
			td.copyAssign(mem, src)
		} else {
			td.destroy(mem)
			td.construct(mem)
		}
		return
	}

	v.Reset()
	if td == nil {
		return
	}

	v.desc = td
	if needsHeap(td) {
		v.heap = make([]byte, td.size)
	}

	mem := v.slot()
	td.construct(mem)
	if src != nil {
		td.copyAssign(mem, src)
	}
}

// Reset destroys the held value, releases the heap slot if any, and leaves
// the container empty. Idempotent. The inline buffer retains garbage.
func (v *VariadicStruct) Reset() {
	if mem := v.slot(); mem != nil {
		v.desc.destroy(mem)
	}
	v.heap = nil
	v.desc = nil
}

// CopyFrom deep-copies the other container's value into this one. Always a
// value copy, never a shared slot.
func (v *VariadicStruct) CopyFrom(other *VariadicStruct) {
	if v != other {
		v.InitializeAs(other.desc, other.Memory())
	}
}

// Clone returns a deep copy of the container.
func (v *VariadicStruct) Clone() *VariadicStruct {
	out := &VariadicStruct{}
	out.CopyFrom(v)
	return out
}

// MoveFrom transfers the other container's value into this one, leaving the
// source empty.
//
// An inline-resident value is logically copied through the type's copy
// operation and the source is then reset: a raw byte move would tear values
// that keep interior state tied to their own slot. A heap-resident value is
// a true ownership transfer of the slot, with no destroy on the source.
func (v *VariadicStruct) MoveFrom(other *VariadicStruct) {
	if v == other {
		return
	}

	if other.desc != nil && !needsHeap(other.desc) {
		v.InitializeAs(other.desc, other.Memory())
		other.Reset()
		return
	}

	v.Reset()
	v.desc, v.heap = other.desc, other.heap
	other.desc, other.heap = nil, nil
}

// Identical deep-compares two containers. They are identical only when both
// hold the same concrete type and the type's compare operation agrees;
// base/derived pairs are never identical even when one layout prefixes the
// other.
func (v *VariadicStruct) Identical(other *VariadicStruct, flags CompareFlags) bool {
	if other == nil || v.desc == nil || v.desc != other.desc {
		return false
	}
	return v.desc.compare(v.slot(), other.slot(), flags)
}

// Equal is Identical with default compare flags.
func (v *VariadicStruct) Equal(other *VariadicStruct) bool {
	return v.Identical(other, CompareNone)
}

// VisitReferences reports the held value to an external reference walker,
// which can recurse into it by descriptor. Empty containers report nothing.
func (v *VariadicStruct) VisitReferences(fn func(td *TypeDescriptor, value []byte)) {
	if mem := v.slot(); mem != nil {
		fn(v.desc, mem)
	}
}

// InnerField returns the slot sub-slice holding a named top-level field of
// the stored type, for callers probing a value without its Go type.
func (v *VariadicStruct) InnerField(name string) ([]byte, bool) {
	if v.desc == nil || v.desc.goType.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.desc.goType
	offset := 0
	for i := range t.NumField() {
		f := t.Field(i)
		size := binarySizeOf(f.Type)
		if size < 0 {
			return nil, false
		}
		if f.Name == name {
			return v.slot()[offset : offset+size], true
		}
		offset += size
	}
	return nil, false
}

// StructView is a non-owning {descriptor, value bytes} pair, used to pass
// defaults into serialization without copying them into a container.
type StructView struct {
	desc *TypeDescriptor
	mem  []byte
}

// MakeView builds a view over a descriptor and raw value bytes.
func MakeView(td *TypeDescriptor, mem []byte) StructView {
	return StructView{desc: td, mem: mem}
}

// View returns a non-owning view of the container's value. Valid only while
// the container keeps its current type.
func (v *VariadicStruct) View() StructView {
	return StructView{desc: v.desc, mem: v.slot()}
}

// Descriptor returns the viewed type, or nil.
func (s StructView) Descriptor() *TypeDescriptor { return s.desc }

// Memory returns the viewed value bytes, or nil.
func (s StructView) Memory() []byte { return s.mem }

// IsValid reports whether the view points at a value.
func (s StructView) IsValid() bool { return s.desc != nil }
