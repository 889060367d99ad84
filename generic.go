package variadic

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Typed access to container values. The stored slot is the binary image of
// a registered Go struct, so typed reads decode a copy and typed writes
// re-encode; Mutate wraps the round-trip. The exact-type fast path resolves
// purely on the descriptor's Go type; narrowing walks the parent chain and
// reads the leading base-sized slice of the slot.

// Make constructs a container holding val, whose type must be registered.
func Make[T any](reg *Registry, val T) (*VariadicStruct, error) {
	v := &VariadicStruct{}
	if err := Set(v, reg, val); err != nil {
		return nil, err
	}
	return v, nil
}

// Set initializes the container with val, reusing the slot when the type
// matches the current one.
func Set[T any](v *VariadicStruct, reg *Registry, val T) error {
	td, ok := reg.descriptorOf(reflect.TypeFor[T]())
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnregisteredType, val)
	}
	buf := make([]byte, td.size)
	if _, err := binary.Encode(buf, Order, &val); err != nil {
		return err
	}
	v.InitializeAs(td, buf)
	return nil
}

// typedSlot resolves the slot region readable as T: the whole slot on an
// exact match, the leading base slice when the stored type descends from T.
func typedSlot[T any](v *VariadicStruct, exact bool) []byte {
	if v.desc == nil {
		return nil
	}
	t := reflect.TypeFor[T]()
	if v.desc.goType == t {
		return v.slot()
	}
	if exact {
		return nil
	}
	for td := v.desc.parent; td != nil; td = td.parent {
		if td.goType == t {
			return v.slot()[:td.size]
		}
	}
	return nil
}

// Get returns a copy of the held value as T. Narrowing to a base type of
// the stored type is allowed: constructing as derived and reading as base
// yields the base slice of the derived value.
func Get[T any](v *VariadicStruct) (T, bool) {
	var out T
	mem := typedSlot[T](v, false)
	if mem == nil {
		return out, false
	}
	if _, err := binary.Decode(mem, Order, &out); err != nil {
		return out, false
	}
	return out, true
}

// GetExact returns a copy of the held value as T only when T is the exact
// stored type; base types of the stored type are rejected.
func GetExact[T any](v *VariadicStruct) (T, bool) {
	var out T
	mem := typedSlot[T](v, true)
	if mem == nil {
		return out, false
	}
	if _, err := binary.Decode(mem, Order, &out); err != nil {
		return out, false
	}
	return out, true
}

// MustValue returns the held value as T, panicking with ErrTypeMismatch
// when the container holds something else. The pointer-less signature has
// no way to express absence, so unlike Get it cannot fail silently.
func MustValue[T any](v *VariadicStruct) T {
	out, ok := Get[T](v)
	if !ok {
		held := "none"
		if v.desc != nil {
			held = v.desc.name
		}
		panic(fmt.Errorf("%w: holding %s, want %s", ErrTypeMismatch, held, reflect.TypeFor[T]()))
	}
	return out
}

// Mutate decodes the held value as T, applies fn, and re-encodes it in
// place. Narrowing applies as in Get: mutating through a base type writes
// back only the base slice. Returns false without calling fn on mismatch.
func Mutate[T any](v *VariadicStruct, fn func(*T)) bool {
	mem := typedSlot[T](v, false)
	if mem == nil {
		return false
	}
	var val T
	if _, err := binary.Decode(mem, Order, &val); err != nil {
		return false
	}
	fn(&val)
	_, err := binary.Encode(mem, Order, &val)
	return err == nil
}

// IsTypeOf reports whether the held value is of type T, or descends from T
// when exact is false.
func IsTypeOf[T any](v *VariadicStruct, exact bool) bool {
	return typedSlot[T](v, exact) != nil
}
