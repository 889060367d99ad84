package variadic

import (
	"io"
)

// VariadicStructGuid is the custom-version track of this container format.
var VariadicStructGuid = Guid{0x64FC2696, 0x589C216A, 0x95B4A289, 0xC72589AB}

// variadicStructVersion is the current version on that track.
const variadicStructVersion int32 = 0

// InstancedStructGuid is the custom-version track of the sibling
// single-heap-value container whose streams LoadInstanced ingests.
var InstancedStructGuid = Guid{0xE21E1CAA, 0xAF47425E, 0x89BF6AD4, 0x4C44A8BB}

// legacyEditorHeader is the magic prefix old editor builds of the sibling
// format wrote before the version byte.
const legacyEditorHeader uint32 = 0xABABABAB

// Save writes the container as one frame: type name, a u32 payload size,
// then the payload. The size field is reserved first and patched after the
// payload is written, so a reader can skip the whole frame without
// understanding the type.
//
// When defaults are supplied the payload is diffed against them; a defaults
// view whose type disagrees with the container re-initializes the container
// from the defaults before saving.
func (v *VariadicStruct) Save(w *Writer, defaults *StructView) error {
	w.SetCustomVersion(VariadicStructGuid, variadicStructVersion)

	if defaults != nil && defaults.desc != v.desc {
		v.InitializeAs(defaults.desc, defaults.mem)
	}

	if v.desc == nil {
		// Empty container: "no type" marker plus a zero size.
		w.WriteString("")
		w.WriteUint32(0)
		return w.Err()
	}

	w.WriteString(v.desc.name)

	sizeAt := w.Tell()
	w.WriteUint32(0)

	start := w.Tell()
	var defmem []byte
	if defaults != nil {
		defmem = defaults.mem
	}
	v.desc.serialize(w, v.slot(), defmem)

	w.PatchUint32(sizeAt, uint32(w.Tell()-start))
	return w.Err()
}

// Load reads one frame into the container, resolving the type name through
// the registry (redirects and preload included).
//
// Two degraded paths keep the stream position correct without failing the
// surrounding load:
//   - defaults whose type disagrees with the stream win over the stream:
//     the container takes the defaults value and the payload is skipped.
//   - an unresolvable type with a nonzero payload empties the container,
//     skips the payload, and emits a diagnostic on the registry logger.
func (v *VariadicStruct) Load(r *Reader, reg *Registry, defaults *StructView) error {
	var name string
	r.ReadString(&name)

	var td *TypeDescriptor
	if name != "" {
		td, _ = reg.Resolve(name)
	}

	var serial uint32
	r.ReadUint32(&serial)
	if r.Err() != nil {
		return r.Err()
	}

	if defaults != nil && defaults.desc != td {
		reg.logger.Info().
			Str("type", name).
			Uint32("serial_size", serial).
			Msg("defaults type mismatch, stream payload discarded")

		v.InitializeAs(defaults.desc, defaults.mem)
		r.Skip(serial64(serial))
		return r.Err()
	}

	var defmem []byte
	if defaults != nil {
		defmem = defaults.mem
	}

	// Initialize only if the type changes or defaults seed the value.
	if defaults != nil || v.desc != td {
		v.InitializeAs(td, defmem)
	}

	if mem := v.MutableMemory(); mem != nil {
		start := r.Tell()
		v.desc.deserialize(r, serial, mem, defmem)

		// Clamp to the frame end; a codec that consumed the wrong number of
		// bytes must not desync sibling data.
		if consumed := r.Tell() - start; consumed != serial64(serial) {
			reg.logger.Warn().
				Str("type", name).
				Uint32("serial_size", serial).
				Int64("consumed", consumed).
				Msg("payload size mismatch, clamping to frame end")
			r.Seek(start+serial64(serial), io.SeekStart)
		}
	} else if serial > 0 {
		reg.logger.Warn().
			Str("type", name).
			Uint32("serial_size", serial).
			Msg("unresolvable type, payload skipped")
		r.Skip(serial64(serial))
	}

	return r.Err()
}

// LoadInstanced ingests a frame written by the sibling single-heap-value
// container format. One-way forward migration only; nothing ever writes
// this layout back.
//
// The sibling's oldest streams prefixed the frame with an editor-only magic
// header and a version byte; both are consumed when present. Returns
// (false, nil) — refusal, not failure — when the archive is textual or
// carries an unexpected sibling custom version, since both make the layout
// ambiguous by design.
func (v *VariadicStruct) LoadInstanced(r *Reader, reg *Registry) (bool, error) {
	if r.IsTextFormat() {
		return false, nil
	}

	ver := r.CustomVersion(InstancedStructGuid)
	if ver > 0 {
		return false, nil
	}

	if ver < 0 {
		// Pre-versioning stream: editor builds wrote header+version, others
		// just the version. Probe the header and back off if absent.
		headerAt := r.Tell()
		var header uint32
		r.ReadUint32(&header)
		if header != legacyEditorHeader {
			if _, err := r.Seek(headerAt, io.SeekStart); err != nil {
				return false, err
			}
		}
		var version uint8
		r.ReadUint8(&version)
	}

	var name string
	r.ReadString(&name)

	var td *TypeDescriptor
	if name != "" {
		td, _ = reg.Resolve(name)
	}

	if v.desc != td {
		v.InitializeAs(td, nil)
	}

	var serial uint32
	r.ReadUint32(&serial)

	if v.desc == nil && serial > 0 {
		reg.logger.Warn().
			Str("type", name).
			Uint32("serial_size", serial).
			Msg("unresolvable legacy type, payload skipped")
		r.Skip(serial64(serial))
		return true, r.Err()
	}

	if mem := v.MutableMemory(); mem != nil {
		v.desc.deserialize(r, serial, mem, nil)
	}
	return true, r.Err()
}

// serial64 widens a recorded payload size for position arithmetic.
func serial64(n uint32) int64 { return int64(n) }
