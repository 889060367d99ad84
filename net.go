package variadic

import "fmt"

// Replicator is the external delta-replication layer. When a type has no
// native net operations, the replicator walks the value per field. A nil
// replicator falls back to raw slot bytes.
type Replicator interface {
	// Send writes the value's replicated state. Returns false on failure.
	Send(w *Writer, td *TypeDescriptor, value []byte) bool

	// Receive reads the value's replicated state. Returns false on failure.
	Receive(r *Reader, td *TypeDescriptor, value []byte) bool
}

// NetSave writes the container to a network archive: a validity bit, then
// the type name and value. The value uses the descriptor's native net
// operation when present, otherwise the replicator, otherwise raw bytes.
// The bool result is the replication success flag, distinct from archive
// errors.
func (v *VariadicStruct) NetSave(w *Writer, repl Replicator) (bool, error) {
	valid := v.IsValid()
	w.WriteBool(valid)
	if !valid {
		return true, w.Err()
	}

	w.WriteString(v.desc.name)

	mem := v.MutableMemory()
	switch {
	case v.desc.ops.NetSend != nil:
		if !v.desc.ops.NetSend(w, mem) {
			return false, w.Err()
		}
	case repl != nil:
		if !repl.Send(w, v.desc, mem) {
			return false, w.Err()
		}
	default:
		w.WriteBytes(mem)
	}
	return true, w.Err()
}

// NetLoad reads the container from a network archive. An unresolvable type
// after a set validity bit means the two ends disagree about the world:
// the stream cannot be re-synced and the error is fatal to the caller.
func (v *VariadicStruct) NetLoad(r *Reader, reg *Registry, repl Replicator) (bool, error) {
	var valid bool
	r.ReadBool(&valid)
	if r.Err() != nil {
		return false, r.Err()
	}

	if !valid {
		v.Reset()
		return true, nil
	}

	var name string
	r.ReadString(&name)
	if r.Err() != nil {
		return false, r.Err()
	}

	td, _ := reg.Resolve(name)
	if td == nil {
		reg.logger.Error().
			Str("type", name).
			Msg("failed to resolve replicated type, archive corrupt")
		return false, fmt.Errorf("%w: unresolvable type %q", ErrCorruptStream, name)
	}

	if v.desc != td {
		v.InitializeAs(td, nil)
	}

	mem := v.MutableMemory()
	switch {
	case td.ops.NetRecv != nil:
		if !td.ops.NetRecv(r, mem) {
			return false, r.Err()
		}
	case repl != nil:
		if !repl.Receive(r, td, mem) {
			return false, r.Err()
		}
	default:
		r.ReadBytesTo(mem)
	}
	return r.Err() == nil, r.Err()
}
