package variadic

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian

	// Order is the process-wide layout order for value slots and the default
	// wire order for new archives. Set once at startup if changed at all;
	// slots encoded under one order are not readable under another.
	Order binary.ByteOrder = LE
)

// Roundup rounds n up to the nearest multiple of align.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }
