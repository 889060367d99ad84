package variadic

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// --- Shared test types, one per size class ---

// pointI is smaller than the inline buffer (8 bytes).
type pointI struct {
	X, Y int32
}

// vec3 fills the inline buffer exactly (24 bytes).
type vec3 struct {
	X, Y, Z float64
}

// plane derives from vec3 and exceeds the buffer (32 bytes).
type plane struct {
	vec3
	W float64
}

// transform is well past the buffer (56 bytes).
type transform struct {
	Rot [4]float64
	Pos vec3
}

// testTypes is the descriptor set most suites share.
type testTypes struct {
	reg       *Registry
	point     *TypeDescriptor
	vec       *TypeDescriptor
	plane     *TypeDescriptor
	transform *TypeDescriptor
}

func newTestTypes(t *testing.T, opts ...RegistryOption) *testTypes {
	t.Helper()
	reg := NewRegistry(opts...)

	tt := &testTypes{reg: reg}
	tt.point = MustRegister[pointI](reg, "test.PointI")
	tt.vec = MustRegister[vec3](reg, "test.Vec3")
	tt.plane = MustRegister[plane](reg, "test.Plane", WithParent(tt.vec))
	tt.transform = MustRegister[transform](reg, "test.Transform")

	require.Less(t, tt.point.Size(), BufferSize)
	require.Equal(t, BufferSize, tt.vec.Size())
	require.Greater(t, tt.plane.Size(), BufferSize)
	require.Greater(t, tt.transform.Size(), BufferSize)
	return tt
}

// opCounter observes descriptor operation calls, standing in for the
// allocation and leak checks the container cannot expose directly.
type opCounter struct {
	constructs int
	destroys   int
	copies     int
}

func (c *opCounter) ops() Ops {
	return Ops{
		Construct: func(value []byte) { c.constructs++; clear(value) },
		Destroy:   func(value []byte) { c.destroys++ },
		Copy:      func(dst, src []byte) { c.copies++; copy(dst, src) },
	}
}

// encode returns the slot image of a value, for building literal streams.
func encode[T any](t *testing.T, val T) []byte {
	t.Helper()
	buf := make([]byte, binary.Size(val))
	_, err := binary.Encode(buf, Order, &val)
	require.NoError(t, err)
	return buf
}
