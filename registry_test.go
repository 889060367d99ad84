package variadic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateName(t *testing.T) {
	reg := NewRegistry()
	_, err := Register[pointI](reg, "dup.Name")
	require.NoError(t, err)

	_, err = Register[vec3](reg, "dup.Name")
	require.ErrorIs(t, err, ErrDuplicateType)
}

func TestRegisterDuplicateGoTypeRollsBack(t *testing.T) {
	reg := NewRegistry()
	_, err := Register[pointI](reg, "dup.First")
	require.NoError(t, err)

	_, err = Register[pointI](reg, "dup.Second")
	require.ErrorIs(t, err, ErrDuplicateType)

	// The failed registration must not leave its name claimed.
	_, ok := reg.Resolve("dup.Second")
	assert.False(t, ok)
	_, err = Register[vec3](reg, "dup.Second")
	assert.NoError(t, err)
}

func TestRegisterRejectsVariableSizeLayout(t *testing.T) {
	type stringy struct {
		Name string
	}
	_, err := Register[stringy](NewRegistry(), "bad.Stringy")
	require.ErrorIs(t, err, ErrVariableSize)
}

func TestRegisterValidatesParentEmbedding(t *testing.T) {
	reg := NewRegistry()
	base := MustRegister[vec3](reg, "bad.Vec3")

	// The base type must be the leading field, not merely present.
	type trailingBase struct {
		W float64
		V vec3
	}
	_, err := Register[trailingBase](reg, "bad.TrailingBase", WithParent(base))
	require.ErrorIs(t, err, ErrInvalidParent)
}

func TestMustRegisterPanicsOnError(t *testing.T) {
	reg := NewRegistry()
	MustRegister[pointI](reg, "dup.Name")
	assert.Panics(t, func() { MustRegister[vec3](reg, "dup.Name") })
}

func TestRedirectChain(t *testing.T) {
	reg := NewRegistry()
	td := MustRegister[pointI](reg, "game.Point")
	reg.AddRedirect("game.OldPoint", "game.OlderPoint")
	reg.AddRedirect("game.OlderPoint", "game.Point")

	got, ok := reg.Resolve("game.OldPoint")
	require.True(t, ok)
	assert.Same(t, td, got)

	assert.Equal(t, "game.Unknown", reg.Redirect("game.Unknown"))
}

func TestRedirectCycleTerminates(t *testing.T) {
	reg := NewRegistry()
	reg.AddRedirect("cycle.A", "cycle.B")
	reg.AddRedirect("cycle.B", "cycle.A")

	// A miswritten table must degrade to a failed lookup, not a hang.
	_, ok := reg.Resolve("cycle.A")
	assert.False(t, ok)
}

func TestLoadRedirects(t *testing.T) {
	reg := NewRegistry()
	td := MustRegister[pointI](reg, "game.Point")

	table := `
[redirects]
"game.OldPoint" = "game.Point"
"game.AncientPoint" = "game.OldPoint"
`
	require.NoError(t, reg.LoadRedirects(strings.NewReader(table)))

	got, ok := reg.Resolve("game.AncientPoint")
	require.True(t, ok)
	assert.Same(t, td, got)
}

func TestLoadRedirectsRejectsMalformedTable(t *testing.T) {
	reg := NewRegistry()
	err := reg.LoadRedirects(strings.NewReader(`[redirects`))
	require.Error(t, err)
}

func TestPreloadHookFiresOnResolve(t *testing.T) {
	var preloaded []string
	reg := NewRegistry(WithPreload(func(td *TypeDescriptor) {
		preloaded = append(preloaded, td.Name())
	}))
	MustRegister[pointI](reg, "game.Point")

	_, ok := reg.Resolve("game.Point")
	require.True(t, ok)
	assert.Equal(t, []string{"game.Point"}, preloaded)
}

func TestPreloadHookFiresDuringLoad(t *testing.T) {
	saveReg := NewRegistry()
	MustRegister[pointI](saveReg, "game.Point")
	v, err := Make(saveReg, pointI{X: 1})
	require.NoError(t, err)

	bw := NewBytesWriter(nil)
	w, err := NewWriter(bw)
	require.NoError(t, err)
	require.NoError(t, v.Save(w, nil))

	preloads := 0
	loadReg := NewRegistry(WithPreload(func(*TypeDescriptor) { preloads++ }))
	MustRegister[pointI](loadReg, "game.Point")

	r, err := NewReader(NewBytesReader(bw.Bytes()))
	require.NoError(t, err)

	var out VariadicStruct
	require.NoError(t, out.Load(r, loadReg, nil))
	assert.Equal(t, 1, preloads, "type resolution during a load fires the hook")
}

func TestDescriptorAccessors(t *testing.T) {
	reg := NewRegistry()
	base := MustRegister[vec3](reg, "game.Vec3")
	derived := MustRegister[plane](reg, "game.Plane", WithParent(base))

	assert.Equal(t, "game.Plane", derived.Name())
	assert.Equal(t, 32, derived.Size())
	assert.Same(t, base, derived.Parent())
	assert.True(t, derived.IsChildOf(base))
	assert.True(t, derived.IsChildOf(derived))
	assert.False(t, base.IsChildOf(derived))
}
