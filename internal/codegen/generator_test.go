package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Target(t *testing.T) {
	code, err := Generate(fixtureOptions("Target"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, Header))
	assert.Contains(t, code, "package buildfile")
	assert.Contains(t, code, "type TargetReadOnly struct {\n\t*Target\n}")
	assert.Contains(t, code, "func NewTargetReadOnly(name string, description string, timeout time.Duration, depends ...string) *TargetReadOnly {")
	assert.Contains(t, code, "return &TargetReadOnly{Target: NewTarget(name, description, timeout, depends...)}")

	t.Run("getters delegate", func(t *testing.T) {
		assert.Contains(t, code, "func (v *TargetReadOnly) Name() string {\n\treturn v.Target.Name()\n}")
		assert.Contains(t, code, "func (v *TargetReadOnly) Depends() []string {")
	})

	t.Run("setters discard", func(t *testing.T) {
		assert.Contains(t, code, "func (v *TargetReadOnly) SetName(string) {}")
		assert.Contains(t, code, "func (v *TargetReadOnly) SetTimeout(time.Duration) {}")
	})

	t.Run("hidden properties are inherited", func(t *testing.T) {
		assert.NotContains(t, code, "SetDescription")
		assert.NotContains(t, code, "SetSource")
		assert.NotContains(t, code, "net/url")
	})

	t.Run("marker and rebuild helper", func(t *testing.T) {
		assert.Contains(t, code, `return []string{"Depends", "Name", "Timeout"}`)
		assert.Contains(t, code, "func TargetReadOnlyOf(src *Target) (*TargetReadOnly, error) {")
		assert.Contains(t, code, "a3, ok := args[3].([]string)")
		assert.Contains(t, code, "if !ok && args[3] != nil {")
		assert.NotContains(t, code, "args[1] != nil")
		assert.Contains(t, code, "a2, ok := args[2].(time.Duration)\n\tif !ok {")
		assert.Contains(t, code, "return NewTargetReadOnly(a0, a1, a2, a3...), nil")
		assert.Contains(t, code, `"fmt"`)
		assert.Contains(t, code, `"time"`)
	})
}

func TestGenerate_ErrorConstructor(t *testing.T) {
	opts := fixtureOptions("Property")
	opts.Suffix = "View"

	code, err := Generate(opts)
	require.NoError(t, err)

	assert.Contains(t, code, "func NewPropertyView(name string, value string) (*PropertyView, error) {")
	assert.Contains(t, code, "base, err := NewProperty(name, value)")
	assert.Contains(t, code, "func (v *PropertyView) SetValue(string) error {\n\treturn nil\n}")
	assert.Contains(t, code, "func (v *PropertyView) SetComment(string) {}")
	assert.NotContains(t, code, "PropertyViewOf")
	assert.NotContains(t, code, "import")
}

func TestGenerate_WritesDestination(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out", "target_readonly.go")
	opts := fixtureOptions("Target")
	opts.Destination = dest

	code, err := Generate(opts)
	require.NoError(t, err)

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, code, string(written))
}

func TestGenerate_NoConstructor(t *testing.T) {
	_, err := Generate(fixtureOptions("Marker"))
	assert.ErrorIs(t, err, ErrNoConstructor)
}

func TestRender_EmbeddedFieldCollision(t *testing.T) {
	info := &TypeInfo{
		Name:        "Node",
		PackageName: "tree",
		Pointer:     true,
		Constructor: &Constructor{Name: "NewNode", Params: []Param{{Name: "n", Type: "int"}}},
		Properties:  []Property{{Name: "Node", Type: "int", Readable: true}},
	}
	_, err := NewGenerator("").Render(info)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collides")
}

func TestRender_ValueType(t *testing.T) {
	info := &TypeInfo{
		Name:        "Point",
		PackageName: "geo",
		Pointer:     false,
		Constructor: &Constructor{Name: "NewPoint", Params: []Param{{Name: "base", Type: "int"}, {Name: "y", Type: "int"}}},
		Properties:  []Property{{Name: "X", Type: "int", Readable: true, Writable: true}},
	}
	code, err := NewGenerator("").Render(info)
	require.NoError(t, err)

	assert.Contains(t, code, "type PointReadOnly struct {\n\tPoint\n}")
	assert.Contains(t, code, "func NewPointReadOnly(arg0 int, y int) *PointReadOnly {")
	assert.Contains(t, code, "return &PointReadOnly{Point: NewPoint(arg0, y)}")
}
