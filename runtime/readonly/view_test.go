package readonly

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_Properties(t *testing.T) {
	factory := newTestFactory(t)

	view, err := factory.CreateReadOnlyView(&property{name: "version", value: "1.0", line: 4})
	require.NoError(t, err)

	props := view.Properties()
	require.Len(t, props, 4)

	readOnly := map[string]bool{}
	for _, p := range props {
		readOnly[p.Name] = p.ReadOnly
	}
	assert.Equal(t, map[string]bool{
		"Line":   false,
		"Name":   true,
		"Secret": true,
		"Value":  true,
	}, readOnly)
}

func TestView_SetterOnlyProperty(t *testing.T) {
	factory := newTestFactory(t)

	view, err := factory.CreateReadOnlyView(&property{name: "token", value: "v"})
	require.NoError(t, err)

	assert.NoError(t, view.Set("Secret", "s3cr3t"))

	_, err = view.Get("Secret")
	assert.ErrorIs(t, err, ErrNotReadable)
	assert.NotContains(t, view.Values(), "Secret")
}

func TestView_Errors(t *testing.T) {
	factory := newTestFactory(t)

	view, err := factory.CreateReadOnlyView(&property{name: "version", value: "1.0", line: 4})
	require.NoError(t, err)

	t.Run("unknown property", func(t *testing.T) {
		_, err := view.Get("Missing")
		assert.ErrorIs(t, err, ErrUnknownProperty)
		assert.ErrorIs(t, view.Set("Missing", 1), ErrUnknownProperty)
	})

	t.Run("getter only property", func(t *testing.T) {
		assert.ErrorIs(t, view.Set("Name", "x"), ErrNotWritable)
	})

	t.Run("wrong value type", func(t *testing.T) {
		err := view.Set("Value", 12)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not assignable")
	})

	t.Run("passthrough setter runs", func(t *testing.T) {
		require.NoError(t, view.Set("Line", 9))
		line, err := view.Get("Line")
		require.NoError(t, err)
		assert.Equal(t, 9, line)
	})

	t.Run("read-only setter skips base validation", func(t *testing.T) {
		// The base setter would reject a blank value
		assert.NoError(t, view.Set("Value", " "))
		value, _ := view.Get("Value")
		assert.Equal(t, "1.0", value)
	})
}

func TestView_Call(t *testing.T) {
	factory := newTestFactory(t)

	view, err := factory.CreateReadOnlyView(newTarget("build", "runs build"))
	require.NoError(t, err)

	t.Run("inherited methods", func(t *testing.T) {
		out, err := view.Call("String")
		require.NoError(t, err)
		assert.Equal(t, []any{"target build"}, out)

		out, err = view.Call("DependsOn", "compile")
		require.NoError(t, err)
		assert.Equal(t, []any{false}, out)
	})

	t.Run("setter methods are neutralized", func(t *testing.T) {
		out, err := view.Call("SetName", "x")
		require.NoError(t, err)
		assert.Empty(t, out)

		name, _ := view.Get("Name")
		assert.Equal(t, "build", name)
	})

	t.Run("variadic methods take a slice", func(t *testing.T) {
		out, err := view.Call("AddDepends", []string{"compile", "lint"})
		require.NoError(t, err)
		assert.Equal(t, []any{2}, out)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := view.Call("Explode")
		assert.ErrorIs(t, err, ErrUnknownMethod)
	})

	t.Run("argument count", func(t *testing.T) {
		_, err := view.Call("DependsOn")
		assert.Error(t, err)
	})
}

func TestViewType_New(t *testing.T) {
	cache := NewCache(newFixtureRegistry())
	vt, err := cache.GetOrCreate(reflect.TypeOf(&target{}))
	require.NoError(t, err)

	t.Run("forwards arguments", func(t *testing.T) {
		view, err := vt.New("deploy", "ships it")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Name": "deploy", "Description": "ships it"}, view.Values())
	})

	t.Run("argument count mismatch", func(t *testing.T) {
		_, err := vt.New("deploy")
		assert.ErrorIs(t, err, ErrSynthesis)
	})

	t.Run("argument type mismatch", func(t *testing.T) {
		_, err := vt.New("deploy", 3)
		assert.ErrorIs(t, err, ErrSynthesis)
	})

	t.Run("metadata", func(t *testing.T) {
		assert.Equal(t, reflect.TypeOf(&target{}), vt.Base())
		assert.Equal(t, []reflect.Type{reflect.TypeOf(""), reflect.TypeOf("")}, vt.Params())

		prop, ok := vt.Property("Name")
		require.True(t, ok)
		assert.True(t, prop.ReadOnly)
		_, ok = vt.Property("String")
		assert.False(t, ok)
	})
}

func TestViewType_NilArguments(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newTargetWithDepends))

	vt, err := NewCache(reg).GetOrCreate(reflect.TypeOf(&target{}))
	require.NoError(t, err)

	view, err := vt.New("build", "", nil)
	require.NoError(t, err)
	name, _ := view.Get("Name")
	assert.Equal(t, "build", name)

	_, err = vt.New(nil, "", nil)
	assert.ErrorIs(t, err, ErrSynthesis)
}

func TestCache_Reset(t *testing.T) {
	cache := NewCache(newFixtureRegistry())
	vt, err := cache.GetOrCreate(reflect.TypeOf(&target{}))
	require.NoError(t, err)

	again, err := cache.GetOrCreate(reflect.TypeOf(&target{}))
	require.NoError(t, err)
	assert.Same(t, vt, again)

	cache.Reset()
	assert.Equal(t, 0, cache.Len())
	_, ok := cache.LookupName(vt.String())
	assert.False(t, ok)

	_, err = cache.GetOrCreate(nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
