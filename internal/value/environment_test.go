package value

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineThenLookup(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Int(1), KindInteger)

	vr, ok := env.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), vr.Value.Int)
}

func TestDefineOverwritesExisting(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Int(1), KindInteger)
	env.Define("x", Int(2), KindInteger)

	assert.Equal(t, 1, env.Len())
	vr, _ := env.Lookup("x")
	assert.Equal(t, int64(2), vr.Value.Int)
}

func TestFindVariableExactMatch(t *testing.T) {
	env := NewEnvironment()
	env.Set("greeting", StringLike("hi"))

	vr, err := env.FindVariable("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hi", vr.Value.Str)
}

func TestFindVariableNotFound(t *testing.T) {
	env := NewEnvironment()

	_, err := env.FindVariable("missing")
	require.Error(t, err)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.Name)
}

func TestFindVariableDottedModuleLookup(t *testing.T) {
	env := NewEnvironment()
	mod := &Module{Name: "mathy", Entries: map[string]Value{"pi": Float(3.14)}}
	env.Set("mathy", ModuleVal(mod))

	vr, err := env.FindVariable("mathy.pi")
	require.NoError(t, err)
	assert.Equal(t, 3.14, vr.Value.Float)
}

func TestFindVariableDottedMissingAttribute(t *testing.T) {
	env := NewEnvironment()
	mod := &Module{Name: "mathy", Entries: map[string]Value{}}
	env.Set("mathy", ModuleVal(mod))

	_, err := env.FindVariable("mathy.missing")
	require.Error(t, err)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestFindVariableDottedHostModuleLookup(t *testing.T) {
	env := NewEnvironment()
	hm := &HostModule{Name: "system_math", Funcs: map[string]func([]float64) (float64, error){
		"sqrt": func(args []float64) (float64, error) { return args[0], nil },
	}}
	env.Set("system_math", HostModuleVal(hm))

	vr, err := env.FindVariable("system_math.sqrt")
	require.NoError(t, err)
	assert.Equal(t, KindDerived, vr.Value.Kind)
	assert.NotNil(t, vr.Value.HostFn)
}

func TestCloneIsIndependentSnapshot(t *testing.T) {
	env := NewEnvironment()
	env.Set("x", Int(1))

	clone := env.Clone()
	clone.Set("x", Int(2))
	clone.Set("y", Int(3))

	vr, _ := env.Lookup("x")
	assert.Equal(t, int64(1), vr.Value.Int)
	_, ok := env.Lookup("y")
	assert.False(t, ok)
}

func TestDiffNamesReportsOnlyNewBindings(t *testing.T) {
	baseline := NewEnvironment()
	baseline.Set("system", NativeFn(func(args []Value) (Value, error) { return Null, nil }))

	module := baseline.Clone()
	module.Set("square", NativeFn(func(args []Value) (Value, error) { return Null, nil }))
	module.Set("helper", Int(42))

	diff := module.DiffNames(baseline)
	assert.Equal(t, []string{"square", "helper"}, diff)
}

func TestNamesPreservesDefinitionOrder(t *testing.T) {
	env := NewEnvironment()
	env.Set("b", Int(2))
	env.Set("a", Int(1))
	env.Set("c", Int(3))

	assert.Equal(t, []string{"b", "a", "c"}, env.Names())
}
