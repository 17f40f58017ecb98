package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/servo/internal/value"
)

func TestResolveModulePathPrefersWorkDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.sv"), []byte("x = 1\n"), 0o644))

	in := New(WithSearchPath(dir, "reach"))
	path, err := in.resolveModulePath("util")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "util.sv"), path)
}

func TestResolveModulePathFallsBackToLibDir(t *testing.T) {
	libDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "helpers.sv"), []byte(""), 0o644))

	in := New(WithSearchPath(t.TempDir(), libDir))
	path, err := in.resolveModulePath("helpers")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(libDir, "helpers.sv"), path)
}

func TestResolveModulePathNotFound(t *testing.T) {
	in := New(WithSearchPath(t.TempDir(), t.TempDir()))
	_, err := in.resolveModulePath("missing")
	require.Error(t, err)
	var mre *moduleResolutionError
	assert.ErrorAs(t, err, &mre)
}

func TestImportModuleExposesOnlyUserAddedBindings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "math_utils.sv"),
		[]byte("fn square(n) { return n ^ 2 }\n"), 0o644))

	in := New(WithSearchPath(dir, "reach"))
	callerEnv := in.newEnvironment()

	require.NoError(t, in.importModule(callerEnv, "math_utils"))

	vr, err := callerEnv.FindVariable("math_utils")
	require.NoError(t, err)
	assert.Equal(t, value.KindModule, vr.Value.Kind)

	_, ok := vr.Value.Module.Get("square")
	assert.True(t, ok)
	_, ok = vr.Value.Module.Get("system") // a built-in, present in every baseline
	assert.False(t, ok)
}

func TestImportModuleMissingFileFails(t *testing.T) {
	in := New(WithSearchPath(t.TempDir(), t.TempDir()))
	callerEnv := in.newEnvironment()

	err := in.importModule(callerEnv, "nope")
	require.Error(t, err)
	var mre *moduleResolutionError
	assert.ErrorAs(t, err, &mre)
}
