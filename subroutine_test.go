package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/servo/internal/value"
)

func TestInvokeNativeCallable(t *testing.T) {
	in := New()
	callee := value.NativeFn(func(args []value.Value) (value.Value, error) {
		return value.Int(args[0].Int + 1), nil
	})

	v, err := in.Invoke(callee, []value.Value{value.Int(41)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int)
}

func TestInvokeNonCallableFails(t *testing.T) {
	in := New()
	_, err := in.Invoke(value.Int(1), nil)
	require.Error(t, err)
}

func TestInvokeUserRunsBodyAndHonorsReturn(t *testing.T) {
	in := New()
	u := &value.UserCallable{
		Name:       "double",
		Params:     []string{"n"},
		BlockIndex: -1,
		Body:       "return n * 2\n",
		Captured:   in.newEnvironment(),
	}

	v, err := in.invokeUser(u, []value.Value{value.Int(21)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int)
}

func TestInvokeUserWithoutReturnYieldsNull(t *testing.T) {
	in := New()
	u := &value.UserCallable{
		Name:       "noop",
		Params:     nil,
		BlockIndex: -1,
		Body:       "x = 1\n",
		Captured:   in.newEnvironment(),
	}

	v, err := in.invokeUser(u, nil)
	require.NoError(t, err)
	assert.Equal(t, value.KindNull, v.Kind)
}

func TestNormalizeArgsCollapsesSoleEmptyString(t *testing.T) {
	args := normalizeArgs([]value.Value{value.StringLike("")})
	assert.Nil(t, args)
}

func TestNormalizeArgsLeavesRealArgsAlone(t *testing.T) {
	args := normalizeArgs([]value.Value{value.Int(1), value.Int(2)})
	assert.Len(t, args, 2)
}
