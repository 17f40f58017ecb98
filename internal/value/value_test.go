package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringRenderingPerKind(t *testing.T) {
	assert.Equal(t, "3", Int(3).String())
	assert.Equal(t, "3.5", Float(3.5).String())
	assert.Equal(t, "hi", StringLike("hi").String())
	assert.Equal(t, "", Null.String())
}

func TestConcatAlwaysProducesStringLike(t *testing.T) {
	v := Concat(StringLike("echo "), Int(7))
	assert.Equal(t, KindString, v.Kind)
	assert.Equal(t, "echo 7", v.Str)
}

func TestIsCallable(t *testing.T) {
	assert.True(t, NativeFn(nil).IsCallable())
	assert.True(t, UserFn(&UserCallable{}).IsCallable())
	assert.False(t, Int(1).IsCallable())
	assert.False(t, Null.IsCallable())
}

func TestUserCallableHasBlock(t *testing.T) {
	withBlock := &UserCallable{BlockIndex: 0}
	withoutBlock := &UserCallable{BlockIndex: -1}
	assert.True(t, withBlock.HasBlock())
	assert.False(t, withoutBlock.HasBlock())
}

func TestModuleGet(t *testing.T) {
	m := &Module{Entries: map[string]Value{"x": Int(9)}}
	v, ok := m.Get("x")
	assert.True(t, ok)
	assert.Equal(t, int64(9), v.Int)
	_, ok = m.Get("missing")
	assert.False(t, ok)
}
