package evalexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/servo/internal/value"
)

func TestEvalArithIntegerAddition(t *testing.T) {
	v, err := EvalArith("2+3")
	require.NoError(t, err)
	assert.Equal(t, value.KindInteger, v.Kind)
	assert.Equal(t, int64(5), v.Int)
}

func TestEvalArithCaretIsExponentiation(t *testing.T) {
	v, err := EvalArith("2^10")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), v.Int)
}

func TestEvalArithProducesFloat(t *testing.T) {
	v, err := EvalArith("7/2")
	require.NoError(t, err)
	assert.Equal(t, value.KindFloat, v.Kind)
	assert.InDelta(t, 3.5, v.Float, 1e-9)
}
