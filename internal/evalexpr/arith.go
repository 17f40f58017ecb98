// Package evalexpr implements the interpreter's two evaluation surfaces:
// the MATH mode frame's pure-numeric arithmetic and the full expression
// evaluator used by ASSIGNMENT, RETURN, and CALL argument buffers.
package evalexpr

import (
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/jcorbin/servo/internal/value"
)

// EvalArith evaluates a buffered arithmetic expression (digits and the
// operators + - * / % ^ only) into an integer or floating value, using
// expr-lang/expr as the host numeric evaluator.
func EvalArith(buf string) (value.Value, error) {
	code := strings.ReplaceAll(buf, "^", "**")
	out, err := expr.Eval(code, nil)
	if err != nil {
		return value.Value{}, err
	}
	switch n := out.(type) {
	case int:
		return value.Int(int64(n)), nil
	case int64:
		return value.Int(n), nil
	case float64:
		if n == float64(int64(n)) && !strings.ContainsAny(buf, "./") {
			return value.Int(int64(n)), nil
		}
		return value.Float(n), nil
	default:
		f, ferr := strconv.ParseFloat(strings.TrimSpace(buf), 64)
		if ferr == nil {
			return value.Float(f), nil
		}
		return value.Value{}, err
	}
}
