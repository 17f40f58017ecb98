package main

import (
	"errors"
	"fmt"

	"github.com/jcorbin/servo/internal/value"
)

// Invoke dispatches a call to either a native built-in or a user-defined
// subroutine, re-entered both by the Mode Machine's CALL-closing thunk
// and by the expression evaluator's function-application syntax
// (internal/evalexpr.Invoker).
func (in *Interp) Invoke(callee value.Value, args []value.Value) (value.Value, error) {
	switch callee.Kind {
	case value.KindNative:
		return callee.Native(args)
	case value.KindUser:
		return in.invokeUser(callee.User, args)
	default:
		return value.Value{}, fmt.Errorf("value is not callable")
	}
}

// normalizeArgs treats a lone empty-string argument as zero arguments
// actually supplied (the CALL frame's argument buffer was empty and
// evaluated to an empty string-like value in some calling path).
func normalizeArgs(args []value.Value) []value.Value {
	if len(args) == 1 && args[0].Kind == value.KindString && args[0].Str == "" {
		return nil
	}
	return args
}

// invokeUser drives one subroutine call: a fresh Parser State over the
// body text (with a newline appended, so that a RETURN on the body's last
// line is terminated even in a one-line `{ return x }` body), an environment seeded from the captured snapshot with
// parameters bound positionally, the Mode Machine run to completion, and
// its thunks executed — catching a RETURN signal at this boundary (it
// must never escape further).
func (in *Interp) invokeUser(u *value.UserCallable, args []value.Value) (value.Value, error) {
	args = normalizeArgs(args)

	env := u.Captured.Clone()
	for i, name := range u.Params {
		v := value.Null
		if i < len(args) {
			v = args[i]
		}
		env.Define(name, v, value.KindArg)
	}

	ps := in.newParserState(u.Name, u.Body+"\n", env)
	if err := ps.Parse(); err != nil {
		return value.Value{}, err
	}
	ret, hasReturn, err := ps.RunThunks()
	if err != nil {
		var se *ScriptError
		if errors.As(err, &se) {
			return value.Value{}, se
		}
		return value.Value{}, err
	}
	if hasReturn {
		return ret, nil
	}
	return value.Null, nil
}
