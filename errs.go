package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jcorbin/servo/internal/value"
)

// ScriptError is the structured error the top-level driver formats as
// "[servo] got '<HUMANISED ERROR NAME>' from <function-or-stage>() in
// '<source-qualified-name>': - <message>".
type ScriptError struct {
	Kind   string // human-facing class name, e.g. "SyntaxError", "VariableNotFoundError"
	Stage  string // function-or-stage name, e.g. "dispatch", "findVariable"
	Source string // source-qualified-name, e.g. "main.sv"
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("[servo] got '%s' from %s() in '%s': - %v",
		Humanize(e.Kind), e.Stage, e.Source, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

func newScriptError(kind, stage, source string, err error) *ScriptError {
	return &ScriptError{Kind: kind, Stage: stage, Source: source, Err: err}
}

// Humanize splits a Go-style error class name at uppercase boundaries,
// uppercases each word, and replaces "ERROR" with "FATAL".
func Humanize(name string) string {
	var words []string
	var cur strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	for i, w := range words {
		upper := strings.ToUpper(w)
		if upper == "ERROR" {
			upper = "FATAL"
		}
		words[i] = upper
	}
	return strings.Join(words, " ")
}

// Sentinel error-kind names used to build ScriptErrors at each raise site.
// These are class-name-shaped strings, not Go types, because Humanize
// operates directly on the class name text.
const (
	KindSyntaxError         = "SyntaxError"
	KindUnterminatedError   = "UnterminatedModeError"
	KindVariableNotFound    = "VariableNotFoundError"
	KindModuleNotFound      = "ModuleNotFoundError"
	KindNotCallableError    = "NotCallableError"
	KindEvaluationError     = "EvaluationError"
	KindHostError           = "HostError"
	KindDefinitionError     = "DefinitionError"
)

// returnSignal is the internal non-local unwind used by RETURN: never
// user-visible, must not escape a subroutine invocation's boundary.
type returnSignal struct{ value value.Value }
