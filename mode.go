package main

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jcorbin/servo/internal/charstream"
	"github.com/jcorbin/servo/internal/evalexpr"
	"github.com/jcorbin/servo/internal/panicerr"
	"github.com/jcorbin/servo/internal/value"
)

// Thunk is a deferred execution closure appended to a Parser State's
// queue during parsing and run in order afterward.
type Thunk func() error

// ParserState is the per-source parse/execute context: a source buffer
// (via Character Stream), the mode-frame stack, the deferred-thunk
// queue, the active environment, and a back-reference to the owning
// Interp for built-ins/logging/import access.
type ParserState struct {
	Source *charstream.Stream
	Stack  []*Frame
	Queue  []Thunk
	Env    *value.Environment
	Interp *Interp
}

func (in *Interp) newParserState(name, src string, env *value.Environment) *ParserState {
	return &ParserState{
		Source: charstream.New(name, src),
		Env:    env,
		Interp: in,
	}
}

func (ps *ParserState) top() *Frame {
	if len(ps.Stack) == 0 {
		return nil
	}
	return ps.Stack[len(ps.Stack)-1]
}

func (ps *ParserState) push(f *Frame) { ps.Stack = append(ps.Stack, f) }

func (ps *ParserState) pop() *Frame {
	n := len(ps.Stack)
	f := ps.Stack[n-1]
	ps.Stack = ps.Stack[:n-1]
	return f
}

func (ps *ParserState) fail(kind, stage string, err error) error {
	return newScriptError(kind, stage, ps.Source.Name, err)
}

// writeParentBuf implements the "written into the parent frame's buffer"
// behavior shared by STRING, MATH, and BLOCK closes: once a nested
// construct completes, its textual (or lambda-name) result is appended
// into whatever is now on top of the stack, or discarded if the stack is
// empty (a bare top-level literal/block statement has no effect, the
// same as a bare identifier reference)
func (ps *ParserState) writeParentBuf(s string) {
	top := ps.top()
	if top == nil {
		return
	}
	switch top.Tag {
	case ModeCall:
		top.ArgBuf.WriteString(s)
	case ModeAssignment, ModeReturn, ModeBlock:
		top.Buf.WriteString(s)
	case ModeWaitBlock:
		top.LambdaName = s
	}
}

// Parse drives the Mode Machine to completion over the whole source:
// dispatch on the top frame's tag for each character, re-dispatching the
// same character when a handler pops without consuming it.
func (ps *ParserState) Parse() error {
	for {
		r, ok := ps.Source.Current()
		if !ok {
			break
		}
		for {
			consumed, err := ps.step(r)
			if err != nil {
				return err
			}
			if consumed {
				break
			}
		}
		ps.Source.Advance()
	}
	return ps.finish()
}

// finish implements the end-of-source rules: a terminal WAIT_BLOCK is
// finalized as if it had received a non-block character, then any
// remaining frame means the source is ill-formed.
func (ps *ParserState) finish() error {
	if top := ps.top(); top != nil && top.Tag == ModeWaitBlock {
		ps.pop()
		ps.enqueueCall(top.Ident, top.Buf.String(), nil)
	}
	if len(ps.Stack) != 0 {
		top := ps.top()
		return ps.fail(KindUnterminatedError, "parse", fmt.Errorf("unterminated %s construct at end of source", top.Tag))
	}
	return nil
}

// isReturnSignal is the panicerr.Recover skip predicate: a RETURN signal
// is deliberate control flow, not a genuine failure, and must propagate
// past panicerr's classification to the recover below that actually
// catches it.
func isReturnSignal(v interface{}) bool {
	_, ok := v.(returnSignal)
	return ok
}

// RunThunks executes the queued thunks in order, catching a RETURN
// signal raised during execution (the signal must never escape this
// boundary) while classifying any other panic as a genuine host-level
// failure via internal/panicerr.
func (ps *ParserState) RunThunks() (ret value.Value, hasReturn bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				ret, hasReturn = rs.value, true
				return
			}
			panic(r)
		}
	}()
	runErr := panicerr.Recover(ps.Source.Name, isReturnSignal, func() error {
		for _, t := range ps.Queue {
			if e := t(); e != nil {
				return e
			}
		}
		return nil
	})
	err = runErr
	return
}

func (ps *ParserState) step(r rune) (consumed bool, err error) {
	top := ps.top()
	var tag ModeTag = ModeNull
	if top != nil {
		tag = top.Tag
	}
	ps.Interp.trace("%s @%d: %q", tag, ps.Source.Pos(), r)
	switch tag {
	case ModeNull:
		return ps.stepNull(r)
	case ModeIdentifier:
		return ps.stepIdentifier(top, r)
	case ModeCheckAssignment:
		return ps.stepCheckAssignment(top, r)
	case ModeInteger:
		return ps.stepInteger(top, r)
	case ModeMath:
		return ps.stepMath(top, r)
	case ModeString:
		return ps.stepString(top, r)
	case ModeComment:
		return ps.stepComment(top, r)
	case ModeMLComment:
		return ps.stepMLComment(top, r)
	case ModeArtifact:
		return ps.stepArtifact(top, r)
	case ModeBlock:
		return ps.stepBlock(top, r)
	case ModeFunctionDef:
		return ps.stepFunctionDef(top, r)
	case ModeAssignment:
		return ps.stepAssignment(top, r)
	case ModeCall:
		return ps.stepCall(top, r)
	case ModeWaitBlock:
		return ps.stepWaitBlock(top, r)
	case ModeReturn:
		return ps.stepReturn(top, r)
	default:
		return false, ps.fail(KindSyntaxError, "dispatch", fmt.Errorf("unknown mode %v", tag))
	}
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

func (ps *ParserState) stepNull(r rune) (bool, error) {
	switch {
	case unicode.IsSpace(r):
		return true, nil
	case isIdentStart(r):
		f := newFrame(ModeIdentifier)
		f.Buf.WriteRune(r)
		ps.push(f)
		return true, nil
	case r == '"' || r == '\'':
		f := newFrame(ModeString)
		f.Quote = r
		ps.push(f)
		return true, nil
	case unicode.IsDigit(r):
		f := newFrame(ModeInteger)
		f.Buf.WriteRune(r)
		ps.push(f)
		return true, nil
	case r == '#':
		ps.push(newFrame(ModeComment))
		return true, nil
	case r == '/':
		if next, ok := ps.Source.Peek(); ok && next == '*' {
			ps.push(newFrame(ModeMLComment))
			return true, nil
		}
		return false, ps.fail(KindSyntaxError, "dispatch", fmt.Errorf("unexpected character '%c'", r))
	case r == '<':
		ps.push(newFrame(ModeArtifact))
		return true, nil
	case r == '{':
		f := newFrame(ModeBlock)
		f.Depth = 1
		ps.push(f)
		return true, nil
	default:
		return false, ps.fail(KindSyntaxError, "dispatch", fmt.Errorf("unexpected character '%c'", r))
	}
}

func (ps *ParserState) stepIdentifier(f *Frame, r rune) (bool, error) {
	switch {
	case isIdentPart(r):
		f.Buf.WriteRune(r)
		return true, nil
	case r == '(':
		f.Tag = ModeCall
		f.Ident = f.Buf.String()
		f.Buf.Reset()
		return true, nil
	case unicode.IsSpace(r):
		text := f.Buf.String()
		ps.pop()
		switch text {
		case "fn":
			nf := newFrame(ModeFunctionDef)
			nf.Phase = "name"
			ps.push(nf)
		case "return":
			ps.push(newFrame(ModeReturn))
		default:
			nf := newFrame(ModeCheckAssignment)
			nf.Ident = text
			ps.push(nf)
		}
		return true, nil
	case r == '=':
		target := strings.TrimSpace(f.Buf.String())
		ps.pop()
		nf := newFrame(ModeAssignment)
		nf.Ident = target
		ps.push(nf)
		return true, nil
	default:
		ps.pop() // bare identifier reference: no side effect at statement level
		return true, nil
	}
}

func (ps *ParserState) stepCheckAssignment(f *Frame, r rune) (bool, error) {
	switch {
	case r == '\n':
		return false, ps.fail(KindSyntaxError, "dispatch", fmt.Errorf("unexpected token after identifier"))
	case unicode.IsSpace(r):
		return true, nil
	case r == '=':
		target := f.Ident
		ps.pop()
		nf := newFrame(ModeAssignment)
		nf.Ident = target
		ps.push(nf)
		return true, nil
	default:
		return false, ps.fail(KindSyntaxError, "dispatch", fmt.Errorf("unexpected token after identifier"))
	}
}

func (ps *ParserState) stepInteger(f *Frame, r rune) (bool, error) {
	switch {
	case unicode.IsDigit(r):
		f.Buf.WriteRune(r)
		return true, nil
	case strings.ContainsRune("+-*/%^", r):
		f.Tag = ModeMath
		f.Buf.WriteRune(r)
		return true, nil
	default:
		ps.pop() // bare integer literal: discarded, same as a bare identifier
		return false, nil
	}
}

func (ps *ParserState) stepMath(f *Frame, r rune) (bool, error) {
	if unicode.IsDigit(r) || strings.ContainsRune("+-*/%^", r) {
		f.Buf.WriteRune(r)
		return true, nil
	}
	val, err := evalexpr.EvalArith(f.Buf.String())
	ps.pop()
	if err != nil {
		return false, ps.fail(KindEvaluationError, "evalArith", err)
	}
	ps.writeParentBuf(val.String())
	return false, nil
}

func (ps *ParserState) stepString(f *Frame, r rune) (bool, error) {
	if r == f.Quote {
		ps.pop()
		quote := string(f.Quote)
		ps.writeParentBuf(quote + f.Buf.String() + quote)
		return true, nil
	}
	f.Buf.WriteRune(r)
	return true, nil
}

func (ps *ParserState) stepComment(f *Frame, r rune) (bool, error) {
	if r == '\n' {
		ps.pop()
	}
	return true, nil
}

func (ps *ParserState) stepMLComment(f *Frame, r rune) (bool, error) {
	if f.PendingClose {
		f.PendingClose = false
		if r == '/' {
			ps.pop()
			return true, nil
		}
		if r == '*' {
			f.PendingClose = true
		}
		return true, nil
	}
	if r == '*' {
		f.PendingClose = true
	}
	return true, nil
}

func (ps *ParserState) stepArtifact(f *Frame, r rune) (bool, error) {
	if r != '>' {
		f.Buf.WriteRune(r)
		return true, nil
	}
	text := f.Buf.String()
	ps.pop()
	fields := strings.Fields(text)
	if len(fields) == 0 || fields[0] != "import" {
		return false, ps.fail(KindSyntaxError, "dispatch", fmt.Errorf("unknown artifact '%s'", text))
	}
	if len(fields) < 2 {
		return false, ps.fail(KindSyntaxError, "dispatch", fmt.Errorf("import artifact missing module name"))
	}
	if err := ps.Interp.importModule(ps.Env, fields[1]); err != nil {
		if _, ok := err.(*moduleResolutionError); ok {
			return false, ps.fail(KindModuleNotFound, "import", err)
		}
		return false, err
	}
	return true, nil
}

func (ps *ParserState) stepBlock(f *Frame, r rune) (bool, error) {
	switch r {
	case '{':
		f.Depth++
		f.Buf.WriteRune(r)
		return true, nil
	case '}':
		f.Depth--
		if f.Depth == 0 {
			body := f.Buf.String()
			ps.pop()
			name := ps.Interp.nextLambdaName()
			uc := &value.UserCallable{Name: name, BlockIndex: -1, Body: body, Captured: ps.Env.Clone()}
			ps.Env.Define(name, value.UserFn(uc), value.KindUser)
			ps.writeParentBuf(name)
			return true, nil
		}
		f.Buf.WriteRune(r)
		return true, nil
	default:
		f.Buf.WriteRune(r)
		return true, nil
	}
}

func (ps *ParserState) stepFunctionDef(f *Frame, r rune) (bool, error) {
	switch f.Phase {
	case "name":
		switch {
		case r == '(':
			f.Phase = "args"
			return true, nil
		case unicode.IsSpace(r):
			return true, nil
		default:
			f.FnName += string(r)
			return true, nil
		}
	case "args":
		if r == ')' {
			args, blockIdx, err := parseParamList(f.Buf.String())
			if err != nil {
				return false, ps.fail(KindDefinitionError, "dispatch", err)
			}
			f.FnArgs, f.FnBlockIdx = args, blockIdx
			f.Buf.Reset()
			f.Phase = "before_body"
			return true, nil
		}
		f.Buf.WriteRune(r)
		return true, nil
	case "before_body":
		switch {
		case unicode.IsSpace(r):
			return true, nil
		case r == '{':
			f.Phase = "body"
			f.Buf.Reset()
			f.Depth = 1
			return true, nil
		default:
			return false, ps.fail(KindSyntaxError, "dispatch", fmt.Errorf("expected '{' to start function body"))
		}
	default: // "body"
		switch r {
		case '{':
			f.Depth++
			f.Buf.WriteRune(r)
			return true, nil
		case '}':
			f.Depth--
			if f.Depth == 0 {
				body := f.Buf.String()
				ps.pop()
				uc := &value.UserCallable{
					Name:       f.FnName,
					Params:     f.FnArgs,
					BlockIndex: f.FnBlockIdx,
					Body:       body,
					Captured:   ps.Env.Clone(),
				}
				ps.Env.Define(f.FnName, value.UserFn(uc), value.KindUser)
				return true, nil
			}
			f.Buf.WriteRune(r)
			return true, nil
		default:
			f.Buf.WriteRune(r)
			return true, nil
		}
	}
}

// parseParamList implements FUNCTION_DEF's "args" phase parsing: split
// on commas, strip whitespace, and recognize at most one brace-wrapped
// block parameter.
func parseParamList(text string) ([]string, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, -1, nil
	}
	parts := strings.Split(text, ",")
	args := make([]string, 0, len(parts))
	blockIdx := -1
	for i, part := range parts {
		p := strings.TrimSpace(part)
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if blockIdx != -1 {
				return nil, -1, fmt.Errorf("multiple block parameters declared")
			}
			blockIdx = i
			p = strings.TrimSpace(p[1 : len(p)-1])
		}
		args = append(args, p)
	}
	return args, blockIdx, nil
}

func (ps *ParserState) stepAssignment(f *Frame, r rune) (bool, error) {
	if r == '\n' {
		target := f.Ident
		text := f.Buf.String()
		ps.pop()
		ps.Queue = append(ps.Queue, func() error {
			v, err := evalexpr.Evaluate(ps.Env, text, ps.Interp)
			if err != nil {
				// An assignment-evaluation failure is swallowed; the
				// assignment has no effect, but is visible in --trace
				// diagnostic mode.
				ps.Interp.debug("assignment %s = %q failed: %v", target, text, err)
				return nil
			}
			ps.Env.Set(target, v)
			return nil
		})
		return true, nil
	}
	f.Buf.WriteRune(r)
	return true, nil
}

func (ps *ParserState) stepReturn(f *Frame, r rune) (bool, error) {
	if r == '\n' {
		text := f.Buf.String()
		ps.pop()
		ps.Queue = append(ps.Queue, func() error {
			v, err := evalexpr.Evaluate(ps.Env, text, ps.Interp)
			if err != nil {
				return ps.fail(KindEvaluationError, "return", err)
			}
			panic(returnSignal{v})
		})
		return true, nil
	}
	f.Buf.WriteRune(r)
	return true, nil
}

func (ps *ParserState) stepCall(f *Frame, r rune) (bool, error) {
	if f.InString {
		f.ArgBuf.WriteRune(r)
		if r == f.StrQuote {
			f.InString = false
		}
		return true, nil
	}
	switch {
	case r == '"' || r == '\'':
		f.InString, f.StrQuote = true, r
		f.ArgBuf.WriteRune(r)
		return true, nil
	case r == '{':
		nf := newFrame(ModeBlock)
		nf.Depth = 1
		ps.push(nf)
		return true, nil
	case r == '(':
		f.ParenDepth++
		f.ArgBuf.WriteRune(r)
		return true, nil
	case r == ')':
		if f.ParenDepth > 0 {
			f.ParenDepth--
			f.ArgBuf.WriteRune(r)
			return true, nil
		}
		ident := f.Ident
		argText := f.ArgBuf.String()
		ps.pop()
		if probe, err := ps.Env.FindVariable(ident); err == nil &&
			probe.Value.Kind == value.KindUser && probe.Value.User.HasBlock() {
			wb := newFrame(ModeWaitBlock)
			wb.Ident = ident
			wb.Buf.WriteString(argText)
			ps.push(wb)
		} else {
			ps.enqueueCall(ident, argText, nil)
		}
		return true, nil
	default:
		f.ArgBuf.WriteRune(r)
		return true, nil
	}
}

func (ps *ParserState) stepWaitBlock(f *Frame, r rune) (bool, error) {
	if f.LambdaName != "" {
		lambdaName := f.LambdaName
		ident, argText := f.Ident, f.Buf.String()
		ps.pop()
		ps.enqueueCall(ident, argText, &lambdaName)
		return false, nil
	}
	switch {
	case unicode.IsSpace(r):
		return true, nil
	case r == '{':
		nf := newFrame(ModeBlock)
		nf.Depth = 1
		ps.push(nf)
		return true, nil
	default:
		ident, argText := f.Ident, f.Buf.String()
		ps.pop()
		ps.enqueueCall(ident, argText, nil)
		return false, nil
	}
}

// enqueueCall appends the thunk that performs a CALL's actual resolution,
// argument evaluation, and invocation. This is deferred to
// thunk-execution time (not parse time) so that an argument referencing
// a variable assigned earlier in the same source — itself only bound
// once its own deferred ASSIGNMENT thunk runs — sees the correct value
// (see DESIGN.md's "parse vs. execution time" resolution note).
func (ps *ParserState) enqueueCall(ident, argText string, lambdaName *string) {
	ps.Queue = append(ps.Queue, func() error {
		return ps.execCall(ident, argText, lambdaName)
	})
}

func (ps *ParserState) execCall(ident, argText string, lambdaName *string) error {
	vr, err := ps.Env.FindVariable(ident)
	if err != nil {
		return ps.fail(KindVariableNotFound, "findVariable", err)
	}
	callee := vr.Value
	if !callee.IsCallable() {
		return ps.fail(KindNotCallableError, "execCall", fmt.Errorf("'%s' is not callable", ident))
	}

	var args []value.Value
	if argText != "" {
		av, everr := evalexpr.EvaluateArgs(ps.Env, argText, ps.Interp)
		if everr != nil {
			// On evaluation failure the raw text is used as a single
			// argument — except a genuine failed variable lookup, which
			// propagates rather than being silently swallowed.
			var nf *value.NotFoundError
			if errors.As(everr, &nf) {
				return ps.fail(KindVariableNotFound, "evalArg", everr)
			}
			av = []value.Value{value.StringLike(argText)}
		}
		args = av
	}

	if lambdaName != nil {
		lv, lerr := ps.Env.FindVariable(*lambdaName)
		if lerr != nil {
			return ps.fail(KindVariableNotFound, "findVariable", lerr)
		}
		idx := 0
		if callee.Kind == value.KindUser && callee.User.HasBlock() {
			idx = callee.User.BlockIndex
		}
		args = insertAt(args, idx, lv.Value)
	}

	_, err = ps.Interp.Invoke(callee, args)
	return err
}

// insertAt inserts v at index idx into args, padding with Null values as
// needed: the block argument is inserted at the subroutine's
// block-parameter index, extending with nulls if the call passed too
// few positional arguments.
func insertAt(args []value.Value, idx int, v value.Value) []value.Value {
	for len(args) < idx {
		args = append(args, value.Null)
	}
	if idx >= len(args) {
		return append(args, v)
	}
	args = append(args, value.Null)
	copy(args[idx+1:], args[idx:])
	args[idx] = v
	return args
}
