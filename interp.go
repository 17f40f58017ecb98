package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jcorbin/servo/internal/builtins"
	"github.com/jcorbin/servo/internal/flushio"
	"github.com/jcorbin/servo/internal/value"
)

// Interp is the interpreter's core: the host collaborators (I/O, logging,
// module resolution) shared by every Parser State it drives, constructed
// through functional options.
type Interp struct {
	out     flushio.WriteFlusher
	stdin   io.Reader
	stderr  io.Writer
	logf    func(mess string, args ...interface{})
	debugf  func(mess string, args ...interface{})
	workDir string
	libDir  string

	lambdaSeq int
}

// InterpOption configures a new Interp.
type InterpOption func(*Interp)

// WithOutput sets the interpreter's stdout.
func WithOutput(w io.Writer) InterpOption {
	return func(in *Interp) { in.out = flushio.NewWriteFlusher(w) }
}

// WithStderr sets the interpreter's stderr, handed to the built-in
// registry's Config.
func WithStderr(w io.Writer) InterpOption {
	return func(in *Interp) { in.stderr = w }
}

// WithStdin sets the reader the `input` built-in reads from.
func WithStdin(r io.Reader) InterpOption {
	return func(in *Interp) { in.stdin = r }
}

// WithLogf wires mode-transition trace logging for the "--trace" flag.
func WithLogf(logf func(mess string, args ...interface{})) InterpOption {
	return func(in *Interp) { in.logf = logf }
}

// WithDebugf wires diagnostic-mode logging for swallowed
// assignment-evaluation failures.
func WithDebugf(debugf func(mess string, args ...interface{})) InterpOption {
	return func(in *Interp) { in.debugf = debugf }
}

// WithSearchPath sets the module search path's two roots: working
// directory first, then the bundled library directory.
func WithSearchPath(workDir, libDir string) InterpOption {
	return func(in *Interp) { in.workDir, in.libDir = workDir, libDir }
}

// New constructs an Interp with the given options applied over sane
// defaults (stdout/stderr/stdin from the process, no tracing).
func New(opts ...InterpOption) *Interp {
	in := &Interp{
		out:    flushio.NewWriteFlusher(os.Stdout),
		stdin:  os.Stdin,
		stderr: os.Stderr,
		logf:    func(string, ...interface{}) {},
		debugf:  func(string, ...interface{}) {},
		workDir: ".",
		libDir:  "reach",
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Interp) trace(mess string, args ...interface{}) { in.logf(mess, args...) }
func (in *Interp) debug(mess string, args ...interface{}) { in.debugf(mess, args...) }

// nextLambdaName returns a fresh, monotonically increasing name for an
// anonymous block literal: a counter rather than current environment
// size, so reusing or cloning environments can never collide two
// distinct lambdas under the same name.
func (in *Interp) nextLambdaName() string {
	in.lambdaSeq++
	return fmt.Sprintf("__lambda_%d", in.lambdaSeq)
}

// newEnvironment builds a fresh environment pre-populated with the
// built-in registry.
func (in *Interp) newEnvironment() *value.Environment {
	env := value.NewEnvironment()
	builtins.Seed(env, builtins.Config{
		Stdout: in.out,
		Stderr: in.stderr,
		Stdin:  in.stdin,
	})
	return env
}
