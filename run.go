package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jcorbin/servo/internal/value"
)

// RunResult carries the outcome of a top-level run, including the final
// root environment for `--dump`.
type RunResult struct {
	Env *value.Environment
	Err error
}

// RunFile loads and runs path as the top-level program: source bytes flow
// through the Character Stream into the Mode Machine, which builds a
// queue of deferred thunks executed in order once parsing completes.
// Uses path's directory as the module search path's first root unless one
// was already set via WithSearchPath.
func (in *Interp) RunFile(path string) RunResult {
	src, err := os.ReadFile(path)
	if err != nil {
		return RunResult{Err: err}
	}
	if in.workDir == "." {
		in.workDir = filepath.Dir(path)
	}
	return in.RunSource(path, string(src))
}

// RunSource runs src as a top-level program named name, for diagnostics
// and for the `-m/--module` entry point.
func (in *Interp) RunSource(name, src string) RunResult {
	defer in.out.Flush()

	env := in.newEnvironment()
	ps := in.newParserState(name, src, env)

	if err := ps.Parse(); err != nil {
		return RunResult{Env: env, Err: err}
	}
	if _, _, err := ps.RunThunks(); err != nil {
		return RunResult{Env: env, Err: err}
	}
	return RunResult{Env: env}
}

// DumpEnv renders a root environment snapshot for `--dump`, one
// `name = value` line per binding in definition order.
func DumpEnv(w io.Writer, env *value.Environment) {
	for _, name := range env.Names() {
		vr, _ := env.Lookup(name)
		fmt.Fprintf(w, "%s = %s\n", name, vr.Value.String())
	}
}
