// Package builtins implements the built-in registry: the seed bindings
// injected into every freshly constructed environment.
//
// system/systemreturn/input shell out to os/exec and stdin; system_math
// wraps the standard math package, since these are thin, unremarkable
// wrappers around host process spawning, math functions, and an
// interactive prompt rather than an interpreter concern in their own
// right.
package builtins

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strings"

	"github.com/jcorbin/servo/internal/value"
)

// Config carries the host collaborators a fresh environment's built-ins
// need: where subprocess output and input come from, without this
// package depending on the engine that constructs it.
type Config struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// Seed populates env with the built-in registry.
func Seed(env *value.Environment, cfg Config) {
	env.Define("system", value.NativeFn(system(cfg)), value.KindNative)
	env.Define("systemreturn", value.NativeFn(systemReturn()), value.KindNative)
	env.Define("system_math", value.HostModuleVal(mathModule()), value.KindHostMod)
	env.Define("input", value.NativeFn(input(cfg)), value.KindNative)
}

func argString(args []value.Value) string {
	if len(args) == 0 {
		return ""
	}
	return args[0].String()
}

// system runs a shell command, echoing its captured stdout, and fails
// with the captured stderr as the error message on non-zero exit.
func system(cfg Config) value.Native {
	return func(args []value.Value) (value.Value, error) {
		cmd := exec.Command("sh", "-c", argString(args))
		var stderr bytes.Buffer
		cmd.Stdout = cfg.Stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return value.Value{}, fmt.Errorf("%s", strings.TrimSpace(stderr.String()))
		}
		return value.Null, nil
	}
}

// systemReturn runs a shell command and returns its captured stdout as a
// string-like value; same failure contract as system.
func systemReturn() value.Native {
	return func(args []value.Value) (value.Value, error) {
		cmd := exec.Command("sh", "-c", argString(args))
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return value.Value{}, fmt.Errorf("%s", strings.TrimSpace(stderr.String()))
		}
		return value.StringLike(strings.TrimRight(stdout.String(), "\n")), nil
	}
}

// input reads one line from standard input.
func input(cfg Config) value.Native {
	return func(args []value.Value) (value.Value, error) {
		scanner := bufio.NewScanner(cfg.Stdin)
		if scanner.Scan() {
			return value.StringLike(scanner.Text()), nil
		}
		if err := scanner.Err(); err != nil {
			return value.Value{}, err
		}
		return value.StringLike(""), nil
	}
}

// mathModule builds the system_math host-module, reached via dotted
// lookup, e.g. system_math.sqrt.
func mathModule() *value.HostModule {
	one := func(f func(float64) float64) func([]float64) (float64, error) {
		return func(args []float64) (float64, error) {
			if len(args) != 1 {
				return 0, fmt.Errorf("expected 1 argument, got %d", len(args))
			}
			return f(args[0]), nil
		}
	}
	two := func(f func(float64, float64) float64) func([]float64) (float64, error) {
		return func(args []float64) (float64, error) {
			if len(args) != 2 {
				return 0, fmt.Errorf("expected 2 arguments, got %d", len(args))
			}
			return f(args[0], args[1]), nil
		}
	}
	return &value.HostModule{
		Name: "system_math",
		Funcs: map[string]func([]float64) (float64, error){
			"sqrt":  one(math.Sqrt),
			"abs":   one(math.Abs),
			"floor": one(math.Floor),
			"ceil":  one(math.Ceil),
			"round": one(math.Round),
			"sin":   one(math.Sin),
			"cos":   one(math.Cos),
			"tan":   one(math.Tan),
			"log":   one(math.Log),
			"exp":   one(math.Exp),
			"pow":   two(math.Pow),
			"max":   two(math.Max),
			"min":   two(math.Min),
		},
	}
}
