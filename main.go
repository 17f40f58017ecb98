package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcorbin/servo/internal/logio"
)

// main wires a github.com/spf13/cobra root command exposing the script
// runner: a positional script path or -m/--module, with --trace and
// --dump for debugging and -v/--verbose to opt out of a forced non-zero
// exit on failure.
func main() {
	var (
		module  string
		verbose bool
		trace   bool
		dump    bool
	)

	log := &logio.Logger{}
	log.SetOutput(os.Stderr)

	cmd := &cobra.Command{
		Use:           "servo [script.sv]",
		Short:         "Run a Script (.sv) program",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []InterpOption
			if trace {
				opts = append(opts, WithLogf(log.Leveledf("TRACE")))
				opts = append(opts, WithDebugf(log.Leveledf("DEBUG")))
			}

			in := New(opts...)

			var result RunResult
			switch {
			case module != "":
				path := strings.ReplaceAll(module, ".", string(os.PathSeparator)) + scriptExt
				result = in.RunFile(path)
			case len(args) == 1:
				result = in.RunFile(args[0])
			default:
				return fmt.Errorf("specify a script file or -m/--module")
			}

			if dump && result.Env != nil {
				DumpEnv(os.Stdout, result.Env)
			}

			if result.Err != nil {
				log.Errorf("%v", result.Err)
				if !verbose {
					fmt.Fprintln(os.Stderr, "exit with code 1")
					os.Exit(1)
				}
				return nil
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "dotted module name to run, e.g. pkg.sub (translated to pkg/sub.sv)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "do not force a non-zero exit status on a top-level failure")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every mode-machine dispatch transition")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the root environment after the run completes")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
