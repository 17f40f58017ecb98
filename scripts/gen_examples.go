package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

// gen_examples regenerates the golden `.out` fixtures under
// testdata/expected/ by running the built servo binary over every `.sv`
// script under testdata/scripts/, one goroutine per script bounded by a
// shared context.
//
// Adapted from the teacher's scripts/gen_vm_expects.go: same
// errgroup.WithContext + context.WithTimeout shape for bounding a batch
// of independent, short-lived subprocess runs, repointed at `.sv`
// example scripts and a compiled interpreter binary instead of source
// transformation via goimports.
func main() {
	bin := flag.String("bin", "./servo", "path to the built servo binary")
	scriptsDir := flag.String("scripts", "testdata/scripts", "directory of .sv example scripts")
	outDir := flag.String("out", "testdata/expected", "directory to write <name>.out fixtures into")
	timeout := flag.Duration("timeout", 10*time.Second, "overall deadline for the batch")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	scripts, err := filepath.Glob(filepath.Join(*scriptsDir, "*.sv"))
	if err != nil {
		log.Fatalf("listing scripts: %v", err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("creating %s: %v", *outDir, err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, script := range scripts {
		script := script
		eg.Go(func() error {
			return regenerate(ctx, *bin, script, *outDir)
		})
	}
	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

func regenerate(ctx context.Context, bin, script, outDir string) error {
	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, script)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w: %s", script, err, strings.TrimSpace(stderr.String()))
	}

	name := strings.TrimSuffix(filepath.Base(script), ".sv") + ".out"
	return os.WriteFile(filepath.Join(outDir, name), out.Bytes(), 0o644)
}
