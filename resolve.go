package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// scriptExt is the Script source file extension.
const scriptExt = ".sv"

// moduleResolutionError distinguishes "could not find the module at all"
// from any error surfaced while running a module that was found, so the
// ARTIFACT handler can apply the right ScriptError kind.
type moduleResolutionError struct {
	name string
}

func (e *moduleResolutionError) Error() string {
	return fmt.Sprintf("module '%s' not found", e.name)
}

// resolveModulePath tries the working directory, then the bundled
// library directory, both with the ".sv" extension appended to the
// (possibly dotted) module name. A dotted module name given via
// `-m/--module` on the CLI has already had its dots translated to path
// separators by the caller; ARTIFACT's import directive passes a bare
// name through unchanged.
func (in *Interp) resolveModulePath(name string) (string, error) {
	rel := name + scriptExt
	for _, root := range []string{in.workDir, in.libDir} {
		if root == "" {
			continue
		}
		candidate := filepath.Join(root, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", &moduleResolutionError{name: name}
}
