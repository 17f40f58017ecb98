package main

import (
	"os"

	"github.com/jcorbin/servo/internal/value"
)

// importModule resolves name, runs the file end-to-end against a fresh
// environment, and installs every binding absent from a fresh baseline
// as an opaque namespace under the module's short name in the caller's
// environment.
func (in *Interp) importModule(callerEnv *value.Environment, name string) error {
	path, err := in.resolveModulePath(name)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return &moduleResolutionError{name: name}
	}

	baseline := in.newEnvironment()
	moduleEnv := in.newEnvironment()
	ps := in.newParserState(path, string(src), moduleEnv)
	if err := ps.Parse(); err != nil {
		return err
	}
	if _, _, err := ps.RunThunks(); err != nil {
		return err
	}

	entries := make(map[string]value.Value)
	for _, bound := range moduleEnv.DiffNames(baseline) {
		vr, _ := moduleEnv.Lookup(bound)
		entries[bound] = vr.Value
	}
	ns := &value.Module{Name: name, Entries: entries}
	callerEnv.Set(name, value.ModuleVal(ns))
	return nil
}
