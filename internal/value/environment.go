package value

import (
	"fmt"
	"strings"
)

// Environment is the ordered identifier→Variable mapping used to bind
// names to values. Order of insertion is retained (via names) so that
// size-based diagnostics and deterministic iteration (e.g. for the
// import baseline diff) are possible.
type Environment struct {
	names []string
	vars  map[string]*Variable
}

// NewEnvironment returns an empty environment. Callers that want the
// Built-ins Registry pre-populated should do so immediately via Define;
// see internal/builtins.Seed.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]*Variable)}
}

// Len returns the number of bindings directly present in env.
func (env *Environment) Len() int { return len(env.names) }

// Names returns the bound identifiers in definition order.
func (env *Environment) Names() []string {
	out := make([]string, len(env.names))
	copy(out, env.names)
	return out
}

// Define creates or overwrites the binding for name, tagging the Variable
// with the given kind (KindArg for formal parameters, or the value's own
// Kind for everything else).
func (env *Environment) Define(name string, v Value, tag Kind) *Variable {
	if existing, ok := env.vars[name]; ok {
		existing.Value = v
		existing.Tag = tag
		return existing
	}
	vr := &Variable{Name: name, Value: v, Tag: tag, Owner: env}
	env.vars[name] = vr
	env.names = append(env.names, name)
	return vr
}

// Set mirrors Define but infers the tag from v.Kind, the common case for
// a plain assignment or an import binding.
func (env *Environment) Set(name string, v Value) *Variable {
	return env.Define(name, v, v.Kind)
}

// Lookup returns the direct binding for name, without dotted fallback.
func (env *Environment) Lookup(name string) (*Variable, bool) {
	vr, ok := env.vars[name]
	return vr, ok
}

// NotFoundError is returned by FindVariable (directly, or via
// resolveAttrPath's dotted walk) when no binding satisfies the lookup.
// It is a distinct type — rather than a plain fmt.Errorf — so that a
// caller evaluating an expression on a best-effort basis can single out
// a genuinely failed name resolution for propagation instead of treating
// it the same as any other evaluation failure.
type NotFoundError struct{ Name string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("variable '%s' not found", e.Name) }

// FindVariable does an exact match first, then a dotted fallback that
// walks remaining segments as attribute lookups on the head value
// (host-module function lookup, or module field lookup).
func (env *Environment) FindVariable(name string) (*Variable, error) {
	if vr, ok := env.vars[name]; ok {
		return vr, nil
	}

	if i := strings.IndexByte(name, '.'); i > 0 {
		head, rest := name[:i], name[i+1:]
		if headVar, ok := env.vars[head]; ok {
			v, err := resolveAttrPath(headVar.Value, rest)
			if err != nil {
				return nil, err
			}
			return &Variable{Name: name, Value: v, Tag: KindDerived, Owner: env}, nil
		}
	}

	return nil, &NotFoundError{Name: name}
}

// resolveAttrPath walks dotted segments of path against v, which must be
// a Module or HostModule at each step.
func resolveAttrPath(v Value, path string) (Value, error) {
	segs := strings.Split(path, ".")
	cur := v
	for i, seg := range segs {
		switch cur.Kind {
		case KindModule:
			next, ok := cur.Module.Get(seg)
			if !ok {
				return Value{}, &NotFoundError{Name: seg}
			}
			cur = next
		case KindHostMod:
			next, ok := cur.Host.Get(seg)
			if !ok {
				return Value{}, &NotFoundError{Name: seg}
			}
			if i != len(segs)-1 {
				return Value{}, &NotFoundError{Name: strings.Join(segs[i:], ".")}
			}
			cur = next
		default:
			return Value{}, &NotFoundError{Name: seg}
		}
	}
	return cur, nil
}

// Clone returns a copy-on-definition snapshot of env, used when a
// subroutine captures its defining environment and when invocation seeds
// a fresh Parser State environment from that capture.
func (env *Environment) Clone() *Environment {
	out := NewEnvironment()
	for _, name := range env.names {
		src := env.vars[name]
		out.Define(name, src.Value, src.Tag)
	}
	return out
}

// Snapshot returns a flat name→Value map suitable for handing to the
// expression evaluator.
func (env *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(env.names))
	for _, name := range env.names {
		out[name] = env.vars[name].Value
	}
	return out
}

// DiffNames returns the names present in env but absent from baseline, in
// env's definition order — the "user-added bindings only" rule the
// import loader uses to build a module namespace.
func (env *Environment) DiffNames(baseline *Environment) []string {
	var out []string
	for _, name := range env.names {
		if _, present := baseline.vars[name]; !present {
			out = append(out, name)
		}
	}
	return out
}
