// Package value implements the Script's runtime value model: the tagged
// Value variant, the Variable record that binds a name to one, and the
// Environment that holds those bindings in definition order.
package value

import (
	"fmt"
	"strconv"
)

// Kind tags a Value's variant, plus the extra tags "arg" (used only as a
// Variable.Tag, for formal parameters) and "derived" (a host-module
// function reached by dotted lookup, used as both a Value kind and a
// Variable.Tag).
type Kind string

const (
	KindInteger  Kind = "integer"
	KindFloat    Kind = "floating"
	KindString   Kind = "string-like"
	KindNative   Kind = "native-callable"
	KindUser     Kind = "user-callable"
	KindModule   Kind = "module"
	KindHostMod  Kind = "host-module"
	KindNull     Kind = "null"
	KindArg      Kind = "arg"
	KindDerived  Kind = "derived"
)

// Native is a host-native callable: a function taking one positional
// argument bundle and returning a Value or an error.
type Native func(args []Value) (Value, error)

// Module is an opaque namespace: a name-keyed set of bindings exposed by
// the import loader.
type Module struct {
	Name    string
	Entries map[string]Value
}

func (m *Module) Get(name string) (Value, bool) {
	v, ok := m.Entries[name]
	return v, ok
}

// HostModule is a dotted-lookup namespace backed by host functions, e.g.
// system_math.
type HostModule struct {
	Name  string
	Funcs map[string]func(args []float64) (float64, error)
}

func (hm *HostModule) Get(name string) (Value, bool) {
	fn, ok := hm.Funcs[name]
	if !ok {
		return Value{}, false
	}
	return Value{Kind: KindDerived, HostFn: fn}, true
}

// UserCallable is a subroutine built from a parsed fn definition or an
// anonymous block literal.
type UserCallable struct {
	Name       string
	Params     []string
	BlockIndex int // -1 if no block parameter
	Body       string
	Captured   *Environment
}

// HasBlock reports whether this subroutine declares a block parameter.
func (u *UserCallable) HasBlock() bool { return u.BlockIndex >= 0 }

// Value is the interpreter's tagged runtime value.
type Value struct {
	Kind Kind

	Int    int64
	Float  float64
	Str    string
	Native Native
	User   *UserCallable
	Module *Module
	Host   *HostModule

	// HostFn is set only when Kind == KindDerived, holding a bound
	// host-module function reached via dotted lookup.
	HostFn func(args []float64) (float64, error)
}

// Null is the absent/unresolved value used for unfilled indexed
// arguments.
var Null = Value{Kind: KindNull}

func Int(n int64) Value      { return Value{Kind: KindInteger, Int: n} }
func Float(f float64) Value  { return Value{Kind: KindFloat, Float: f} }
func StringLike(s string) Value { return Value{Kind: KindString, Str: s} }
func NativeFn(f Native) Value   { return Value{Kind: KindNative, Native: f} }
func UserFn(u *UserCallable) Value { return Value{Kind: KindUser, User: u} }
func ModuleVal(m *Module) Value    { return Value{Kind: KindModule, Module: m} }
func HostModuleVal(hm *HostModule) Value { return Value{Kind: KindHostMod, Host: hm} }

// IsCallable reports whether v can be invoked as a subroutine.
func (v Value) IsCallable() bool {
	return v.Kind == KindNative || v.Kind == KindUser
}

// String returns a best-effort textual rendering of v, used both by
// string-like concatenation and by diagnostics.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindNative:
		return "<native>"
	case KindUser:
		if v.User != nil {
			return fmt.Sprintf("<fn %s>", v.User.Name)
		}
		return "<fn>"
	case KindModule:
		if v.Module != nil {
			return fmt.Sprintf("<module %s>", v.Module.Name)
		}
		return "<module>"
	case KindHostMod:
		if v.Host != nil {
			return fmt.Sprintf("<host-module %s>", v.Host.Name)
		}
		return "<host-module>"
	case KindNull:
		return ""
	default:
		return ""
	}
}

// Concat implements the string-like invariant: concatenation of a
// string-like value with anything yields another string-like value whose
// text is the concatenation of their String() forms.
func Concat(a, b Value) Value {
	return StringLike(a.String() + b.String())
}
