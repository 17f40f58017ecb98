package panicerr

import "runtime/debug"

// Recover runs f in the calling goroutine and converts any panic into a
// non-nil *Error return, except a value for which skip returns true —
// that value is re-panicked unchanged so an outer recover (the Script's
// own RETURN-signal boundary) can still catch it.
func Recover(name string, skip func(v interface{}) bool, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if skip != nil && skip(r) {
				panic(r)
			}
			err = &Error{name: name, e: r, stack: debug.Stack()}
		}
	}()
	return f()
}
