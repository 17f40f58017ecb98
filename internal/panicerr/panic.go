// Package panicerr classifies a recovered panic as a genuine host-level
// failure, distinct from the interpreter's own deliberate non-local
// control flow (a RETURN signal unwinding a subroutine call). Recover
// runs in the calling goroutine directly, since nothing here needs to
// outlive it.
package panicerr

import (
	"errors"
	"fmt"
)

// Error wraps a recovered panic value with the name of the call it
// escaped from and a captured stack trace.
type Error struct {
	name  string
	e     interface{}
	stack []byte
}

func (pe *Error) Error() string { return fmt.Sprint(pe) }

func (pe *Error) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "paniced: %v", pe.e)
	} else {
		fmt.Fprintf(f, "%v paniced: %v", pe.name, pe.e)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe *Error) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

// IsPanic returns true if err indicates a recovered panic.
func IsPanic(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}

// PanicStack returns a non-empty stacktrace string if err is a recovered
// panic.
func PanicStack(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
