package core

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrInvalidArgument is the parent of every input-validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidStep rejects a range whose step is zero. It wraps
// ErrInvalidArgument, so both errors.Is checks succeed, but its message is
// specific.
var ErrInvalidStep = fmt.Errorf("%w: step cannot be zero", ErrInvalidArgument)

// ErrTypeMismatch is returned at the boundary when an input is neither a
// number nor a batch of numbers. The core never produces it.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrUnsupportedType describes a Numeric type that cannot construct the
// literals 0, 3 or 5. It is never returned by a classifier; the boundary
// uses it to log the echo fallback.
var ErrUnsupportedType = errors.New("unsupported numeric type")

// TypeMismatchError reports the dynamic type that was rejected and what
// was expected in its place.
type TypeMismatchError struct {
	Got  string
	Want string
}

func (e *TypeMismatchError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("type mismatch: cannot use %s", e.Got)
	}
	return fmt.Sprintf("type mismatch: cannot use %s as %s", e.Got, e.Want)
}

// Is makes errors.Is(err, ErrTypeMismatch) match any TypeMismatchError.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// NewTypeMismatch builds a TypeMismatchError naming the dynamic type of got.
func NewTypeMismatch(got any, want string) *TypeMismatchError {
	return &TypeMismatchError{Got: fmt.Sprintf("%T", got), Want: want}
}

// ErrPanic wraps a recovered panic value as an error.
// Panics raised by user code running on a worker (for example a custom
// Numeric implementation) are converted to ErrPanic instead of crashing the
// process. Stack excludes internal min-fizzbuzz frames.
type ErrPanic struct {
	Value any
	Stack string
}

func (e ErrPanic) Error() string {
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// NewPanicError creates an ErrPanic from a recovered value. Call it
// directly from the deferred function that called recover.
func NewPanicError(recovered any) ErrPanic {
	// skip runtime.Callers, userStack, NewPanicError and the deferred func
	return ErrPanic{Value: recovered, Stack: userStack(4)}
}

// internalPrefix marks functions that belong to this module's library code.
const internalPrefix = "github.com/lguimbarda/min-fizzbuzz/fizzbuzz/"

// userStack formats up to 32 caller frames as function, then tab-indented
// file:line, dropping library frames so the trace starts at user code.
// Test files of library packages are kept.
func userStack(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	var lines []string
	frames := runtime.CallersFrames(pcs[:n])
	for more := true; more; {
		var frame runtime.Frame
		frame, more = frames.Next()
		if strings.HasPrefix(frame.Function, internalPrefix) && !strings.HasSuffix(frame.File, "_test.go") {
			continue
		}
		lines = append(lines, frame.Function, fmt.Sprintf("\t%s:%d", frame.File, frame.Line))
	}
	return strings.Join(lines, "\n")
}
