package errors

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// stackTrace returns the first stack trace found in the wrap chain of err,
// or nil.
func stackTrace(err error) errors.StackTrace {
	type tracer interface {
		StackTrace() errors.StackTrace
	}
	for err != nil {
		if t, ok := err.(tracer); ok {
			return t.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// Format prints the message for %s. %v appends the [file:line] where
// the error was created and %+v prints the whole stack before the message.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}
	stack := trimStack(stackTrace(e))
	switch {
	case s.Flag('+'):
		fmt.Fprintf(s, "%+v\n%s", stack, e.Error())
	case len(stack) > 0:
		file, line := frameLocation(stack[0])
		fmt.Fprintf(s, "%s [%s:%d]", e.Error(), shortPath(file), line)
	default:
		fmt.Fprint(s, e.Error())
	}
}

// pkgPrefix is the function name prefix of this package.
var pkgPrefix = packagePath() + "."

func packagePath() string {
	pc, _, _, _ := runtime.Caller(0)
	name := runtime.FuncForPC(pc).Name()
	return name[:strings.LastIndex(name, ".")]
}

// trimStack drops the frames of this package from the top of the stack
// and the runtime and testing frames from the bottom.
func trimStack(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && isWrapperFrame(st[0]) {
		st = st[1:]
	}
	for len(st) > 0 {
		name := frameFunc(st[len(st)-1])
		if !strings.HasPrefix(name, "runtime.") && !strings.HasPrefix(name, "testing.") {
			break
		}
		st = st[:len(st)-1]
	}
	return st
}

func isWrapperFrame(f errors.Frame) bool {
	if !strings.HasPrefix(frameFunc(f), pkgPrefix) {
		return false
	}
	file, _ := frameLocation(f)
	return !strings.HasSuffix(file, "_test.go")
}

// A pkg/errors Frame is a program counter plus one.
func frameFunc(f errors.Frame) string {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

func frameLocation(f errors.Frame) (string, int) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

// shortPath keeps the directory and the file name.
func shortPath(file string) string {
	dir, name := filepath.Split(file)
	return filepath.Join(filepath.Base(dir), name)
}
