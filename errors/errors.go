package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors. Codes below 100 are reserved for this package.
var (
	// ErrUnauthorized means a required signature is missing.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = Register(3, "not found")

	ErrMsg   = Register(4, "invalid message")
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate means an entity with the same key or unique index
	// value already exists.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is a programming error, a code path that must not be
	// reached.
	ErrHuman = Register(7, "coding error")

	ErrImmutable = Register(8, "cannot be modified")
	ErrEmpty     = Register(9, "value is empty")
	ErrState     = Register(10, "invalid state")

	ErrInvalidType = Register(11, "invalid type")

	// ErrInsufficientAmount means an account cannot cover a payment.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	ErrAmount       = Register(13, "invalid amount")
	ErrInvalidInput = Register(14, "invalid input")
	ErrExpired      = Register(15, "expired")

	// ErrOverflow means a computation does not fit its type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrCurrency is returned for invalid tickers and for operations
	// mixing currencies.
	ErrCurrency = Register(17, "currency")

	// ErrDatabase means the underlying store failed.
	ErrDatabase = Register(18, "database")

	// ErrPanic wraps a recovered panic.
	ErrPanic = Register(111222, "panic")
)

// registered holds all root errors by code. Code 1 is the internal error
// code and cannot be registered.
var registered = map[uint32]*Error{1: nil}

// Register declares a new root error. Call it from a package level var
// declaration only. It panics if the code is taken.
func Register(code uint32, description string) *Error {
	if prev, ok := registered[code]; ok {
		desc := "internal"
		if prev != nil {
			desc = prev.desc
		}
		panic(fmt.Sprintf("error code %d already registered as %q", code, desc))
	}
	e := &Error{code: code, desc: description}
	registered[code] = e
	return e
}

// Error is a root error. Runtime errors wrap one of them so the code
// survives any number of wraps.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New wraps the root error with a description. It is the same as
// Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err is, wraps or contains this root error. A nil
// root matches only nil errors, including typed nil pointers.
func (e *Error) Is(err error) bool {
	if e == nil {
		return errIsNil(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		if u, ok := err.(unpacker); ok {
			for _, inner := range u.Unpack() {
				if e.Is(inner) {
					return true
				}
			}
			return false
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap adds a description to err and records the stack if err has none
// yet. Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{parent: withStack(err), msg: description}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

func withStack(err error) error {
	if stackTrace(err) != nil {
		return err
	}
	return errors.WithStack(err)
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to err. Call it
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

// errIsNil also detects typed nil pointers stored in the interface.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
