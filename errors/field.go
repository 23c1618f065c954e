package errors

import (
	"fmt"
	"strings"
)

// Field marks err as a problem of the named field. Use the Go name of the
// field and dots for nested fields, for example "Deposit.Ticker". A nil
// err returns nil, so validation results can be passed without checking.
func Field(name string, err error, description string, args ...interface{}) error {
	if errIsNil(err) {
		return nil
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: withStack(err), field: name, desc: description}
}

// AppendField adds the field error, if any, to errs.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

func (e *fieldError) Field() string {
	return e.field
}

// FieldErrors returns the errors reported for the named field anywhere in
// err. The search stops at the outermost match of each branch.
func FieldErrors(err error, name string) []error {
	var found []error
	for !errIsNil(err) {
		if f, ok := err.(*fieldError); ok && f.field == name {
			return append(found, err)
		}
		if u, ok := err.(unpacker); ok {
			for _, inner := range u.Unpack() {
				found = append(found, FieldErrors(inner, name)...)
			}
			return found
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return found
}

type unpacker interface {
	Unpack() []error
}

// Append combines the non nil errors. It returns nil if there are none and
// the error itself if there is only one. Combined errors are flattened.
func Append(errs ...error) error {
	var all multiErr
	for _, err := range errs {
		switch e := err.(type) {
		case multiErr:
			all = append(all, e...)
		default:
			if !errIsNil(err) {
				all = append(all, err)
			}
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	}
	return all
}

// multiErr holds two or more errors.
type multiErr []error

func (m multiErr) Error() string {
	msgs := make([]string, len(m))
	for i, err := range m {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t* %s", len(m), strings.Join(msgs, "\n\t* "))
}

func (m multiErr) Unpack() []error {
	return m
}

// ABCICode returns the code of the first error that has one.
func (m multiErr) ABCICode() uint32 {
	for _, err := range m {
		if code := abciCode(err); code != internalABCICode {
			return code
		}
	}
	return internalABCICode
}
