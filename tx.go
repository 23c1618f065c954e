package barter

import (
	"reflect"
	"regexp"

	"github.com/iov-one/barter/errors"
)

// Msg is a request for a state transition. Authentication data lives in
// the Tx wrapping it.
type Msg interface {
	Persistent

	// Path names the message type. The router uses it to pick the handler
	// and it must match [0-9A-Za-z_\-/]+.
	Path() string

	// Validate checks the message without reading any state.
	Validate() error
}

// Marshaller serializes into binary form.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can be written and read back. Unmarshal usually needs a
// pointer receiver, which is why Marshaller is a separate interface.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is what a client submits: one message plus the data the decorators
// need, for example signatures.
type Tx interface {
	Persistent

	GetMsg() (Msg, error)
}

// GetPath returns the path of the carried message, or "(missing)".
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

var isPath = regexp.MustCompile(`^[a-zA-Z0-9_\-/]+$`).MatchString

// ValidatePath returns an error if the given message path is not usable
// for routing.
func ValidatePath(path string) error {
	if !isPath(path) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid path %q", path)
	}
	return nil
}

// LoadMsg copies the validated message of tx into destination, which must
// be a pointer of the same type as the message.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrInvalidInput, "transaction carries no message")
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrInvalidType, "invalid destination, pointer expected")
	}
	src := reflect.ValueOf(msg)
	if src.Type() != dest.Type() {
		return errors.Wrapf(errors.ErrInvalidType, "want %T message, got %T", destination, msg)
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	dest.Elem().Set(src.Elem())
	return nil
}
