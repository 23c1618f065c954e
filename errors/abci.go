package errors

import "fmt"

// SuccessABCICode is the code of a successful ABCI response.
const SuccessABCICode = 0

// Errors not wrapping a registered root error are reported with this code
// and message.
const (
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response for err. A nil
// error is a success. Internal errors are reported as code 1 with a
// generic message, their real message is revealed only in debug mode.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	if code == internalABCICode && !debug {
		return code, internalABCILog
	}
	return code, err.Error()
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the wrap chain that has
// one, or the internal code.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
}

// ABCIError restores an error from the code and log of an ABCI response,
// so clients can test it with Is. Unknown codes never match a root error.
func ABCIError(code uint32, log string) error {
	if root, ok := registered[code]; ok && root != nil {
		return Wrap(root, log)
	}
	return Wrap(&Error{code: code, desc: log}, fmt.Sprintf("code %d", code))
}
