/*
Package errors defines the error values used across barter and the way
they are reported to ABCI clients.

Every failure that can reach a client wraps one of the root errors
registered in this package, or a root error registered by an extension
with Register. The ABCI code of the root error is returned to the client
together with the message, so wallets can act on ErrNotFound or
ErrUnauthorized without parsing text. Errors that do not wrap a
registered root are internal: the client only sees code 1 and a generic
message, unless the node runs in debug mode.

Create errors where the failure happens

	return errors.Wrapf(errors.ErrInsufficientAmount, "need %s", amount)
	return errors.Field("Maker", errors.ErrEmpty, "required")

so the first wrap records the stack. Printing with %+v shows the full
stack trace, %v appends the short [file:line] of the creation point.

Use Append to report several validation problems at once and
FieldErrors to find the errors of a single field in the result.
*/
package errors
