// Package x holds the interfaces shared by the extensions under it. Each
// sub package is one extension bundling its messages, models and
// handlers, and an application picks the ones it registers.
package x

// Validater is implemented by messages, models and configurations.
type Validater interface {
	Validate() error
}
