package orm

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/x"
)

// Model is an entity that can be stored in a bucket. Models are validated
// before every write.
type Model interface {
	x.Validater
	barter.Persistent
}

// Object binds a model to the key it is stored under. The bucket prefix is
// not part of the key.
type Object interface {
	x.Validater
	Keyed
	Cloneable
	Value() Model
}

type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable creates an empty object of the same type, ready to be loaded
// with data read from the store.
type Cloneable interface {
	Clone() Object
}
