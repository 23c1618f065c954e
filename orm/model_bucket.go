package orm

import (
	"reflect"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// ModelBucket stores a single model type and hides the Object wrapping of
// Bucket from its users.
type ModelBucket interface {
	// One loads the model stored under key into dest. It returns
	// ErrNotFound for a missing key and ErrInvalidType if dest is not of
	// the bucket model type.
	One(db barter.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns ErrNotFound if key is not stored.
	Has(db barter.ReadOnlyKVStore, key []byte) error

	// ByIndex appends every model with the given index value to dest,
	// which is a pointer to a slice of the model type or of pointers to
	// it. It returns the primary keys in the same order.
	ByIndex(db barter.ReadOnlyKVStore, index string, value []byte, dest ModelSlicePtr) ([][]byte, error)

	// Put validates and stores m, updating all indexes.
	Put(db barter.KVStore, key []byte, m Model) error

	// Delete returns ErrNotFound if key is not stored.
	Delete(db barter.KVStore, key []byte) error

	// Register exposes the bucket and its indexes to queries.
	Register(name string, r barter.QueryRouter)

	barter.QueryHandler
}

// ModelSlicePtr is a *[]M or *[]*M for the model type M of a bucket. The
// type is checked at runtime.
type ModelSlicePtr interface{}

// ModelBucketOption configures a ModelBucket.
type ModelBucketOption func(*modelBucket)

// WithIndex adds an index computed by indexer. A unique index rejects a
// second model with the same value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.bucket = mb.bucket.WithIndex(name, indexer, unique)
	}
}

// NewModelBucket creates a bucket for models of the same type as m.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	mb := &modelBucket{
		bucket: NewBucket(name, NewSimpleObj(nil, m)),
		model:  reflect.TypeOf(m),
	}
	if mb.model.Kind() == reflect.Ptr {
		mb.model = mb.model.Elem()
	}
	for _, opt := range opts {
		opt(mb)
	}
	return mb
}

type modelBucket struct {
	bucket Bucket
	model  reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) Register(name string, r barter.QueryRouter) {
	mb.bucket.Register(name, r)
}

func (mb *modelBucket) Query(db barter.ReadOnlyKVStore, mod string, data []byte) ([]barter.Model, error) {
	return mb.bucket.Query(db, mod, data)
}

func (mb *modelBucket) One(db barter.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.bucket.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T %X", dest, key)
	}
	src := reflect.ValueOf(obj.Value())
	dst := reflect.ValueOf(dest)
	if !src.Type().AssignableTo(dst.Type()) {
		return errors.Wrapf(errors.ErrInvalidType, "cannot load %s into %T", src.Type(), dest)
	}
	dst.Elem().Set(src.Elem())
	return nil
}

func (mb *modelBucket) ByIndex(db barter.ReadOnlyKVStore, index string, value []byte, dest ModelSlicePtr) ([][]byte, error) {
	slice, byPtr, err := mb.sliceOf(dest)
	if err != nil {
		return nil, err
	}
	objs, err := mb.bucket.GetIndexed(db, index, value)
	if err != nil {
		return nil, err
	}
	var keys [][]byte
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		v := reflect.ValueOf(obj.Value())
		if !byPtr {
			v = v.Elem()
		}
		slice.Set(reflect.Append(slice, v))
		keys = append(keys, obj.Key())
	}
	return keys, nil
}

// sliceOf returns the slice dest points to and whether it holds pointers.
func (mb *modelBucket) sliceOf(dest ModelSlicePtr) (reflect.Value, bool, error) {
	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Ptr {
		return reflect.Value{}, false, errors.Wrapf(errors.ErrInvalidType, "want *[]%s, got %T", mb.model, dest)
	}
	if ptr.IsNil() {
		return reflect.Value{}, false, errors.Wrap(errors.ErrImmutable, "nil destination")
	}
	if ptr.Elem().Kind() != reflect.Slice {
		return reflect.Value{}, false, errors.Wrapf(errors.ErrInvalidType, "want *[]%s, got %T", mb.model, dest)
	}
	slice := ptr.Elem()
	elem := slice.Type().Elem()
	byPtr := elem.Kind() == reflect.Ptr
	if byPtr {
		elem = elem.Elem()
	}
	if elem != mb.model {
		return reflect.Value{}, false, errors.Wrapf(errors.ErrInvalidType, "bucket of %s cannot load %s", mb.model, elem)
	}
	return slice, byPtr, nil
}

func (mb *modelBucket) Put(db barter.KVStore, key []byte, m Model) error {
	if t := reflect.TypeOf(m); t.Kind() != reflect.Ptr || t.Elem() != mb.model {
		return errors.Wrapf(errors.ErrInvalidType, "bucket of %s cannot store %T", mb.model, m)
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	if err := mb.bucket.Save(db, NewSimpleObj(key, m)); err != nil {
		return errors.Wrap(err, "save")
	}
	return nil
}

func (mb *modelBucket) Delete(db barter.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.bucket.Delete(db, key)
}

func (mb *modelBucket) Has(db barter.ReadOnlyKVStore, key []byte) error {
	// The store API does not accept a nil key.
	if key == nil {
		return errors.Wrap(errors.ErrNotFound, "nil key")
	}
	ok, err := db.Has(mb.bucket.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	return nil
}
