package orm

import (
	"bytes"
	"regexp"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Index is a secondary index of a bucket.
type Index interface {
	barter.QueryHandler

	Name() string

	// Update moves the index entries of an object from its previous
	// state to the next one. A nil prev is an insert and a nil next is a
	// delete. The primary key cannot change between the two.
	Update(db barter.KVStore, prev, next Object) error

	// Keys returns the primary keys indexed under value, in ascending
	// order.
	Keys(db barter.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

// Indexer returns the index value of an object. A nil value leaves the
// object out of the index.
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer returns any number of index values for an object.
type MultiKeyIndexer func(Object) ([][]byte, error)

var isIndexName = regexp.MustCompile(`^[a-z_]{3,21}$`).MatchString

// compactIndex keeps one record per index value. A unique index stores
// the primary key as is, otherwise a MultiRef of all primary keys sharing
// the value is stored.
type compactIndex struct {
	name    string
	prefix  []byte
	unique  bool
	indexer MultiKeyIndexer
	refKey  func([]byte) []byte
}

var _ Index = compactIndex{}

// NewIndex creates an index computing one value per object. refKey turns
// a primary key into the full store key of the object, it is used to load
// objects when the index is queried.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return NewMultiKeyIndex(name, asMultiKeyIndexer(indexer), unique, refKey)
}

// NewMultiKeyIndex is like NewIndex for indexers returning many values.
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Index {
	if !isIndexName(name) {
		panic("invalid index name: " + name)
	}
	if refKey == nil {
		refKey = func(k []byte) []byte { return k }
	}
	return compactIndex{
		name:    name,
		prefix:  []byte("_i." + name + ":"),
		unique:  unique,
		indexer: indexer,
		refKey:  refKey,
	}
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		v, err := indexer(obj)
		if err != nil || v == nil {
			return nil, err
		}
		return [][]byte{v}, nil
	}
}

func (i compactIndex) Name() string {
	return i.name
}

func (i compactIndex) dbKey(value []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(value))
	out = append(out, i.prefix...)
	return append(out, value...)
}

func (i compactIndex) values(obj Object) ([][]byte, error) {
	if obj == nil {
		return nil, nil
	}
	return i.indexer(obj)
}

func (i compactIndex) Update(db barter.KVStore, prev, next Object) error {
	var pk []byte
	switch {
	case prev == nil && next == nil:
		return errors.Wrap(errors.ErrHuman, "index update without an object")
	case prev == nil:
		pk = next.Key()
	case next == nil:
		pk = prev.Key()
	case !bytes.Equal(prev.Key(), next.Key()):
		return errors.Wrap(errors.ErrImmutable, "primary key cannot change")
	default:
		pk = prev.Key()
	}

	before, err := i.values(prev)
	if err != nil {
		return err
	}
	after, err := i.values(next)
	if err != nil {
		return err
	}
	added, removed := subtract(after, before), subtract(before, after)

	// Fail before any write when a unique value is taken.
	if i.unique {
		for _, v := range added {
			switch has, err := db.Has(i.dbKey(v)); {
			case err != nil:
				return errors.Wrap(errors.ErrDatabase, err.Error())
			case has:
				return errors.Wrap(errors.ErrDuplicate, i.name)
			}
		}
	}
	for _, v := range removed {
		if err := i.remove(db, v, pk); err != nil {
			return err
		}
	}
	for _, v := range added {
		if err := i.insert(db, v, pk); err != nil {
			return err
		}
	}
	return nil
}

// subtract returns the elements of a missing from b.
func subtract(a, b [][]byte) [][]byte {
	var out [][]byte
	for _, x := range a {
		found := false
		for _, y := range b {
			if bytes.Equal(x, y) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, x)
		}
	}
	return out
}

func (i compactIndex) insert(db barter.KVStore, value, pk []byte) error {
	if len(value) == 0 {
		return nil
	}
	key := i.dbKey(value)
	if i.unique {
		switch has, err := db.Has(key); {
		case err != nil:
			return errors.Wrap(errors.ErrDatabase, err.Error())
		case has:
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}
	refs, err := loadMultiRef(db, key)
	if err != nil {
		return err
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	return storeMultiRef(db, key, refs)
}

func (i compactIndex) remove(db barter.KVStore, value, pk []byte) error {
	if len(value) == 0 {
		return nil
	}
	key := i.dbKey(value)
	cur, err := db.Get(key)
	switch {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case cur == nil:
		return errors.Wrapf(errors.ErrNotFound, "no %s index entry for %X", i.name, value)
	}
	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrNotFound, "%s index entry for %X belongs to another object", i.name, value)
		}
		return db.Delete(key)
	}
	var refs MultiRef
	if err := refs.Unmarshal(cur); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if refs.Size() == 0 {
		return db.Delete(key)
	}
	return storeMultiRef(db, key, &refs)
}

func loadMultiRef(db barter.ReadOnlyKVStore, key []byte) (*MultiRef, error) {
	var refs MultiRef
	raw, err := db.Get(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw != nil {
		if err := refs.Unmarshal(raw); err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
	}
	return &refs, nil
}

func storeMultiRef(db barter.KVStore, key []byte, refs *MultiRef) error {
	raw, err := refs.Marshal()
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(key, raw)
}

func (i compactIndex) Keys(db barter.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.dbKey(value))
	switch {
	case err != nil:
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	case raw == nil:
		return nil, nil
	case i.unique:
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return refs.GetRefs(), nil
}

// prefixKeys returns the primary keys of all index values starting with
// prefix.
func (i compactIndex) prefixKeys(db barter.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	entries, err := queryPrefix(db, i.dbKey(prefix))
	if err != nil {
		return nil, err
	}
	var pks [][]byte
	for _, e := range entries {
		if i.unique {
			pks = append(pks, e.Value)
			continue
		}
		var refs MultiRef
		if err := refs.Unmarshal(e.Value); err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		pks = append(pks, refs.Refs...)
	}
	return pks, nil
}

// Query returns the objects indexed under data, or under any value
// starting with data for the prefix modifier.
func (i compactIndex) Query(db barter.ReadOnlyKVStore, mod string, data []byte) ([]barter.Model, error) {
	var (
		pks [][]byte
		err error
	)
	switch mod {
	case barter.KeyQueryMod:
		pks, err = i.Keys(db, data)
	case barter.PrefixQueryMod:
		pks, err = i.prefixKeys(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown query mode %q", mod)
	}
	if err != nil || len(pks) == 0 {
		return nil, err
	}
	res := make([]barter.Model, len(pks))
	for n, pk := range pks {
		key := i.refKey(pk)
		value, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		res[n] = barter.Pair(key, value)
	}
	return res, nil
}
