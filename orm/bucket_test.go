package orm

import (
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest/assert"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
)

func TestBucketNames(t *testing.T) {
	assert.Panics(t, func() { NewBucket("x", NewSimpleObj(nil, new(Counter))) })
	assert.Panics(t, func() { NewBucket("Upper", NewSimpleObj(nil, new(Counter))) })
	b := NewBucket("cnts", NewSimpleObj(nil, new(Counter)))
	assert.Equal(t, "cnts", b.Name())
	assert.Equal(t, []byte("cnts:abc"), b.DBKey([]byte("abc")))

	// consecutive calls must not share memory
	k1 := b.DBKey([]byte("ABC"))
	k2 := b.DBKey([]byte("LED"))
	assert.Equal(t, []byte("cnts:ABC"), k1)
	assert.Equal(t, []byte("cnts:LED"), k2)
}

func TestBucketStore(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, new(Counter)))
	db := store.MemStore()

	obj, err := b.Get(db, []byte("missing"))
	assert.Nil(t, err)
	assert.Nil(t, obj)

	err = b.Save(db, NewSimpleObj([]byte("neg"), NewCounter(-1)))
	assert.IsErr(t, errors.ErrAmount, err)
	err = b.Save(db, NewSimpleObj(nil, NewCounter(1)))
	assert.FieldError(t, err, "Key", errors.ErrEmpty)

	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("one"), NewCounter(1))))
	obj, err = b.Get(db, []byte("one"))
	assert.Nil(t, err)
	assert.Equal(t, int64(1), obj.Value().(*Counter).Count)
	assert.Equal(t, []byte("one"), obj.Key())

	assert.Nil(t, b.Delete(db, []byte("one")))
	obj, err = b.Get(db, []byte("one"))
	assert.Nil(t, err)
	assert.Nil(t, obj)
}

func TestBucketIndexed(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, new(Counter))).
		WithIndex("value", count, true)
	assert.Panics(t, func() { b.WithIndex("value", count, false) })

	db := store.MemStore()
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), NewCounter(3))))
	err := b.Save(db, NewSimpleObj([]byte("b"), NewCounter(3)))
	assert.IsErr(t, errors.ErrDuplicate, err)

	objs, err := b.GetIndexed(db, "value", encodeCount(3))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(objs))
	assert.Equal(t, []byte("a"), objs[0].Key())

	// updating the value moves the index entry
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), NewCounter(4))))
	objs, err = b.GetIndexed(db, "value", encodeCount(3))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(objs))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("b"), NewCounter(3))))

	_, err = b.GetIndexed(db, "unknown", nil)
	assert.IsErr(t, ErrInvalidIndex, err)

	// deleting a missing entry leaves indexes untouched
	assert.Nil(t, b.Delete(db, []byte("missing")))
}

func TestBucketQuery(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, new(Counter))).
		WithIndex("value", count, false)
	db := store.MemStore()
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("aa"), NewCounter(1))))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("ab"), NewCounter(2))))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("ba"), NewCounter(2))))

	qr := barter.NewQueryRouter()
	b.Register("counters", qr)

	h := qr.Handler("/counters")
	if h == nil {
		t.Fatal("bucket not registered")
	}
	res, err := h.Query(db, barter.KeyQueryMod, []byte("ab"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("cnts:ab"), res[0].Key)

	res, err = h.Query(db, barter.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = h.Query(db, barter.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	_, err = h.Query(db, "unknown", nil)
	assert.IsErr(t, errors.ErrInvalidInput, err)

	ih := qr.Handler("/counters/value")
	if ih == nil {
		t.Fatal("index not registered")
	}
	res, err = ih.Query(db, barter.KeyQueryMod, encodeCount(2))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	var c Counter
	assert.Nil(t, c.Unmarshal(res[0].Value))
	assert.Equal(t, int64(2), c.Count)
}
