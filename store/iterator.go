package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendBtree collects all cached items in [start, end) in ascending order.
func ascendBtree(bt *btree.BTree, start, end []byte) []entry {
	var res []entry
	collect := func(item btree.Item) bool {
		res = append(res, item.(entry))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return res
}

// descendBtree collects all cached items in [start, end) in descending order.
func descendBtree(bt *btree.BTree, start, end []byte) []entry {
	var res []entry
	collect := func(item btree.Item) bool {
		e := item.(entry)
		key := e.key
		if end != nil && bytes.Compare(key, end) >= 0 {
			// DescendLessOrEqual includes end, which is exclusive for us
			return true
		}
		if start != nil && bytes.Compare(key, start) < 0 {
			return false
		}
		res = append(res, e)
		return true
	}

	if end == nil {
		bt.Descend(collect)
	} else {
		bt.DescendLessOrEqual(entry{key: end}, collect)
	}
	return res
}

// source marks where the next item comes from
type source int32

const (
	none source = iota
	us
	parent
	both
)

// cacheIterator joins the cached items with those of the parent,
// taking into consideration overwrites and deletes.
type cacheIterator struct {
	parent    Iterator
	items     []entry
	idx       int
	ascending bool

	key   []byte
	value []byte
	valid bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(parent Iterator, items []entry, ascending bool) (*cacheIterator, error) {
	it := &cacheIterator{
		parent:    parent,
		items:     items,
		ascending: ascending,
	}
	if err := it.step(); err != nil {
		return nil, err
	}
	return it, nil
}

// next reports which of the two sources holds the next key.
func (c *cacheIterator) next() source {
	hasParent := c.parent.Valid()
	hasUs := c.idx < len(c.items)
	switch {
	case !hasParent && !hasUs:
		return none
	case !hasUs:
		return parent
	case !hasParent:
		return us
	}

	cmp := bytes.Compare(c.parent.Key(), c.items[c.idx].key)
	if !c.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// step moves the cursor to the next visible item.
func (c *cacheIterator) step() error {
	for {
		switch c.next() {
		case none:
			c.valid = false
			c.key, c.value = nil, nil
			return nil
		case parent:
			c.key, c.value, c.valid = c.parent.Key(), c.parent.Value(), true
			return c.parent.Next()
		case both:
			// cached value shadows the parent one
			if err := c.parent.Next(); err != nil {
				return err
			}
		}

		e := c.items[c.idx]
		c.idx++
		if !e.deleted {
			c.key, c.value, c.valid = e.key, e.value, true
			return nil
		}
	}
}

func (c *cacheIterator) Valid() bool {
	return c.valid
}

func (c *cacheIterator) Next() error {
	if !c.valid {
		panic("Passed end of iterator")
	}
	return c.step()
}

func (c *cacheIterator) Key() []byte {
	if !c.valid {
		panic("Passed end of iterator")
	}
	return c.key
}

func (c *cacheIterator) Value() []byte {
	if !c.valid {
		panic("Passed end of iterator")
	}
	return c.value
}

func (c *cacheIterator) Close() {
	c.parent.Close()
	c.items = nil
}
