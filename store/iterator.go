package store

import (
	"bytes"

	"github.com/easlabs/custody/errors"
	"github.com/google/btree"
)

// collectBtree returns a snapshot of all cached items within [start, end)
// in ascending order. A nil bound means unbounded.
func collectBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(i btree.Item) bool {
		items = append(items, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// cacheIter merges the cached items with the iterator of the backing
// store. Cached entries shadow parent entries with the same key and
// deleted items hide them entirely.
type cacheIter struct {
	items   []keyer
	pos     int
	reverse bool

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
	loaded     bool
}

var _ Iterator = (*cacheIter)(nil)

func newCacheIter(items []keyer, parent Iterator, reverse bool) *cacheIter {
	return &cacheIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// peekParent makes sure the next parent pair is buffered.
func (c *cacheIter) peekParent() error {
	if c.loaded || c.parentDone {
		return nil
	}
	k, v, err := c.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		c.parentDone = true
		return nil
	case err != nil:
		return err
	}
	c.parentKey, c.parentVal, c.loaded = k, v, true
	return nil
}

func (c *cacheIter) Next() (key, value []byte, err error) {
	for {
		if err := c.peekParent(); err != nil {
			return nil, nil, err
		}

		var item keyer
		if c.pos < len(c.items) {
			item = c.items[c.pos]
		}

		if item == nil {
			if !c.loaded {
				return nil, nil, errors.ErrIteratorDone
			}
			c.loaded = false
			return c.parentKey, c.parentVal, nil
		}

		if c.loaded {
			cmp := bytes.Compare(item.Key(), c.parentKey)
			if c.reverse {
				cmp = -cmp
			}
			if cmp > 0 {
				c.loaded = false
				return c.parentKey, c.parentVal, nil
			}
			if cmp == 0 {
				// Cached value overwrites the parent.
				c.loaded = false
			}
		}

		c.pos++
		if set, ok := item.(setItem); ok {
			return set.Key(), set.value, nil
		}
	}
}

func (c *cacheIter) Release() {
	c.parent.Release()
	c.items = nil
}
