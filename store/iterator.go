package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/tokenswap/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// ascendBtree collects all cached items (including deletion markers)
// within [start, end) in ascending order.
func ascendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var res []keyer
	collect := func(item btree.Item) bool {
		k := item.(keyer)
		if end != nil && bytes.Compare(k.Key(), end) >= 0 {
			return false
		}
		res = append(res, k)
		return true
	}
	if start == nil {
		bt.Ascend(collect)
	} else {
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	}
	return res
}

// descendBtree collects all cached items (including deletion markers)
// within [start, end) in descending order.
func descendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var res []keyer
	collect := func(item btree.Item) bool {
		k := item.(keyer)
		if end != nil && bytes.Equal(k.Key(), end) {
			// end is exclusive
			return true
		}
		if start != nil && bytes.Compare(k.Key(), start) < 0 {
			return false
		}
		res = append(res, k)
		return true
	}
	if end == nil {
		bt.Descend(collect)
	} else {
		bt.DescendLessOrEqual(bkey{end}, collect)
	}
	return res
}

// itemIter merges the items cached in a btree with the parent store
// iterator. Cached values shadow the parent ones and deletion markers
// hide them.
type itemIter struct {
	items   []keyer
	idx     int
	reverse bool

	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent     Iterator
	parentDone bool
	peeked     bool
	pKey, pVal []byte
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []keyer, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// peekParent makes sure the next parent entry (if any) is loaded.
func (i *itemIter) peekParent() error {
	if i.parentDone || i.peeked {
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		i.parentDone = true
		return nil
	case err != nil:
		return err
	}
	i.peeked = true
	i.pKey, i.pVal = key, value
	return nil
}

// Next returns the next entry, ErrIteratorDone when both sources are
// consumed.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if err := i.peekParent(); err != nil {
			return nil, nil, err
		}

		hasOwn := i.idx < len(i.items)
		if !hasOwn && !i.peeked {
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
		}

		if !hasOwn {
			i.peeked = false
			return i.pKey, i.pVal, nil
		}

		own := i.items[i.idx]
		if i.peeked {
			cmp := bytes.Compare(own.Key(), i.pKey)
			if i.reverse {
				cmp = -cmp
			}
			if cmp > 0 {
				i.peeked = false
				return i.pKey, i.pVal, nil
			}
			if cmp == 0 {
				// cached entry shadows the parent one
				i.peeked = false
			}
		}

		i.idx++
		if item, ok := own.(setItem); ok {
			return item.Key(), item.value, nil
		}
		// deleted, keep looking
	}
}

// Release releases the parent iterator. It is safe to call more than once.
func (i *itemIter) Release() {
	if i.parent != nil {
		i.parent.Release()
		i.parent = nil
	}
	i.items = nil
	i.parentDone = true
	i.peeked = false
}
