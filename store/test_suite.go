package store

import (
	"bytes"
	"encoding/binary"
	"sort"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/tokenswaptest/assert"
)

// TestSuite runs the KVStore contract against any CacheableKVStore
// implementation. Both the btree and the iavl backed stores are checked
// with it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh empty store and a function releasing
// its resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet follows a balance through a base store and stacked caches.
// Writes are visible to the cache that made them, reach the parent only
// after Write and vanish on Discard.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	alice, bob, carol := accountKey(1), accountKey(2), accountKey(3)

	s.AssertGetHas(t, base, alice, nil, false)
	assert.Nil(t, base.Set(alice, balance(100)))
	s.AssertGetHas(t, base, alice, balance(100), true)

	tx := base.CacheWrap()
	s.AssertGetHas(t, tx, alice, balance(100), true)
	assert.Nil(t, tx.Set(bob, balance(40)))
	s.AssertGetHas(t, tx, bob, balance(40), true)
	s.AssertGetHas(t, base, bob, nil, false)

	assert.Nil(t, tx.Write())
	s.AssertGetHas(t, base, alice, balance(100), true)
	s.AssertGetHas(t, base, bob, balance(40), true)

	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(carol, balance(7)))
	assert.Nil(t, failed.Delete(bob))
	failed.Discard()
	s.AssertGetHas(t, base, carol, nil, false)
	s.AssertGetHas(t, base, bob, balance(40), true)

	// a sibling cache created before a write observes the write once it
	// reaches the base
	sibling := base.CacheWrap()
	closing := base.CacheWrap()
	assert.Nil(t, closing.Delete(alice))
	assert.Nil(t, closing.Write())
	s.AssertGetHas(t, sibling, alice, nil, false)
	s.AssertGetHas(t, sibling, bob, balance(40), true)
}

// CacheConflicts checks a child cache that overwrites and deletes values
// held by its parent.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	k := accountKeys(0, 4)

	cases := map[string]struct {
		parentOps []Op
		childOps  []Op
		// Key is queried, Value is expected. A nil value must be absent.
		parentWant []Model
		childWant  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:  []Op{SetOp(k[1], balance(1)), SetOp(k[2], balance(2))},
			childOps:   []Op{SetOp(k[1], balance(11)), SetOp(k[3], balance(3)), DelOp(k[2])},
			parentWant: []Model{Pair(k[1], balance(1)), Pair(k[2], balance(2)), Pair(k[3], nil)},
			childWant:  []Model{Pair(k[1], balance(11)), Pair(k[2], nil), Pair(k[3], balance(3))},
		},
		"delete then recreate": {
			parentOps:  []Op{SetOp(k[0], balance(5))},
			childOps:   []Op{DelOp(k[0]), SetOp(k[0], balance(6))},
			parentWant: []Model{Pair(k[0], balance(5))},
			childWant:  []Model{Pair(k[0], balance(6))},
		},
		"delete missing key": {
			childOps:   []Op{DelOp(k[2])},
			parentWant: []Model{Pair(k[2], nil)},
			childWant:  []Model{Pair(k[2], nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			applyOps(t, parent, tc.parentOps)
			child := parent.CacheWrap()
			applyOps(t, child, tc.childOps)

			for _, q := range tc.parentWant {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childWant {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childWant {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// FuzzIterator iterates over a large account set split between a parent
// store and a cache, with deletes of keys that are not present.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const size = 50

	child := ledger(0, size)
	parent := ledger(size, size)
	missing := ledger(3*size, 20)
	all := sortModels(append(append([]Model{}, child...), parent...))

	cases := map[string]iterCase{
		"cache over an empty parent": {
			child:   append(setOps(child...), delOps(missing...)...),
			queries: rangeQueries(sortModels(child)),
		},
		"cache merged with parent": {
			pre:     append(setOps(parent...), delOps(missing...)...),
			child:   setOps(child...),
			queries: rangeQueries(all),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// IteratorWithConflicts covers iteration when a cache shadows or removes
// entries of its parent.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	a, b := Pair(accountKey(1), balance(10)), Pair(accountKey(2), balance(20))
	c, d := Pair(accountKey(3), balance(30)), Pair(accountKey(4), balance(40))
	a2, b2 := Pair(a.Key, balance(1000)), Pair(b.Key, balance(2000))

	abc := []Model{a, b, c}
	shadowed := []Model{a2, b2, c, d}

	cases := map[string]iterCase{
		"cache only": {
			child:   setOps(a, b, c),
			queries: []rangeQuery{{nil, nil, false, abc}, {b.Key, c.Key, false, abc[1:2]}, {nil, nil, true, reverse(abc)}},
		},
		"parent only": {
			pre:     setOps(a, b, c),
			queries: []rangeQuery{{nil, nil, false, abc}, {b.Key, c.Key, false, abc[1:2]}, {nil, nil, true, reverse(abc)}},
		},
		"split between parent and cache": {
			pre:     setOps(a, b),
			child:   setOps(c),
			queries: []rangeQuery{{nil, nil, false, abc}, {b.Key, c.Key, false, abc[1:2]}, {nil, nil, true, reverse(abc)}},
		},
		"cache values shadow parent values": {
			pre:     setOps(a, b, c),
			child:   setOps(a2, b2, d),
			queries: []rangeQuery{{nil, nil, false, shadowed}, {b.Key, d.Key, false, shadowed[1:3]}, {nil, nil, true, reverse(shadowed)}},
		},
		"cache deletes hide parent values": {
			pre:     setOps(a, c, d),
			child:   delOps(a, b, d),
			queries: []rangeQuery{{nil, nil, false, []Model{c}}, {nil, c.Key, false, nil}},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// AssertGetHas checks that Get and Has agree on the presence of key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// accountKey returns a 32 byte key that sorts by n.
func accountKey(n int) []byte {
	key := make([]byte, 32)
	binary.BigEndian.PutUint64(key[24:], uint64(n))
	key[0] = 'a'
	return key
}

func accountKeys(from, count int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = accountKey(from + i)
	}
	return res
}

func balance(lamports uint64) []byte {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, lamports)
	return raw
}

// ledger returns count accounts with distinct balances, keyed from the
// given offset. Keys are interleaved so ledgers at different offsets mix
// when sorted.
func ledger(offset, count int) []Model {
	res := make([]Model, count)
	for i := range res {
		n := offset + i
		res[i] = Pair(accountKey((n*7919)%10007), balance(uint64(n+1)))
	}
	return res
}

type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

func (i iterCase) verify(t testing.TB, base CacheableKVStore) {
	t.Helper()
	applyOps(t, base, i.pre)
	child := base.CacheWrap()
	applyOps(t, child, i.child)

	for _, q := range i.queries {
		var (
			iter Iterator
			err  error
		)
		if q.reverse {
			iter, err = child.ReverseIterator(q.start, q.end)
		} else {
			iter, err = child.Iterator(q.start, q.end)
		}
		assert.Nil(t, err)

		for n, want := range q.expected {
			key, value, err := iter.Next()
			assert.Nil(t, err)
			if !bytes.Equal(want.Key, key) {
				t.Fatalf("entry %d: want key %X, got %X", n, want.Key, key)
			}
			assert.Equal(t, want.Value, value)
		}
		if _, _, err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
			t.Fatalf("want ErrIteratorDone, got %+v", err)
		}
	}
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

// rangeQueries builds unbounded, lower bound, upper bound and fully bounded
// queries in both directions over sorted models.
func rangeQueries(sorted []Model) []rangeQuery {
	n := len(sorted)
	return []rangeQuery{
		{nil, nil, false, sorted},
		{sorted[10].Key, nil, false, sorted[10:]},
		{nil, sorted[n-8].Key, false, sorted[:n-8]},
		{sorted[17].Key, sorted[28].Key, false, sorted[17:28]},

		{nil, nil, true, reverse(sorted)},
		{sorted[34].Key, nil, true, reverse(sorted[34:])},
		{nil, sorted[19].Key, true, reverse(sorted[:19])},
		{sorted[6].Key, sorted[26].Key, true, reverse(sorted[6:26])},
	}
}

func applyOps(t testing.TB, kv KVStore, ops []Op) {
	t.Helper()
	for _, op := range ops {
		assert.Nil(t, op.Apply(kv))
	}
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	res := append([]Model{}, models...)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func setOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func delOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
