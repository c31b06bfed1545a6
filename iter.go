package vecmap

const staleIterator = "vecmap: map keys changed during iteration"

// Iter walks a map's entries in ascending key order.
//
//	it := m.Iter()
//	for it.Next() {
//		fmt.Println(it.Key(), it.Value())
//	}
//
// Inserting a new key, decoding into the map or consuming it invalidates
// the iterator; using it afterwards panics. Replacing the value of an
// existing key does not.
type Iter[K, V any, N Inline] struct {
	m   *Map[K, V, N]
	gen uint64
	i   int
}

// Iter returns an iterator positioned before the first entry.
func (m *Map[K, V, N]) Iter() *Iter[K, V, N] {
	return &Iter[K, V, N]{m: m, gen: m.gen}
}

func (it *Iter[K, V, N]) check() {
	if it.gen != it.m.gen {
		panic(staleIterator)
	}
}

// Next advances to the next entry, returning false once there are none.
func (it *Iter[K, V, N]) Next() bool {
	it.check()
	if it.i >= it.m.entries.Len() {
		return false
	}
	it.i++
	return true
}

// Key returns the current entry's key.
func (it *Iter[K, V, N]) Key() K {
	it.check()
	return it.m.entries.At(it.i - 1).Key
}

// Value returns the current entry's value.
func (it *Iter[K, V, N]) Value() V {
	it.check()
	return it.m.entries.At(it.i - 1).Value
}

// Reset rewinds the iterator to before the first entry of the map as it is
// now.
func (it *Iter[K, V, N]) Reset() {
	it.gen = it.m.gen
	it.i = 0
}

// IterMut walks a map's entries in ascending key order with mutable values.
// Keys are only handed out by value, since changing one in place could break
// the map's order.
type IterMut[K, V any, N Inline] struct {
	Iter[K, V, N]
}

// IterMut returns a mutable-value iterator positioned before the first
// entry.
func (m *Map[K, V, N]) IterMut() *IterMut[K, V, N] {
	return &IterMut[K, V, N]{Iter[K, V, N]{m: m, gen: m.gen}}
}

// Value returns a pointer to the current entry's value.
func (it *IterMut[K, V, N]) Value() *V {
	it.check()
	return &it.m.entries.Ptr(it.i - 1).Value
}

// IntoIter yields the entries it took from a map, in ascending key order.
type IntoIter[K, V any] struct {
	entries []Entry[K, V]
	i       int
}

// IntoIter moves every entry out of the map into the returned iterator,
// leaving the map empty.
func (m *Map[K, V, N]) IntoIter() *IntoIter[K, V] {
	entries := m.entries.Take()
	m.gen++
	return &IntoIter[K, V]{entries: entries}
}

// Next advances to the next entry, returning false once there are none.
func (it *IntoIter[K, V]) Next() bool {
	if it.i >= len(it.entries) {
		return false
	}
	it.i++
	return true
}

// Entry returns the current entry.
func (it *IntoIter[K, V]) Entry() Entry[K, V] {
	return it.entries[it.i-1]
}

// Len returns the number of entries not yet yielded.
func (it *IntoIter[K, V]) Len() int {
	return len(it.entries) - it.i
}
