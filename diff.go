package vecmap

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// DiffIter invokes f for every entry that differs between m and old, in key
// order. Added entries have added set, removed entries have removed set, and
// entries whose value changed have both set. Values are compared with eq.
// Iteration stops when f returns keepGoing==false or an error. A nil old is
// treated as empty. Both maps must use the same key order.
func (m *Map[K, V, N]) DiffIter(
	old *Map[K, V, N],
	eq func(a, b V) bool,
	f func(added, removed bool, key K, addedValue, removedValue V) (keepGoing bool, err error),
) error {
	var zero V
	newEntries := m.entries.Slice()
	var oldEntries []Entry[K, V]
	if old != nil {
		oldEntries = old.entries.Slice()
	}
	order := m.keyOrder()
	i, j := 0, 0
	for i < len(newEntries) || j < len(oldEntries) {
		var keepGoing bool
		var err error
		switch {
		case j == len(oldEntries):
			n := newEntries[i]
			keepGoing, err = f(true, false, n.Key, n.Value, zero)
			i++
		case i == len(newEntries):
			o := oldEntries[j]
			keepGoing, err = f(false, true, o.Key, zero, o.Value)
			j++
		default:
			n, o := newEntries[i], oldEntries[j]
			c := order(n.Key, o.Key)
			switch {
			case c < 0:
				keepGoing, err = f(true, false, n.Key, n.Value, zero)
				i++
			case c > 0:
				keepGoing, err = f(false, true, o.Key, zero, o.Value)
				j++
			default:
				keepGoing = true
				if !eq(n.Value, o.Value) {
					keepGoing, err = f(true, true, n.Key, n.Value, o.Value)
				}
				i++
				j++
			}
		}
		if err != nil {
			return fmt.Errorf("callback: %w", err)
		}
		if !keepGoing {
			return nil
		}
	}
	return nil
}

// Diff is DiffIter comparing values with go-cmp's cmp.Equal.
func (m *Map[K, V, N]) Diff(
	old *Map[K, V, N],
	f func(added, removed bool, key K, addedValue, removedValue V) (keepGoing bool, err error),
) error {
	return m.DiffIter(old, func(a, b V) bool { return cmp.Equal(a, b) }, f)
}
