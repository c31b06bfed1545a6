package vecmap

import (
	"fmt"
	"strings"

	"github.com/jrhy/vecmap/smallvec"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Inline carries a map's inline capacity at the type level.
type Inline = smallvec.Inline

type (
	Inline1  = smallvec.Inline1
	Inline2  = smallvec.Inline2
	Inline4  = smallvec.Inline4
	Inline8  = smallvec.Inline8
	Inline16 = smallvec.Inline16
	Inline32 = smallvec.Inline32
)

// Entry is a key and value in a map.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Map holds entries sorted by key, with no duplicate keys, in a vector whose
// first N entries are inline. The zero value is an empty map.
//
// A Map is not safe for concurrent use; callers that share one between
// goroutines must serialize access themselves.
type Map[K, V any, N Inline] struct {
	entries smallvec.Vec[Entry[K, V], N]
	order   func(a, b K) int
	// gen counts changes to the set of keys, so iterators can tell when the
	// storage they walk has shifted under them.
	gen uint64
}

// New returns an empty map ordered by DefaultOrder.
func New[K, V any, N Inline]() *Map[K, V, N] {
	order, _ := DefaultOrder[K]()
	return &Map[K, V, N]{order: order}
}

// NewFunc returns an empty map ordered by the given comparison.
func NewFunc[K, V any, N Inline](order func(a, b K) int) *Map[K, V, N] {
	return &Map[K, V, N]{order: order}
}

// WithCapacity returns an empty map that holds at least n entries before
// reallocating.
func WithCapacity[K, V any, N Inline](n int) *Map[K, V, N] {
	order, _ := DefaultOrder[K]()
	return &Map[K, V, N]{
		entries: smallvec.WithCapacity[Entry[K, V], N](n),
		order:   order,
	}
}

// WithCapacityFunc is WithCapacity with the given key order.
func WithCapacityFunc[K, V any, N Inline](n int, order func(a, b K) int) *Map[K, V, N] {
	m := WithCapacity[K, V, N](n)
	m.order = order
	return m
}

// keyOrder never writes to m, so readers may share a map.
func (m *Map[K, V, N]) keyOrder() func(a, b K) int {
	if m.order == nil {
		return mustOrder[K]()
	}
	return m.order
}

func (m *Map[K, V, N]) search(k K) (int, bool) {
	order := m.keyOrder()
	return slices.BinarySearchFunc(m.entries.Slice(), k, func(e Entry[K, V], k K) int {
		return order(e.Key, k)
	})
}

// Insert sets the value for k. If k was already present its previous value
// is returned with replaced set, and the map's length is unchanged.
// Otherwise later entries shift right to make room.
func (m *Map[K, V, N]) Insert(k K, v V) (old V, replaced bool) {
	if m.order == nil {
		m.order = mustOrder[K]()
	}
	i, found := m.search(k)
	if found {
		e := m.entries.Ptr(i)
		old, e.Value = e.Value, v
		return old, true
	}
	m.entries.Insert(i, Entry[K, V]{Key: k, Value: v})
	m.gen++
	return old, false
}

// Get returns the value stored for k.
func (m *Map[K, V, N]) Get(k K) (V, bool) {
	i, found := m.search(k)
	if !found {
		var zero V
		return zero, false
	}
	return m.entries.At(i).Value, true
}

// GetMut returns a pointer to the value stored for k. The pointer is only
// valid until the next insertion of a new key.
func (m *Map[K, V, N]) GetMut(k K) (*V, bool) {
	i, found := m.search(k)
	if !found {
		return nil, false
	}
	return &m.entries.Ptr(i).Value, true
}

// Contains reports whether k is present.
func (m *Map[K, V, N]) Contains(k K) bool {
	_, found := m.search(k)
	return found
}

// MustGet is Get for keys whose absence is a bug; it panics if k is missing.
func (m *Map[K, V, N]) MustGet(k K) V {
	v, ok := m.Get(k)
	if !ok {
		panic(fmt.Sprintf("vecmap: key %v not present in map", k))
	}
	return v
}

// MustGetMut is GetMut for keys whose absence is a bug; it panics if k is
// missing.
func (m *Map[K, V, N]) MustGetMut(k K) *V {
	v, ok := m.GetMut(k)
	if !ok {
		panic(fmt.Sprintf("vecmap: key %v not present in map", k))
	}
	return v
}

// Len returns the number of entries.
func (m *Map[K, V, N]) Len() int {
	return m.entries.Len()
}

// Spilled reports whether the entries have outgrown the inline region.
func (m *Map[K, V, N]) Spilled() bool {
	return m.entries.Spilled()
}

// Range calls f for every entry in key order, stopping early if f returns
// false.
func (m *Map[K, V, N]) Range(f func(K, V) bool) {
	for _, e := range m.entries.Slice() {
		if !f(e.Key, e.Value) {
			return
		}
	}
}

// String renders the entries as {k1: v1, k2: v2}. The format is for
// debugging and may change.
func (m *Map[K, V, N]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range m.entries.Slice() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", e.Key, e.Value)
	}
	b.WriteByte('}')
	return b.String()
}

func (m *Map[K, V, N]) searchAs(target func(K) int) (int, bool) {
	return slices.BinarySearchFunc(m.entries.Slice(), 0, func(e Entry[K, V], _ int) int {
		return target(e.Key)
	})
}

func borrowTarget[K Borrower[Q], Q constraints.Ordered](q Q) func(K) int {
	return func(k K) int {
		return compareOrdered(k.Borrow(), q)
	}
}

// GetAs looks up a value by a borrowed view of the key, such as a string for
// a map keyed by Str.
func GetAs[K Borrower[Q], V any, N Inline, Q constraints.Ordered](m *Map[K, V, N], q Q) (V, bool) {
	i, found := m.searchAs(borrowTarget[K](q))
	if !found {
		var zero V
		return zero, false
	}
	return m.entries.At(i).Value, true
}

// GetMutAs is GetMut by a borrowed view of the key.
func GetMutAs[K Borrower[Q], V any, N Inline, Q constraints.Ordered](m *Map[K, V, N], q Q) (*V, bool) {
	i, found := m.searchAs(borrowTarget[K](q))
	if !found {
		return nil, false
	}
	return &m.entries.Ptr(i).Value, true
}

// ContainsAs is Contains by a borrowed view of the key.
func ContainsAs[K Borrower[Q], V any, N Inline, Q constraints.Ordered](m *Map[K, V, N], q Q) bool {
	_, found := m.searchAs(borrowTarget[K](q))
	return found
}

// MustGetAs is GetAs for keys whose absence is a bug; it panics if q is
// missing.
func MustGetAs[K Borrower[Q], V any, N Inline, Q constraints.Ordered](m *Map[K, V, N], q Q) V {
	v, ok := GetAs[K, V, N](m, q)
	if !ok {
		panic(fmt.Sprintf("vecmap: key %v not present in map", q))
	}
	return v
}

// MustGetMutAs is GetMutAs for keys whose absence is a bug; it panics if q
// is missing.
func MustGetMutAs[K Borrower[Q], V any, N Inline, Q constraints.Ordered](m *Map[K, V, N], q Q) *V {
	v, ok := GetMutAs[K, V, N](m, q)
	if !ok {
		panic(fmt.Sprintf("vecmap: key %v not present in map", q))
	}
	return v
}
