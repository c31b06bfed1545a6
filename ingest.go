package vecmap

import "github.com/jrhy/vecmap/smallvec"

// builder collects entries in arrival order, then restores the map's key
// order. Wire input may be unordered and may repeat keys; which of several
// entries sharing a key survives is unspecified, because the sort is not
// stable.
type builder[K, V any, N Inline] struct {
	m Map[K, V, N]
}

func newBuilder[K, V any, N Inline](sizeHint int, order func(a, b K) int) *builder[K, V, N] {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &builder[K, V, N]{Map[K, V, N]{
		entries: smallvec.WithCapacity[Entry[K, V], N](sizeHint),
		order:   order,
	}}
}

func (b *builder[K, V, N]) add(k K, v V) {
	b.m.entries.Push(Entry[K, V]{Key: k, Value: v})
}

func (b *builder[K, V, N]) finish() *Map[K, V, N] {
	order := b.m.order
	b.m.entries.SortFunc(func(x, y Entry[K, V]) int {
		return order(x.Key, y.Key)
	})
	b.m.entries.CompactFunc(func(x, y Entry[K, V]) bool {
		return order(x.Key, y.Key) == 0
	})
	return &b.m
}

// replace swaps in the contents of a freshly built map.
func (m *Map[K, V, N]) replace(built *Map[K, V, N]) {
	m.entries = built.entries
	m.order = built.order
	m.gen++
}

// orderForDecode resolves the key order, reporting unorderable key types as
// an error rather than a panic.
func (m *Map[K, V, N]) orderForDecode() (func(a, b K) int, error) {
	if m.order != nil {
		return m.order, nil
	}
	return DefaultOrder[K]()
}
