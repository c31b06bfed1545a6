/*
Package vecmap provides Map, an ordered map for a handful of entries.

A Map keeps its entries in a single slice sorted by key. Lookups are binary
searches; inserting a new key shifts the entries after it, so insertion is
O(n). For small maps this beats hashing and tree maps on both memory and
speed, because everything sits in one contiguous, cache-friendly block and
iteration is just a walk over it. It is not meant for large maps.

Inline capacity

The third type parameter says how many entries the map holds before it
"spills" into a larger backing array:

	m := vecmap.New[string, int, vecmap.Inline4]()
	m.Insert("b", 2)
	m.Insert("a", 1)
	fmt.Println(m, m.Spilled()) // {a: 1, b: 2} false

The inline capacity never changes behavior, only layout.

Encoding

A Map encodes as a plain JSON or YAML object with keys in ascending order.
Decoding accepts entries in any order and tolerates repeated keys, keeping
one entry per key; which one survives is deliberately unspecified. A compact
binary form with an entry count header is also provided, along with Digest,
a content hash that depends only on the entries.

Delegate decodes through caller-chosen strategies for keys and values. With
BorrowStr, decoded strings share the input's memory whenever no unescaping
was needed, and Str reports whether it is borrowed.

Concurrency

A Map has no internal locking. Concurrent lookups are safe; anything that
mutates the map needs exclusive access. Iterators notice insertions of new keys and
panic rather than walk shifted storage.
*/
package vecmap
