// Package smallvec provides a contiguous vector with a fixed number of
// inline slots. Growing past the inline slots migrates the elements to a
// larger backing array once; from then on the vector has "spilled" and
// grows like an ordinary slice.
//
// Go has no constant generic parameters, so the inline slot count is carried
// by a type implementing Inline. The inline region is a single allocation of
// exactly that many slots, made on first use.
package smallvec

import "golang.org/x/exp/slices"

// Inline reports how many elements fit in a vector before it spills.
type Inline interface {
	Slots() int
}

type (
	Inline1  struct{}
	Inline2  struct{}
	Inline4  struct{}
	Inline8  struct{}
	Inline16 struct{}
	Inline32 struct{}
)

func (Inline1) Slots() int  { return 1 }
func (Inline2) Slots() int  { return 2 }
func (Inline4) Slots() int  { return 4 }
func (Inline8) Slots() int  { return 8 }
func (Inline16) Slots() int { return 16 }
func (Inline32) Slots() int { return 32 }

func slots[N Inline]() int {
	var n N
	if s := n.Slots(); s > 0 {
		return s
	}
	return 0
}

// Vec is a vector of T with N inline slots. The zero value is an empty
// vector that has not allocated.
type Vec[T any, N Inline] struct {
	items   []T
	spilled bool
}

// WithCapacity returns an empty vector able to hold n elements without
// reallocating. A vector asked for more than its inline slots starts out
// spilled.
func WithCapacity[T any, N Inline](n int) Vec[T, N] {
	if n <= slots[N]() {
		return Vec[T, N]{}
	}
	return Vec[T, N]{items: make([]T, 0, n), spilled: true}
}

// Len returns the number of elements.
func (v *Vec[T, N]) Len() int {
	return len(v.items)
}

// Cap returns the number of elements the vector holds before reallocating.
func (v *Vec[T, N]) Cap() int {
	if v.items == nil && !v.spilled {
		return slots[N]()
	}
	return cap(v.items)
}

// Spilled reports whether the elements have moved off the inline region.
func (v *Vec[T, N]) Spilled() bool {
	return v.spilled
}

// At returns the i'th element.
func (v *Vec[T, N]) At(i int) T {
	return v.items[i]
}

// Ptr returns a pointer to the i'th element. The pointer is invalidated by
// the next operation that changes the vector's length.
func (v *Vec[T, N]) Ptr(i int) *T {
	return &v.items[i]
}

// Slice returns the elements as a slice aliasing the vector's storage.
func (v *Vec[T, N]) Slice() []T {
	return v.items
}

// Push appends x.
func (v *Vec[T, N]) Push(x T) {
	v.reserve(1)
	v.items = append(v.items, x)
}

// Insert places x at index i, shifting later elements right by one.
func (v *Vec[T, N]) Insert(i int, x T) {
	v.reserve(1)
	v.items = slices.Insert(v.items, i, x)
}

// SortFunc sorts the elements in place. The sort is not stable.
func (v *Vec[T, N]) SortFunc(cmp func(a, b T) int) {
	slices.SortFunc(v.items, cmp)
}

// CompactFunc replaces each run of consecutive elements for which eq holds
// by the first element of that run.
func (v *Vec[T, N]) CompactFunc(eq func(a, b T) bool) {
	n := len(v.items)
	v.items = slices.CompactFunc(v.items, eq)
	var zero T
	tail := v.items[len(v.items):n]
	for i := range tail {
		tail[i] = zero
	}
}

// Take moves the elements out of the vector, leaving it empty with no
// storage.
func (v *Vec[T, N]) Take() []T {
	items := v.items
	*v = Vec[T, N]{}
	return items
}

func (v *Vec[T, N]) reserve(additional int) {
	need := len(v.items) + additional
	if need <= cap(v.items) {
		return
	}
	inline := slots[N]()
	if !v.spilled && need <= inline {
		v.items = make([]T, 0, inline)
		return
	}
	newCap := 2 * cap(v.items)
	if newCap < need {
		newCap = need
	}
	grown := make([]T, len(v.items), newCap)
	copy(grown, v.items)
	v.items = grown
	v.spilled = true
}
