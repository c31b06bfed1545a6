package vecmap

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// A Comparer defines its own total order. Compare returns -1 if the receiver
// sorts before the argument, 1 if after, and 0 if they are the same key.
type Comparer[K any] interface {
	Compare(K) int
}

// A Borrower can be viewed as another, ordered type for lookups, like a Str
// key looked up by a plain string. The view must order the same way as the
// key itself.
type Borrower[Q any] interface {
	Borrow() Q
}

func compareOrdered[T constraints.Ordered](a, b T) int {
	aNaN := a != a
	bNaN := b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN || a < b:
		return -1
	case bNaN || a > b:
		return 1
	}
	return 0
}

func byOrdered[K any, T constraints.Ordered]() func(a, b K) int {
	return func(a, b K) int {
		return compareOrdered(any(a).(T), any(b).(T))
	}
}

// DefaultOrder returns the order used for keys of type K when none is
// supplied: the key's own Compare method, or the natural order of string,
// integer, float and []byte kinds.
func DefaultOrder[K any]() (func(a, b K) int, error) {
	var zero K
	kt := reflect.TypeOf((*K)(nil)).Elem()
	// interface keys have a nil zero value, so ask the method set
	if kt.Implements(reflect.TypeOf((*Comparer[K])(nil)).Elem()) {
		return func(a, b K) int {
			return any(a).(Comparer[K]).Compare(b)
		}, nil
	}
	switch any(zero).(type) {
	case string:
		return func(a, b K) int {
			return strings.Compare(any(a).(string), any(b).(string))
		}, nil
	case int:
		return byOrdered[K, int](), nil
	case int64:
		return byOrdered[K, int64](), nil
	case uint:
		return byOrdered[K, uint](), nil
	case uint64:
		return byOrdered[K, uint64](), nil
	case []byte:
		return func(a, b K) int {
			return bytes.Compare(any(a).([]byte), any(b).([]byte))
		}, nil
	}
	switch kt.Kind() {
	case reflect.String:
		return func(a, b K) int {
			return strings.Compare(reflect.ValueOf(a).String(), reflect.ValueOf(b).String())
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(a, b K) int {
			return compareOrdered(reflect.ValueOf(a).Int(), reflect.ValueOf(b).Int())
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(a, b K) int {
			return compareOrdered(reflect.ValueOf(a).Uint(), reflect.ValueOf(b).Uint())
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(a, b K) int {
			return compareOrdered(reflect.ValueOf(a).Float(), reflect.ValueOf(b).Float())
		}, nil
	case reflect.Slice:
		if kt.Elem().Kind() == reflect.Uint8 {
			return func(a, b K) int {
				return bytes.Compare(reflect.ValueOf(a).Bytes(), reflect.ValueOf(b).Bytes())
			}, nil
		}
	}
	return nil, fmt.Errorf("don't know how to order %v; implement Compare(%v) int or supply an order", kt, kt)
}

func mustOrder[K any]() func(a, b K) int {
	order, err := DefaultOrder[K]()
	if err != nil {
		panic(err)
	}
	return order
}

// marshalKey renders a key as a JSON object name, following encoding/json's
// rules for map keys.
func marshalKey(k any) ([]byte, error) {
	rv := reflect.ValueOf(k)
	if rv.Kind() == reflect.String {
		return json.Marshal(rv.String())
	}
	if tm, ok := k.(encoding.TextMarshaler); ok {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return []byte(`""`), nil
		}
		text, err := tm.MarshalText()
		if err != nil {
			return nil, err
		}
		return json.Marshal(string(text))
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return json.Marshal(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return json.Marshal(strconv.FormatUint(rv.Uint(), 10))
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, k)
}

// unmarshalKey is the inverse of marshalKey.
func unmarshalKey[K any](name string) (K, error) {
	var k K
	if tu, ok := any(&k).(encoding.TextUnmarshaler); ok {
		err := tu.UnmarshalText([]byte(name))
		return k, err
	}
	rv := reflect.ValueOf(&k).Elem()
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(name)
		return k, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(name, 10, 64)
		if err != nil || rv.OverflowInt(n) {
			return k, &json.UnmarshalTypeError{Value: "number " + name, Type: rv.Type()}
		}
		rv.SetInt(n)
		return k, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(name, 10, 64)
		if err != nil || rv.OverflowUint(n) {
			return k, &json.UnmarshalTypeError{Value: "number " + name, Type: rv.Type()}
		}
		rv.SetUint(n)
		return k, nil
	}
	return k, fmt.Errorf("%w: %v", ErrUnsupportedKey, rv.Type())
}
