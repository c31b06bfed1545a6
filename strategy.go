package vecmap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Strategy decodes and encodes one side, keys or values, of a Delegate map.
// Key strategies see object names as JSON strings and must encode keys to
// JSON strings.
type Strategy[T any] interface {
	DecodeJSON(raw gjson.Result) (T, error)
	EncodeJSON(v T) ([]byte, error)
}

// Same decodes and encodes with encoding/json, as the direct codec does.
type Same[T any] struct{}

func (Same[T]) DecodeJSON(raw gjson.Result) (T, error) {
	var v T
	err := json.Unmarshal([]byte(raw.Raw), &v)
	return v, err
}

func (Same[T]) EncodeJSON(v T) ([]byte, error) {
	return json.Marshal(v)
}

// TextKey decodes object names into keys with encoding/json's map key rules:
// string kinds, integer kinds, and encoding.TextUnmarshaler.
type TextKey[K any] struct{}

func (TextKey[K]) DecodeJSON(raw gjson.Result) (K, error) {
	if raw.Type != gjson.String {
		var zero K
		return zero, fmt.Errorf("expected string, got %s", raw.Type)
	}
	return unmarshalKey[K](raw.Str)
}

func (TextKey[K]) EncodeJSON(k K) ([]byte, error) {
	return marshalKey(k)
}

// BorrowStr decodes JSON strings into Strs that borrow from the input
// whenever the wire form has no escape sequences, and copies otherwise.
type BorrowStr struct{}

func (BorrowStr) DecodeJSON(raw gjson.Result) (Str, error) {
	if raw.Type != gjson.String {
		return Str{}, fmt.Errorf("expected string, got %s", raw.Type)
	}
	if strings.IndexByte(raw.Raw, '\\') < 0 {
		return Borrowed(raw.Str), nil
	}
	// gjson already unescaped into fresh memory
	return Str{s: raw.Str}, nil
}

func (BorrowStr) EncodeJSON(s Str) ([]byte, error) {
	return json.Marshal(s.s)
}

// CopyStr decodes JSON strings into owned Strs.
type CopyStr struct{}

func (CopyStr) DecodeJSON(raw gjson.Result) (Str, error) {
	if raw.Type != gjson.String {
		return Str{}, fmt.Errorf("expected string, got %s", raw.Type)
	}
	return Owned(raw.Str), nil
}

func (CopyStr) EncodeJSON(s Str) ([]byte, error) {
	return json.Marshal(s.s)
}
