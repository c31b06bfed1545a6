package vecmap

import (
	"encoding/json"
	"strings"
)

// Str is a string that is either an owned copy or a view borrowed from the
// buffer it was decoded from. A borrowed Str keeps that whole buffer alive
// and, when the buffer came from DecodeBytes, must not outlive changes to it.
type Str struct {
	s        string
	borrowed bool
}

// Owned returns a Str holding its own copy of s.
func Owned(s string) Str {
	return Str{s: strings.Clone(s)}
}

// Borrowed returns a Str sharing s's bytes.
func Borrowed(s string) Str {
	return Str{s: s, borrowed: true}
}

func (s Str) String() string { return s.s }

// Borrow returns the string view, for lookups with GetAs.
func (s Str) Borrow() string { return s.s }

// IsBorrowed reports whether s shares its bytes with a decode buffer.
func (s Str) IsBorrowed() bool { return s.borrowed }

// IntoOwned returns s detached from any decode buffer.
func (s Str) IntoOwned() Str {
	if !s.borrowed {
		return s
	}
	return Owned(s.s)
}

// Compare orders Strs by content.
func (s Str) Compare(o Str) int { return strings.Compare(s.s, o.s) }

// Equal compares content only; an owned and a borrowed Str with the same
// bytes are equal.
func (s Str) Equal(o Str) bool { return s.s == o.s }

func (s Str) MarshalJSON() ([]byte, error) { return json.Marshal(s.s) }

func (s Str) MarshalText() ([]byte, error) { return []byte(s.s), nil }

// UnmarshalJSON always produces an owned Str; encoding/json unescapes into
// fresh memory. Use BorrowStr with Delegate to keep borrows.
func (s *Str) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Str{s: v}
	return nil
}

func (s *Str) UnmarshalText(text []byte) error {
	*s = Str{s: string(text)}
	return nil
}
