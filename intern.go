package vecmap

import (
	"encoding/json"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/tidwall/gjson"
)

// Interned decodes JSON strings into owned strings shared through an ARC
// cache, so maps decoded from many similar documents reuse the storage of
// recurring keys or values. One Interned may be shared by any number of
// Delegates and goroutines.
type Interned struct {
	cache *lru.ARCCache
}

// NewInterned returns an Interned remembering up to size distinct strings.
func NewInterned(size int) (*Interned, error) {
	cache, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	return &Interned{cache: cache}, nil
}

func (in *Interned) DecodeJSON(raw gjson.Result) (string, error) {
	if raw.Type != gjson.String {
		return "", fmt.Errorf("expected string, got %s", raw.Type)
	}
	if s, ok := in.cache.Get(raw.Str); ok {
		return s.(string), nil
	}
	s := strings.Clone(raw.Str)
	in.cache.Add(s, s)
	return s, nil
}

func (in *Interned) EncodeJSON(s string) ([]byte, error) {
	return json.Marshal(s)
}

// Len returns the number of strings currently interned.
func (in *Interned) Len() int {
	return in.cache.Len()
}
