package vecmap

import (
	"encoding/base64"

	"github.com/minio/blake2b-simd"
)

// Digest returns the blake2b-256 hash of the map's binary encoding. Entries
// are always kept in key order, so maps with the same contents have the same
// digest however they were built.
func (m *Map[K, V, N]) Digest() ([32]byte, error) {
	encoded, err := m.MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(encoded), nil
}

// DigestString is Digest rendered as unpadded URL-safe base64.
func (m *Map[K, V, N]) DigestString() (string, error) {
	sum, err := m.Digest()
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}
