package hx

import "github.com/pthm/pokedex/internal/hx/encoding"

// Encoder is an alias for encoding.Encoder.
type Encoder = encoding.Encoder

// Encodable is implemented by props types.
type Encodable = encoding.Encodable

// Decodable is implemented by pointers to props types.
type Decodable = encoding.Decodable

// NewEncoder creates an encoder with the given key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}
