package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingID is returned when a decoded record has no identifier, which
// happens when a key holds a record of another kind.
var ErrMissingID = errors.New("record has no identifier")

// Encode serializes a record into its ledger representation.
func Encode(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.Kind(), err)
	}
	return data, nil
}

// Decode deserializes a ledger value into a fresh *T.
func Decode[T any, P interface {
	*T
	Record
}](data []byte) (P, error) {
	var v T
	p := P(&v)
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.Kind(), err)
	}
	if p.Key() == "" {
		return nil, fmt.Errorf("decode %s: %w", p.Kind(), ErrMissingID)
	}
	return p, nil
}
