// Package ledger defines the narrow key-value interface the contracts use to
// reach the ledger, plus embedded backends implementing it.
package ledger

import (
	"context"
	"errors"
)

// ErrConflict is returned by Submit when the backend rejects a transaction
// because another transaction wrote the same keys first.
var ErrConflict = errors.New("ledger transaction conflict")

// ErrClosed is returned when a closed ledger is used.
var ErrClosed = errors.New("ledger is closed")

// KV is a single key/value pair returned by a range query.
type KV struct {
	Key   string
	Value []byte
}

// QueryResponseMetadata describes a page returned by a range query.
type QueryResponseMetadata struct {
	FetchedRecordsCount int32
	Bookmark            string
}

// StateIterator walks the results of a range query.
type StateIterator interface {
	HasNext() bool
	Next() (*KV, error)
	Close() error
}

// Stub is the per-transaction view of the ledger.
type Stub interface {
	// GetState returns the value stored under key, or nil when absent.
	GetState(key string) ([]byte, error)

	// PutState stores value under key.
	PutState(key string, value []byte) error

	// GetStateByRangeWithPagination returns up to pageSize entries with keys in
	// [startKey, endKey), starting at bookmark. Empty bounds are unbounded and
	// an empty bookmark starts at the beginning of the range.
	GetStateByRangeWithPagination(startKey, endKey string, pageSize int32, bookmark string) (StateIterator, *QueryResponseMetadata, error)
}

// Ledger runs transactions against a backend.
type Ledger interface {
	// Submit runs fn in a single transaction. Writes become visible only if
	// fn returns nil; otherwise the transaction is discarded.
	Submit(ctx context.Context, fn func(stub Stub) error) error

	Close() error
}

// sliceIterator serves an already materialized page.
type sliceIterator struct {
	items []KV
	pos   int
}

func newSliceIterator(items []KV) *sliceIterator {
	return &sliceIterator{items: items}
}

func (it *sliceIterator) HasNext() bool {
	return it.pos < len(it.items)
}

func (it *sliceIterator) Next() (*KV, error) {
	if !it.HasNext() {
		return nil, errors.New("iterator exhausted")
	}
	kv := it.items[it.pos]
	it.pos++
	return &kv, nil
}

func (it *sliceIterator) Close() error {
	it.pos = len(it.items)
	return nil
}

// NewSliceIterator returns an iterator over items, mainly for test doubles.
func NewSliceIterator(items []KV) StateIterator {
	return newSliceIterator(items)
}

// inRange reports whether key lies in [start, end) with empty bounds open.
func inRange(key, start, end string) bool {
	if start != "" && key < start {
		return false
	}
	if end != "" && key >= end {
		return false
	}
	return true
}
