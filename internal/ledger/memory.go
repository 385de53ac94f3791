package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLedger keeps state in process memory. Transactions are serialized by
// a single commit lock, so concurrent invocations never interleave.
type MemoryLedger struct {
	mu     sync.Mutex
	cache  *gocache.Cache
	closed bool
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Submit runs fn against a buffered view and commits its writes on success.
func (l *MemoryLedger) Submit(ctx context.Context, fn func(stub Stub) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	tx := &memoryTx{cache: l.cache, writes: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for key, value := range tx.writes {
		l.cache.Set(key, value, gocache.NoExpiration)
	}
	return nil
}

// Len returns the number of committed keys.
func (l *MemoryLedger) Len() int {
	return l.cache.ItemCount()
}

// Close drops all state.
func (l *MemoryLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.cache.Flush()
	return nil
}

// memoryTx is the Stub handed to a single transaction.
type memoryTx struct {
	cache  *gocache.Cache
	writes map[string][]byte
}

func (tx *memoryTx) GetState(key string) ([]byte, error) {
	if v, ok := tx.writes[key]; ok {
		return cloneBytes(v), nil
	}
	if v, found := tx.cache.Get(key); found {
		return cloneBytes(v.([]byte)), nil
	}
	return nil, nil
}

func (tx *memoryTx) PutState(key string, value []byte) error {
	if key == "" {
		return errors.New("key must not be empty")
	}
	tx.writes[key] = cloneBytes(value)
	return nil
}

func (tx *memoryTx) GetStateByRangeWithPagination(startKey, endKey string, pageSize int32, bookmark string) (StateIterator, *QueryResponseMetadata, error) {
	if pageSize <= 0 {
		return nil, nil, errors.New("page size must be positive")
	}
	from, err := pageStart(startKey, bookmark)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]struct{})
	var keys []string
	for key := range tx.cache.Items() {
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	for key := range tx.writes {
		if _, ok := seen[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var (
		items []KV
		next  string
	)
	for _, key := range keys {
		if key < from || !inRange(key, startKey, endKey) {
			continue
		}
		if int32(len(items)) == pageSize {
			next = key
			break
		}
		value, err := tx.GetState(key)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, KV{Key: key, Value: value})
	}

	meta := &QueryResponseMetadata{
		FetchedRecordsCount: int32(len(items)),
		Bookmark:            EncodeBookmark(next),
	}
	return newSliceIterator(items), meta, nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
