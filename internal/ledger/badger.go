package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// BadgerConfig holds configuration for a Badger-backed ledger.
type BadgerConfig struct {
	// Path is the directory for database files. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Useful for tests.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives Badger's internal logs. Nil disables them.
	Logger *zap.Logger
}

// badgerLogger adapts zap to Badger's Logger interface.
type badgerLogger struct {
	log *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.log.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.log.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.log.Infof(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.log.Debugf(format, args...) }

// BadgerLedger persists state in an embedded Badger database. Badger's
// optimistic transactions reject a commit whose reads were invalidated by a
// concurrent commit; Submit reports that as ErrConflict and does not retry.
type BadgerLedger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger-backed ledger.
func OpenBadger(cfg BadgerConfig) (*BadgerLedger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent ledger")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create ledger directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{log: cfg.Logger.Sugar()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger ledger: %w", err)
	}
	return &BadgerLedger{db: db}, nil
}

// Submit runs fn inside a read-write Badger transaction.
func (l *BadgerLedger) Submit(ctx context.Context, fn func(stub Stub) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.db.IsClosed() {
		return ErrClosed
	}

	err := l.db.Update(func(txn *badger.Txn) error {
		if err := fn(&badgerStub{txn: txn}); err != nil {
			return err
		}
		return ctx.Err()
	})
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func (l *BadgerLedger) Close() error {
	return l.db.Close()
}

type badgerStub struct {
	txn *badger.Txn
}

func (s *badgerStub) GetState(key string) ([]byte, error) {
	item, err := s.txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return item.ValueCopy(nil)
}

func (s *badgerStub) PutState(key string, value []byte) error {
	if key == "" {
		return errors.New("key must not be empty")
	}
	if err := s.txn.Set([]byte(key), cloneBytes(value)); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *badgerStub) GetStateByRangeWithPagination(startKey, endKey string, pageSize int32, bookmark string) (StateIterator, *QueryResponseMetadata, error) {
	if pageSize <= 0 {
		return nil, nil, errors.New("page size must be positive")
	}
	from, err := pageStart(startKey, bookmark)
	if err != nil {
		return nil, nil, err
	}

	it := s.txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var (
		items []KV
		next  string
	)
	for it.Seek([]byte(from)); it.Valid(); it.Next() {
		item := it.Item()
		key := string(item.KeyCopy(nil))
		if !inRange(key, startKey, endKey) {
			break
		}
		if int32(len(items)) == pageSize {
			next = key
			break
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", key, err)
		}
		items = append(items, KV{Key: key, Value: value})
	}

	meta := &QueryResponseMetadata{
		FetchedRecordsCount: int32(len(items)),
		Bookmark:            EncodeBookmark(next),
	}
	return newSliceIterator(items), meta, nil
}
