package contract

import (
	"testing"

	"github.com/google/uuid"
	"github.com/informiz/chaincode/internal/ledger"
	"github.com/informiz/chaincode/internal/model"
)

// fakeStub is a map-backed stub that counts writes. Range queries return
// every stored value in insertion order with a fixed bookmark.
type fakeStub struct {
	state    map[string][]byte
	order    []string
	writes   int
	bookmark string
	rangeErr error
}

func newFakeStub() *fakeStub {
	return &fakeStub{state: make(map[string][]byte)}
}

func (s *fakeStub) GetState(key string) ([]byte, error) {
	return s.state[key], nil
}

func (s *fakeStub) PutState(key string, value []byte) error {
	s.writes++
	if _, ok := s.state[key]; !ok {
		s.order = append(s.order, key)
	}
	s.state[key] = value
	return nil
}

func (s *fakeStub) GetStateByRangeWithPagination(_, _ string, _ int32, _ string) (ledger.StateIterator, *ledger.QueryResponseMetadata, error) {
	if s.rangeErr != nil {
		return nil, nil, s.rangeErr
	}
	items := make([]ledger.KV, 0, len(s.order))
	for _, key := range s.order {
		items = append(items, ledger.KV{Key: key, Value: s.state[key]})
	}
	meta := &ledger.QueryResponseMetadata{FetchedRecordsCount: int32(len(items)), Bookmark: s.bookmark}
	return ledger.NewSliceIterator(items), meta, nil
}

func seqIDs(t *testing.T) *model.IDGenerator {
	t.Helper()
	n := byte(0)
	return &model.IDGenerator{
		Source: func() (uuid.UUID, error) {
			n++
			var u uuid.UUID
			u[15] = n
			return u, nil
		},
	}
}
