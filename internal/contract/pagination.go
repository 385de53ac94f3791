package contract

import (
	"encoding/json"
	"fmt"

	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/ledger"
)

// PaginatedResults is one page of serialized records plus the bookmark to
// pass back for the next page.
type PaginatedResults struct {
	Results  []json.RawMessage `json:"results"`
	Bookmark string            `json:"bookmark"`
}

// QueryAll returns up to pageSize values from the whole key space,
// starting at bookmark. An empty bookmark requests the first page. The
// query is not scoped by entity kind and values are not decoded.
func QueryAll(stub ledger.Stub, pageSize int32, bookmark string) (*PaginatedResults, error) {
	if pageSize <= 0 {
		return nil, apperr.InvalidArgument(fmt.Sprintf("page-size must be a positive integer, got %d", pageSize), nil)
	}

	it, meta, err := stub.GetStateByRangeWithPagination("", "", pageSize, bookmark)
	if err != nil {
		return nil, ledgerFailure("range query failed", err)
	}
	defer func() { _ = it.Close() }()

	page := &PaginatedResults{Results: []json.RawMessage{}}
	if meta != nil {
		page.Bookmark = meta.Bookmark
	}

	for it.HasNext() && int32(len(page.Results)) < pageSize {
		kv, err := it.Next()
		if err != nil {
			return nil, ledgerFailure("range query iteration failed", err)
		}
		page.Results = append(page.Results, rawResult(kv.Value))
	}
	return page, nil
}

// rawResult passes a stored value through verbatim. Values that are not JSON
// (the key space is shared) are returned as a JSON string.
func rawResult(value []byte) json.RawMessage {
	if json.Valid(value) {
		return json.RawMessage(value)
	}
	quoted, _ := json.Marshal(string(value))
	return json.RawMessage(quoted)
}
