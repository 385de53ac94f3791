package ledger

import (
	"encoding/base64"
	"fmt"
)

// EncodeBookmark wraps the next key to read into an opaque token.
func EncodeBookmark(nextKey string) string {
	if nextKey == "" {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(nextKey))
}

// DecodeBookmark recovers the next key from a token produced by EncodeBookmark.
func DecodeBookmark(bookmark string) (string, error) {
	if bookmark == "" {
		return "", nil
	}
	key, err := base64.RawURLEncoding.DecodeString(bookmark)
	if err != nil {
		return "", fmt.Errorf("invalid bookmark: %w", err)
	}
	return string(key), nil
}

// pageStart returns the first key a paginated query should read.
func pageStart(startKey, bookmark string) (string, error) {
	next, err := DecodeBookmark(bookmark)
	if err != nil {
		return "", err
	}
	if next > startKey {
		return next, nil
	}
	return startKey, nil
}
