package contract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/model"
)

// Page sizes accepted as text are clamped to this range.
const (
	MinPageSize int32 = 10
	MaxPageSize int32 = 100
)

// PageSizeFromString parses a page size supplied as text. Negative values
// become MinPageSize and values above MaxPageSize become MaxPageSize.
func PageSizeFromString(pageSize string) (int32, error) {
	size, err := strconv.ParseInt(strings.TrimSpace(pageSize), 10, 32)
	if err != nil {
		return 0, apperr.InvalidArgument("page-size must be a positive integer", err)
	}
	switch {
	case size < 0:
		return MinPageSize, nil
	case size > int64(MaxPageSize):
		return MaxPageSize, nil
	}
	return int32(size), nil
}

// ReliabilityFromString parses a single reliability value.
func ReliabilityFromString(reliability string) (float32, error) {
	r, err := parseFinite(reliability)
	if err != nil {
		return 0, apperr.InvalidArgument("reliability must be a number in the range [0.0-1.0]", err)
	}
	return r, nil
}

// ScoreFromStrings parses a reliability/confidence pair.
func ScoreFromStrings(reliability, confidence string) (model.Score, error) {
	r, err := parseFinite(reliability)
	if err != nil {
		return model.Score{}, apperr.InvalidArgument("reliability and confidence must be numbers in the range [0.0-1.0]", err)
	}
	c, err := parseFinite(confidence)
	if err != nil {
		return model.Score{}, apperr.InvalidArgument("reliability and confidence must be numbers in the range [0.0-1.0]", err)
	}
	return model.NewScore(r, c), nil
}

// parseFinite parses a float32, rejecting NaN and infinities, which the
// record encoding cannot represent.
func parseFinite(s string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return float32(f), nil
}

// LocaleFromString parses a locale such as "en_US" or "en-US".
func LocaleFromString(locale string) (model.Locale, error) {
	l, err := model.ParseLocale(locale)
	if err != nil {
		return model.Locale{}, apperr.InvalidArgument("invalid locale", err)
	}
	return l, nil
}
