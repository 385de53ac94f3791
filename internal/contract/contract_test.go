package contract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactChecker_ChuckFact(t *testing.T) {
	stub := newFakeStub()
	c := NewFactCheckerContract(seqIDs(t), nil)

	fc, err := c.Create(stub, "Chuck Fact", "chuck@example.org", "https://example.org/chuck", 0.98, 0.99)
	require.NoError(t, err)
	assert.NotEmpty(t, fc.ID())
	assert.Equal(t, model.NewScore(0.98, 0.99), fc.Score())
	assert.True(t, fc.Active())

	got, err := c.Query(stub, fc.ID())
	require.NoError(t, err)
	assert.True(t, fc.Equal(got))
	assert.Equal(t, fc.Name(), got.Name())
	assert.Equal(t, fc.Score(), got.Score())

	updated, err := c.UpdateScore(stub, fc.ID(), 0.95, 0.97)
	require.NoError(t, err)
	assert.Equal(t, model.Score{Reliability: 0.95, Confidence: 0.97}, updated.Score())
	assert.Equal(t, "Chuck Fact", updated.Name())

	deactivated, err := c.Deactivate(stub, fc.ID())
	require.NoError(t, err)
	assert.False(t, deactivated.Active())

	stored, err := c.Query(stub, fc.ID())
	require.NoError(t, err)
	assert.False(t, stored.Active())
}

func TestFactChecker_UpdateFields(t *testing.T) {
	stub := newFakeStub()
	c := NewFactCheckerContract(seqIDs(t), nil)
	fc, err := c.Create(stub, "Chuck Fact", "", "", 0.5, 0)
	require.NoError(t, err)

	_, err = c.UpdateName(stub, fc.ID(), "Charles Fact")
	require.NoError(t, err)
	_, err = c.UpdateEmail(stub, fc.ID(), "charles@example.org")
	require.NoError(t, err)
	got, err := c.UpdateLink(stub, fc.ID(), "https://example.org/charles")
	require.NoError(t, err)

	assert.Equal(t, "Charles Fact", got.Name())
	assert.Equal(t, "charles@example.org", got.Email())
	assert.Equal(t, "https://example.org/charles", got.Link())
}

func TestFactChecker_UpdateInfo(t *testing.T) {
	stub := newFakeStub()
	ids := seqIDs(t)
	c := NewFactCheckerContract(ids, nil)
	fc, err := c.Create(stub, "Chuck Fact", "", "", 0.5, 0)
	require.NoError(t, err)

	info, err := model.NewFactChecker(ids, "Chuck", "c@example.org", "https://c.example.org", model.NewScore(0.7, 0.6))
	require.NoError(t, err)

	got, err := c.UpdateInfo(stub, fc.ID(), info)
	require.NoError(t, err)
	assert.Equal(t, fc.ID(), got.ID(), "identifier is never replaced")
	assert.Equal(t, "Chuck", got.Name())
	assert.Equal(t, model.NewScore(0.7, 0.6), got.Score())
}

func TestFactChecker_ReactivationRejected(t *testing.T) {
	stub := newFakeStub()
	ids := seqIDs(t)
	c := NewFactCheckerContract(ids, nil)
	fc, err := c.Create(stub, "Chuck Fact", "", "", 0.5, 0)
	require.NoError(t, err)
	_, err = c.Deactivate(stub, fc.ID())
	require.NoError(t, err)
	writes := stub.writes

	info, err := model.NewFactChecker(ids, "Chuck", "", "", model.DefaultScore())
	require.NoError(t, err)

	_, err = c.UpdateInfo(stub, fc.ID(), info)
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidArgument(err))
	assert.Equal(t, apperr.CodeFactCheckerReactivation, apperr.CodeOf(err))
	assert.Equal(t, writes, stub.writes)
}

func TestUpdateMissingKey_NotFoundWithoutWrites(t *testing.T) {
	stub := newFakeStub()
	ids := seqIDs(t)
	fcs := NewFactCheckerContract(ids, nil)
	srcs := NewSourceContract(ids, nil)
	texts := NewReferenceTextContract(ids, nil)
	hyps := NewHypothesisContract(ids, nil)

	tests := []struct {
		name string
		code apperr.Code
		run  func() error
	}{
		{"fact-checker", apperr.CodeFactCheckerNotFound, func() error {
			_, err := fcs.UpdateScore(stub, "missing", 0.1, 0.1)
			return err
		}},
		{"source", apperr.CodeSourceNotFound, func() error {
			_, err := srcs.AddReview(stub, "missing", "fc1", 0.5)
			return err
		}},
		{"reference-text", apperr.CodeReferenceTextNotFound, func() error {
			_, err := texts.UpdateLink(stub, "missing", "https://example.org")
			return err
		}},
		{"hypothesis", apperr.CodeHypothesisNotFound, func() error {
			_, err := hyps.AddReference(stub, "missing", "tid")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, apperr.IsNotFound(err))
			assert.Equal(t, tt.code, apperr.CodeOf(err))
			assert.Contains(t, err.Error(), "missing does not exist")
			assert.Zero(t, stub.writes)
		})
	}
}

func TestBlankStateIsNotFound(t *testing.T) {
	stub := newFakeStub()
	stub.state["SOURCE-x"] = []byte("  ")
	_, err := NewSourceContract(nil, nil).Query(stub, "SOURCE-x")
	assert.True(t, apperr.IsNotFound(err))
}

func TestCorruptState(t *testing.T) {
	stub := newFakeStub()
	stub.state["SOURCE-x"] = []byte("{not json")

	_, err := NewSourceContract(nil, nil).UpdateName(stub, "SOURCE-x", "n")
	require.Error(t, err)
	assert.True(t, apperr.IsCorruptState(err))
	assert.Contains(t, err.Error(), "failed to deserialize Source info")
	assert.Zero(t, stub.writes)
}

func TestSource_Reviews(t *testing.T) {
	stub := newFakeStub()
	c := NewSourceContract(seqIDs(t), nil)
	src, err := c.Create(stub, "The Daily Planet", 0.5, 0.2)
	require.NoError(t, err)

	got, err := c.AddReview(stub, src.ID(), "fc1", 0.96)
	require.NoError(t, err)
	reviews := got.Reviews()
	require.Len(t, reviews, 1)
	assert.Equal(t, float32(0.96), reviews["fc1"])
	assert.Equal(t, model.NewScore(0.5, 0.2), got.Score(), "reviews do not touch the score")

	once, err := c.RemoveReview(stub, src.ID(), "fc1")
	require.NoError(t, err)
	assert.Empty(t, once.Reviews())

	twice, err := c.RemoveReview(stub, src.ID(), "fc1")
	require.NoError(t, err)
	assert.Equal(t, once.Reviews(), twice.Reviews())
	assert.Equal(t, stub.state[src.ID()], mustEncode(t, twice))
}

func TestSource_UpdateNameAndScore(t *testing.T) {
	stub := newFakeStub()
	c := NewSourceContract(seqIDs(t), nil)
	src, err := c.Create(stub, "Planet", 0.5, 0)
	require.NoError(t, err)

	_, err = c.UpdateName(stub, src.ID(), "Daily Planet")
	require.NoError(t, err)
	got, err := c.UpdateScore(stub, src.ID(), 0.1, 0.9)
	require.NoError(t, err)
	assert.Equal(t, "Daily Planet", got.Name())
	assert.Equal(t, model.NewScore(0.1, 0.9), got.Score())
}

func TestReferenceText_Updates(t *testing.T) {
	stub := newFakeStub()
	c := NewReferenceTextContract(seqIDs(t), nil)
	txt, err := c.Create(stub, "The sky is blue", "SOURCE-1", "https://example.org/sky", model.MustParseLocale("en_US"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultScore(), txt.Score())

	_, err = c.UpdateSource(stub, txt.ID(), "SOURCE-2")
	require.NoError(t, err)
	_, err = c.UpdateLocale(stub, txt.ID(), model.MustParseLocale("fr-FR"))
	require.NoError(t, err)
	_, err = c.UpdateScore(stub, txt.ID(), 0.8, 0.4)
	require.NoError(t, err)
	_, err = c.AddReview(stub, txt.ID(), "fc1", 0.3)
	require.NoError(t, err)
	got, err := c.AddReview(stub, txt.ID(), "fc1", 0.6)
	require.NoError(t, err)

	assert.Equal(t, "The sky is blue", got.Text())
	assert.Equal(t, "SOURCE-2", got.SourceID())
	assert.Equal(t, "fr-FR", got.Locale().String())
	assert.Equal(t, model.NewScore(0.8, 0.4), got.Score())
	assert.Equal(t, model.Reviews{"fc1": 0.6}, got.Reviews())

	got, err = c.RemoveReview(stub, txt.ID(), "fc1")
	require.NoError(t, err)
	assert.Empty(t, got.Reviews())
}

func TestHypothesis_References(t *testing.T) {
	stub := newFakeStub()
	c := NewHypothesisContract(seqIDs(t), nil)
	h, err := c.Create(stub, "Water boils at 100C at sea level", model.MustParseLocale("en-GB"))
	require.NoError(t, err)

	_, err = c.AddReference(stub, h.ID(), "REFERENCE_TEXT-1")
	require.NoError(t, err)
	got, err := c.AddReference(stub, h.ID(), "REFERENCE_TEXT-1")
	require.NoError(t, err)
	assert.Len(t, got.References(), 1)
	assert.True(t, got.References().Has("REFERENCE_TEXT-1"))

	_, err = c.AddReview(stub, h.ID(), "fc1", 0.9)
	require.NoError(t, err)

	got, err = c.RemoveReference(stub, h.ID(), "REFERENCE_TEXT-1")
	require.NoError(t, err)
	assert.Empty(t, got.References())
	assert.Len(t, got.Reviews(), 1, "removing a reference leaves reviews alone")

	got, err = c.RemoveReference(stub, h.ID(), "REFERENCE_TEXT-1")
	require.NoError(t, err)
	assert.Empty(t, got.References())
}

func TestHypothesis_ScoreAndLocale(t *testing.T) {
	stub := newFakeStub()
	c := NewHypothesisContract(seqIDs(t), nil)
	h, err := c.Create(stub, "claim", model.MustParseLocale("en"))
	require.NoError(t, err)

	_, err = c.UpdateScore(stub, h.ID(), 0.2, 0.3)
	require.NoError(t, err)
	got, err := c.UpdateLocale(stub, h.ID(), model.MustParseLocale("de_DE"))
	require.NoError(t, err)
	assert.Equal(t, model.NewScore(0.2, 0.3), got.Score())
	assert.Equal(t, "de-DE", got.Locale().String())
	assert.Equal(t, "claim", got.Claim())
}

func TestCreateThenQuery_AllKinds(t *testing.T) {
	stub := newFakeStub()
	ids := seqIDs(t)

	fc, err := NewFactCheckerContract(ids, nil).Create(stub, "fc", "", "", 0.5, 0.5)
	require.NoError(t, err)
	gotFC, err := NewFactCheckerContract(ids, nil).Query(stub, fc.ID())
	require.NoError(t, err)
	assert.True(t, fc.Equal(gotFC))

	src, err := NewSourceContract(ids, nil).Create(stub, "src", 0.5, 0.5)
	require.NoError(t, err)
	gotSrc, err := NewSourceContract(ids, nil).Query(stub, src.ID())
	require.NoError(t, err)
	assert.True(t, src.Equal(gotSrc))

	txt, err := NewReferenceTextContract(ids, nil).Create(stub, "text", src.ID(), "", model.MustParseLocale("en"))
	require.NoError(t, err)
	gotTxt, err := NewReferenceTextContract(ids, nil).Query(stub, txt.ID())
	require.NoError(t, err)
	assert.True(t, txt.Equal(gotTxt))

	h, err := NewHypothesisContract(ids, nil).Create(stub, "claim", model.MustParseLocale("en"))
	require.NoError(t, err)
	gotH, err := NewHypothesisContract(ids, nil).Query(stub, h.ID())
	require.NoError(t, err)
	assert.True(t, h.Equal(gotH))

	// four creates, four queries
	assert.Equal(t, 8, stub.writes)
}

func TestCreate_IDFailure(t *testing.T) {
	ids := &model.IDGenerator{Source: func() (uuid.UUID, error) { return uuid.Nil, errors.New("no entropy") }}
	stub := newFakeStub()

	_, err := NewSourceContract(ids, nil).Create(stub, "src", 0.5, 0)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeIDGeneration, apperr.CodeOf(err))
	assert.Zero(t, stub.writes)
}

func TestQueryAll(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		page, err := QueryAll(newFakeStub(), 10, "")
		require.NoError(t, err)
		data, err := json.Marshal(page)
		require.NoError(t, err)
		assert.JSONEq(t, `{"results":[],"bookmark":""}`, string(data))
	})

	t.Run("four records", func(t *testing.T) {
		stub := newFakeStub()
		stub.bookmark = "blah"
		c := NewSourceContract(seqIDs(t), nil)
		for _, name := range []string{"a", "b", "c", "d"} {
			_, err := c.Create(stub, name, 0.5, 0)
			require.NoError(t, err)
		}
		writes := stub.writes

		page, err := c.QueryAll(stub, 4, "")
		require.NoError(t, err)
		assert.Len(t, page.Results, 4)
		assert.Equal(t, "blah", page.Bookmark)
		assert.Equal(t, writes, stub.writes, "range queries are read-only")

		var first map[string]any
		require.NoError(t, json.Unmarshal(page.Results[0], &first))
		assert.Equal(t, "a", first["name"])
	})

	t.Run("page size caps results", func(t *testing.T) {
		stub := newFakeStub()
		c := NewSourceContract(seqIDs(t), nil)
		for i := 0; i < 3; i++ {
			_, err := c.Create(stub, "s", 0.5, 0)
			require.NoError(t, err)
		}
		page, err := QueryAll(stub, 2, "")
		require.NoError(t, err)
		assert.Len(t, page.Results, 2)
	})

	t.Run("non-positive page size", func(t *testing.T) {
		_, err := QueryAll(newFakeStub(), 0, "")
		assert.True(t, apperr.IsInvalidArgument(err))
		_, err = QueryAll(newFakeStub(), -3, "")
		assert.True(t, apperr.IsInvalidArgument(err))
	})

	t.Run("foreign value passes through", func(t *testing.T) {
		stub := newFakeStub()
		c := NewSourceContract(seqIDs(t), nil)
		_, err := c.Create(stub, "a", 0.5, 0)
		require.NoError(t, err)
		require.NoError(t, stub.PutState("k", []byte("garbage")))

		page, err := QueryAll(stub, 10, "")
		require.NoError(t, err)
		require.Len(t, page.Results, 2)
		assert.JSONEq(t, `"garbage"`, string(page.Results[1]))

		data, err := json.Marshal(page)
		require.NoError(t, err)
		assert.True(t, json.Valid(data))
	})

	t.Run("ledger failure", func(t *testing.T) {
		stub := newFakeStub()
		stub.rangeErr = errors.New("peer unavailable")
		_, err := QueryAll(stub, 10, "")
		require.Error(t, err)
		assert.Equal(t, apperr.CodeLedgerFailure, apperr.CodeOf(err))
	})
}

func TestPageSizeFromString(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"5", 5},
		{"-1", MinPageSize},
		{"101", MaxPageSize},
		{"100", 100},
		{" 20 ", 20},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := PageSizeFromString(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := PageSizeFromString("ten")
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestScoreFromStrings(t *testing.T) {
	score, err := ScoreFromStrings("0.98", "0.99")
	require.NoError(t, err)
	assert.Equal(t, model.NewScore(0.98, 0.99), score)

	_, err = ScoreFromStrings("high", "0.5")
	assert.True(t, apperr.IsInvalidArgument(err))
	_, err = ScoreFromStrings("0.5", "")
	assert.True(t, apperr.IsInvalidArgument(err))
	_, err = ReliabilityFromString("x")
	assert.True(t, apperr.IsInvalidArgument(err))
	_, err = LocaleFromString("!!")
	assert.True(t, apperr.IsInvalidArgument(err))

	for _, bad := range []string{"NaN", "Inf", "+Inf", "-inf", "1e50"} {
		_, err = ScoreFromStrings(bad, "0.5")
		assert.True(t, apperr.IsInvalidArgument(err), bad)
		_, err = ScoreFromStrings("0.5", bad)
		assert.True(t, apperr.IsInvalidArgument(err), bad)
		_, err = ReliabilityFromString(bad)
		assert.True(t, apperr.IsInvalidArgument(err), bad)
	}
}

func mustEncode(t *testing.T, r model.Record) []byte {
	t.Helper()
	data, err := model.Encode(r)
	require.NoError(t, err)
	return data
}
