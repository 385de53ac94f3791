package model

import (
	"encoding/json"
	"fmt"
)

// Source is an information source, e.g. a news outlet or an agency website,
// rated by fact-checkers.
type Source struct {
	sid     string
	name    string
	score   Score
	reviews Reviews
}

// NewSource creates a source with a fresh identifier and the given score.
func NewSource(ids *IDGenerator, name string, score Score) (*Source, error) {
	id, err := ids.New(KindSource)
	if err != nil {
		return nil, err
	}
	return &Source{
		sid:     id,
		name:    name,
		score:   score,
		reviews: Reviews{},
	}, nil
}

func (s *Source) Key() string { return s.sid }

func (s *Source) Kind() Kind { return KindSource }

func (s *Source) ID() string { return s.sid }

func (s *Source) Name() string { return s.name }

func (s *Source) Score() Score { return s.score }

// Reviews returns a copy of the review ledger.
func (s *Source) Reviews() Reviews { return copyReviews(s.reviews) }

func (s *Source) SetName(name string) { s.name = name }

func (s *Source) SetScore(score Score) { s.score = score }

func (s *Source) AddReview(reviewer string, reliability float32) (float32, bool) {
	return s.reviews.Add(reviewer, reliability)
}

func (s *Source) RemoveReview(reviewer string) (float32, bool) {
	return s.reviews.Remove(reviewer)
}

// Equal compares identifiers only.
func (s *Source) Equal(other *Source) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.sid == other.sid
}

func (s *Source) String() string {
	return fmt.Sprintf(`{ "name": "%s", "score": %s }`, s.name, s.score)
}

type sourceJSON struct {
	SID     string  `json:"sid"`
	Name    string  `json:"name"`
	Score   Score   `json:"score"`
	Reviews Reviews `json:"reviews"`
}

func (s *Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(sourceJSON{
		SID:     s.sid,
		Name:    s.name,
		Score:   s.score,
		Reviews: s.reviews,
	})
}

func (s *Source) UnmarshalJSON(data []byte) error {
	raw := sourceJSON{Score: DefaultScore()}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Reviews == nil {
		raw.Reviews = Reviews{}
	}
	*s = Source{
		sid:     raw.SID,
		name:    raw.Name,
		score:   raw.Score,
		reviews: raw.Reviews,
	}
	return nil
}

func copyReviews(r Reviews) Reviews {
	out := make(Reviews, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
