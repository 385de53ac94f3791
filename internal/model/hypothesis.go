package model

import (
	"encoding/json"
	"fmt"
)

// Hypothesis is a factual claim under review. The claim is immutable; its
// supporting references are reference-text ids.
type Hypothesis struct {
	hid        string
	claim      string
	locale     Locale
	score      Score
	reviews    Reviews
	references References
}

// NewHypothesis creates a hypothesis with a fresh identifier and the default
// score.
func NewHypothesis(ids *IDGenerator, claim string, locale Locale) (*Hypothesis, error) {
	id, err := ids.New(KindHypothesis)
	if err != nil {
		return nil, err
	}
	return &Hypothesis{
		hid:        id,
		claim:      claim,
		locale:     locale,
		score:      DefaultScore(),
		reviews:    Reviews{},
		references: References{},
	}, nil
}

func (h *Hypothesis) Key() string { return h.hid }

func (h *Hypothesis) Kind() Kind { return KindHypothesis }

func (h *Hypothesis) ID() string { return h.hid }

func (h *Hypothesis) Claim() string { return h.claim }

func (h *Hypothesis) Locale() Locale { return h.locale }

func (h *Hypothesis) Score() Score { return h.score }

func (h *Hypothesis) Reviews() Reviews { return copyReviews(h.reviews) }

// References returns a copy of the reference set.
func (h *Hypothesis) References() References {
	out := make(References, len(h.references))
	for k, v := range h.references {
		out[k] = v
	}
	return out
}

func (h *Hypothesis) SetLocale(locale Locale) { h.locale = locale }

func (h *Hypothesis) SetScore(score Score) { h.score = score }

func (h *Hypothesis) AddReview(reviewer string, reliability float32) (float32, bool) {
	return h.reviews.Add(reviewer, reliability)
}

func (h *Hypothesis) RemoveReview(reviewer string) (float32, bool) {
	return h.reviews.Remove(reviewer)
}

// AddReference attaches a reference text and reports whether it was
// already attached.
func (h *Hypothesis) AddReference(tid string) bool {
	return h.references.Add(tid)
}

// RemoveReference detaches a reference text and reports whether it was
// attached.
func (h *Hypothesis) RemoveReference(tid string) bool {
	return h.references.Remove(tid)
}

// Equal compares identifiers only.
func (h *Hypothesis) Equal(other *Hypothesis) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.hid == other.hid
}

func (h *Hypothesis) String() string {
	return fmt.Sprintf(`{ "claim": "%s", "score": %s }`, h.claim, h.score)
}

type hypothesisJSON struct {
	HID        string     `json:"hid"`
	Claim      string     `json:"claim"`
	Locale     Locale     `json:"locale"`
	Score      Score      `json:"score"`
	Reviews    Reviews    `json:"reviews"`
	References References `json:"references"`
}

func (h *Hypothesis) MarshalJSON() ([]byte, error) {
	return json.Marshal(hypothesisJSON{
		HID:        h.hid,
		Claim:      h.claim,
		Locale:     h.locale,
		Score:      h.score,
		Reviews:    h.reviews,
		References: h.references,
	})
}

func (h *Hypothesis) UnmarshalJSON(data []byte) error {
	raw := hypothesisJSON{Score: DefaultScore()}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Reviews == nil {
		raw.Reviews = Reviews{}
	}
	if raw.References == nil {
		raw.References = References{}
	}
	*h = Hypothesis{
		hid:        raw.HID,
		claim:      raw.Claim,
		locale:     raw.Locale,
		score:      raw.Score,
		reviews:    raw.Reviews,
		references: raw.References,
	}
	return nil
}
