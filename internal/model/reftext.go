package model

import (
	"encoding/json"
	"fmt"
)

// ReferenceText is a text published by a source and used as evidence for
// or against hypotheses. The text itself is immutable.
type ReferenceText struct {
	tid     string
	text    string
	locale  Locale
	sid     string
	link    string
	score   Score
	reviews Reviews
}

// NewReferenceText creates a reference text with a fresh identifier and
// the default score.
func NewReferenceText(ids *IDGenerator, text, sourceID, link string, locale Locale) (*ReferenceText, error) {
	id, err := ids.New(KindReferenceText)
	if err != nil {
		return nil, err
	}
	return &ReferenceText{
		tid:     id,
		text:    text,
		locale:  locale,
		sid:     sourceID,
		link:    link,
		score:   DefaultScore(),
		reviews: Reviews{},
	}, nil
}

func (t *ReferenceText) Key() string { return t.tid }

func (t *ReferenceText) Kind() Kind { return KindReferenceText }

func (t *ReferenceText) ID() string { return t.tid }

func (t *ReferenceText) Text() string { return t.text }

func (t *ReferenceText) Locale() Locale { return t.locale }

// SourceID returns the id of the source that published the text.
func (t *ReferenceText) SourceID() string { return t.sid }

func (t *ReferenceText) Link() string { return t.link }

func (t *ReferenceText) Score() Score { return t.score }

func (t *ReferenceText) Reviews() Reviews { return copyReviews(t.reviews) }

func (t *ReferenceText) SetLocale(locale Locale) { t.locale = locale }

func (t *ReferenceText) SetSourceID(sid string) { t.sid = sid }

func (t *ReferenceText) SetLink(link string) { t.link = link }

func (t *ReferenceText) SetScore(score Score) { t.score = score }

func (t *ReferenceText) AddReview(reviewer string, reliability float32) (float32, bool) {
	return t.reviews.Add(reviewer, reliability)
}

func (t *ReferenceText) RemoveReview(reviewer string) (float32, bool) {
	return t.reviews.Remove(reviewer)
}

// Equal compares identifiers only.
func (t *ReferenceText) Equal(other *ReferenceText) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.tid == other.tid
}

func (t *ReferenceText) String() string {
	return fmt.Sprintf(`{ "text": "%s", "score": %s }`, t.text, t.score)
}

type referenceTextJSON struct {
	TID     string  `json:"tid"`
	Text    string  `json:"text"`
	Locale  Locale  `json:"locale"`
	SID     string  `json:"sid"`
	Link    string  `json:"link"`
	Score   Score   `json:"score"`
	Reviews Reviews `json:"reviews"`
}

func (t *ReferenceText) MarshalJSON() ([]byte, error) {
	return json.Marshal(referenceTextJSON{
		TID:     t.tid,
		Text:    t.text,
		Locale:  t.locale,
		SID:     t.sid,
		Link:    t.link,
		Score:   t.score,
		Reviews: t.reviews,
	})
}

func (t *ReferenceText) UnmarshalJSON(data []byte) error {
	raw := referenceTextJSON{Score: DefaultScore()}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Reviews == nil {
		raw.Reviews = Reviews{}
	}
	*t = ReferenceText{
		tid:     raw.TID,
		text:    raw.Text,
		locale:  raw.Locale,
		sid:     raw.SID,
		link:    raw.Link,
		score:   raw.Score,
		reviews: raw.Reviews,
	}
	return nil
}
