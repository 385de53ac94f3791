package model

import "fmt"

// Default score values assigned to every newly created record.
const (
	DefaultReliability float32 = 0.5
	DefaultConfidence  float32 = 0.0
)

// Score summarizes trust in an entity. Both values are meant to lie in
// [0.0, 1.0] but are stored as given.
type Score struct {
	Reliability float32 `json:"reliability"`
	Confidence  float32 `json:"confidence"`
}

// NewScore returns a score with the given reliability and confidence.
func NewScore(reliability, confidence float32) Score {
	return Score{Reliability: reliability, Confidence: confidence}
}

// DefaultScore returns the score of a record nobody has rated yet.
func DefaultScore() Score {
	return Score{Reliability: DefaultReliability, Confidence: DefaultConfidence}
}

func (s Score) String() string {
	return fmt.Sprintf(`{ "reliability": %g, "confidence": %g }`, s.Reliability, s.Confidence)
}
