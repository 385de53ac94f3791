package model

import "encoding/json"

// Reviews maps a reviewer's fact-checker id to the reliability that
// reviewer assigned. A reviewer has at most one entry.
type Reviews map[string]float32

// Add records a review, replacing any earlier one by the same reviewer.
// It returns the previous value and whether one existed.
func (r *Reviews) Add(reviewer string, reliability float32) (float32, bool) {
	if *r == nil {
		*r = make(Reviews)
	}
	prev, ok := (*r)[reviewer]
	(*r)[reviewer] = reliability
	return prev, ok
}

// Remove deletes the reviewer's entry. Removing an absent reviewer is a no-op.
func (r Reviews) Remove(reviewer string) (float32, bool) {
	prev, ok := r[reviewer]
	if ok {
		delete(r, reviewer)
	}
	return prev, ok
}

// Get returns the reliability assigned by reviewer.
func (r Reviews) Get(reviewer string) (float32, bool) {
	v, ok := r[reviewer]
	return v, ok
}

func (r Reviews) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]float32(r))
}

// References is the set of reference-text ids supporting a hypothesis.
// Each id maps to itself.
type References map[string]string

// Add inserts id and reports whether it was already present.
func (r *References) Add(id string) bool {
	if *r == nil {
		*r = make(References)
	}
	_, ok := (*r)[id]
	(*r)[id] = id
	return ok
}

// Remove deletes id and reports whether it was present.
func (r References) Remove(id string) bool {
	_, ok := r[id]
	if ok {
		delete(r, id)
	}
	return ok
}

// Has reports whether id is in the set.
func (r References) Has(id string) bool {
	_, ok := r[id]
	return ok
}

func (r References) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(r))
}
