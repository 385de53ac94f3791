package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the lifecycle state of a fact-checker.
type Status int

const (
	StatusActive Status = iota
	StatusInactive
)

func (s Status) String() string {
	if s == StatusInactive {
		return "inactive"
	}
	return "active"
}

// ErrReactivation is returned when an update would turn an inactive
// fact-checker back to active.
var ErrReactivation = errors.New("an inactive fact-checker cannot be reactivated")

// FactChecker is a member of the network who reviews sources, texts and
// hypotheses. Additional metadata lives outside the ledger, keyed by fcid.
type FactChecker struct {
	fcid   string
	name   string
	score  Score
	email  string
	link   string
	status Status
}

// NewFactChecker creates an active fact-checker with a fresh identifier.
func NewFactChecker(ids *IDGenerator, name, email, link string, score Score) (*FactChecker, error) {
	id, err := ids.New(KindFactChecker)
	if err != nil {
		return nil, err
	}
	return &FactChecker{
		fcid:   id,
		name:   name,
		score:  score,
		email:  email,
		link:   link,
		status: StatusActive,
	}, nil
}

func (f *FactChecker) Key() string { return f.fcid }

func (f *FactChecker) Kind() Kind { return KindFactChecker }

// ID returns the fact-checker's ledger key.
func (f *FactChecker) ID() string { return f.fcid }

func (f *FactChecker) Name() string { return f.name }

func (f *FactChecker) Score() Score { return f.score }

func (f *FactChecker) Email() string { return f.email }

func (f *FactChecker) Link() string { return f.link }

func (f *FactChecker) Status() Status { return f.status }

func (f *FactChecker) Active() bool { return f.status == StatusActive }

func (f *FactChecker) SetName(name string) { f.name = name }

func (f *FactChecker) SetScore(score Score) { f.score = score }

func (f *FactChecker) SetEmail(email string) { f.email = email }

func (f *FactChecker) SetLink(link string) { f.link = link }

// Deactivate soft-deletes the fact-checker. The record stays on the ledger.
func (f *FactChecker) Deactivate() {
	f.status = StatusInactive
}

// UpdateInfo copies name, email, link, score and status from info. The
// identifier is never touched.
func (f *FactChecker) UpdateInfo(info *FactChecker) error {
	if info == nil {
		return errors.New("fact-checker info is required")
	}
	if f.status == StatusInactive && info.status == StatusActive {
		return fmt.Errorf("fact-checker %s: %w", f.fcid, ErrReactivation)
	}
	f.name = info.name
	f.email = info.email
	f.link = info.link
	f.score = info.score
	f.status = info.status
	return nil
}

// Equal compares identifiers only.
func (f *FactChecker) Equal(other *FactChecker) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.fcid == other.fcid
}

func (f *FactChecker) String() string {
	return fmt.Sprintf(`{ "name": "%s", "score": %s }`, f.name, f.score)
}

type factCheckerJSON struct {
	FCID   string `json:"fcid"`
	Score  Score  `json:"score"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Link   string `json:"link"`
	Active *bool  `json:"active,omitempty"`
}

func (f *FactChecker) MarshalJSON() ([]byte, error) {
	active := f.Active()
	return json.Marshal(factCheckerJSON{
		FCID:   f.fcid,
		Score:  f.score,
		Name:   f.name,
		Email:  f.email,
		Link:   f.link,
		Active: &active,
	})
}

// UnmarshalJSON treats a missing "active" field as active.
func (f *FactChecker) UnmarshalJSON(data []byte) error {
	raw := factCheckerJSON{Score: DefaultScore()}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status := StatusActive
	if raw.Active != nil && !*raw.Active {
		status = StatusInactive
	}
	*f = FactChecker{
		fcid:   raw.FCID,
		name:   raw.Name,
		score:  raw.Score,
		email:  raw.Email,
		link:   raw.Link,
		status: status,
	}
	return nil
}
