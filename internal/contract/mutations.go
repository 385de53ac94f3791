package contract

import (
	"errors"

	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/model"
)

// Mutation is one logical change applied by Engine.Execute. A mutation that
// returns an error aborts the transaction before anything is written.
type Mutation[P any] interface {
	Apply(rec P) error
}

// Noop leaves the record unchanged; queries run through it.
type Noop[P any] struct{}

func (Noop[P]) Apply(P) error { return nil }

// SetScore replaces the score wholesale.
type SetScore[P model.Scored] struct {
	Score model.Score
}

func (m SetScore[P]) Apply(rec P) error {
	rec.SetScore(m.Score)
	return nil
}

// Rename replaces the display name.
type Rename[P model.Named] struct {
	Name string
}

func (m Rename[P]) Apply(rec P) error {
	rec.SetName(m.Name)
	return nil
}

// SetLink replaces the link.
type SetLink[P model.Linked] struct {
	Link string
}

func (m SetLink[P]) Apply(rec P) error {
	rec.SetLink(m.Link)
	return nil
}

// SetLocale replaces the locale.
type SetLocale[P model.Localized] struct {
	Locale model.Locale
}

func (m SetLocale[P]) Apply(rec P) error {
	rec.SetLocale(m.Locale)
	return nil
}

// AddReview inserts or overwrites a reviewer's entry.
type AddReview[P model.Reviewed] struct {
	Reviewer    string
	Reliability float32
}

func (m AddReview[P]) Apply(rec P) error {
	rec.AddReview(m.Reviewer, m.Reliability)
	return nil
}

// RemoveReview deletes a reviewer's entry if present.
type RemoveReview[P model.Reviewed] struct {
	Reviewer string
}

func (m RemoveReview[P]) Apply(rec P) error {
	rec.RemoveReview(m.Reviewer)
	return nil
}

// SetEmail replaces a fact-checker's email.
type SetEmail struct {
	Email string
}

func (m SetEmail) Apply(fc *model.FactChecker) error {
	fc.SetEmail(m.Email)
	return nil
}

// Deactivate soft-deletes a fact-checker.
type Deactivate struct{}

func (Deactivate) Apply(fc *model.FactChecker) error {
	fc.Deactivate()
	return nil
}

// ReplaceInfo copies the mutable fields of Info onto a fact-checker.
type ReplaceInfo struct {
	Info *model.FactChecker
}

func (m ReplaceInfo) Apply(fc *model.FactChecker) error {
	err := fc.UpdateInfo(m.Info)
	if errors.Is(err, model.ErrReactivation) {
		return apperr.Wrap(apperr.KindInvalidArgument, apperr.CodeFactCheckerReactivation, "cannot update fact-checker info", err)
	}
	if err != nil {
		return apperr.InvalidArgument("cannot update fact-checker info", err)
	}
	return nil
}

// SetSourceID points a reference text at another source.
type SetSourceID struct {
	SourceID string
}

func (m SetSourceID) Apply(t *model.ReferenceText) error {
	t.SetSourceID(m.SourceID)
	return nil
}

// AddReference attaches a reference text to a hypothesis.
type AddReference struct {
	ID string
}

func (m AddReference) Apply(h *model.Hypothesis) error {
	h.AddReference(m.ID)
	return nil
}

// RemoveReference detaches a reference text from a hypothesis.
type RemoveReference struct {
	ID string
}

func (m RemoveReference) Apply(h *model.Hypothesis) error {
	h.RemoveReference(m.ID)
	return nil
}
