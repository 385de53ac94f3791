package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies the entity type a record belongs to. It also namespaces
// the identifiers handed out by IDGenerator.
type Kind string

const (
	KindFactChecker   Kind = "FACT_CHECKER"
	KindSource        Kind = "SOURCE"
	KindReferenceText Kind = "REFERENCE_TEXT"
	KindHypothesis    Kind = "HYPOTHESIS"
)

func (k Kind) String() string {
	return string(k)
}

// IDGenerator produces ledger keys of the form <KIND>-<uuid>, optionally
// suffixed with -<Namespace>. The zero value is ready to use.
type IDGenerator struct {
	// Namespace is appended to every identifier when set, e.g. the name of
	// the organization running the peer.
	Namespace string

	// Source returns a fresh UUID. Defaults to uuid.NewRandom.
	Source func() (uuid.UUID, error)
}

// NewIDGenerator returns a generator using random v4 UUIDs.
func NewIDGenerator(namespace string) *IDGenerator {
	return &IDGenerator{Namespace: namespace}
}

// New returns a fresh identifier for a record of the given kind.
func (g *IDGenerator) New(kind Kind) (string, error) {
	source := uuid.NewRandom
	if g != nil && g.Source != nil {
		source = g.Source
	}

	u, err := source()
	if err != nil {
		return "", fmt.Errorf("generate %s id: %w", kind, err)
	}

	id := string(kind) + "-" + u.String()
	if g != nil && g.Namespace != "" {
		id += "-" + g.Namespace
	}
	return id, nil
}
