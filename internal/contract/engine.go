// Package contract implements the ledger contracts for fact-checkers,
// sources, reference texts and hypotheses.
//
// Every write follows the same protocol: load the current record by key,
// apply one typed mutation, serialize and write the full record back. The
// engine holds no locks; the surrounding ledger transaction makes the
// read-then-write pair atomic.
package contract

import (
	"bytes"
	"fmt"

	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/ledger"
	"github.com/informiz/chaincode/internal/model"
	"go.uber.org/zap"
)

// Engine runs the read-modify-write protocol for records of one kind.
type Engine[T any, P interface {
	*T
	model.Record
}] struct {
	kind     model.Kind
	label    string
	notFound apperr.Code
	log      *zap.Logger
}

// NewEngine creates an engine for records of type T. label names the kind
// in error messages, notFound is the code raised for missing keys.
func NewEngine[T any, P interface {
	*T
	model.Record
}](kind model.Kind, label string, notFound apperr.Code, logger *zap.Logger) *Engine[T, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine[T, P]{
		kind:     kind,
		label:    label,
		notFound: notFound,
		log:      logger.With(zap.String("kind", kind.String())),
	}
}

// Execute loads the record stored under key, applies m and writes the result
// back. A missing or blank value fails with NotFound and writes nothing.
func (e *Engine[T, P]) Execute(stub ledger.Stub, key string, m Mutation[P]) (P, error) {
	state, err := stub.GetState(key)
	if err != nil {
		return nil, ledgerFailure(fmt.Sprintf("failed to read %s %s", e.label, key), err)
	}
	if len(bytes.TrimSpace(state)) == 0 {
		return nil, apperr.NotFound(e.notFound, fmt.Sprintf("%s %s does not exist", e.label, key))
	}

	rec, err := model.Decode[T, P](state)
	if err != nil {
		return nil, apperr.CorruptState(fmt.Sprintf("failed to deserialize %s info", e.label), err)
	}

	if err := m.Apply(rec); err != nil {
		return nil, err
	}

	if err := e.put(stub, key, rec); err != nil {
		return nil, err
	}
	e.log.Debug("record updated", zap.String("key", key), zap.String("mutation", fmt.Sprintf("%T", m)))
	return rec, nil
}

// Create writes a freshly built record under its own key. No existence
// check is made; generated identifiers do not collide.
func (e *Engine[T, P]) Create(stub ledger.Stub, rec P) (P, error) {
	if err := e.put(stub, rec.Key(), rec); err != nil {
		return nil, err
	}
	e.log.Debug("record created", zap.String("key", rec.Key()))
	return rec, nil
}

func (e *Engine[T, P]) put(stub ledger.Stub, key string, rec P) error {
	data, err := model.Encode(rec)
	if err != nil {
		return apperr.CorruptState(fmt.Sprintf("failed to serialize %s info", e.label), err)
	}
	if err := stub.PutState(key, data); err != nil {
		return ledgerFailure(fmt.Sprintf("failed to write %s %s", e.label, key), err)
	}
	return nil
}

func ledgerFailure(message string, err error) error {
	return apperr.Wrap(apperr.KindInternal, apperr.CodeLedgerFailure, message, err)
}

func idFailure(kind model.Kind, err error) error {
	return apperr.Wrap(apperr.KindInternal, apperr.CodeIDGeneration, "cannot generate unique id for "+kind.String(), err)
}
