package contract

import (
	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/ledger"
	"github.com/informiz/chaincode/internal/model"
	"go.uber.org/zap"
)

// SourceContract creates and manages information sources.
type SourceContract struct {
	ids    *model.IDGenerator
	engine *Engine[model.Source, *model.Source]
}

func NewSourceContract(ids *model.IDGenerator, logger *zap.Logger) *SourceContract {
	return &SourceContract{
		ids:    ids,
		engine: NewEngine[model.Source](model.KindSource, "Source", apperr.CodeSourceNotFound, logger),
	}
}

func (c *SourceContract) Create(stub ledger.Stub, name string, reliability, confidence float32) (*model.Source, error) {
	src, err := model.NewSource(c.ids, name, model.NewScore(reliability, confidence))
	if err != nil {
		return nil, idFailure(model.KindSource, err)
	}
	return c.engine.Create(stub, src)
}

func (c *SourceContract) Query(stub ledger.Stub, sid string) (*model.Source, error) {
	return c.engine.Execute(stub, sid, Noop[*model.Source]{})
}

func (c *SourceContract) QueryAll(stub ledger.Stub, pageSize int32, bookmark string) (*PaginatedResults, error) {
	return QueryAll(stub, pageSize, bookmark)
}

func (c *SourceContract) UpdateName(stub ledger.Stub, sid, name string) (*model.Source, error) {
	return c.engine.Execute(stub, sid, Rename[*model.Source]{Name: name})
}

func (c *SourceContract) UpdateScore(stub ledger.Stub, sid string, reliability, confidence float32) (*model.Source, error) {
	return c.engine.Execute(stub, sid, SetScore[*model.Source]{Score: model.NewScore(reliability, confidence)})
}

// AddReview records fcid's review of the source, replacing an earlier one.
// The source's score is not recomputed.
func (c *SourceContract) AddReview(stub ledger.Stub, sid, fcid string, reliability float32) (*model.Source, error) {
	return c.engine.Execute(stub, sid, AddReview[*model.Source]{Reviewer: fcid, Reliability: reliability})
}

// RemoveReview deletes fcid's review. A missing review is not an error.
func (c *SourceContract) RemoveReview(stub ledger.Stub, sid, fcid string) (*model.Source, error) {
	return c.engine.Execute(stub, sid, RemoveReview[*model.Source]{Reviewer: fcid})
}
