package contract

import (
	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/ledger"
	"github.com/informiz/chaincode/internal/model"
	"go.uber.org/zap"
)

// HypothesisContract creates and manages hypotheses and their supporting
// references.
type HypothesisContract struct {
	ids    *model.IDGenerator
	engine *Engine[model.Hypothesis, *model.Hypothesis]
}

func NewHypothesisContract(ids *model.IDGenerator, logger *zap.Logger) *HypothesisContract {
	return &HypothesisContract{
		ids:    ids,
		engine: NewEngine[model.Hypothesis](model.KindHypothesis, "Hypothesis", apperr.CodeHypothesisNotFound, logger),
	}
}

func (c *HypothesisContract) Create(stub ledger.Stub, claim string, locale model.Locale) (*model.Hypothesis, error) {
	h, err := model.NewHypothesis(c.ids, claim, locale)
	if err != nil {
		return nil, idFailure(model.KindHypothesis, err)
	}
	return c.engine.Create(stub, h)
}

func (c *HypothesisContract) Query(stub ledger.Stub, hid string) (*model.Hypothesis, error) {
	return c.engine.Execute(stub, hid, Noop[*model.Hypothesis]{})
}

func (c *HypothesisContract) QueryAll(stub ledger.Stub, pageSize int32, bookmark string) (*PaginatedResults, error) {
	return QueryAll(stub, pageSize, bookmark)
}

func (c *HypothesisContract) UpdateScore(stub ledger.Stub, hid string, reliability, confidence float32) (*model.Hypothesis, error) {
	return c.engine.Execute(stub, hid, SetScore[*model.Hypothesis]{Score: model.NewScore(reliability, confidence)})
}

func (c *HypothesisContract) UpdateLocale(stub ledger.Stub, hid string, locale model.Locale) (*model.Hypothesis, error) {
	return c.engine.Execute(stub, hid, SetLocale[*model.Hypothesis]{Locale: locale})
}

func (c *HypothesisContract) AddReview(stub ledger.Stub, hid, fcid string, reliability float32) (*model.Hypothesis, error) {
	return c.engine.Execute(stub, hid, AddReview[*model.Hypothesis]{Reviewer: fcid, Reliability: reliability})
}

func (c *HypothesisContract) RemoveReview(stub ledger.Stub, hid, fcid string) (*model.Hypothesis, error) {
	return c.engine.Execute(stub, hid, RemoveReview[*model.Hypothesis]{Reviewer: fcid})
}

// AddReference attaches reference text tid. Adding it twice is a no-op.
func (c *HypothesisContract) AddReference(stub ledger.Stub, hid, tid string) (*model.Hypothesis, error) {
	return c.engine.Execute(stub, hid, AddReference{ID: tid})
}

// RemoveReference detaches reference text tid if attached.
func (c *HypothesisContract) RemoveReference(stub ledger.Stub, hid, tid string) (*model.Hypothesis, error) {
	return c.engine.Execute(stub, hid, RemoveReference{ID: tid})
}
