package contract

import (
	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/ledger"
	"github.com/informiz/chaincode/internal/model"
	"go.uber.org/zap"
)

// ReferenceTextContract creates and manages reference texts: the text, its
// locale, the id of the publishing source, a link, fact-checker reviews and
// a score.
type ReferenceTextContract struct {
	ids    *model.IDGenerator
	engine *Engine[model.ReferenceText, *model.ReferenceText]
}

func NewReferenceTextContract(ids *model.IDGenerator, logger *zap.Logger) *ReferenceTextContract {
	return &ReferenceTextContract{
		ids:    ids,
		engine: NewEngine[model.ReferenceText](model.KindReferenceText, "Reference-text", apperr.CodeReferenceTextNotFound, logger),
	}
}

// Create stores a new reference text with the default score. The source id
// is not checked against the ledger.
func (c *ReferenceTextContract) Create(stub ledger.Stub, text, sourceID, link string, locale model.Locale) (*model.ReferenceText, error) {
	t, err := model.NewReferenceText(c.ids, text, sourceID, link, locale)
	if err != nil {
		return nil, idFailure(model.KindReferenceText, err)
	}
	return c.engine.Create(stub, t)
}

func (c *ReferenceTextContract) Query(stub ledger.Stub, tid string) (*model.ReferenceText, error) {
	return c.engine.Execute(stub, tid, Noop[*model.ReferenceText]{})
}

func (c *ReferenceTextContract) QueryAll(stub ledger.Stub, pageSize int32, bookmark string) (*PaginatedResults, error) {
	return QueryAll(stub, pageSize, bookmark)
}

func (c *ReferenceTextContract) UpdateScore(stub ledger.Stub, tid string, reliability, confidence float32) (*model.ReferenceText, error) {
	return c.engine.Execute(stub, tid, SetScore[*model.ReferenceText]{Score: model.NewScore(reliability, confidence)})
}

func (c *ReferenceTextContract) UpdateLink(stub ledger.Stub, tid, link string) (*model.ReferenceText, error) {
	return c.engine.Execute(stub, tid, SetLink[*model.ReferenceText]{Link: link})
}

func (c *ReferenceTextContract) UpdateSource(stub ledger.Stub, tid, sourceID string) (*model.ReferenceText, error) {
	return c.engine.Execute(stub, tid, SetSourceID{SourceID: sourceID})
}

func (c *ReferenceTextContract) UpdateLocale(stub ledger.Stub, tid string, locale model.Locale) (*model.ReferenceText, error) {
	return c.engine.Execute(stub, tid, SetLocale[*model.ReferenceText]{Locale: locale})
}

func (c *ReferenceTextContract) AddReview(stub ledger.Stub, tid, fcid string, reliability float32) (*model.ReferenceText, error) {
	return c.engine.Execute(stub, tid, AddReview[*model.ReferenceText]{Reviewer: fcid, Reliability: reliability})
}

func (c *ReferenceTextContract) RemoveReview(stub ledger.Stub, tid, fcid string) (*model.ReferenceText, error) {
	return c.engine.Execute(stub, tid, RemoveReview[*model.ReferenceText]{Reviewer: fcid})
}
