package contract

import (
	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/ledger"
	"github.com/informiz/chaincode/internal/model"
	"go.uber.org/zap"
)

// FactCheckerContract creates and manages fact-checkers. A fact-checker is
// never removed from the ledger; Deactivate flags it inactive.
type FactCheckerContract struct {
	ids    *model.IDGenerator
	engine *Engine[model.FactChecker, *model.FactChecker]
}

func NewFactCheckerContract(ids *model.IDGenerator, logger *zap.Logger) *FactCheckerContract {
	return &FactCheckerContract{
		ids:    ids,
		engine: NewEngine[model.FactChecker](model.KindFactChecker, "Fact-checker", apperr.CodeFactCheckerNotFound, logger),
	}
}

// Create stores a new active fact-checker. Duplicate names are not checked.
func (c *FactCheckerContract) Create(stub ledger.Stub, name, email, link string, reliability, confidence float32) (*model.FactChecker, error) {
	fc, err := model.NewFactChecker(c.ids, name, email, link, model.NewScore(reliability, confidence))
	if err != nil {
		return nil, idFailure(model.KindFactChecker, err)
	}
	return c.engine.Create(stub, fc)
}

// Query returns the fact-checker stored under fcid.
func (c *FactCheckerContract) Query(stub ledger.Stub, fcid string) (*model.FactChecker, error) {
	return c.engine.Execute(stub, fcid, Noop[*model.FactChecker]{})
}

// QueryAll returns a page of records starting at bookmark.
func (c *FactCheckerContract) QueryAll(stub ledger.Stub, pageSize int32, bookmark string) (*PaginatedResults, error) {
	return QueryAll(stub, pageSize, bookmark)
}

func (c *FactCheckerContract) UpdateName(stub ledger.Stub, fcid, name string) (*model.FactChecker, error) {
	return c.engine.Execute(stub, fcid, Rename[*model.FactChecker]{Name: name})
}

func (c *FactCheckerContract) UpdateEmail(stub ledger.Stub, fcid, email string) (*model.FactChecker, error) {
	return c.engine.Execute(stub, fcid, SetEmail{Email: email})
}

func (c *FactCheckerContract) UpdateLink(stub ledger.Stub, fcid, link string) (*model.FactChecker, error) {
	return c.engine.Execute(stub, fcid, SetLink[*model.FactChecker]{Link: link})
}

func (c *FactCheckerContract) UpdateScore(stub ledger.Stub, fcid string, reliability, confidence float32) (*model.FactChecker, error) {
	return c.engine.Execute(stub, fcid, SetScore[*model.FactChecker]{Score: model.NewScore(reliability, confidence)})
}

// Deactivate flags the fact-checker inactive. Deactivating twice is a no-op.
func (c *FactCheckerContract) Deactivate(stub ledger.Stub, fcid string) (*model.FactChecker, error) {
	return c.engine.Execute(stub, fcid, Deactivate{})
}

// UpdateInfo replaces name, email, link, score and active flag with those
// of info. Reactivating an inactive fact-checker is rejected.
func (c *FactCheckerContract) UpdateInfo(stub ledger.Stub, fcid string, info *model.FactChecker) (*model.FactChecker, error) {
	return c.engine.Execute(stub, fcid, ReplaceInfo{Info: info})
}
