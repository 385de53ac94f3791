package ledger

import (
	"fmt"

	"github.com/informiz/chaincode/internal/model"
	"go.uber.org/zap"
)

// Open builds the backend selected by cfg.
func Open(cfg model.LedgerConfig, logger *zap.Logger) (Ledger, error) {
	switch cfg.Backend {
	case model.BackendMemory:
		return NewMemoryLedger(), nil
	case model.BackendBadger, "":
		return OpenBadger(BadgerConfig{
			Path:       cfg.Path,
			SyncWrites: cfg.SyncWrites,
			Logger:     logger,
		})
	default:
		return nil, fmt.Errorf("unknown ledger backend %q (want %s or %s)", cfg.Backend, model.BackendMemory, model.BackendBadger)
	}
}
