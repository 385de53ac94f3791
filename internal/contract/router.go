package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/ledger"
	"github.com/informiz/chaincode/internal/model"
	"go.uber.org/zap"
)

// Contract names accepted by Router.Invoke.
const (
	FactCheckerContractName   = "FactCheckerContract"
	SourceContractName        = "SourceContract"
	ReferenceTextContractName = "ReferenceTextContract"
	HypothesisContractName    = "HypothesisContract"
)

// call is a parsed invocation waiting for a transaction.
type call func(stub ledger.Stub) (any, error)

// handler parses string arguments into a call. Parsing happens before the
// ledger is touched.
type handler func(args []string) (call, error)

// Router dispatches string-argument invocations to the typed contracts, one
// ledger transaction per invocation.
type Router struct {
	ledger   ledger.Ledger
	metrics  *Metrics
	log      *zap.Logger
	handlers map[string]map[string]handler

	FactCheckers   *FactCheckerContract
	Sources        *SourceContract
	ReferenceTexts *ReferenceTextContract
	Hypotheses     *HypothesisContract
}

// NewRouter wires the four contracts to l. metrics and logger may be nil.
func NewRouter(l ledger.Ledger, ids *model.IDGenerator, logger *zap.Logger, metrics *Metrics) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		ledger:         l,
		metrics:        metrics,
		log:            logger,
		FactCheckers:   NewFactCheckerContract(ids, logger),
		Sources:        NewSourceContract(ids, logger),
		ReferenceTexts: NewReferenceTextContract(ids, logger),
		Hypotheses:     NewHypothesisContract(ids, logger),
	}
	r.handlers = map[string]map[string]handler{
		FactCheckerContractName:   r.factCheckerHandlers(),
		SourceContractName:        r.sourceHandlers(),
		ReferenceTextContractName: r.referenceTextHandlers(),
		HypothesisContractName:    r.hypothesisHandlers(),
	}
	return r
}

// Invoke runs contract.function with args and returns the JSON payload.
func (r *Router) Invoke(ctx context.Context, contractName, function string, args []string) ([]byte, error) {
	started := time.Now()
	payload, err := r.invoke(ctx, contractName, function, args)
	r.metrics.observe(contractName, function, started, err)

	log := r.log.With(zap.String("contract", contractName), zap.String("function", function))
	if err != nil {
		log.Warn("invocation failed", zap.String("code", string(apperr.CodeOf(err))), zap.Error(err))
		return nil, err
	}
	log.Debug("invocation succeeded", zap.Duration("took", time.Since(started)))
	return payload, nil
}

func (r *Router) invoke(ctx context.Context, contractName, function string, args []string) ([]byte, error) {
	functions, ok := r.handlers[contractName]
	if !ok {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeUnknownFunction, fmt.Sprintf("unknown contract %q", contractName))
	}
	h, ok := functions[function]
	if !ok {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeUnknownFunction, fmt.Sprintf("unknown function %s.%s", contractName, function))
	}

	fn, err := h(args)
	if err != nil {
		return nil, err
	}

	var result any
	err = r.ledger.Submit(ctx, func(stub ledger.Stub) error {
		var err error
		result, err = fn(stub)
		return err
	})
	if errors.Is(err, ledger.ErrConflict) {
		return nil, apperr.Conflict("transaction rejected by the ledger", err)
	}
	if err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			return nil, ledgerFailure("transaction failed", err)
		}
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, apperr.CorruptState("failed to serialize result", err)
	}
	return payload, nil
}

// Contracts lists the contract names Invoke accepts.
func (r *Router) Contracts() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Functions lists the functions of a contract.
func (r *Router) Functions(contractName string) []string {
	names := make([]string, 0, len(r.handlers[contractName]))
	for name := range r.handlers[contractName] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func wantArgs(args []string, n ...int) error {
	for _, want := range n {
		if len(args) == want {
			return nil
		}
	}
	return apperr.InvalidArgument(fmt.Sprintf("expected %v argument(s), got %d", n, len(args)), nil)
}

// queryAllHandler is shared by every contract; the query is not scoped by kind.
func queryAllHandler(args []string) (call, error) {
	if err := wantArgs(args, 1, 2); err != nil {
		return nil, err
	}
	size, err := PageSizeFromString(args[0])
	if err != nil {
		return nil, err
	}
	bookmark := ""
	if len(args) == 2 {
		bookmark = args[1]
	}
	return func(stub ledger.Stub) (any, error) {
		return QueryAll(stub, size, bookmark)
	}, nil
}

// scoreHandler parses (id, reliability, confidence).
func scoreHandler(update func(stub ledger.Stub, id string, r, c float32) (any, error)) handler {
	return func(args []string) (call, error) {
		if err := wantArgs(args, 3); err != nil {
			return nil, err
		}
		score, err := ScoreFromStrings(args[1], args[2])
		if err != nil {
			return nil, err
		}
		return func(stub ledger.Stub) (any, error) {
			return update(stub, args[0], score.Reliability, score.Confidence)
		}, nil
	}
}

// reviewHandlers parses (id, fcid, reliability) and (id, fcid).
func reviewHandlers(
	add func(stub ledger.Stub, id, fcid string, reliability float32) (any, error),
	remove func(stub ledger.Stub, id, fcid string) (any, error),
) (handler, handler) {
	addH := func(args []string) (call, error) {
		if err := wantArgs(args, 3); err != nil {
			return nil, err
		}
		reliability, err := ReliabilityFromString(args[2])
		if err != nil {
			return nil, err
		}
		return func(stub ledger.Stub) (any, error) {
			return add(stub, args[0], args[1], reliability)
		}, nil
	}
	removeH := stringsHandler(2, func(stub ledger.Stub, args []string) (any, error) {
		return remove(stub, args[0], args[1])
	})
	return addH, removeH
}

// stringsHandler passes n string arguments through unparsed.
func stringsHandler(n int, fn func(stub ledger.Stub, args []string) (any, error)) handler {
	return func(args []string) (call, error) {
		if err := wantArgs(args, n); err != nil {
			return nil, err
		}
		return func(stub ledger.Stub) (any, error) {
			return fn(stub, args)
		}, nil
	}
}

// localeHandler parses (id, locale).
func localeHandler(update func(stub ledger.Stub, id string, locale model.Locale) (any, error)) handler {
	return func(args []string) (call, error) {
		if err := wantArgs(args, 2); err != nil {
			return nil, err
		}
		locale, err := LocaleFromString(args[1])
		if err != nil {
			return nil, err
		}
		return func(stub ledger.Stub) (any, error) {
			return update(stub, args[0], locale)
		}, nil
	}
}

func (r *Router) factCheckerHandlers() map[string]handler {
	fc := r.FactCheckers
	return map[string]handler{
		// name, reliability, confidence[, email, link]
		"createFactChecker": func(args []string) (call, error) {
			if err := wantArgs(args, 3, 5); err != nil {
				return nil, err
			}
			score, err := ScoreFromStrings(args[1], args[2])
			if err != nil {
				return nil, err
			}
			var email, link string
			if len(args) == 5 {
				email, link = args[3], args[4]
			}
			return func(stub ledger.Stub) (any, error) {
				return fc.Create(stub, args[0], email, link, score.Reliability, score.Confidence)
			}, nil
		},
		"queryFactChecker": stringsHandler(1, func(stub ledger.Stub, args []string) (any, error) {
			return fc.Query(stub, args[0])
		}),
		"queryAllFactCheckers": queryAllHandler,
		"updateFactCheckerName": stringsHandler(2, func(stub ledger.Stub, args []string) (any, error) {
			return fc.UpdateName(stub, args[0], args[1])
		}),
		"updateFactCheckerEmail": stringsHandler(2, func(stub ledger.Stub, args []string) (any, error) {
			return fc.UpdateEmail(stub, args[0], args[1])
		}),
		"updateFactCheckerLink": stringsHandler(2, func(stub ledger.Stub, args []string) (any, error) {
			return fc.UpdateLink(stub, args[0], args[1])
		}),
		"updateFactCheckerScore": scoreHandler(func(stub ledger.Stub, id string, rel, conf float32) (any, error) {
			return fc.UpdateScore(stub, id, rel, conf)
		}),
		"deactivateFactChecker": stringsHandler(1, func(stub ledger.Stub, args []string) (any, error) {
			return fc.Deactivate(stub, args[0])
		}),
		// fcid, fact-checker JSON
		"updateFactCheckerInfo": func(args []string) (call, error) {
			if err := wantArgs(args, 2); err != nil {
				return nil, err
			}
			var info model.FactChecker
			if err := json.Unmarshal([]byte(args[1]), &info); err != nil {
				return nil, apperr.InvalidArgument("fact-checker info must be a fact-checker JSON object", err)
			}
			return func(stub ledger.Stub) (any, error) {
				return fc.UpdateInfo(stub, args[0], &info)
			}, nil
		},
	}
}

func (r *Router) sourceHandlers() map[string]handler {
	src := r.Sources
	addReview, removeReview := reviewHandlers(
		func(stub ledger.Stub, id, fcid string, rel float32) (any, error) {
			return src.AddReview(stub, id, fcid, rel)
		},
		func(stub ledger.Stub, id, fcid string) (any, error) {
			return src.RemoveReview(stub, id, fcid)
		},
	)
	return map[string]handler{
		// name, reliability, confidence
		"createSource": func(args []string) (call, error) {
			if err := wantArgs(args, 3); err != nil {
				return nil, err
			}
			score, err := ScoreFromStrings(args[1], args[2])
			if err != nil {
				return nil, err
			}
			return func(stub ledger.Stub) (any, error) {
				return src.Create(stub, args[0], score.Reliability, score.Confidence)
			}, nil
		},
		"querySource": stringsHandler(1, func(stub ledger.Stub, args []string) (any, error) {
			return src.Query(stub, args[0])
		}),
		"queryAllSources": queryAllHandler,
		"updateSourceName": stringsHandler(2, func(stub ledger.Stub, args []string) (any, error) {
			return src.UpdateName(stub, args[0], args[1])
		}),
		"updateSourceScore": scoreHandler(func(stub ledger.Stub, id string, rel, conf float32) (any, error) {
			return src.UpdateScore(stub, id, rel, conf)
		}),
		"addReview":    addReview,
		"removeReview": removeReview,
	}
}

func (r *Router) referenceTextHandlers() map[string]handler {
	rt := r.ReferenceTexts
	addReview, removeReview := reviewHandlers(
		func(stub ledger.Stub, id, fcid string, rel float32) (any, error) {
			return rt.AddReview(stub, id, fcid, rel)
		},
		func(stub ledger.Stub, id, fcid string) (any, error) {
			return rt.RemoveReview(stub, id, fcid)
		},
	)
	return map[string]handler{
		// text, sid, link, locale
		"createReferenceText": func(args []string) (call, error) {
			if err := wantArgs(args, 4); err != nil {
				return nil, err
			}
			locale, err := LocaleFromString(args[3])
			if err != nil {
				return nil, err
			}
			return func(stub ledger.Stub) (any, error) {
				return rt.Create(stub, args[0], args[1], args[2], locale)
			}, nil
		},
		"queryReferenceText": stringsHandler(1, func(stub ledger.Stub, args []string) (any, error) {
			return rt.Query(stub, args[0])
		}),
		"queryAllReferenceTexts": queryAllHandler,
		"updateReferenceTextScore": scoreHandler(func(stub ledger.Stub, id string, rel, conf float32) (any, error) {
			return rt.UpdateScore(stub, id, rel, conf)
		}),
		"updateReferenceTextLink": stringsHandler(2, func(stub ledger.Stub, args []string) (any, error) {
			return rt.UpdateLink(stub, args[0], args[1])
		}),
		"updateReferenceTextSource": stringsHandler(2, func(stub ledger.Stub, args []string) (any, error) {
			return rt.UpdateSource(stub, args[0], args[1])
		}),
		"updateReferenceTextLocale": localeHandler(func(stub ledger.Stub, id string, locale model.Locale) (any, error) {
			return rt.UpdateLocale(stub, id, locale)
		}),
		"addReview":         addReview,
		"addOrUpdateReview": addReview,
		"removeReview":      removeReview,
	}
}

func (r *Router) hypothesisHandlers() map[string]handler {
	h := r.Hypotheses
	addReview, removeReview := reviewHandlers(
		func(stub ledger.Stub, id, fcid string, rel float32) (any, error) {
			return h.AddReview(stub, id, fcid, rel)
		},
		func(stub ledger.Stub, id, fcid string) (any, error) {
			return h.RemoveReview(stub, id, fcid)
		},
	)
	return map[string]handler{
		// claim, locale
		"createHypothesis": func(args []string) (call, error) {
			if err := wantArgs(args, 2); err != nil {
				return nil, err
			}
			locale, err := LocaleFromString(args[1])
			if err != nil {
				return nil, err
			}
			return func(stub ledger.Stub) (any, error) {
				return h.Create(stub, args[0], locale)
			}, nil
		},
		"queryHypothesis": stringsHandler(1, func(stub ledger.Stub, args []string) (any, error) {
			return h.Query(stub, args[0])
		}),
		"queryAllHypothesis": queryAllHandler,
		"queryAllHypotheses": queryAllHandler,
		"updateHypothesisScore": scoreHandler(func(stub ledger.Stub, id string, rel, conf float32) (any, error) {
			return h.UpdateScore(stub, id, rel, conf)
		}),
		"updateHypothesisLocale": localeHandler(func(stub ledger.Stub, id string, locale model.Locale) (any, error) {
			return h.UpdateLocale(stub, id, locale)
		}),
		"addReview":         addReview,
		"addOrUpdateReview": addReview,
		"removeReview":      removeReview,
		"addReference": stringsHandler(2, func(stub ledger.Stub, args []string) (any, error) {
			return h.AddReference(stub, args[0], args[1])
		}),
		"removeReference": stringsHandler(2, func(stub ledger.Stub, args []string) (any, error) {
			return h.RemoveReference(stub, args[0], args[1])
		}),
	}
}
