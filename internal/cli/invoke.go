package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/informiz/chaincode/internal/contract"
	"github.com/informiz/chaincode/internal/ledger"
	"github.com/informiz/chaincode/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	invokeTimeout time.Duration
	compactJSON   bool
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <contract> <function> [args...]",
	Short: "Run a single contract function",
	Long: `Invoke runs one contract function in its own ledger transaction and
prints the resulting record or page as JSON.

Example:
  informiz invoke FactCheckerContract createFactChecker "Chuck Fact" 0.98 0.99
  informiz invoke SourceContract addReview SOURCE-... FACT_CHECKER-... 0.96
  informiz invoke HypothesisContract queryAllHypothesis 20`,
	Args: cobra.MinimumNArgs(2),
	RunE: runInvoke,
}

var functionsCmd = &cobra.Command{
	Use:   "functions [contract]",
	Short: "List contracts and their functions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		router := contract.NewRouter(ledger.NewMemoryLedger(), nil, nil, nil)
		contracts := router.Contracts()
		if len(args) == 1 {
			contracts = args
		}
		for _, name := range contracts {
			functions := router.Functions(name)
			if len(functions) == 0 {
				return fmt.Errorf("unknown contract %q", name)
			}
			fmt.Printf("%s\n  %s\n", name, strings.Join(functions, "\n  "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(functionsCmd)

	invokeCmd.Flags().DurationVar(&invokeTimeout, "timeout", 30*time.Second, "invocation timeout")
	invokeCmd.Flags().BoolVar(&compactJSON, "compact", false, "print compact JSON")
}

// host is an opened ledger with the contracts wired on top.
type host struct {
	cfg      model.Config
	ledger   ledger.Ledger
	router   *contract.Router
	registry *prometheus.Registry
}

func openHost() (*host, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	l, err := ledger.Open(cfg.Ledger, logger)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	registry := prometheus.NewRegistry()
	ids := model.NewIDGenerator(cfg.Ledger.Namespace)
	router := contract.NewRouter(l, ids, logger, contract.NewMetrics(registry))

	logger.Debug("ledger opened",
		zap.String("backend", cfg.Ledger.Backend),
		zap.String("path", cfg.Ledger.Path),
		zap.String("namespace", cfg.Ledger.Namespace))

	return &host{cfg: cfg, ledger: l, router: router, registry: registry}, nil
}

func (h *host) Close() {
	if err := h.ledger.Close(); err != nil {
		logger.Warn("closing ledger", zap.Error(err))
	}
}

func runInvoke(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), invokeTimeout)
	defer cancel()

	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	payload, err := h.router.Invoke(ctx, args[0], args[1], args[2:])
	if err != nil {
		return err
	}

	if !compactJSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, payload, "", "  "); err == nil {
			payload = buf.Bytes()
		}
	}
	_, err = fmt.Fprintln(os.Stdout, string(payload))
	return err
}
