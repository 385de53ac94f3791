package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	batchRate    float64
	batchBurst   int
	batchTimeout time.Duration
	batchOutput  string
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run a YAML file of contract invocations in parallel",
	Long: `Batch reads a YAML file of invocations and runs them on a worker pool,
throttled per contract. Each invocation is its own ledger transaction, so
entries that touch the same record may conflict on the badger backend.

File format:
  invocations:
    - contract: SourceContract
      function: createSource
      args: ["The Daily Planet", "0.5", "0.1"]

Example:
  informiz batch seed.yaml
  informiz batch seed.yaml --concurrency 8 --rate 100 --output results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: batch.workers)")
	batchCmd.Flags().Float64Var(&batchRate, "rate", -1, "invocations per second per contract, 0 for unlimited (default: batch.rate)")
	batchCmd.Flags().IntVar(&batchBurst, "burst", 0, "rate limiter burst (default: batch.burst)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write results as JSON to this file")
}

// batchRecord is the JSON form of one result in --output.
type batchRecord struct {
	Contract string          `json:"contract"`
	Function string          `json:"function"`
	Args     []string        `json:"args"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
	Code     string          `json:"code,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	workers := h.cfg.Batch.Workers
	if concurrency > 0 {
		workers = concurrency
	}
	rate := h.cfg.Batch.Rate
	if batchRate >= 0 {
		rate = batchRate
	}
	burst := h.cfg.Batch.Burst
	if batchBurst > 0 {
		burst = batchBurst
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  informiz batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Backend:      %s\n", h.cfg.Ledger.Backend)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Rate:         %.1f/s per contract (burst %d)\n", rate, burst)

	processor := worker.NewBatchProcessor(h.router, workers, rate, burst, logger)
	for _, cr := range h.cfg.Batch.ContractRates {
		processor.SetContractRate(cr.Contract, cr.Rate, cr.Burst)
		fmt.Fprintf(os.Stderr, "  Override:     %s %.1f/s\n", cr.Contract, cr.Rate)
	}
	fmt.Fprintf(os.Stderr, "\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	records := make([]batchRecord, 0, len(results))
	for _, res := range results {
		rec := batchRecord{
			Contract: res.Invocation.Contract,
			Function: res.Invocation.Function,
			Args:     res.Invocation.Args,
			Result:   res.Payload,
		}
		if res.Error != nil {
			rec.Error = res.Error.Error()
			rec.Code = string(apperr.CodeOf(res.Error))
			fmt.Fprintf(os.Stderr, "✗ #%d %s.%s: %v\n", res.Index+1, rec.Contract, rec.Function, res.Error)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ #%d %s.%s (%v)\n", res.Index+1, rec.Contract, rec.Function, res.Duration.Round(time.Microsecond))
		}
		records = append(records, rec)
	}

	if batchOutput != "" {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		if err := os.WriteFile(batchOutput, data, 0o644); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	for _, s := range worker.Summarize(results) {
		fmt.Fprintf(os.Stderr, "  %-24s %-28s ok %-5d failed %d\n", s.Contract, s.Function, s.Succeeded, s.Failed)
	}
	fmt.Fprintf(os.Stderr, "\n")
	if err := printLatency(h.registry); err != nil {
		return err
	}
	if batchOutput != "" {
		fmt.Fprintf(os.Stderr, "  Output:    %s\n", batchOutput)
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// printLatency reports the mean invocation latency recorded by the router.
func printLatency(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if mf.GetName() != "informiz_invocation_duration_seconds" {
			continue
		}
		var count uint64
		var sum float64
		for _, m := range mf.GetMetric() {
			count += m.GetHistogram().GetSampleCount()
			sum += m.GetHistogram().GetSampleSum()
		}
		if count > 0 {
			mean := time.Duration(sum / float64(count) * float64(time.Second))
			fmt.Fprintf(os.Stderr, "  Invocations: %d, mean latency %v\n", count, mean.Round(time.Microsecond))
		}
	}
	return nil
}
