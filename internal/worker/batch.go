package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Invoker runs a single contract invocation. contract.Router implements it.
type Invoker interface {
	Invoke(ctx context.Context, contract, function string, args []string) ([]byte, error)
}

// Invocation is one entry of a batch file.
type Invocation struct {
	Contract string   `yaml:"contract" json:"contract"`
	Function string   `yaml:"function" json:"function"`
	Args     []string `yaml:"args" json:"args"`
}

type batchFile struct {
	Invocations []Invocation `yaml:"invocations"`
}

// InvocationJob runs one Invocation once the limiter admits its contract.
type InvocationJob struct {
	Index      int
	Invocation Invocation
	Invoker    Invoker
	Limiter    *Limiter
}

// Execute implements Job.
func (j *InvocationJob) Execute(ctx context.Context) Result {
	res := &InvocationResult{Index: j.Index, Invocation: j.Invocation}
	started := time.Now()
	defer func() { res.Duration = time.Since(started) }()

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Invocation.Contract); err != nil {
			res.Error = err
			return res
		}
	}

	payload, err := j.Invoker.Invoke(ctx, j.Invocation.Contract, j.Invocation.Function, j.Invocation.Args)
	if err != nil {
		res.Error = err
		return res
	}
	res.Payload = json.RawMessage(payload)
	return res
}

// InvocationResult is the outcome of one batch entry.
type InvocationResult struct {
	Index      int
	Invocation Invocation
	Payload    json.RawMessage
	Duration   time.Duration
	Error      error
}

// GetError implements Result.
func (r *InvocationResult) GetError() error {
	return r.Error
}

// BatchProcessor runs invocations concurrently, throttled per contract.
type BatchProcessor struct {
	invoker     Invoker
	limiter     *Limiter
	concurrency int
	log         *zap.Logger
}

// NewBatchProcessor creates a processor with concurrency workers. perSecond
// and burst configure the per-contract limiter; a non-positive perSecond
// disables throttling.
func NewBatchProcessor(invoker Invoker, concurrency int, perSecond float64, burst int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		invoker:     invoker,
		limiter:     NewLimiter(perSecond, burst),
		concurrency: concurrency,
		log:         logger,
	}
}

// SetContractRate throttles one contract differently from the default.
func (b *BatchProcessor) SetContractRate(contract string, perSecond float64, burst int) {
	b.limiter.SetRate(contract, perSecond, burst)
	b.log.Debug("contract rate override",
		zap.String("contract", contract), zap.Float64("rate", perSecond), zap.Int("burst", burst))
}

// Process runs every invocation and returns the results in input order.
// Invocations still queued when ctx is cancelled report ctx.Err().
func (b *BatchProcessor) Process(ctx context.Context, invocations []Invocation) []*InvocationResult {
	results := make([]*InvocationResult, len(invocations))
	if len(invocations) == 0 {
		return results
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range pool.Results() {
			res := r.(*InvocationResult)
			results[res.Index] = res
		}
	}()

	for i, inv := range invocations {
		job := &InvocationJob{Index: i, Invocation: inv, Invoker: b.invoker, Limiter: b.limiter}
		if !pool.Submit(job) {
			break
		}
	}
	pool.Close()
	<-done

	failed := 0
	for i, res := range results {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &InvocationResult{Index: i, Invocation: invocations[i], Error: err}
		}
		if results[i].Error != nil {
			failed++
		}
	}
	b.log.Info("batch finished", zap.Int("invocations", len(invocations)), zap.Int("failed", failed))
	return results
}

// ProcessFile reads a YAML batch file and runs it.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*InvocationResult, error) {
	invocations, err := ReadInvocationsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read invocations: %w", err)
	}

	return b.Process(ctx, invocations), nil
}

// ReadInvocationsFromFile loads a batch file of the form
//
//	invocations:
//	  - contract: SourceContract
//	    function: createSource
//	    args: ["The Daily Planet", "0.5", "0.1"]
func ReadInvocationsFromFile(filePath string) ([]Invocation, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return ParseInvocations(data)
}

// ParseInvocations decodes batch YAML. Entries must name both a contract and
// a function.
func ParseInvocations(data []byte) ([]Invocation, error) {
	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}

	for i, inv := range file.Invocations {
		if inv.Contract == "" || inv.Function == "" {
			return nil, fmt.Errorf("invocation %d: contract and function are required", i+1)
		}
	}
	if file.Invocations == nil {
		return []Invocation{}, nil
	}
	return file.Invocations, nil
}

// Summary counts results per outcome, sorted by contract and function.
type Summary struct {
	Contract  string
	Function  string
	Succeeded int
	Failed    int
}

// Summarize groups results by contract and function.
func Summarize(results []*InvocationResult) []Summary {
	index := make(map[[2]string]*Summary)
	for _, res := range results {
		k := [2]string{res.Invocation.Contract, res.Invocation.Function}
		s, ok := index[k]
		if !ok {
			s = &Summary{Contract: k[0], Function: k[1]}
			index[k] = s
		}
		if res.Error != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}

	out := make([]Summary, 0, len(index))
	for _, s := range index {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Contract != out[j].Contract {
			return out[i].Contract < out[j].Contract
		}
		return out[i].Function < out[j].Function
	})
	return out
}
