package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RyanBlaney/dance-advisor/configs"
	"github.com/RyanBlaney/dance-advisor/internal/style"
	"github.com/RyanBlaney/dance-advisor/internal/tempo"
	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/google/uuid"
)

// Analyzer extracts a tempo from a file on disk
type Analyzer interface {
	ExtractFile(ctx context.Context, path string) (*tempo.Result, error)
}

// Orchestrator runs the tempo-then-style pipeline over several files
type Orchestrator struct {
	analyzer      Analyzer
	resolver      *style.Resolver
	maxConcurrent int
	timeout       time.Duration
	logger        logging.Logger
	stats         *StatsCalculator
}

// NewOrchestrator creates a new batch orchestrator
func NewOrchestrator(analyzer Analyzer, resolver *style.Resolver, cfg configs.BatchConfig, logger logging.Logger) (*Orchestrator, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &Orchestrator{
		analyzer:      analyzer,
		resolver:      resolver,
		maxConcurrent: maxConcurrent,
		timeout:       cfg.Timeout,
		logger:        logger,
		stats:         NewStatsCalculator(logger),
	}, nil
}

// Run analyzes every path and resolves a suggestion for each. Per-file
// failures are recorded on their item; Run only fails when there is
// nothing to do. Items keep the order of paths.
func (o *Orchestrator) Run(ctx context.Context, paths []string, genre string) (*Summary, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no audio files given")
	}

	startTime := time.Now()
	runID := uuid.New().String()

	o.logger.Debug("Starting batch analysis", logging.Fields{
		"run_id":         runID,
		"files":          len(paths),
		"genre":          genre,
		"max_concurrent": o.maxConcurrent,
	})

	runCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	items := make([]*Item, len(paths))
	sem := make(chan struct{}, o.maxConcurrent)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-runCtx.Done():
				items[idx] = o.failedItem(path, runCtx.Err(), 0)
				return
			}

			items[idx] = o.analyzeOne(runCtx, path, genre)
		}(i, path)
	}

	wg.Wait()

	endTime := time.Now()
	summary := &Summary{
		RunID:         runID,
		Genre:         genre,
		Items:         items,
		StartTime:     startTime,
		EndTime:       endTime,
		TotalDuration: endTime.Sub(startTime),
	}

	o.stats.Summarize(summary)

	o.logger.Debug("Batch analysis completed", logging.Fields{
		"run_id":           runID,
		"total_duration_s": summary.TotalDuration.Seconds(),
		"successful":       summary.Successful,
		"failed":           summary.Failed,
	})

	return summary, nil
}

func (o *Orchestrator) analyzeOne(ctx context.Context, path, genre string) *Item {
	start := time.Now()

	result, err := o.analyzer.ExtractFile(ctx, path)
	if err != nil {
		o.logger.Error(err, "Tempo extraction failed", logging.Fields{
			"path": path,
		})
		return o.failedItem(path, err, time.Since(start))
	}

	suggestion := o.resolver.Resolve(result.BPM, genre)

	return &Item{
		JobID:      uuid.New().String(),
		Path:       path,
		Analysis:   result,
		Suggestion: &suggestion,
		Duration:   time.Since(start),
	}
}

func (o *Orchestrator) failedItem(path string, err error, d time.Duration) *Item {
	return &Item{
		JobID:        uuid.New().String(),
		Path:         path,
		Error:        err,
		ErrorMessage: err.Error(),
		Duration:     d,
	}
}
