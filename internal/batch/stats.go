package batch

import (
	"context"
	"errors"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/RyanBlaney/dance-advisor/internal/tempo"
	"github.com/RyanBlaney/latency-benchmark-common/logging"
)

// TempoStats represents statistical measures of a set of values
type TempoStats struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	P95    float64 `json:"p95" yaml:"p95"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Count  int     `json:"count" yaml:"count"`
}

// StatsCalculator aggregates batch results
type StatsCalculator struct {
	logger logging.Logger
}

// NewStatsCalculator creates a new stats calculator
func NewStatsCalculator(logger logging.Logger) *StatsCalculator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &StatsCalculator{
		logger: logger,
	}
}

// Summarize fills the aggregate fields of a summary from its items
func (sc *StatsCalculator) Summarize(summary *Summary) {
	var bpms, elapsed []float64
	summary.Successful = 0
	summary.Failed = 0
	summary.KeyDistribution = make(map[string]int)
	summary.ErrorDistribution = make(map[string]int)

	for _, item := range summary.Items {
		if !item.Succeeded() {
			summary.Failed++
			category := sc.categorizeError(item.Error)
			item.ErrorCategory = category
			summary.ErrorDistribution[category]++
			continue
		}

		summary.Successful++
		summary.KeyDistribution[string(item.Suggestion.Key)]++
		if item.Analysis != nil {
			bpms = append(bpms, item.Analysis.BPM)
			if !item.Analysis.Cached {
				elapsed = append(elapsed, float64(item.Analysis.Elapsed.Milliseconds()))
			}
		}
	}

	summary.Tempo = sc.calculateStats(bpms)
	summary.AnalysisTimeMillis = sc.calculateStats(elapsed)

	sc.logger.Debug("Batch statistics calculated", logging.Fields{
		"successful": summary.Successful,
		"failed":     summary.Failed,
		"mean_bpm":   summary.Tempo.Mean,
	})
}

// calculateStats calculates statistical measures for a dataset
func (sc *StatsCalculator) calculateStats(data []float64) *TempoStats {
	if len(data) == 0 {
		return &TempoStats{Count: 0}
	}

	sortedData := make([]float64, len(data))
	copy(sortedData, data)
	sort.Float64s(sortedData)

	stats := &TempoStats{
		Count:  len(data),
		Min:    sortedData[0],
		Max:    sortedData[len(sortedData)-1],
		Median: sc.percentile(sortedData, 50),
		P95:    sc.percentile(sortedData, 95),
	}

	sum := 0.0
	for _, value := range data {
		sum += value
	}
	stats.Mean = sum / float64(len(data))

	sumSquaredDiffs := 0.0
	for _, value := range data {
		diff := value - stats.Mean
		sumSquaredDiffs += diff * diff
	}
	stats.StdDev = math.Sqrt(sumSquaredDiffs / float64(len(data)))

	return sc.sanitizeStats(stats)
}

// sanitizeStats replaces infinite and NaN values so the stats serialize
func (sc *StatsCalculator) sanitizeStats(stats *TempoStats) *TempoStats {
	for _, v := range []*float64{&stats.Mean, &stats.Median, &stats.P95, &stats.Min, &stats.Max, &stats.StdDev} {
		if math.IsInf(*v, 0) || math.IsNaN(*v) {
			*v = 0
		}
	}
	return stats
}

// percentile calculates the specified percentile of sorted data
func (sc *StatsCalculator) percentile(sortedData []float64, p float64) float64 {
	if len(sortedData) == 0 {
		return 0
	}

	if len(sortedData) == 1 {
		return sortedData[0]
	}

	index := (p / 100.0) * float64(len(sortedData)-1)

	// If index is not an integer, interpolate
	if index != float64(int(index)) {
		lower := int(math.Floor(index))
		upper := int(math.Ceil(index))

		if upper >= len(sortedData) {
			return sortedData[len(sortedData)-1]
		}

		weight := index - float64(lower)
		return sortedData[lower]*(1-weight) + sortedData[upper]*weight
	}

	return sortedData[int(index)]
}

// categorizeError groups failures for the error distribution
func (sc *StatsCalculator) categorizeError(err error) string {
	if err == nil {
		return "none"
	}

	var de *tempo.DecodingError
	if errors.As(err, &de) {
		return strings.ToLower(de.Code)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return "file"
	}

	return "other"
}
