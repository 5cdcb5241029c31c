package batch

import (
	"time"

	"github.com/RyanBlaney/dance-advisor/internal/style"
	"github.com/RyanBlaney/dance-advisor/internal/tempo"
)

// Item is the analysis of one audio file
type Item struct {
	JobID         string            `json:"job_id" yaml:"job_id"`
	Path          string            `json:"path" yaml:"path"`
	Analysis      *tempo.Result     `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Suggestion    *style.Suggestion `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Error         error             `json:"-" yaml:"-"`
	ErrorMessage  string            `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCategory string            `json:"error_category,omitempty" yaml:"error_category,omitempty"`
	Duration      time.Duration     `json:"duration" yaml:"duration"`
}

// Succeeded reports whether the item produced a suggestion
func (i *Item) Succeeded() bool {
	return i.Error == nil && i.Suggestion != nil
}

// Summary collects the items of one run and their aggregate statistics
type Summary struct {
	RunID         string        `json:"run_id" yaml:"run_id"`
	Genre         string        `json:"genre" yaml:"genre"`
	Items         []*Item       `json:"items" yaml:"items"`
	StartTime     time.Time     `json:"start_time" yaml:"start_time"`
	EndTime       time.Time     `json:"end_time" yaml:"end_time"`
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`

	Successful int `json:"successful" yaml:"successful"`
	Failed     int `json:"failed" yaml:"failed"`

	Tempo              *TempoStats    `json:"tempo" yaml:"tempo"`
	KeyDistribution    map[string]int `json:"key_distribution" yaml:"key_distribution"`
	ErrorDistribution  map[string]int `json:"error_distribution,omitempty" yaml:"error_distribution,omitempty"`
	AnalysisTimeMillis *TempoStats    `json:"analysis_time_ms" yaml:"analysis_time_ms"`
}
