package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/RyanBlaney/dance-advisor/configs"
	"github.com/RyanBlaney/dance-advisor/internal/batch"
	"github.com/RyanBlaney/dance-advisor/internal/server"
	"github.com/RyanBlaney/dance-advisor/internal/style"
	"github.com/RyanBlaney/dance-advisor/internal/tempo"
	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/latency-benchmark-common/output"
	sonidolog "github.com/RyanBlaney/sonido-sonar/logging"
	"github.com/tunein/go-logging/v7/pkg/logger"
	"github.com/tunein/go-logging/v7/pkg/logger/logtypes"
	"github.com/tunein/go-logging/v7/pkg/rootcollector"
	"github.com/tunein/go-logging/v7/pkg/rootlogger"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ConfigFile     string // Configuration file overlaid on the defaults (optional)
	OutputFile     string
	OutputFormat   string
	Genre          string
	Method         string
	Timeout        time.Duration
	MaxConcurrent  int
	MetricsLogFile string
	ListenAddr     string
	Verbose        bool
	Quiet          bool
	NoColor        bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
	Stdout io.Writer
}

// AdvisorApp wires the tempo extractor and style resolver for one command
type AdvisorApp struct {
	ctx       *Context
	config    *configs.Config
	logger    logging.Logger
	resolver  *style.Resolver
	extractor *tempo.Extractor
	cache     tempo.Cache
}

// pipelineOption adjusts the extractor before it is built
type pipelineOption func(*tempo.ExtractorConfig)

// NewAdvisorApp creates a new advisor application
func NewAdvisorApp(ctx *Context) (*AdvisorApp, error) {
	return newAdvisorApp(ctx)
}

func newAdvisorApp(ctx *Context, opts ...pipelineOption) (*AdvisorApp, error) {
	// Set up logging
	log := setupLogging(ctx)
	ctx.Logger = log

	if ctx.Stdout == nil {
		ctx.Stdout = os.Stdout
	}

	// Load configuration
	config, err := loadAndMergeConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	if !ctx.Verbose && !ctx.Quiet {
		log.SetLevel(parseLevel(config.LogLevel))
	}

	resolver, err := style.NewResolver(style.DefaultCatalog(), config.Search, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create style resolver: %w", err)
	}

	app := &AdvisorApp{
		ctx:      ctx,
		config:   config,
		logger:   log,
		resolver: resolver,
	}

	extractorConfig := tempo.NewExtractorConfig(config.Tempo)
	extractorConfig.Logger = log
	if config.Cache.Enabled {
		app.cache = app.connectCache()
		extractorConfig.Cache = app.cache
	}
	for _, opt := range opts {
		opt(extractorConfig)
	}
	app.extractor = tempo.NewExtractor(extractorConfig)

	log.Debug("Advisor application initialized", logging.Fields{
		"config_file":    ctx.ConfigFile,
		"output_format":  config.OutputFormat,
		"tempo_method":   config.Tempo.Method,
		"cache_enabled":  app.cache != nil,
		"max_concurrent": config.Batch.MaxConcurrent,
	})

	return app, nil
}

// connectCache returns a Redis tempo cache, or nil when Redis is unreachable
func (app *AdvisorApp) connectCache() tempo.Cache {
	cache := tempo.NewRedisCache(app.config.Cache)

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := cache.Ping(pingCtx); err != nil {
		app.logger.Warn("Tempo cache unavailable, continuing without it", logging.Fields{
			"address": app.config.Cache.Address,
			"error":   err.Error(),
		})
		cache.Close()
		return nil
	}

	return cache
}

// Close releases the tempo cache connection
func (app *AdvisorApp) Close() error {
	if app.cache != nil {
		return app.cache.Close()
	}
	return nil
}

// Config returns the merged configuration
func (app *AdvisorApp) Config() *configs.Config {
	return app.config
}

// Resolver returns the style resolver
func (app *AdvisorApp) Resolver() *style.Resolver {
	return app.resolver
}

// Analyze extracts the tempo of each file, resolves a suggestion for it and
// writes the report
func (app *AdvisorApp) Analyze(ctx context.Context, paths []string) (*batch.Summary, error) {
	orchestrator, err := batch.NewOrchestrator(app.extractor, app.resolver, app.config.Batch, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch orchestrator: %w", err)
	}

	summary, err := orchestrator.Run(ctx, paths, app.ctx.Genre)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	if err := app.outputResults(summary); err != nil {
		return summary, fmt.Errorf("failed to output results: %w", err)
	}

	app.collectRunMetrics(summary)

	// Return error if every file failed
	if summary.Failed > 0 && summary.Successful == 0 {
		return summary, fmt.Errorf("no tempo could be determined for any of the %d files", summary.Failed)
	}

	return summary, nil
}

// Suggest resolves a suggestion for a known tempo and writes it
func (app *AdvisorApp) Suggest(bpm float64, genre string) (style.Suggestion, error) {
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) || bpm < 0 {
		return style.Suggestion{}, fmt.Errorf("tempo must be a non-negative number, got %v", bpm)
	}

	suggestion := app.resolver.Resolve(bpm, genre)

	var err error
	if app.textOutput() {
		err = app.render(func(p *printer) {
			p.header("Suggestion", fmt.Sprintf("%.2f BPM, %s", bpm, suggestion.Genre))
			p.renderSuggestion(&suggestion)
		})
	} else {
		err = app.writeFormatted(suggestion)
	}
	if err != nil {
		return suggestion, fmt.Errorf("failed to output suggestion: %w", err)
	}

	app.collectSuggestionMetric(suggestion.Genre, suggestion.Key)
	return suggestion, nil
}

// ShowCatalog writes the genre list and catalog entries
func (app *AdvisorApp) ShowCatalog() error {
	catalog := app.resolver.Catalog()

	if app.textOutput() {
		return app.render(func(p *printer) {
			p.renderCatalog(catalog)
		})
	}

	return app.writeFormatted(catalogDocument{
		Genres:  style.Labels(),
		Entries: catalog.Entries(),
	})
}

// Serve runs the HTTP API until ctx is cancelled
func (app *AdvisorApp) Serve(ctx context.Context) error {
	srv, err := server.New(app.extractor, app.resolver, app.config.Server, app.config.Tempo.MaxUploadBytes, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.ListenAndServe(ctx)
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context) logging.Logger {
	log := logging.NewDefaultLogger()

	switch {
	case ctx.Verbose:
		log.SetLevel(logging.DebugLevel)
	case ctx.Quiet:
		log.SetLevel(logging.ErrorLevel)
	}

	// The decoder and tempo estimator log through their own global logger
	if ctx.Verbose {
		sonidolog.SetLevel(sonidolog.DebugLevel)
	} else {
		sonidolog.SetLevel(sonidolog.WarnLevel)
	}

	return log
}

func parseLevel(level string) logging.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logging.DebugLevel
	case "warn", "warning":
		return logging.WarnLevel
	case "error":
		return logging.ErrorLevel
	default:
		return logging.InfoLevel
	}
}

// loadAndMergeConfig loads configuration from files and merges with CLI flags
func loadAndMergeConfig(ctx *Context) (*configs.Config, error) {
	// Load base configuration
	baseConfig := ctx.Config
	if baseConfig == nil {
		var err error
		baseConfig, err = configs.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load base configuration: %w", err)
		}
	}

	config := baseConfig
	if ctx.ConfigFile != "" {
		fileConfig, err := loadAdvisorConfigFromFile(ctx.ConfigFile, baseConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load advisor configuration: %w", err)
		}
		config = fileConfig
	}

	merged := mergeAdvisorConfig(config, ctx)

	if err := configs.ValidateConfig(merged); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return merged, nil
}

func (app *AdvisorApp) textOutput() bool {
	return app.config.OutputFormat == "text"
}

// render builds a human readable report and sends it to the output
func (app *AdvisorApp) render(fn func(p *printer)) error {
	var buf strings.Builder
	fn(&printer{
		w:     &buf,
		color: !app.ctx.NoColor && app.ctx.OutputFile == "",
	})
	return app.emit([]byte(buf.String()))
}

// outputResults handles all result output for an analysis run
func (app *AdvisorApp) outputResults(summary *batch.Summary) error {
	if app.textOutput() {
		return app.render(func(p *printer) {
			p.renderSummary(summary)
		})
	}

	outputData := map[string]any{
		"analysis":  summary,
		"timestamp": time.Now(),
		"configuration": map[string]any{
			"genre":          app.ctx.Genre,
			"tempo_method":   app.config.Tempo.Method,
			"max_concurrent": app.config.Batch.MaxConcurrent,
			"cache_enabled":  app.cache != nil,
		},
	}

	return app.writeFormatted(outputData)
}

// writeFormatted renders data with the configured formatter
func (app *AdvisorApp) writeFormatted(data any) error {
	var formatter output.Formatter
	switch app.config.OutputFormat {
	case "json":
		formatter = &output.JSONFormatter{}
	case "yaml":
		formatter = &output.YAMLFormatter{}
	case "csv":
		formatter = &output.CSVFormatter{}
	case "table":
		formatter = &output.TableFormatter{}
	default:
		formatter = &output.JSONFormatter{}
	}

	formattedData, err := formatter.Format(data, true)
	if err != nil {
		// Statistics of an all-failed run may hold NaN
		if strings.Contains(err.Error(), "unsupported value") {
			formattedData, err = formatter.Format(sanitizeForJSON(data), true)
		}
		if err != nil {
			return fmt.Errorf("failed to format output data: %w", err)
		}
	}

	return app.emit(formattedData)
}

// emit writes to the output file or stdout
func (app *AdvisorApp) emit(data []byte) error {
	if app.ctx.OutputFile != "" {
		return app.writeToFile(data)
	}

	_, err := app.ctx.Stdout.Write(data)
	return err
}

// collectRunMetrics sends per-track metrics to rootcollector
func (app *AdvisorApp) collectRunMetrics(summary *batch.Summary) {
	if summary == nil || !app.configureMetricsLog() {
		return
	}

	for _, item := range summary.Items {
		if !item.Succeeded() {
			rootcollector.Metric("dance.tempo.failure.count", 1, []string{
				"category:" + item.ErrorCategory,
			})
			continue
		}

		tags := []string{
			"genre:" + item.Suggestion.Genre,
			"key:" + string(item.Suggestion.Key),
			"method:" + string(item.Analysis.Method),
		}
		rootcollector.Metric("dance.tempo.analysis.ms", item.Analysis.Elapsed.Milliseconds(), tags)
		rootcollector.Metric("dance.suggestion.count", 1, tags[:2])
	}
}

// collectSuggestionMetric records one resolved suggestion
func (app *AdvisorApp) collectSuggestionMetric(genre string, key style.Key) {
	if !app.configureMetricsLog() {
		return
	}

	rootcollector.Metric("dance.suggestion.count", 1, []string{
		"genre:" + genre,
		"key:" + string(key),
	})
}

// configureMetricsLog points rootlogger at the metrics log file
func (app *AdvisorApp) configureMetricsLog() bool {
	if !app.config.Metrics.Enabled || app.config.Metrics.LogFile == "" {
		return false
	}

	err := rootlogger.Configure(logger.LogOptions{
		Out:          app.config.Metrics.LogFile,
		ReopenSignal: syscall.SIGHUP,
		Level:        logtypes.InfoLevel,
	})
	if err != nil {
		app.logger.Error(err, "Failed configuring metrics log writer", logging.Fields{
			"log_file": app.config.Metrics.LogFile,
		})
		return false
	}

	return true
}

// writeToFile writes data to the specified output file
func (app *AdvisorApp) writeToFile(data []byte) error {
	if err := writeFile(app.ctx.OutputFile, data); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}

// sanitizeForJSON recursively replaces infinite and NaN values with zero
func sanitizeForJSON(data any) any {
	switch v := data.(type) {
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0.0
		}
		return v
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = sanitizeForJSON(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = sanitizeForJSON(val)
		}
		return result
	case time.Time, time.Duration, string, bool, int, int64:
		return v
	default:
		return sanitizeWithReflection(data)
	}
}

// sanitizeWithReflection walks structs, slices and maps by reflection
func sanitizeWithReflection(data any) any {
	if data == nil {
		return nil
	}

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		result := make(map[string]any)
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			fieldType := typ.Field(i)

			if !field.CanInterface() {
				continue
			}

			jsonTag := fieldType.Tag.Get("json")
			if jsonTag == "-" {
				continue
			}
			fieldName := fieldType.Name
			if name, _, _ := strings.Cut(jsonTag, ","); name != "" {
				fieldName = name
			}

			result[fieldName] = sanitizeForJSON(field.Interface())
		}
		return result
	case reflect.Slice:
		if val.IsNil() {
			return nil
		}
		result := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			result[i] = sanitizeForJSON(val.Index(i).Interface())
		}
		return result
	case reflect.Map:
		result := make(map[string]any)
		for _, key := range val.MapKeys() {
			keyStr := fmt.Sprintf("%v", key.Interface())
			result[keyStr] = sanitizeForJSON(val.MapIndex(key).Interface())
		}
		return result
	case reflect.Float64, reflect.Float32:
		f := val.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return 0.0
		}
		return f
	default:
		return val.Interface()
	}
}
