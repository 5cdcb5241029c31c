package tempo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/dance-advisor/configs"
	"github.com/RyanBlaney/dance-advisor/internal/metrics"
	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/sonido-sonar/algorithms/temporal"
	"github.com/RyanBlaney/sonido-sonar/transcode"
)

// Method selects how BPM is estimated from decoded PCM
type Method string

const (
	MethodAutocorrelation Method = "autocorrelation"
	MethodOnset           Method = "onset"
	MethodCombined        Method = "combined"
)

const defaultSuffix = ".mp3"

// DecodeFunc decodes an audio file on disk into PCM
type DecodeFunc func(path string) (*transcode.AudioData, error)

// EstimateFunc estimates BPM from mono PCM
type EstimateFunc func(pcm []float64, sampleRate int) (float64, error)

// Result is the outcome of one tempo extraction
type Result struct {
	Name       string        `json:"name,omitempty" yaml:"name,omitempty"`
	BPM        float64       `json:"bpm" yaml:"bpm"`
	SampleRate int           `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	Duration   time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	Method     Method        `json:"method" yaml:"method"`
	Cached     bool          `json:"cached" yaml:"cached"`
	Elapsed    time.Duration `json:"elapsed" yaml:"elapsed"`
}

// ExtractorConfig contains configuration for the tempo extractor
type ExtractorConfig struct {
	MaxUploadBytes int64
	Timeout        time.Duration
	TempDir        string
	SampleRate     int
	Method         Method
	Normalize      bool
	FFmpegPath     string
	FFprobePath    string

	Cache  Cache
	Logger logging.Logger

	// Decode and Estimate replace the sonido-sonar pipeline when set
	Decode   DecodeFunc
	Estimate EstimateFunc
}

// NewExtractorConfig maps tempo settings onto an extractor config
func NewExtractorConfig(cfg configs.TempoConfig) *ExtractorConfig {
	return &ExtractorConfig{
		MaxUploadBytes: cfg.MaxUploadBytes,
		Timeout:        cfg.Timeout,
		TempDir:        cfg.TempDir,
		SampleRate:     cfg.SampleRate,
		Method:         Method(cfg.Method),
		Normalize:      cfg.Normalize,
		FFmpegPath:     cfg.FFmpegPath,
		FFprobePath:    cfg.FFprobePath,
	}
}

// Extractor turns an audio payload into a BPM estimate
type Extractor struct {
	maxUploadBytes int64
	tempDir        string
	method         Method
	cache          Cache
	logger         logging.Logger
	decode         DecodeFunc
	estimate       EstimateFunc
}

// NewExtractor creates a new tempo extractor
func NewExtractor(config *ExtractorConfig) *Extractor {
	logger := config.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	method := config.Method
	if method == "" {
		method = MethodAutocorrelation
	}

	decode := config.Decode
	if decode == nil {
		decode = newSonidoDecoder(config)
	}

	estimate := config.Estimate
	if estimate == nil {
		estimate = newSonidoEstimator(method)
	}

	return &Extractor{
		maxUploadBytes: config.MaxUploadBytes,
		tempDir:        config.TempDir,
		method:         method,
		cache:          config.Cache,
		logger:         logger,
		decode:         decode,
		estimate:       estimate,
	}
}

func newSonidoDecoder(config *ExtractorConfig) DecodeFunc {
	decoderConfig := transcode.DefaultDecoderConfig()
	if config.SampleRate > 0 {
		decoderConfig.TargetSampleRate = config.SampleRate
	}
	decoderConfig.TargetChannels = 1
	if config.Timeout > 0 {
		decoderConfig.Timeout = config.Timeout
	}
	if config.FFmpegPath != "" {
		decoderConfig.FFmpegPath = config.FFmpegPath
	}
	if config.FFprobePath != "" {
		decoderConfig.FFprobePath = config.FFprobePath
	}
	decoderConfig.EnableNormalization = config.Normalize

	decoder := transcode.NewDecoder(decoderConfig)
	return decoder.DecodeFile
}

func newSonidoEstimator(method Method) EstimateFunc {
	te := temporal.NewTempoEstimation()

	switch method {
	case MethodOnset:
		return te.EstimateTempo
	case MethodCombined:
		return func(pcm []float64, sampleRate int) (float64, error) {
			onset, err := te.EstimateTempo(pcm, sampleRate)
			if err != nil {
				return 0, err
			}
			acf := te.EstimateTempoAutocorrelation(pcm, sampleRate)

			switch {
			case onset > 0 && acf > 0:
				return (onset + acf) / 2, nil
			case onset > 0:
				return onset, nil
			default:
				return acf, nil
			}
		}
	default:
		return func(pcm []float64, sampleRate int) (float64, error) {
			return te.EstimateTempoAutocorrelation(pcm, sampleRate), nil
		}
	}
}

// Extract estimates the tempo of an audio payload. name is used only for
// the temp file suffix and error messages. The temp file is removed before
// Extract returns.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) (result *Result, err error) {
	start := time.Now()
	defer func() {
		switch {
		case err != nil:
			metrics.TempoAnalyses.WithLabelValues(metrics.OutcomeFailure).Inc()
		case result.Cached:
			metrics.TempoAnalyses.WithLabelValues(metrics.OutcomeCached).Inc()
		default:
			metrics.TempoAnalyses.WithLabelValues(metrics.OutcomeSuccess).Inc()
			metrics.TempoAnalysisDuration.WithLabelValues(string(e.method)).Observe(time.Since(start).Seconds())
		}
	}()

	if len(data) == 0 {
		return nil, NewDecodingError(CodeEmpty, name, "no audio data", ErrEmptyAudio)
	}
	if e.maxUploadBytes > 0 && int64(len(data)) > e.maxUploadBytes {
		return nil, NewDecodingError(CodeTooLarge, name,
			fmt.Sprintf("%d bytes exceeds limit of %d", len(data), e.maxUploadBytes), ErrAudioTooLarge)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewDecodingError(CodeCancelled, name, "analysis cancelled", err)
	}

	cacheKey := ContentKey(string(e.method), data)
	if bpm, ok := e.lookupCache(ctx, cacheKey); ok {
		e.logger.Debug("Tempo cache hit", logging.Fields{
			"name": name,
			"bpm":  bpm,
		})
		return &Result{
			Name:    name,
			BPM:     bpm,
			Method:  e.method,
			Cached:  true,
			Elapsed: time.Since(start),
		}, nil
	}

	audio, err := e.decodeScoped(name, data)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, NewDecodingError(CodeCancelled, name, "analysis cancelled", err)
	}

	bpm, err := e.estimate(audio.PCM, audio.SampleRate)
	if err != nil {
		return nil, NewDecodingError(CodeNoTempo, name, "tempo estimation failed", err)
	}
	if !validTempo(bpm) {
		return nil, NewDecodingError(CodeNoTempo, name, "no beat detected", ErrNoTempo)
	}

	e.storeCache(ctx, cacheKey, bpm)

	result = &Result{
		Name:       name,
		BPM:        bpm,
		SampleRate: audio.SampleRate,
		Duration:   audio.Duration,
		Method:     e.method,
		Elapsed:    time.Since(start),
	}

	e.logger.Debug("Tempo extracted", logging.Fields{
		"name":        name,
		"bpm":         bpm,
		"method":      string(e.method),
		"sample_rate": audio.SampleRate,
		"duration_s":  audio.Duration.Seconds(),
		"elapsed_ms":  result.Elapsed.Milliseconds(),
	})

	return result, nil
}

// ExtractFile reads a file from disk and extracts its tempo
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat audio file: %w", err)
	}
	if e.maxUploadBytes > 0 && info.Size() > e.maxUploadBytes {
		return nil, NewDecodingError(CodeTooLarge, filepath.Base(path),
			fmt.Sprintf("%d bytes exceeds limit of %d", info.Size(), e.maxUploadBytes), ErrAudioTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	return e.Extract(ctx, filepath.Base(path), data)
}

// decodeScoped writes data to a temp file, decodes it and removes the file
// on every path
func (e *Extractor) decodeScoped(name string, data []byte) (*transcode.AudioData, error) {
	tmp, err := os.CreateTemp(e.tempDir, "dance-advisor-*"+suffixFor(name))
	if err != nil {
		return nil, NewDecodingError(CodeTempFile, name, "failed to create temp file", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			e.logger.Warn("Failed to remove temp file", logging.Fields{
				"path":  tmpPath,
				"error": rmErr.Error(),
			})
		}
	}()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		return nil, NewDecodingError(CodeTempFile, name, "failed to write temp file", writeErr)
	}
	if closeErr != nil {
		return nil, NewDecodingError(CodeTempFile, name, "failed to write temp file", closeErr)
	}

	audio, err := e.decode(tmpPath)
	if err != nil {
		return nil, NewDecodingError(CodeDecode, name, "failed to decode audio", err)
	}
	if audio == nil || len(audio.PCM) == 0 || audio.SampleRate <= 0 {
		return nil, NewDecodingError(CodeDecode, name, "decoder returned no samples", ErrNoTempo)
	}

	return audio, nil
}

// validTempo reports whether bpm is a finite positive tempo
func validTempo(bpm float64) bool {
	return !math.IsNaN(bpm) && !math.IsInf(bpm, 0) && bpm > 0
}

func (e *Extractor) lookupCache(ctx context.Context, key string) (float64, bool) {
	if e.cache == nil {
		return 0, false
	}

	bpm, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		metrics.TempoCacheLookups.WithLabelValues(metrics.CacheError).Inc()
		e.logger.Warn("Tempo cache lookup failed", logging.Fields{
			"error": err.Error(),
		})
		return 0, false
	}
	if !ok || !validTempo(bpm) {
		metrics.TempoCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return 0, false
	}

	metrics.TempoCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
	return bpm, true
}

func (e *Extractor) storeCache(ctx context.Context, key string, bpm float64) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, key, bpm); err != nil {
		e.logger.Warn("Tempo cache store failed", logging.Fields{
			"error": err.Error(),
		})
	}
}

// suffixFor keeps the upload's extension so ffprobe can sniff the container
func suffixFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".mp3", ".wav", ".flac", ".ogg", ".m4a", ".aac", ".opus":
		return ext
	default:
		return defaultSuffix
	}
}
