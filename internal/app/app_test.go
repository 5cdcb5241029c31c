package app

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RyanBlaney/dance-advisor/configs"
	"github.com/RyanBlaney/dance-advisor/internal/style"
	"github.com/RyanBlaney/dance-advisor/internal/tempo"
	"github.com/RyanBlaney/sonido-sonar/transcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func withPipeline(bpm float64) pipelineOption {
	return func(cfg *tempo.ExtractorConfig) {
		cfg.Decode = func(path string) (*transcode.AudioData, error) {
			return &transcode.AudioData{PCM: []float64{0.1, -0.1, 0.2}, SampleRate: 22050}, nil
		}
		cfg.Estimate = func(pcm []float64, sampleRate int) (float64, error) {
			return bpm, nil
		}
	}
}

func newTestApp(t *testing.T, ctx *Context, opts ...pipelineOption) (*AdvisorApp, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	if ctx.Config == nil {
		ctx.Config = configs.GetDefaultConfig()
	}
	ctx.Stdout = &buf
	ctx.Quiet = true

	app, err := newAdvisorApp(ctx, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	return app, &buf
}

func writeAudio(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestSuggestText(t *testing.T) {
	app, buf := newTestApp(t, &Context{OutputFormat: "text", NoColor: true})

	suggestion, err := app.Suggest(95, "Ballet")
	require.NoError(t, err)

	assert.Equal(t, style.KeyBallet, suggestion.Key)
	out := buf.String()
	assert.Contains(t, out, "Estimated tempo: 95.00 BPM")
	assert.Contains(t, out, suggestion.Style)
	assert.Contains(t, out, suggestion.PrimaryVideo)
	assert.Contains(t, out, suggestion.ShopLink)
	assert.NotContains(t, out, ColorReset)
}

func TestSuggestFallbackWarns(t *testing.T) {
	app, buf := newTestApp(t, &Context{OutputFormat: "text", NoColor: true})

	suggestion, err := app.Suggest(100, "Polka")
	require.NoError(t, err)

	assert.True(t, suggestion.Fallback)
	assert.Equal(t, style.KeyAutoMid, suggestion.Key)
	assert.Contains(t, buf.String(), "not in the catalog")
}

func TestSuggestJSON(t *testing.T) {
	app, buf := newTestApp(t, &Context{OutputFormat: "json"})

	suggestion, err := app.Suggest(130, "")
	require.NoError(t, err)

	assert.Equal(t, style.KeyAutoUpbeat, suggestion.Key)
	assert.Contains(t, buf.String(), string(style.KeyAutoUpbeat))
}

func TestSuggestRejectsInvalidTempo(t *testing.T) {
	app, buf := newTestApp(t, &Context{OutputFormat: "text"})

	for _, bpm := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := app.Suggest(bpm, "")
		assert.Error(t, err)
	}
	assert.Empty(t, buf.String())
}

func TestAnalyzeFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeAudio(t, dir, "one.mp3", []byte("first track")),
		writeAudio(t, dir, "two.wav", []byte("second track")),
	}

	app, buf := newTestApp(t, &Context{OutputFormat: "json", Genre: "Latin/Ballroom"}, withPipeline(128))

	summary, err := app.Analyze(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 0, summary.Failed)
	for i, item := range summary.Items {
		assert.Equal(t, paths[i], item.Path)
		require.NotNil(t, item.Suggestion)
		assert.Equal(t, style.KeyLatinBallroomFast, item.Suggestion.Key)
		assert.InDelta(t, 128.0, item.Analysis.BPM, 1e-9)
	}
	assert.NotEmpty(t, buf.String())
}

func TestMetricsLogDisabledByDefault(t *testing.T) {
	app, _ := newTestApp(t, &Context{OutputFormat: "json"})

	assert.False(t, app.configureMetricsLog())
}

func TestAnalyzeWritesMetricsLog(t *testing.T) {
	dir := t.TempDir()
	path := writeAudio(t, dir, "song.mp3", []byte("audio"))
	logFile := filepath.Join(t.TempDir(), "metrics.log")

	app, _ := newTestApp(t, &Context{OutputFormat: "json", Genre: "Soca", MetricsLogFile: logFile}, withPipeline(150))
	require.True(t, app.Config().Metrics.Enabled)
	assert.Equal(t, logFile, app.Config().Metrics.LogFile)

	_, err := app.Analyze(context.Background(), []string{path})
	require.NoError(t, err)

	assert.True(t, app.configureMetricsLog())
	assert.Eventually(t, func() bool {
		_, statErr := os.Stat(logFile)
		return statErr == nil
	}, 2*time.Second, 20*time.Millisecond)
}

func TestAnalyzeTextReport(t *testing.T) {
	dir := t.TempDir()
	path := writeAudio(t, dir, "song.flac", []byte("audio"))

	app, buf := newTestApp(t, &Context{OutputFormat: "text", NoColor: true}, withPipeline(70))

	_, err := app.Analyze(context.Background(), []string{path})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "song.flac")
	assert.Contains(t, out, "Estimated tempo: 70.00 BPM")
	assert.NotContains(t, out, "Summary")
}

func TestAnalyzeAllFailed(t *testing.T) {
	dir := t.TempDir()
	path := writeAudio(t, dir, "empty.mp3", nil)

	app, buf := newTestApp(t, &Context{OutputFormat: "text", NoColor: true}, withPipeline(120))

	summary, err := app.Analyze(context.Background(), []string{path})
	require.Error(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, strings.ToLower(tempo.CodeEmpty), summary.Items[0].ErrorCategory)
	assert.Contains(t, buf.String(), "no audio data")
}

func TestAnalyzeWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeAudio(t, dir, "track.mp3", []byte("audio"))
	outFile := filepath.Join(dir, "reports", "run.json")

	app, buf := newTestApp(t, &Context{OutputFormat: "json", OutputFile: outFile}, withPipeline(90))

	_, err := app.Analyze(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), string(style.KeyAutoMid))
}

func TestShowCatalog(t *testing.T) {
	app, buf := newTestApp(t, &Context{OutputFormat: "text", NoColor: true})

	require.NoError(t, app.ShowCatalog())

	out := buf.String()
	for _, label := range style.Labels() {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, string(style.KeySoca))
}

func TestLoadConfigFileOverlay(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "advisor.yaml")
	require.NoError(t, os.WriteFile(file, []byte("tempo:\n  method: onset\n  timeout: 15s\nbatch:\n  max_concurrent: 4\n"), 0644))

	cfg, err := loadAndMergeConfig(&Context{ConfigFile: file, Config: configs.GetDefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, "onset", cfg.Tempo.Method)
	assert.Equal(t, "15s", cfg.Tempo.Timeout.String())
	assert.Equal(t, 4, cfg.Batch.MaxConcurrent)
	assert.Equal(t, configs.DefaultMaxUploadBytes, cfg.Tempo.MaxUploadBytes)
	assert.Equal(t, configs.DefaultVideoSearchURL, cfg.Search.VideoSearchURL)
}

func TestLoadConfigFileJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "advisor.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"search": {"qualifier": "dance class"}}`), 0644))

	cfg, err := loadAndMergeConfig(&Context{ConfigFile: file, Config: configs.GetDefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, "dance class", cfg.Search.Qualifier)
	assert.Equal(t, configs.DefaultShopURL, cfg.Search.ShopURL)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadAndMergeConfig(&Context{ConfigFile: "/nonexistent/advisor.yaml", Config: configs.GetDefaultConfig()})
	assert.Error(t, err)
}

func TestMergeOverridesAndValidation(t *testing.T) {
	cfg, err := loadAndMergeConfig(&Context{
		Config:         configs.GetDefaultConfig(),
		OutputFormat:   "yaml",
		Method:         "combined",
		MaxConcurrent:  6,
		MetricsLogFile: "/tmp/dance-metrics.log",
		ListenAddr:     ":9090",
	})
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, "combined", cfg.Tempo.Method)
	assert.Equal(t, 6, cfg.Batch.MaxConcurrent)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	_, err = loadAndMergeConfig(&Context{Config: configs.GetDefaultConfig(), Method: "guess"})
	assert.Error(t, err)
}

func TestGenerateAndValidateExampleConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "dance-advisor.yaml")

	require.NoError(t, GenerateExampleConfig(file))
	require.NoError(t, ValidateConfigFile(file))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "video_search_url")
}

func TestExportCatalog(t *testing.T) {
	dir := t.TempDir()

	yamlFile := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, ExportCatalog(yamlFile, nil))

	data, err := os.ReadFile(yamlFile)
	require.NoError(t, err)

	var doc catalogDocument
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, style.Labels(), doc.Genres)
	assert.Len(t, doc.Entries, style.DefaultCatalog().Len())

	jsonFile := filepath.Join(dir, "catalog.json")
	require.NoError(t, ExportCatalog(jsonFile, nil))

	data, err = os.ReadFile(jsonFile)
	require.NoError(t, err)

	var jsonDoc catalogDocument
	require.NoError(t, json.Unmarshal(data, &jsonDoc))
	assert.Equal(t, doc.Entries[style.KeyTap], jsonDoc.Entries[style.KeyTap])
}

func TestSanitizeForJSON(t *testing.T) {
	type stats struct {
		Mean  float64 `json:"mean"`
		Max   float64 `json:"max,omitempty"`
		Inner error   `json:"-"`
	}

	out := sanitizeForJSON(map[string]any{
		"stats":  &stats{Mean: math.NaN(), Max: math.Inf(1)},
		"values": []float64{1, math.NaN()},
		"name":   "run",
	}).(map[string]any)

	s := out["stats"].(map[string]any)
	assert.Equal(t, 0.0, s["mean"])
	assert.Equal(t, 0.0, s["max"])
	assert.NotContains(t, s, "Inner")
	assert.Equal(t, []any{1.0, 0.0}, out["values"])
	assert.Equal(t, "run", out["name"])

	_, err := json.Marshal(out)
	assert.NoError(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, parseLevel("DEBUG"), parseLevel("debug"))
	assert.NotEqual(t, parseLevel("debug"), parseLevel("info"))
	assert.Equal(t, parseLevel("info"), parseLevel("unknown"))
	assert.Equal(t, parseLevel("warn"), parseLevel("warning"))
}
