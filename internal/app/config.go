package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RyanBlaney/dance-advisor/configs"
	"github.com/RyanBlaney/dance-advisor/internal/style"
	"gopkg.in/yaml.v3"
)

// loadAdvisorConfigFromFile overlays a configuration file onto base. Keys the
// file does not set keep their base values.
func loadAdvisorConfigFromFile(filePath string, base *configs.Config) (*configs.Config, error) {
	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file does not exist: %s", filePath)
	}

	// Determine file format
	ext := filepath.Ext(filePath)
	switch ext {
	case ".yaml", ".yml":
		return loadAdvisorConfigFromYAML(filePath, base)
	case ".json":
		return loadAdvisorConfigFromJSON(filePath, base)
	default:
		// Try YAML first, then JSON
		if cfg, err := loadAdvisorConfigFromYAML(filePath, base); err == nil {
			return cfg, nil
		}
		return loadAdvisorConfigFromJSON(filePath, base)
	}
}

func loadAdvisorConfigFromYAML(filePath string, base *configs.Config) (*configs.Config, error) {
	data, err := readConfigFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML config file: %w", err)
	}

	config := *base
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return &config, nil
}

func loadAdvisorConfigFromJSON(filePath string, base *configs.Config) (*configs.Config, error) {
	data, err := readConfigFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON config file: %w", err)
	}

	config := *base
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	return &config, nil
}

func readConfigFile(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// mergeAdvisorConfig applies command line overrides on top of the loaded
// configuration
func mergeAdvisorConfig(config *configs.Config, ctx *Context) *configs.Config {
	merged := *config

	if ctx.Verbose {
		merged.Verbose = true
	}
	if ctx.OutputFormat != "" {
		merged.OutputFormat = ctx.OutputFormat
	}
	if ctx.Method != "" {
		merged.Tempo.Method = ctx.Method
	}
	if ctx.Timeout > 0 {
		merged.Tempo.Timeout = ctx.Timeout
	}
	if ctx.MaxConcurrent > 0 {
		merged.Batch.MaxConcurrent = ctx.MaxConcurrent
	}
	if ctx.MetricsLogFile != "" {
		merged.Metrics.Enabled = true
		merged.Metrics.LogFile = ctx.MetricsLogFile
	}
	if ctx.ListenAddr != "" {
		merged.Server.Addr = ctx.ListenAddr
	}

	applyAdvisorDefaults(&merged)

	return &merged
}

// applyAdvisorDefaults fills zero values a partial config file may leave behind
func applyAdvisorDefaults(config *configs.Config) {
	tempoDefaults := configs.GetDefaultTempoConfig()
	if config.Tempo.MaxUploadBytes <= 0 {
		config.Tempo.MaxUploadBytes = tempoDefaults.MaxUploadBytes
	}
	if config.Tempo.SampleRate <= 0 {
		config.Tempo.SampleRate = tempoDefaults.SampleRate
	}
	if config.Tempo.Method == "" {
		config.Tempo.Method = tempoDefaults.Method
	}

	searchDefaults := configs.GetDefaultSearchConfig()
	if config.Search.VideoSearchURL == "" {
		config.Search.VideoSearchURL = searchDefaults.VideoSearchURL
	}
	if config.Search.ShopURL == "" {
		config.Search.ShopURL = searchDefaults.ShopURL
	}
	if config.Search.InspirationURL == "" {
		config.Search.InspirationURL = searchDefaults.InspirationURL
	}

	if config.Batch.MaxConcurrent <= 0 {
		config.Batch.MaxConcurrent = configs.GetDefaultBatchConfig().MaxConcurrent
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "text"
	}
}

// GenerateExampleConfig writes the default configuration as YAML
func GenerateExampleConfig(outputFile string) error {
	data, err := yaml.Marshal(configs.GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	if err := writeFile(outputFile, data); err != nil {
		return err
	}

	fmt.Printf("✅ Example configuration written to: %s\n", outputFile)
	return nil
}

// ValidateConfigFile loads a configuration file over the defaults and checks it
func ValidateConfigFile(configFile string) error {
	config, err := loadAdvisorConfigFromFile(configFile, configs.GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	merged := mergeAdvisorConfig(config, &Context{})
	if err := configs.ValidateConfig(merged); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Printf("✅ Configuration is valid: %s\n", configFile)
	fmt.Printf("   - Tempo method: %s\n", merged.Tempo.Method)
	fmt.Printf("   - Max upload: %d bytes\n", merged.Tempo.MaxUploadBytes)
	fmt.Printf("   - Tempo cache enabled: %t\n", merged.Cache.Enabled)

	return nil
}

// catalogDocument is the exported form of a catalog
type catalogDocument struct {
	Genres  []string                          `yaml:"genres" json:"genres"`
	Entries map[style.Key]style.ContentBundle `yaml:"entries" json:"entries"`
}

// ExportCatalog writes the catalog and the genre selector list to a file.
// The format follows the file extension and defaults to YAML.
func ExportCatalog(outputFile string, catalog *style.Catalog) error {
	if catalog == nil {
		catalog = style.DefaultCatalog()
	}

	doc := catalogDocument{
		Genres:  style.Labels(),
		Entries: catalog.Entries(),
	}

	var (
		data []byte
		err  error
	)
	if filepath.Ext(outputFile) == ".json" {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	return writeFile(outputFile, data)
}

// writeFile creates the parent directory and writes data
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
