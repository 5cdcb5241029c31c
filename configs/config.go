package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" json:"output_format"`
	ConfigDir    string `mapstructure:"config_dir" yaml:"config_dir" json:"config_dir"`

	// Tempo extraction
	Tempo TempoConfig `mapstructure:"tempo" yaml:"tempo" json:"tempo"`

	// Link generation for suggestions
	Search SearchConfig `mapstructure:"search" yaml:"search" json:"search"`

	// Tempo cache
	Cache CacheConfig `mapstructure:"cache" yaml:"cache" json:"cache"`

	// HTTP server
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Multi-file analysis
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Run metrics
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// TempoConfig contains tempo extraction settings
type TempoConfig struct {
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes" json:"max_upload_bytes"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	TempDir        string        `mapstructure:"temp_dir" yaml:"temp_dir" json:"temp_dir"`
	SampleRate     int           `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
	Method         string        `mapstructure:"method" yaml:"method" json:"method"` // "autocorrelation", "onset", "combined"
	Normalize      bool          `mapstructure:"normalize" yaml:"normalize" json:"normalize"`
	FFmpegPath     string        `mapstructure:"ffmpeg_path" yaml:"ffmpeg_path" json:"ffmpeg_path"`
	FFprobePath    string        `mapstructure:"ffprobe_path" yaml:"ffprobe_path" json:"ffprobe_path"`
}

// SearchConfig contains the fixed bases used to expand catalog queries into links
type SearchConfig struct {
	VideoSearchURL string `mapstructure:"video_search_url" yaml:"video_search_url" json:"video_search_url"`
	Qualifier      string `mapstructure:"qualifier" yaml:"qualifier" json:"qualifier"`
	VideoScope     string `mapstructure:"video_scope" yaml:"video_scope" json:"video_scope"`
	ShopURL        string `mapstructure:"shop_url" yaml:"shop_url" json:"shop_url"`
	InspirationURL string `mapstructure:"inspiration_url" yaml:"inspiration_url" json:"inspiration_url"`
}

// CacheConfig contains tempo cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Address   string        `mapstructure:"address" yaml:"address" json:"address"`
	Password  string        `mapstructure:"password" yaml:"password" json:"password"`
	DB        int           `mapstructure:"db" yaml:"db" json:"db"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix" yaml:"key_prefix" json:"key_prefix"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr" json:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	EnableMetrics   bool          `mapstructure:"enable_metrics" yaml:"enable_metrics" json:"enable_metrics"`
}

// BatchConfig contains multi-file analysis settings
type BatchConfig struct {
	MaxConcurrent int           `mapstructure:"max_concurrent" yaml:"max_concurrent" json:"max_concurrent"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// MetricsConfig contains run metric settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	LogFile string `mapstructure:"log_file" yaml:"log_file" json:"log_file"`
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom loads configuration from the given viper instance, filling
// any unset keys with defaults
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Tempo.MaxUploadBytes <= 0 {
		return fmt.Errorf("tempo max upload bytes must be positive")
	}

	if config.Tempo.Timeout <= 0 {
		return fmt.Errorf("tempo timeout must be positive")
	}

	if config.Tempo.SampleRate <= 0 {
		return fmt.Errorf("tempo sample rate must be positive")
	}

	switch config.Tempo.Method {
	case "autocorrelation", "onset", "combined":
	default:
		return fmt.Errorf("unknown tempo method: %q", config.Tempo.Method)
	}

	if config.Search.VideoSearchURL == "" || config.Search.ShopURL == "" || config.Search.InspirationURL == "" {
		return fmt.Errorf("search base urls must not be empty")
	}

	if config.Cache.Enabled && config.Cache.Address == "" {
		return fmt.Errorf("cache address is required when the cache is enabled")
	}

	if config.Batch.MaxConcurrent <= 0 {
		return fmt.Errorf("batch max concurrent must be positive")
	}

	return nil
}
