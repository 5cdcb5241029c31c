package configs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultVideoSearchURL = "https://www.google.com/search"
	DefaultQualifier      = "youtube tutorial"
	DefaultVideoScope     = "tbm=vid"
	DefaultShopURL        = "https://www.amazon.com/s"
	DefaultInspirationURL = "https://www.pinterest.com/search/pins/"

	// 100 MiB
	DefaultMaxUploadBytes int64 = 100 << 20
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Tempo extraction defaults
	if !v.IsSet("tempo.max_upload_bytes") {
		v.Set("tempo.max_upload_bytes", DefaultMaxUploadBytes)
	}
	if !v.IsSet("tempo.timeout") {
		v.Set("tempo.timeout", 60*time.Second)
	}
	if !v.IsSet("tempo.temp_dir") {
		v.Set("tempo.temp_dir", "")
	}
	if !v.IsSet("tempo.sample_rate") {
		v.Set("tempo.sample_rate", 22050)
	}
	if !v.IsSet("tempo.method") {
		v.Set("tempo.method", "autocorrelation")
	}
	if !v.IsSet("tempo.normalize") {
		v.Set("tempo.normalize", false)
	}
	if !v.IsSet("tempo.ffmpeg_path") {
		v.Set("tempo.ffmpeg_path", "ffmpeg")
	}
	if !v.IsSet("tempo.ffprobe_path") {
		v.Set("tempo.ffprobe_path", "ffprobe")
	}

	// Link defaults
	if !v.IsSet("search.video_search_url") {
		v.Set("search.video_search_url", DefaultVideoSearchURL)
	}
	if !v.IsSet("search.qualifier") {
		v.Set("search.qualifier", DefaultQualifier)
	}
	if !v.IsSet("search.video_scope") {
		v.Set("search.video_scope", DefaultVideoScope)
	}
	if !v.IsSet("search.shop_url") {
		v.Set("search.shop_url", DefaultShopURL)
	}
	if !v.IsSet("search.inspiration_url") {
		v.Set("search.inspiration_url", DefaultInspirationURL)
	}

	// Cache defaults
	if !v.IsSet("cache.enabled") {
		v.Set("cache.enabled", false)
	}
	if !v.IsSet("cache.address") {
		v.Set("cache.address", "localhost:6379")
	}
	if !v.IsSet("cache.db") {
		v.Set("cache.db", 0)
	}
	if !v.IsSet("cache.ttl") {
		v.Set("cache.ttl", 24*time.Hour)
	}
	if !v.IsSet("cache.key_prefix") {
		v.Set("cache.key_prefix", "dance-advisor:tempo:")
	}

	// Server defaults
	if !v.IsSet("server.addr") {
		v.Set("server.addr", ":8080")
	}
	if !v.IsSet("server.read_timeout") {
		v.Set("server.read_timeout", 2*time.Minute)
	}
	if !v.IsSet("server.write_timeout") {
		v.Set("server.write_timeout", 2*time.Minute)
	}
	if !v.IsSet("server.shutdown_timeout") {
		v.Set("server.shutdown_timeout", 10*time.Second)
	}
	if !v.IsSet("server.enable_metrics") {
		v.Set("server.enable_metrics", true)
	}

	// Batch defaults
	if !v.IsSet("batch.max_concurrent") {
		v.Set("batch.max_concurrent", 2)
	}
	if !v.IsSet("batch.timeout") {
		v.Set("batch.timeout", 10*time.Minute)
	}

	// Metrics defaults
	if !v.IsSet("metrics.enabled") {
		v.Set("metrics.enabled", false)
	}
	if !v.IsSet("metrics.log_file") {
		v.Set("metrics.log_file", "")
	}

	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "text")
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "text",
		ConfigDir:    filepath.Join(home, ".config", "dance-advisor"),

		Tempo:   GetDefaultTempoConfig(),
		Search:  GetDefaultSearchConfig(),
		Cache:   GetDefaultCacheConfig(),
		Server:  GetDefaultServerConfig(),
		Batch:   GetDefaultBatchConfig(),
		Metrics: MetricsConfig{},
	}
}

// GetDefaultTempoConfig returns default tempo extraction settings
func GetDefaultTempoConfig() TempoConfig {
	return TempoConfig{
		MaxUploadBytes: DefaultMaxUploadBytes,
		Timeout:        60 * time.Second,
		SampleRate:     22050,
		Method:         "autocorrelation",
		Normalize:      false,
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
	}
}

// GetDefaultSearchConfig returns the stock link bases
func GetDefaultSearchConfig() SearchConfig {
	return SearchConfig{
		VideoSearchURL: DefaultVideoSearchURL,
		Qualifier:      DefaultQualifier,
		VideoScope:     DefaultVideoScope,
		ShopURL:        DefaultShopURL,
		InspirationURL: DefaultInspirationURL,
	}
}

// GetDefaultCacheConfig returns default cache settings (disabled)
func GetDefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:   false,
		Address:   "localhost:6379",
		TTL:       24 * time.Hour,
		KeyPrefix: "dance-advisor:tempo:",
	}
}

// GetDefaultServerConfig returns default HTTP server settings
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     2 * time.Minute,
		WriteTimeout:    2 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
		EnableMetrics:   true,
	}
}

// GetDefaultBatchConfig returns default multi-file analysis settings
func GetDefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrent: 2,
		Timeout:       10 * time.Minute,
	}
}
