package cmd

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/dance-advisor/configs"
	"github.com/RyanBlaney/dance-advisor/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, create and validate configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Load the configuration from defaults, the config file and
DANCE_ADVISOR_* environment variables and display every value.

Examples:
  dance-advisor config show

  dance-advisor --config ./dance-advisor.yaml config show`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Write an example configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.GenerateExampleConfig(args[0])
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ValidateConfigFile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Println("DANCE ADVISOR CONFIGURATION")
	fmt.Println(strings.Repeat("=", 80))

	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	printSection("APPLICATION SETTINGS")
	printKeyValue("Config File", configFileUsed())
	printKeyValue("Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue("Log Level", config.LogLevel)
	printKeyValue("Output Format", config.OutputFormat)
	printKeyValue("Config Directory", orDefault(config.ConfigDir, "(standard search paths)"))

	printSection("TEMPO EXTRACTION")
	printKeyValue("Method", config.Tempo.Method)
	printKeyValue("Max Upload", fmt.Sprintf("%d bytes", config.Tempo.MaxUploadBytes))
	printKeyValue("Timeout", config.Tempo.Timeout.String())
	printKeyValue("Sample Rate", fmt.Sprintf("%d Hz", config.Tempo.SampleRate))
	printKeyValue("Normalize", fmt.Sprintf("%t", config.Tempo.Normalize))
	printKeyValue("Temp Directory", orDefault(config.Tempo.TempDir, "(system default)"))
	printKeyValue("FFmpeg", config.Tempo.FFmpegPath)
	printKeyValue("FFprobe", config.Tempo.FFprobePath)

	printSection("SEARCH LINKS")
	printKeyValue("Video Search", config.Search.VideoSearchURL)
	printKeyValue("Qualifier", config.Search.Qualifier)
	printKeyValue("Video Scope", config.Search.VideoScope)
	printKeyValue("Shop", config.Search.ShopURL)
	printKeyValue("Inspiration", config.Search.InspirationURL)

	printSection("TEMPO CACHE")
	printKeyValue("Enabled", fmt.Sprintf("%t", config.Cache.Enabled))
	if config.Cache.Enabled {
		printKeyValue("Address", config.Cache.Address)
		printKeyValue("DB", fmt.Sprintf("%d", config.Cache.DB))
		printKeyValue("TTL", config.Cache.TTL.String())
		printKeyValue("Key Prefix", config.Cache.KeyPrefix)
	}

	printSection("HTTP SERVER")
	printKeyValue("Address", config.Server.Addr)
	printKeyValue("Read Timeout", config.Server.ReadTimeout.String())
	printKeyValue("Write Timeout", config.Server.WriteTimeout.String())
	printKeyValue("Shutdown Timeout", config.Server.ShutdownTimeout.String())
	printKeyValue("Metrics Endpoint", fmt.Sprintf("%t", config.Server.EnableMetrics))

	printSection("BATCH ANALYSIS")
	printKeyValue("Max Concurrent", fmt.Sprintf("%d", config.Batch.MaxConcurrent))
	printKeyValue("Timeout", config.Batch.Timeout.String())

	printSection("RUN METRICS")
	printKeyValue("Enabled", fmt.Sprintf("%t", config.Metrics.Enabled))
	printKeyValue("Log File", orDefault(config.Metrics.LogFile, "(none)"))

	fmt.Println()
	if err := configs.ValidateConfig(config); err != nil {
		fmt.Println(app.ColorRed + strings.Repeat("-", 80))
		fmt.Printf("CONFIGURATION INVALID: %v\n", err)
		fmt.Println(strings.Repeat("=", 80) + app.ColorReset)
		return err
	}

	fmt.Println(app.ColorGreen + strings.Repeat("-", 80))
	fmt.Println("CONFIGURATION IS VALID")
	fmt.Println(strings.Repeat("=", 80) + app.ColorReset)

	return nil
}

func printSection(title string) {
	fmt.Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("-", len(title)))
}

func printKeyValue(key, value string) {
	if value == "" {
		fmt.Printf("%-35s\n", key)
	} else {
		fmt.Printf("%-35s %s\n", key+":", value)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func configFileUsed() string {
	return orDefault(viper.ConfigFileUsed(), "(defaults only)")
}
