package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/dance-advisor/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "DANCE_ADVISOR"

var (
	configFile   string
	verbose      bool
	quiet        bool
	noColor      bool
	logLevel     string
	outputFormat string
	outputFile   string
	configDir    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dance-advisor",
	Short: "Dance style, routine and costume suggestions from a song's tempo",
	Long: `Estimate the tempo of a song and suggest a dance style, a routine,
tutorial videos and a costume for it.

Key features:
- Tempo extraction from MP3, WAV and FLAC files
- Genre-aware style selection with a tempo-only fallback
- Tutorial, shopping and inspiration search links
- Multi-file analysis with tempo statistics
- HTTP API with Prometheus metrics
- Optional Redis tempo cache`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"directory searched first for dance-advisor.yaml")

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/dance-advisor/dance-advisor.yaml)")

	// Output and logging flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"only log errors")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text",
		"output format (text, json, yaml, csv, table)")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output-file", "",
		"write results to a file instead of stdout")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("config_dir", rootCmd.PersistentFlags().Lookup("config-dir"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil && configFile == "" {
		fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		os.Exit(1)
	}
	configureSearch(viper.GetViper(), configFile, configDir, home)

	// Environment variable support
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}
}

// configureSearch points v at an explicit config file, or at the search
// paths with dir searched first
func configureSearch(v *viper.Viper, file, dir, home string) {
	if file != "" {
		// Use config file from the flag
		v.SetConfigFile(file)
		return
	}

	if dir != "" {
		v.AddConfigPath(dir)
	}

	// Search config in home directory and /etc
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "dance-advisor"))
	v.AddConfigPath("/etc/dance-advisor")
	v.AddConfigPath("./configs")
	v.SetConfigName("dance-advisor")
	v.SetConfigType("yaml")
}

// initializeConfig initializes configuration after flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	// Bind all flags to viper
	return bindFlags(cmd, viper.GetViper())
}

// bindFlags binds each cobra flag to its associated viper configuration
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variable name
		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				lastErr = err
			}
		}

		// Bind the flag to viper
		if err := v.BindPFlag(f.Name, f); err != nil {
			lastErr = err
		}

		// Bind to environment variable
		if err := v.BindEnv(f.Name, envPrefix+"_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// newAppContext builds the application context shared by every command
func newAppContext() *app.Context {
	return &app.Context{
		ConfigFile:   configFile,
		OutputFile:   outputFile,
		OutputFormat: viper.GetString("output_format"),
		Verbose:      viper.GetBool("verbose"),
		Quiet:        quiet,
		NoColor:      noColor,
	}
}
