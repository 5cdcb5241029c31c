package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RyanBlaney/dance-advisor/internal/style"
	"github.com/spf13/cobra"
)

var (
	analyzeGenre         string
	analyzeMethod        string
	analyzeTimeout       time.Duration
	analyzeMaxConcurrent int
	analyzeMetricsLog    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <audio-file>...",
	Short: "Estimate the tempo of audio files and suggest a dance style",
	Long: `Estimate the tempo of one or more audio files and suggest a dance style,
routine, tutorials and costume for each.

Each file is copied to a scoped temporary file, decoded with ffmpeg and
analyzed. The genre picks the style family; leave it empty to choose by
tempo alone.

Examples:
  # Suggest by tempo only
  dance-advisor analyze song.mp3

  # Pick a genre
  dance-advisor analyze --genre "Latin/Ballroom" salsa.wav

  # Analyze a folder of tracks as JSON
  dance-advisor analyze --output json --max-concurrent 4 tracks/*.flac

  # Record per-track metrics for the log shipper
  dance-advisor analyze --metrics-log /var/log/dance-advisor/metrics.log song.mp3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeGenre, "genre", "g", "",
		"music genre, case-insensitive, common names like salsa or edm accepted (see 'catalog list')")
	analyzeCmd.Flags().StringVarP(&analyzeMethod, "method", "m", "",
		"tempo method (autocorrelation, onset, combined)")
	analyzeCmd.Flags().DurationVarP(&analyzeTimeout, "timeout", "t", 0,
		"decode timeout per file")
	analyzeCmd.Flags().IntVar(&analyzeMaxConcurrent, "max-concurrent", 0,
		"files analyzed in parallel")
	analyzeCmd.Flags().StringVar(&analyzeMetricsLog, "metrics-log", "",
		"append run metrics to this log file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
	}

	appCtx := newAppContext()
	appCtx.Genre = style.NormalizeGenre(analyzeGenre)
	appCtx.Method = analyzeMethod
	appCtx.Timeout = analyzeTimeout
	appCtx.MaxConcurrent = analyzeMaxConcurrent
	appCtx.MetricsLogFile = analyzeMetricsLog

	advisor, err := newAdvisor(appCtx)
	if err != nil {
		return err
	}
	defer advisor.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = advisor.Analyze(ctx, args)
	return err
}
