package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveMethod string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

Endpoints:
  GET  /health        liveness probe
  GET  /v1/genres     genre selector options
  POST /v1/suggest    {"bpm": 128, "genre": "Soca"}
  POST /v1/analyze    multipart upload with an "audio" file and optional "genre"
  GET  /metrics       Prometheus metrics

Examples:
  dance-advisor serve --addr :9000

  curl -F audio=@song.mp3 -F genre=Tap http://localhost:9000/v1/analyze`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default :8080)")
	serveCmd.Flags().StringVarP(&serveMethod, "method", "m", "",
		"tempo method (autocorrelation, onset, combined)")
}

func runServe(cmd *cobra.Command, args []string) error {
	appCtx := newAppContext()
	appCtx.ListenAddr = serveAddr
	appCtx.Method = serveMethod

	advisor, err := newAdvisor(appCtx)
	if err != nil {
		return err
	}
	defer advisor.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return advisor.Serve(ctx)
}
