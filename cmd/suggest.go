package cmd

import (
	"fmt"
	"strconv"

	"github.com/RyanBlaney/dance-advisor/internal/app"
	"github.com/RyanBlaney/dance-advisor/internal/style"
	"github.com/spf13/cobra"
)

var suggestGenre string

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest [flags] <bpm>",
	Short: "Suggest a dance style for a known tempo",
	Long: `Suggest a dance style, routine, tutorials and costume for a tempo you
already know, without analyzing audio.

Examples:
  # Tempo only
  dance-advisor suggest 128

  # With a genre
  dance-advisor suggest --genre Ballet 72

  # As YAML
  dance-advisor suggest -o yaml --genre "Hip-Hop/R&B" 95`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().StringVarP(&suggestGenre, "genre", "g", "",
		"music genre, case-insensitive, common names like salsa or edm accepted (see 'catalog list')")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	bpm, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid tempo %q: %w", args[0], err)
	}

	advisor, err := newAdvisor(newAppContext())
	if err != nil {
		return err
	}
	defer advisor.Close()

	_, err = advisor.Suggest(bpm, style.NormalizeGenre(suggestGenre))
	return err
}

// newAdvisor creates the application for a command
func newAdvisor(appCtx *app.Context) (*app.AdvisorApp, error) {
	advisor, err := app.NewAdvisorApp(appCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return advisor, nil
}
