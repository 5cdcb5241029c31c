package app

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/dance-advisor/internal/batch"
	"github.com/RyanBlaney/dance-advisor/internal/style"
)

// ANSI color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorBold   = "\033[1m"
)

// printer writes the human readable report
type printer struct {
	w     io.Writer
	color bool
}

func (p *printer) c(code string) string {
	if !p.color {
		return ""
	}
	return code
}

func (p *printer) header(title, subject string) {
	fmt.Fprintf(p.w, "%s%s%s%s: %s%s%s\n", p.c(ColorBold), p.c(ColorBlue), title, p.c(ColorReset), p.c(ColorCyan), subject, p.c(ColorReset))
	fmt.Fprintf(p.w, "%s%s%s\n\n", p.c(ColorBlue), strings.Repeat("═", 80), p.c(ColorReset))
}

func (p *printer) step(num int, title string) {
	fmt.Fprintf(p.w, "%s%s%d%s %s%s%s\n", p.c(ColorBold), p.c(ColorPurple), num, p.c(ColorReset), p.c(ColorWhite), title, p.c(ColorReset))
}

func (p *printer) success(format string, args ...any) {
	fmt.Fprintf(p.w, "   %s✓%s %s\n", p.c(ColorGreen), p.c(ColorReset), fmt.Sprintf(format, args...))
}

func (p *printer) warning(format string, args ...any) {
	fmt.Fprintf(p.w, "   %s⚠%s %s\n", p.c(ColorYellow), p.c(ColorReset), fmt.Sprintf(format, args...))
}

func (p *printer) error(format string, args ...any) {
	fmt.Fprintf(p.w, "   %s✗%s %s\n", p.c(ColorRed), p.c(ColorReset), fmt.Sprintf(format, args...))
}

func (p *printer) info(format string, args ...any) {
	fmt.Fprintf(p.w, "   %s•%s %s\n", p.c(ColorCyan), p.c(ColorReset), fmt.Sprintf(format, args...))
}

// renderSuggestion prints one suggestion in the order a dancer reads it
func (p *printer) renderSuggestion(s *style.Suggestion) {
	p.success("Estimated tempo: %.2f BPM", s.Tempo)
	if s.Fallback {
		p.warning("Genre %q is not in the catalog, suggesting by tempo", s.Genre)
	}

	p.step(1, "Dance style")
	fmt.Fprintf(p.w, "      %s\n", s.Style)

	p.step(2, "Routine")
	fmt.Fprintf(p.w, "      %s\n", s.Routine)

	p.step(3, "Tutorials")
	p.info("Featured: %s", s.PrimaryVideo)
	for _, link := range s.SearchLinks {
		p.info("%s", link)
	}

	p.step(4, "Costume")
	fmt.Fprintf(p.w, "      %s\n", s.Costume)
	p.info("Shop: %s", s.ShopLink)
	p.info("Inspiration: %s", s.InspirationLink)
	fmt.Fprintln(p.w)
}

// renderSummary prints every item of a run followed by run statistics
func (p *printer) renderSummary(summary *batch.Summary) {
	for _, item := range summary.Items {
		p.header("Track", filepath.Base(item.Path))
		if !item.Succeeded() {
			p.error("%s", item.ErrorMessage)
			fmt.Fprintln(p.w)
			continue
		}
		if item.Analysis != nil && item.Analysis.Cached {
			p.info("Tempo served from cache")
		}
		p.renderSuggestion(item.Suggestion)
	}

	if len(summary.Items) < 2 {
		return
	}

	p.header("Summary", fmt.Sprintf("%d tracks", len(summary.Items)))
	p.success("Successful: %d", summary.Successful)
	if summary.Failed > 0 {
		p.error("Failed: %d", summary.Failed)
	}
	if summary.Tempo != nil && summary.Tempo.Count > 0 {
		p.info("Tempo mean %.2f, median %.2f, range %.2f to %.2f BPM",
			summary.Tempo.Mean, summary.Tempo.Median, summary.Tempo.Min, summary.Tempo.Max)
	}
	p.info("Total time: %v", summary.TotalDuration)
}

// renderCatalog prints the genre selector and every catalog key
func (p *printer) renderCatalog(catalog *style.Catalog) {
	p.header("Genres", fmt.Sprintf("%d options", len(style.Genres())))
	for i, label := range style.Labels() {
		p.step(i+1, label)
	}
	fmt.Fprintln(p.w)

	p.header("Catalog", fmt.Sprintf("%d entries", catalog.Len()))
	for _, key := range catalog.Keys() {
		bundle, _ := catalog.Lookup(key)
		p.info("%-24s %s", key, bundle.Style)
	}
}
