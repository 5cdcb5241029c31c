package style

import (
	"strings"

	"golang.org/x/text/cases"
)

// Genre is one of the selector labels a caller may declare for a song
type Genre string

// AutoDetect is the sentinel meaning "no genre, use tempo only"
const AutoDetect Genre = "Auto-Detect (BPM only)"

const (
	Classical           Genre = "Classical"
	Ballet              Genre = "Ballet"
	ContemporaryLyrical Genre = "Contemporary/Lyrical"
	JazzBroadway        Genre = "Jazz/Broadway"
	Tap                 Genre = "Tap"
	HipHopRnB           Genre = "Hip-Hop/R&B"
	AfrobeatDancehall   Genre = "Afrobeat/Dancehall"
	BreakingBBoying     Genre = "Breaking/B-Boying"
	ElectronicPop       Genre = "Electronic/Pop"
	LatinBallroom       Genre = "Latin/Ballroom"
	Soca                Genre = "Soca"
)

// selectorOrder is the order labels are offered to users, sentinel first
var selectorOrder = []Genre{
	AutoDetect,
	Classical,
	Ballet,
	ContemporaryLyrical,
	JazzBroadway,
	Tap,
	HipHopRnB,
	AfrobeatDancehall,
	BreakingBBoying,
	ElectronicPop,
	LatinBallroom,
	Soca,
}

// aliases maps case-folded shorthand to canonical labels
var aliases = map[string]Genre{
	"auto":          AutoDetect,
	"auto-detect":   AutoDetect,
	"none":          AutoDetect,
	"classical":     Classical,
	"contemporary":  ContemporaryLyrical,
	"lyrical":       ContemporaryLyrical,
	"jazz":          JazzBroadway,
	"broadway":      JazzBroadway,
	"hip hop":       HipHopRnB,
	"hip-hop":       HipHopRnB,
	"hiphop":        HipHopRnB,
	"r&b":           HipHopRnB,
	"rnb":           HipHopRnB,
	"afrobeat":      AfrobeatDancehall,
	"afrobeats":     AfrobeatDancehall,
	"dancehall":     AfrobeatDancehall,
	"breaking":      BreakingBBoying,
	"breakdance":    BreakingBBoying,
	"b-boying":      BreakingBBoying,
	"electronic":    ElectronicPop,
	"pop":           ElectronicPop,
	"edm":           ElectronicPop,
	"house":         ElectronicPop,
	"latin":         LatinBallroom,
	"ballroom":      LatinBallroom,
	"salsa":         LatinBallroom,
	"carnival":      Soca,
}

var (
	folder      = cases.Fold()
	foldedIndex = buildFoldedIndex()
)

func buildFoldedIndex() map[string]Genre {
	index := make(map[string]Genre, len(selectorOrder))
	for _, g := range selectorOrder {
		index[folder.String(string(g))] = g
	}
	return index
}

// Genres returns the selector labels in display order, sentinel first
func Genres() []Genre {
	out := make([]Genre, len(selectorOrder))
	copy(out, selectorOrder)
	return out
}

// Labels returns the selector labels as strings
func Labels() []string {
	out := make([]string, len(selectorOrder))
	for i, g := range selectorOrder {
		out[i] = string(g)
	}
	return out
}

// ParseGenre matches a caller-supplied genre against the selector labels.
// Only the empty string selects the sentinel. The boolean is false when the
// input is not exactly one of the labels.
func ParseGenre(s string) (Genre, bool) {
	if s == "" {
		return AutoDetect, true
	}

	for _, g := range selectorOrder {
		if string(g) == s {
			return g, true
		}
	}

	return Genre(s), false
}

// NormalizeGenre maps loosely typed input to a selector label: surrounding
// space is trimmed, then the input is matched case-folded and through the
// alias table. Input that matches nothing is returned trimmed but otherwise
// unchanged so the resolver still reports it as unrecognized.
func NormalizeGenre(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	folded := folder.String(s)
	if g, ok := foldedIndex[folded]; ok {
		return string(g)
	}

	if g, ok := aliases[strings.Join(strings.Fields(folded), " ")]; ok {
		return string(g)
	}

	return s
}

// IsAutoDetect reports whether g selects tempo-only resolution
func (g Genre) IsAutoDetect() bool {
	return g == AutoDetect || g == ""
}

func (g Genre) String() string {
	return string(g)
}
