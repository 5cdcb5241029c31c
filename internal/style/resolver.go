package style

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/dance-advisor/configs"
	"github.com/RyanBlaney/dance-advisor/internal/metrics"
	"github.com/RyanBlaney/latency-benchmark-common/logging"
)

// Suggestion is a resolved catalog entry with its links expanded
type Suggestion struct {
	Key             Key      `json:"key" yaml:"key"`
	Genre           string   `json:"genre" yaml:"genre"`
	Tempo           float64  `json:"tempo" yaml:"tempo"`
	Style           string   `json:"style" yaml:"style"`
	Routine         string   `json:"routine" yaml:"routine"`
	Costume         string   `json:"costume" yaml:"costume"`
	PrimaryVideo    string   `json:"primary_video" yaml:"primary_video"`
	SearchLinks     []string `json:"search_links" yaml:"search_links"`
	ShopLink        string   `json:"shop_link" yaml:"shop_link"`
	InspirationLink string   `json:"inspiration_link" yaml:"inspiration_link"`
	Fallback        bool     `json:"fallback" yaml:"fallback"`
}

// bucket is a half-open tempo interval [previous upper, upper)
type bucket struct {
	upper float64
	key   Key
}

var tempoBuckets = []bucket{
	{upper: 80, key: KeyAutoSlow},
	{upper: 120, key: KeyAutoMid},
	{upper: 150, key: KeyAutoUpbeat},
	{upper: math.Inf(1), key: KeyAutoFast},
}

// tempoSplit picks between two variants of one genre around a threshold
type tempoSplit struct {
	threshold float64
	slow      Key
	fast      Key
}

var tempoSensitive = map[Genre]tempoSplit{
	LatinBallroom: {threshold: 120, slow: KeyLatinBallroomSlow, fast: KeyLatinBallroomFast},
}

var fixedGenres = map[Genre]Key{
	Classical:           KeyClassical,
	Ballet:              KeyBallet,
	ContemporaryLyrical: KeyContemporaryLyrical,
	JazzBroadway:        KeyJazzBroadway,
	Tap:                 KeyTap,
	HipHopRnB:           KeyHipHopRnB,
	AfrobeatDancehall:   KeyAfrobeatDancehall,
	BreakingBBoying:     KeyBreakingBBoying,
	ElectronicPop:       KeyElectronicPop,
	Soca:                KeySoca,
}

// BucketFor returns the tempo-only key for t. NaN and negative tempos are slow.
func BucketFor(t float64) Key {
	if math.IsNaN(t) || t < 0 {
		return tempoBuckets[0].key
	}
	for _, b := range tempoBuckets {
		if t < b.upper {
			return b.key
		}
	}
	return tempoBuckets[len(tempoBuckets)-1].key
}

// selection is the normalized input to the decision table
type selection struct {
	tempo float64
	genre Genre
	known bool
}

// rule is one row of the decision table. The first matching row wins.
type rule struct {
	name     string
	matches  func(sel selection) bool
	key      func(sel selection) Key
	fallback bool
}

var decisionTable = []rule{
	{
		name:    "auto-detect",
		matches: func(sel selection) bool { return sel.known && sel.genre.IsAutoDetect() },
		key:     func(sel selection) Key { return BucketFor(sel.tempo) },
	},
	{
		name: "tempo-sensitive",
		matches: func(sel selection) bool {
			_, ok := tempoSensitive[sel.genre]
			return sel.known && ok
		},
		key: func(sel selection) Key {
			split := tempoSensitive[sel.genre]
			if math.IsNaN(sel.tempo) || sel.tempo < split.threshold {
				return split.slow
			}
			return split.fast
		},
	},
	{
		name: "fixed",
		matches: func(sel selection) bool {
			_, ok := fixedGenres[sel.genre]
			return sel.known && ok
		},
		key: func(sel selection) Key { return fixedGenres[sel.genre] },
	},
	{
		name:     "fallback",
		matches:  func(selection) bool { return true },
		key:      func(selection) Key { return KeyAutoMid },
		fallback: true,
	},
}

// ReachableKeys lists every key the decision table can produce
func ReachableKeys() []Key {
	keys := make([]Key, 0, len(tempoBuckets)+2*len(tempoSensitive)+len(fixedGenres))
	for _, b := range tempoBuckets {
		keys = append(keys, b.key)
	}
	for _, split := range tempoSensitive {
		keys = append(keys, split.slow, split.fast)
	}
	for _, k := range fixedGenres {
		keys = append(keys, k)
	}
	return keys
}

// Resolver maps a tempo and an optional genre to a Suggestion
type Resolver struct {
	catalog *Catalog
	links   *LinkBuilder
	logger  logging.Logger
}

// NewResolver creates a resolver. A nil catalog uses the built-in one and a
// nil logger uses the default logger.
func NewResolver(catalog *Catalog, search configs.SearchConfig, logger logging.Logger) (*Resolver, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	if err := catalog.Validate(ReachableKeys()); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return &Resolver{
		catalog: catalog,
		links:   NewLinkBuilder(search),
		logger:  logger,
	}, nil
}

// Resolve selects a catalog entry for the tempo and genre and expands its
// links. It never fails: an unrecognized genre resolves to the mid bucket
// with Fallback set.
func (r *Resolver) Resolve(tempo float64, genre string) Suggestion {
	g, known := ParseGenre(genre)
	sel := selection{tempo: tempo, genre: g, known: known}

	var matched rule
	for _, row := range decisionTable {
		if row.matches(sel) {
			matched = row
			break
		}
	}

	key := matched.key(sel)
	if matched.fallback {
		r.logger.Warn("Unrecognized genre, using tempo default", logging.Fields{
			"genre": genre,
			"tempo": tempo,
			"key":   string(key),
		})
		metrics.GenreFallbacks.Inc()
	}

	// Every reachable key was validated in NewResolver
	bundle, _ := r.catalog.Lookup(key)

	r.logger.Debug("Resolved dance style", logging.Fields{
		"genre": string(g),
		"tempo": tempo,
		"rule":  matched.name,
		"key":   string(key),
	})
	metrics.SuggestionsTotal.WithLabelValues(string(key)).Inc()

	return Suggestion{
		Key:             key,
		Genre:           string(g),
		Tempo:           tempo,
		Style:           bundle.Style,
		Routine:         bundle.Routine,
		Costume:         bundle.Costume,
		PrimaryVideo:    bundle.PrimaryVideo,
		SearchLinks:     r.links.VideoSearches(bundle.SearchQueries),
		ShopLink:        r.links.Shop(bundle.ShopQuery),
		InspirationLink: r.links.Inspiration(bundle.InspirationQuery),
		Fallback:        matched.fallback,
	}
}

// Catalog returns the catalog the resolver reads from
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

var defaultResolver *Resolver

func init() {
	r, err := NewResolver(nil, configs.GetDefaultSearchConfig(), nil)
	if err != nil {
		panic(err)
	}
	defaultResolver = r
}

// Resolve uses the built-in catalog and stock link bases
func Resolve(tempo float64, genre string) Suggestion {
	return defaultResolver.Resolve(tempo, genre)
}
