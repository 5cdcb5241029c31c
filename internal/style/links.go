package style

import (
	"net/url"
	"strings"

	"github.com/RyanBlaney/dance-advisor/configs"
)

// LinkBuilder expands catalog queries into absolute URLs
type LinkBuilder struct {
	videoBase       string
	qualifier       string
	scope           string
	shopBase        string
	inspirationBase string
}

// NewLinkBuilder creates a link builder from search settings. Empty fields
// fall back to the stock bases.
func NewLinkBuilder(cfg configs.SearchConfig) *LinkBuilder {
	def := configs.GetDefaultSearchConfig()
	if cfg.VideoSearchURL == "" {
		cfg.VideoSearchURL = def.VideoSearchURL
	}
	if cfg.ShopURL == "" {
		cfg.ShopURL = def.ShopURL
	}
	if cfg.InspirationURL == "" {
		cfg.InspirationURL = def.InspirationURL
	}

	return &LinkBuilder{
		videoBase:       cfg.VideoSearchURL,
		qualifier:       encodeTerms(cfg.Qualifier),
		scope:           cfg.VideoScope,
		shopBase:        cfg.ShopURL,
		inspirationBase: cfg.InspirationURL,
	}
}

// encodeTerms query-escapes each whitespace-separated term and joins them with '+'
func encodeTerms(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = url.QueryEscape(f)
	}
	return strings.Join(fields, "+")
}

// VideoSearch returns the video-search URL for one query
func (lb *LinkBuilder) VideoSearch(query string) string {
	var sb strings.Builder
	sb.WriteString(lb.videoBase)
	sb.WriteString("?q=")
	sb.WriteString(encodeTerms(query))
	if lb.qualifier != "" {
		sb.WriteString("+")
		sb.WriteString(lb.qualifier)
	}
	if lb.scope != "" {
		sb.WriteString("&")
		sb.WriteString(lb.scope)
	}
	return sb.String()
}

// VideoSearches expands queries in order
func (lb *LinkBuilder) VideoSearches(queries []string) []string {
	links := make([]string, 0, len(queries))
	for _, q := range queries {
		links = append(links, lb.VideoSearch(q))
	}
	return links
}

// Shop returns the costume-shopping URL for a query
func (lb *LinkBuilder) Shop(query string) string {
	return lb.shopBase + "?k=" + url.QueryEscape(query)
}

// Inspiration returns the costume-inspiration URL for a query
func (lb *LinkBuilder) Inspiration(query string) string {
	return lb.inspirationBase + "?q=" + url.PathEscape(query)
}
