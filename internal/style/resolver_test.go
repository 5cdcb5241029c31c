package style

import (
	"math"
	"strings"
	"testing"

	"github.com/RyanBlaney/dance-advisor/configs"
	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ResolverTestSuite exercises the decision table against the built-in catalog
type ResolverTestSuite struct {
	suite.Suite
	resolver *Resolver
}

func (suite *ResolverTestSuite) SetupSuite() {
	logger := logging.WithFields(logging.Fields{
		"component": "resolver_test_suite",
	})

	r, err := NewResolver(nil, configs.GetDefaultSearchConfig(), logger)
	suite.Require().NoError(err)
	suite.resolver = r
}

func (suite *ResolverTestSuite) TestBucketBoundaries() {
	tests := []struct {
		tempo float64
		want  Key
	}{
		{0, KeyAutoSlow},
		{79.9, KeyAutoSlow},
		{80.0, KeyAutoMid},
		{119.99, KeyAutoMid},
		{120.0, KeyAutoUpbeat},
		{149.99, KeyAutoUpbeat},
		{150.0, KeyAutoFast},
		{300, KeyAutoFast},
		{math.Inf(1), KeyAutoFast},
	}

	for _, tt := range tests {
		got := suite.resolver.Resolve(tt.tempo, "")
		suite.Equal(tt.want, got.Key, "tempo %v", tt.tempo)
		suite.False(got.Fallback)

		viaSentinel := suite.resolver.Resolve(tt.tempo, string(AutoDetect))
		suite.Equal(tt.want, viaSentinel.Key, "tempo %v with sentinel", tt.tempo)
	}

	suite.NotEqual(
		suite.resolver.Resolve(79.9, "").Key,
		suite.resolver.Resolve(80.0, "").Key,
	)
}

func (suite *ResolverTestSuite) TestInvalidTempoIsSlow() {
	suite.Equal(KeyAutoSlow, suite.resolver.Resolve(math.NaN(), "").Key)
	suite.Equal(KeyAutoSlow, suite.resolver.Resolve(-12, "").Key)
	suite.Equal(KeyLatinBallroomSlow, suite.resolver.Resolve(math.NaN(), "Latin/Ballroom").Key)
}

func (suite *ResolverTestSuite) TestTempoSensitiveGenre() {
	suite.Equal(KeyLatinBallroomSlow, suite.resolver.Resolve(119.9, "Latin/Ballroom").Key)
	suite.Equal(KeyLatinBallroomFast, suite.resolver.Resolve(120.0, "Latin/Ballroom").Key)
	suite.Equal(KeyLatinBallroomFast, suite.resolver.Resolve(200, "Latin/Ballroom").Key)
}

func (suite *ResolverTestSuite) TestFixedGenresIgnoreTempo() {
	for g, key := range fixedGenres {
		first := suite.resolver.Resolve(0, string(g))
		suite.Equal(key, first.Key)

		for _, tempo := range []float64{80, 150, 300} {
			got := suite.resolver.Resolve(tempo, string(g))
			first.Tempo = tempo
			suite.Equal(first, got, "genre %s tempo %v", g, tempo)
		}
	}
}

func (suite *ResolverTestSuite) TestIdempotent() {
	for _, g := range Labels() {
		a := suite.resolver.Resolve(128.5, g)
		b := suite.resolver.Resolve(128.5, g)
		suite.Equal(a, b, g)
	}
}

func (suite *ResolverTestSuite) TestUnknownGenreFallsBack() {
	got := suite.resolver.Resolve(175, "Polka")

	suite.Equal(KeyAutoMid, got.Key)
	suite.True(got.Fallback)
	suite.Equal("Polka", got.Genre)
}

func (suite *ResolverTestSuite) TestNonLabelGenresFallBack() {
	for _, genre := range []string{"salsa", "latin", "pop", "edm", "none", "soca", "BALLROOM", " Tap"} {
		for _, tempo := range []float64{70, 125} {
			got := suite.resolver.Resolve(tempo, genre)
			suite.Equal(KeyAutoMid, got.Key, "genre %q", genre)
			suite.True(got.Fallback, "genre %q", genre)
			suite.Equal(genre, got.Genre)
		}
	}
}

func (suite *ResolverTestSuite) TestNormalizedAliasesResolveLikeCanonical() {
	pairs := map[string]Genre{
		"latin":          LatinBallroom,
		"BALLROOM":       LatinBallroom,
		"hip  hop":       HipHopRnB,
		"r&b":            HipHopRnB,
		"soca":           Soca,
		"jazz":           JazzBroadway,
		"tap":            Tap,
		"auto":           AutoDetect,
		"ELECTRONIC/POP": ElectronicPop,
	}

	for alias, canonical := range pairs {
		for _, tempo := range []float64{70, 125} {
			want := suite.resolver.Resolve(tempo, string(canonical))
			got := suite.resolver.Resolve(tempo, NormalizeGenre(alias))
			suite.Equal(want.Key, got.Key, "alias %q", alias)
			suite.False(got.Fallback, "alias %q", alias)
		}
	}
}

func (suite *ResolverTestSuite) TestLinksExpanded() {
	got := suite.resolver.Resolve(100, "Ballet")

	suite.Equal("https://www.youtube.com/watch?v=2r15822t1bY", got.PrimaryVideo)
	suite.Equal([]string{
		"https://www.google.com/search?q=basic+ballet+steps+tutorial+youtube+tutorial&tbm=vid",
		"https://www.google.com/search?q=ballet+warm+up+exercises+youtube+tutorial&tbm=vid",
		"https://www.google.com/search?q=beginner+ballet+class+youtube+tutorial&tbm=vid",
	}, got.SearchLinks)
	suite.Equal("https://www.amazon.com/s?k=ballet+dance+wear", got.ShopLink)
	suite.Equal("https://www.pinterest.com/search/pins/?q=ballet%20costumes%20traditional", got.InspirationLink)

	for _, key := range ReachableKeys() {
		bundle, ok := suite.resolver.Catalog().Lookup(key)
		suite.Require().True(ok)
		for _, link := range suite.resolver.links.VideoSearches(bundle.SearchQueries) {
			suite.NotContains(link, " ")
		}
	}
}

func (suite *ResolverTestSuite) TestPrimaryVideoUnmodified() {
	for _, key := range ReachableKeys() {
		bundle, _ := suite.resolver.Catalog().Lookup(key)
		suite.True(strings.HasPrefix(bundle.PrimaryVideo, "https://www.youtube.com/watch?v="))
	}

	for _, g := range Labels() {
		got := suite.resolver.Resolve(90, g)
		bundle, _ := suite.resolver.Catalog().Lookup(got.Key)
		suite.Equal(bundle.PrimaryVideo, got.PrimaryVideo)
	}
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func TestNewResolverRejectsIncompleteCatalog(t *testing.T) {
	entries := DefaultCatalog().Entries()
	delete(entries, KeyAutoUpbeat)

	_, err := NewResolver(NewCatalog(entries), configs.GetDefaultSearchConfig(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(KeyAutoUpbeat))
}

func TestPackageResolve(t *testing.T) {
	got := Resolve(130, "")
	assert.Equal(t, KeyAutoUpbeat, got.Key)
	assert.Len(t, got.SearchLinks, 3)
}
