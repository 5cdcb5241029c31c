package style

import (
	"fmt"
	"slices"
	"sort"
)

// Key selects one catalog entry
type Key string

const (
	KeyClassical           Key = "Classical"
	KeyBallet              Key = "Ballet"
	KeyContemporaryLyrical Key = "Contemporary/Lyrical"
	KeyJazzBroadway        Key = "Jazz/Broadway"
	KeyTap                 Key = "Tap"
	KeyHipHopRnB           Key = "Hip-Hop/R&B"
	KeyAfrobeatDancehall   Key = "Afrobeat/Dancehall"
	KeyBreakingBBoying     Key = "Breaking/B-Boying"
	KeyElectronicPop       Key = "Electronic/Pop"
	KeyLatinBallroomSlow   Key = "Latin/Ballroom_Slow"
	KeyLatinBallroomFast   Key = "Latin/Ballroom_Fast"
	KeySoca                Key = "Soca"

	KeyAutoSlow   Key = "Auto-Detect_Slow"
	KeyAutoMid    Key = "Auto-Detect_Mid"
	KeyAutoUpbeat Key = "Auto-Detect_Upbeat"
	KeyAutoFast   Key = "Auto-Detect_Fast"
)

// ContentBundle is the fixed content shown for one catalog key
type ContentBundle struct {
	Style            string   `json:"style" yaml:"style"`
	Routine          string   `json:"routine" yaml:"routine"`
	Costume          string   `json:"costume" yaml:"costume"`
	PrimaryVideo     string   `json:"primary_video" yaml:"primary_video"`
	SearchQueries    []string `json:"search_queries" yaml:"search_queries"`
	ShopQuery        string   `json:"shop_query" yaml:"shop_query"`
	InspirationQuery string   `json:"inspiration_query" yaml:"inspiration_query"`
}

func (b ContentBundle) clone() ContentBundle {
	b.SearchQueries = slices.Clone(b.SearchQueries)
	return b
}

// Catalog is a read-only mapping from key to bundle. Lookups return copies,
// so a Catalog may be shared between goroutines without locking.
type Catalog struct {
	entries map[Key]ContentBundle
}

// NewCatalog builds a catalog from the given entries. The map is copied.
func NewCatalog(entries map[Key]ContentBundle) *Catalog {
	c := &Catalog{entries: make(map[Key]ContentBundle, len(entries))}
	for k, b := range entries {
		c.entries[k] = b.clone()
	}
	return c
}

// Lookup returns the bundle stored under k
func (c *Catalog) Lookup(k Key) (ContentBundle, bool) {
	b, ok := c.entries[k]
	if !ok {
		return ContentBundle{}, false
	}
	return b.clone(), true
}

// Keys returns every key in the catalog, sorted
func (c *Catalog) Keys() []Key {
	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the whole catalog
func (c *Catalog) Entries() map[Key]ContentBundle {
	out := make(map[Key]ContentBundle, len(c.entries))
	for k, b := range c.entries {
		out[k] = b.clone()
	}
	return out
}

// Validate checks that every required key is present and that each bundle
// is complete
func (c *Catalog) Validate(required []Key) error {
	for _, k := range required {
		if _, ok := c.entries[k]; !ok {
			return fmt.Errorf("catalog is missing key %q", k)
		}
	}

	for _, k := range c.Keys() {
		b := c.entries[k]
		switch {
		case b.Style == "" || b.Routine == "" || b.Costume == "":
			return fmt.Errorf("catalog entry %q has empty text", k)
		case b.PrimaryVideo == "":
			return fmt.Errorf("catalog entry %q has no primary video", k)
		case len(b.SearchQueries) < 2 || len(b.SearchQueries) > 4:
			return fmt.Errorf("catalog entry %q has %d search queries, want 2-4", k, len(b.SearchQueries))
		case b.ShopQuery == "" || b.InspirationQuery == "":
			return fmt.Errorf("catalog entry %q has no costume queries", k)
		}
	}

	return nil
}

var defaultCatalog = NewCatalog(map[Key]ContentBundle{
	KeyClassical: {
		PrimaryVideo: "https://www.youtube.com/watch?v=sKq2u-gY1gU",
		SearchQueries: []string{
			"classical dance techniques tutorial",
			"classical ballet choreography slow",
			"lyrical classical music dance",
		},
		Style:            "Timeless Classical music invites elegant and flowing movements. 🎻",
		Routine:          "Focus on controlled, expressive movements and musicality. Think orchestral grandiosity translated into graceful motion.",
		Costume:          "Formal and sophisticated attire, suitable for orchestral or traditional classical performance.",
		ShopQuery:        "classical orchestra concert wear",
		InspirationQuery: "classical music performance attire",
	},
	KeyBallet: {
		PrimaryVideo: "https://www.youtube.com/watch?v=2r15822t1bY",
		SearchQueries: []string{
			"basic ballet steps tutorial",
			"ballet warm up exercises",
			"beginner ballet class",
		},
		Style:            "Graceful and precise Ballet. 🩰",
		Routine:          "Emphasize turnout, pointed feet, and ethereal quality. Focus on pliés, relevés, and elegant arm lines. Suitable for both classical and neoclassical styles.",
		Costume:          "Traditional ballet attire: leotard, tights, ballet shoes (pointe shoes if applicable). Often pastel colors or classic black/white.",
		ShopQuery:        "ballet dance wear",
		InspirationQuery: "ballet costumes traditional",
	},
	KeyContemporaryLyrical: {
		PrimaryVideo: "https://www.youtube.com/watch?v=x7K4B5o1Y_Q",
		SearchQueries: []string{
			"contemporary dance beginner tutorial",
			"lyrical dance floor work",
			"expressive contemporary choreography",
		},
		Style:            "Fluid and expressive Contemporary or Lyrical dance. ✨",
		Routine:          "Explore floor work, emotional storytelling, and dynamic shifts. Focus on connection to the music's lyrics and underlying emotions.",
		Costume:          "Soft, flowing fabrics, often stretchable. Think leotards, tights, dresses, or two-piece sets that allow full range of motion.",
		ShopQuery:        "contemporary lyrical dance costumes",
		InspirationQuery: "contemporary lyrical dance wear flowy",
	},
	KeyJazzBroadway: {
		PrimaryVideo: "https://www.youtube.com/watch?v=i-vjFmS-M9Q",
		SearchQueries: []string{
			"jazz dance steps tutorial",
			"broadway jazz choreography",
			"theatrical dance moves",
		},
		Style:            "Energetic Jazz or theatrical Broadway dance. 🎭",
		Routine:          "Incorporate sharp isolations, high kicks, pirouettes, and expressive gestures. Focus on showmanship and musicality for performance.",
		Costume:          "Flashy and form-fitting, often with sequins, bold colors, or a theatrical flair. Jazz shoes or character shoes are common.",
		ShopQuery:        "jazz broadway dance costumes",
		InspirationQuery: "jazz dance costumes theatrical",
	},
	KeyTap: {
		PrimaryVideo: "https://www.youtube.com/watch?v=33hLwT23F7E",
		SearchQueries: []string{
			"beginner tap dance steps",
			"tap dance rhythm exercises",
			"easy tap choreography",
		},
		Style:            "Rhythmic and percussive Tap dance. 🎵",
		Routine:          "Focus on clear sounds, intricate footwork patterns, and rhythmic improvisation. Your feet become the percussion!",
		Costume:          "Comfortable and often vintage-inspired attire that allows for clear sound. Tap shoes are essential.",
		ShopQuery:        "tap dance costumes",
		InspirationQuery: "tap dance outfits rhythmic",
	},
	KeyHipHopRnB: {
		PrimaryVideo: "https://www.youtube.com/watch?v=YRDa_0NO2U4",
		SearchQueries: []string{
			"beginner hip hop dance moves",
			"r&b dance choreography",
			"groove dance tutorial",
		},
		Style:            "Groove-based Hip-Hop or R&B. 🕺",
		Routine:          "Incorporate smooth body rolls, sharp isolations, and rhythmic footwork. Practice 'bounce' techniques and hitting the beat with attitude.",
		Costume:          "Comfortable and stylish streetwear! Think joggers, a cool hoodie, baggy jeans, a t-shirt, and fresh sneakers.",
		ShopQuery:        "hip hop dance outfits",
		InspirationQuery: "hip hop dance outfits streetwear",
	},
	KeyAfrobeatDancehall: {
		PrimaryVideo: "https://www.youtube.com/watch?v=20F_g_R9e7U",
		SearchQueries: []string{
			"afrobeat dance steps",
			"dancehall queen moves tutorial",
			"energetic afro dance",
		},
		Style:            "Vibrant and energetic Afrobeat or Dancehall. 🔥",
		Routine:          "Focus on rhythmic isolations, powerful waist movements (wining), and expressive footwork. Emphasize ground connection and infectious energy.",
		Costume:          "Colorful, comfortable, and often free-flowing attire that allows for dynamic movement. Bold patterns and accessories are common.",
		ShopQuery:        "afrobeat dance wear",
		InspirationQuery: "afrobeat dancehall costumes vibrant",
	},
	KeyBreakingBBoying: {
		PrimaryVideo: "https://www.youtube.com/watch?v=WJt4oK8_R9o",
		SearchQueries: []string{
			"breaking top rock tutorial",
			"b-boy footwork for beginners",
			"power moves breaking tutorial",
		},
		Style:            "Dynamic and acrobatic Breaking/B-Boying. 💥",
		Routine:          "Incorporate top rock, footwork, power moves (spins, freezes), and creative transitions. Focus on strength, flexibility, and unique style.",
		Costume:          "Durable, comfortable sportswear, often including tracksuits, t-shirts, and sneakers, built for intense floor work and dynamic moves.",
		ShopQuery:        "b boying breaking dance wear",
		InspirationQuery: "breaking b-boying outfits",
	},
	KeyElectronicPop: {
		PrimaryVideo: "https://www.youtube.com/watch?v=kruB90MMCeg",
		SearchQueries: []string{
			"pop dance choreography tutorial",
			"easy electronic dance moves",
			"freestyle dance upbeat music",
		},
		Style:            "Upbeat House, Pop, or a fun Freestyle! 💃",
		Routine:          "Use quick, energetic footwork, dynamic arm movements, and expressive gestures. Try incorporating spins, jumps, and lots of big, expressive motions.",
		Costume:          "Something colorful and fun! Bright workout gear, a vibrant jacket, or anything that makes you feel confident and ready to move with the beat.",
		ShopQuery:        "colorful pop dance outfits",
		InspirationQuery: "electronic pop dance costumes vibrant",
	},
	KeyLatinBallroomSlow: {
		PrimaryVideo: "https://www.youtube.com/watch?v=sO7tV2p2q0s",
		SearchQueries: []string{
			"beginner rumba dance tutorial",
			"slow cha cha steps",
			"tango basics for beginners",
		},
		Style:            "Smooth and passionate Latin/Ballroom dances (e.g., Rumba, Cha-Cha, Tango). 🌹",
		Routine:          "Focus on partner connection, precise footwork, and expressive body movements. Emphasize leading and following, with clear rhythm and dramatic flair.",
		Costume:          "Elegant and flowing formal dancewear, often with sparkle and movement, suitable for partner dancing, emphasizing fluidity.",
		ShopQuery:        "latin ballroom dance dresses",
		InspirationQuery: "latin ballroom dance costumes elegant",
	},
	KeyLatinBallroomFast: {
		PrimaryVideo: "https://www.youtube.com/watch?v=X5Q9W_xV104",
		SearchQueries: []string{
			"salsa dance steps beginner",
			"jive basic steps tutorial",
			"quickstep dance tutorial",
		},
		Style:            "Energetic and lively Latin/Ballroom styles (e.g., Salsa, Jive, Quickstep). 🔥",
		Routine:          "Incorporate fast turns, energetic steps, and dynamic partner work. Focus on speed, precision, and maintaining a high energy level with vibrant expression.",
		Costume:          "Vibrant and free-moving dancewear, designed for fast-paced and expressive partner routines, often with bold colors and embellishments.",
		ShopQuery:        "salsa jive dance wear",
		InspirationQuery: "energetic latin dance outfits",
	},
	KeySoca: {
		PrimaryVideo: "https://www.youtube.com/watch?v=EUIPhTlOZ9Q",
		SearchQueries: []string{
			"soca dance tutorial for beginners",
			"wining dance steps",
			"carnival dance moves",
		},
		Style:            "High-energy and rhythmic Soca, perfect for carnival and celebrations! 🌴",
		Routine:          "Focus on fluid waist movements (wining), rhythmic footwork, and energetic body isolations. Let the infectious beat guide your every move!",
		Costume:          "Bright, vibrant, and often minimal attire designed for hot climates and vigorous movement, embracing bold colors and Caribbean flair.",
		ShopQuery:        "soca carnival outfits",
		InspirationQuery: "soca carnival costumes vibrant",
	},
	KeyAutoSlow: {
		PrimaryVideo: "https://www.youtube.com/watch?v=P2WFzDW0Iag",
		SearchQueries: []string{
			"slow graceful dance tutorial",
			"fluid movement choreography",
			"meditative dance moves",
		},
		Style:            "Slow and graceful movements, like a waltz or general Contemporary. 🎶",
		Routine:          "Focus on fluid, slow transitions and emotional expression. Think long, flowing lines and soft gestures.",
		Costume:          "Elegant and light, like a flowing dress or form-fitting attire. Something that moves beautifully with you!",
		ShopQuery:        "graceful dance costumes",
		InspirationQuery: "elegant dance costumes",
	},
	KeyAutoMid: {
		PrimaryVideo: "https://www.youtube.com/watch?v=I43yG_uFqXo",
		SearchQueries: []string{
			"easy groove dance tutorial",
			"beginner r&b dance steps",
			"casual hip hop dance",
		},
		Style:            "A good tempo for general Groove-based dances. 🕺",
		Routine:          "Incorporate smooth body rolls, footwork, and isolations. Practice some simple 'bounce' techniques to stay on beat.",
		Costume:          "Comfortable and stylish streetwear! Think joggers, a cool hoodie, or a t-shirt and sneakers.",
		ShopQuery:        "casual dance wear",
		InspirationQuery: "street dance outfits",
	},
	KeyAutoUpbeat: {
		PrimaryVideo: "https://www.youtube.com/watch?v=Lqj-4K6q9nE",
		SearchQueries: []string{
			"upbeat pop dance tutorial",
			"freestyle dance ideas",
			"high energy dance workout",
		},
		Style:            "This upbeat tempo is perfect for general high-energy styles like Pop or Freestyle! 💃",
		Routine:          "Use quick, energetic footwork and arm movements. Try to incorporate spins, jumps, and lots of big, expressive motions.",
		Costume:          "Something colorful and fun! Bright workout gear, a fun jacket, or anything that makes you feel confident and ready to move.",
		ShopQuery:        "upbeat dance costumes",
		InspirationQuery: "energetic dance outfits",
	},
	KeyAutoFast: {
		PrimaryVideo: "https://www.youtube.com/watch?v=khvSXG0UYzM",
		SearchQueries: []string{
			"fast cardio dance workout",
			"club dance moves tutorial",
			"high tempo dance choreography",
		},
		Style:            "Fast-paced and highly energetic dances, such as intense Cardio or Club styles. ⚡️",
		Routine:          "The focus is on speed and stamina. Practice quick steps, high knees, and sharp, impactful movements.",
		Costume:          "Breathable and functional athletic wear. Shorts, a tank top, and supportive shoes are a must!",
		ShopQuery:        "athletic dance wear",
		InspirationQuery: "workout dance outfits",
	},
})

// DefaultCatalog returns the built-in catalog
func DefaultCatalog() *Catalog {
	return defaultCatalog
}
