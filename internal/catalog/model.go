package catalog

import "time"

// Game is a materialized catalog row. Related names are plain slices loaded
// eagerly by the store; nothing on this struct reaches back to the database.
type Game struct {
	AppID            int64      `json:"app_id"`
	Name             string     `json:"name"`
	ReleaseDate      *time.Time `json:"release_date,omitempty"`
	EstimatedOwners  string     `json:"estimated_owners,omitempty"`
	RequiredAge      int        `json:"required_age,omitempty"`
	Price            *float64   `json:"price,omitempty"`
	ShortDescription string     `json:"short_description,omitempty"`
	Reviews          string     `json:"reviews,omitempty"`
	HeaderImage      string     `json:"header_image,omitempty"`
	SupportWindows   bool       `json:"support_windows"`
	SupportMac       bool       `json:"support_mac"`
	SupportLinux     bool       `json:"support_linux"`
	MetacriticScore  *int       `json:"metacritic_score,omitempty"`
	Positive         int64      `json:"positive"`
	Negative         int64      `json:"negative"`

	Developers []string `json:"developers,omitempty"`
	Publishers []string `json:"publishers,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Languages  []string `json:"languages,omitempty"`
}

// Filters are the independent facets of the unified catalog query. An empty
// field means the facet is inactive. Name is a single-game lookup and wins
// over the other facets when set.
type Filters struct {
	Name       string
	Publishers []string
	Tags       []string
}

type NamedCount struct {
	Name      string `json:"name"`
	GameCount int64  `json:"game_count"`
}
