package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema creates the catalog tables if they do not exist yet.
func (s *Store) ApplySchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// DatasetGame is one entry of the raw Steam dataset JSON (keyed by app id).
type DatasetGame struct {
	Name                string         `json:"name"`
	ReleaseDate         string         `json:"release_date"`
	EstimatedOwners     string         `json:"estimated_owners"`
	PeakCCU             int64          `json:"peak_ccu"`
	RequiredAge         float64        `json:"required_age"`
	Price               float64        `json:"price"`
	DLCCount            int64          `json:"dlc_count"`
	DetailedDescription string         `json:"detailed_description"`
	ShortDescription    string         `json:"short_description"`
	Reviews             string         `json:"reviews"`
	HeaderImage         string         `json:"header_image"`
	Website             string         `json:"website"`
	Windows             bool           `json:"windows"`
	Mac                 bool           `json:"mac"`
	Linux               bool           `json:"linux"`
	MetacriticScore     int64          `json:"metacritic_score"`
	Positive            int64          `json:"positive"`
	Negative            int64          `json:"negative"`
	Achievements        int64          `json:"achievements"`
	Recommendations     int64          `json:"recommendations"`
	AveragePlaytime     int64          `json:"average_playtime_forever"`
	MedianPlaytime      int64          `json:"median_playtime_forever"`
	Developers          []string       `json:"developers"`
	Publishers          []string       `json:"publishers"`
	Genres              []string       `json:"genres"`
	Tags                map[string]int `json:"tags"`
	SupportedLanguages  []string       `json:"supported_languages"`
}

type SeedStats struct {
	Inserted int
	Skipped  int
}

// latinNameRE accepts latin letters, digits, whitespace, common punctuation
// and the trademark marks that get stripped before insert.
var latinNameRE = regexp.MustCompile("^[a-zA-Z0-9\\s!\"#$%&'()*+,\\-./:;<=>?@\\[\\\\\\]^_`{|}~®™]*$")

func validGameName(name string) bool {
	return name != "" && latinNameRE.MatchString(name)
}

func cleanGameName(name string) string {
	name = strings.NewReplacer("®", "", "™", "").Replace(name)
	return strings.TrimSpace(name)
}

// parseReleaseDate handles the dataset's "Oct 21, 2008" form plus the
// month-only "Oct 2008" fallback some entries use.
func parseReleaseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"Jan 2 2006", "2 Jan 2006", "Jan 2006", "2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// seedable filters the dataset the same way the catalog was originally built:
// English support required, latin-only names, descriptions that fit a TEXT
// column on the old MySQL schema.
func seedable(g DatasetGame) bool {
	english := false
	for _, lang := range g.SupportedLanguages {
		if lang == "English" {
			english = true
			break
		}
	}
	if !english {
		return false
	}
	if !validGameName(g.Name) {
		return false
	}
	if len(g.DetailedDescription) > 65535 {
		return false
	}
	return true
}

// Seed loads the dataset JSON and inserts every seedable game along with its
// related names. Related entities are merged by exact name on insert.
func (s *Store) Seed(ctx context.Context, r io.Reader) (SeedStats, error) {
	var stats SeedStats

	var dataset map[string]DatasetGame
	if err := json.NewDecoder(r).Decode(&dataset); err != nil {
		return stats, fmt.Errorf("decode dataset: %w", err)
	}

	for _, entry := range dataset {
		if !seedable(entry) {
			stats.Skipped++
			continue
		}
		if err := s.seedGame(ctx, entry); err != nil {
			return stats, err
		}
		stats.Inserted++
	}
	return stats, nil
}

func (s *Store) seedGame(ctx context.Context, entry DatasetGame) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var releaseDate any
	if t, ok := parseReleaseDate(entry.ReleaseDate); ok {
		releaseDate = t
	}

	var appID int64
	err = tx.QueryRow(ctx, `
		insert into games (
			name, release_date, estimated_owners, peak_ccu, required_age, price, dlc_count,
			detailed_description, short_description, reviews, header_image, website,
			support_windows, support_mac, support_linux, metacritic_score,
			positive, negative, achievements, recommendations, average_playtime, median_playtime
		) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		returning app_id
	`,
		cleanGameName(entry.Name), releaseDate, entry.EstimatedOwners, entry.PeakCCU,
		int(entry.RequiredAge), entry.Price, entry.DLCCount,
		entry.DetailedDescription, entry.ShortDescription, entry.Reviews,
		entry.HeaderImage, entry.Website,
		entry.Windows, entry.Mac, entry.Linux, nullableScore(entry.MetacriticScore),
		entry.Positive, entry.Negative, entry.Achievements, entry.Recommendations,
		entry.AveragePlaytime, entry.MedianPlaytime,
	).Scan(&appID)
	if err != nil {
		return fmt.Errorf("insert game %q: %w", entry.Name, err)
	}

	if err := s.linkNames(ctx, tx, appID, "developers", "developer_id", "game_developers", entry.Developers); err != nil {
		return err
	}
	if err := s.linkNames(ctx, tx, appID, "publishers", "publisher_id", "game_publishers", entry.Publishers); err != nil {
		return err
	}
	if err := s.linkNames(ctx, tx, appID, "genres", "genre_id", "game_genres", entry.Genres); err != nil {
		return err
	}
	if err := s.linkNames(ctx, tx, appID, "languages", "language_id", "game_supported_languages", entry.SupportedLanguages); err != nil {
		return err
	}

	for tag, value := range entry.Tags {
		tagID, err := upsertName(ctx, tx, "tags", "tag_id", tag)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			insert into game_tags (app_id, tag_id, tag_value)
			values ($1, $2, $3)
			on conflict (app_id, tag_id) do nothing
		`, appID, tagID, value)
		if err != nil {
			return fmt.Errorf("link tag %q: %w", tag, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) linkNames(ctx context.Context, tx pgx.Tx, appID int64, table, idColumn, joinTable string, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, err := upsertName(ctx, tx, table, idColumn, name)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, fmt.Sprintf(`
			insert into %s (app_id, %s)
			values ($1, $2)
			on conflict (app_id, %s) do nothing
		`, joinTable, idColumn, idColumn), appID, id)
		if err != nil {
			return fmt.Errorf("link %s %q: %w", table, name, err)
		}
	}
	return nil
}

func upsertName(ctx context.Context, tx pgx.Tx, table, idColumn, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, fmt.Sprintf(`
		insert into %s (name)
		values ($1)
		on conflict (name) do update set name = excluded.name
		returning %s
	`, table, idColumn), name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert %s %q: %w", table, name, err)
	}
	return id, nil
}

func nullableScore(v int64) any {
	if v <= 0 {
		return nil
	}
	return v
}
