package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gamedex/internal/metrics"
)

// scoreExpr mirrors recommend.Score: approval ratio damped by the natural
// log of total review volume. The two must stay in lockstep so that ranking
// done in SQL matches ranking done in Go.
const scoreExpr = `case
	when coalesce(g.positive, 0) + coalesce(g.negative, 0) = 0 then 0
	else (coalesce(g.positive, 0)::double precision / (coalesce(g.positive, 0) + coalesce(g.negative, 0)))
		* ln(coalesce(g.positive, 0) + coalesce(g.negative, 0) + 1)
	end`

const gameColumns = `g.app_id, g.name, g.release_date, coalesce(g.estimated_owners, ''),
	coalesce(g.required_age, 0), g.price, coalesce(g.short_description, ''),
	coalesce(g.reviews, ''), coalesce(g.header_image, ''),
	coalesce(g.support_windows, false), coalesce(g.support_mac, false), coalesce(g.support_linux, false),
	g.metacritic_score, coalesce(g.positive, 0), coalesce(g.negative, 0)`

type Store struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewStore(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, log: logger}
}

// QueryGames is the unified catalog query. A set facet restricts the result:
// publisher and tag facets each match any of their names case-insensitively,
// and both must hold when both are set. Results are ordered by score
// descending with app_id ascending as the tie-break, capped at limit.
// Unknown names simply match nothing.
func (s *Store) QueryGames(ctx context.Context, f Filters, limit int) (games []Game, err error) {
	if f.Name != "" {
		game, err := s.GameByName(ctx, f.Name)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return nil, nil
		}
		return []Game{*game}, nil
	}

	start := time.Now()
	defer func() { observe("query_games", start, err) }()

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`select ` + gameColumns + `, ` + scoreExpr + ` as score from games g where true`)

	if len(f.Publishers) > 0 {
		args = append(args, lowerAll(f.Publishers))
		fmt.Fprintf(&sb, ` and exists (
			select 1 from game_publishers gp
			join publishers p on p.publisher_id = gp.publisher_id
			where gp.app_id = g.app_id and lower(p.name) = any($%d))`, len(args))
	}
	if len(f.Tags) > 0 {
		args = append(args, lowerAll(f.Tags))
		fmt.Fprintf(&sb, ` and exists (
			select 1 from game_tags gt
			join tags t on t.tag_id = gt.tag_id
			where gt.app_id = g.app_id and lower(t.name) = any($%d))`, len(args))
	}

	args = append(args, limit)
	fmt.Fprintf(&sb, ` order by score desc, g.app_id asc limit $%d`, len(args))

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	return games, nil
}

// GameByName resolves a single game: exact case-insensitive match first,
// then substring, shortest name first so repeated lookups are deterministic.
// A miss returns (nil, nil).
func (s *Store) GameByName(ctx context.Context, name string) (game *Game, err error) {
	start := time.Now()
	defer func() { observe("game_by_name", start, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	exact := `select ` + gameColumns + `, 0::double precision as score from games g
		where lower(g.name) = lower($1) order by g.app_id asc limit 1`
	g, err := s.queryOneGame(ctx, exact, name)
	if err != nil || g != nil {
		return g, err
	}

	substring := `select ` + gameColumns + `, 0::double precision as score from games g
		where g.name ilike '%' || $1 || '%' order by length(g.name) asc, g.app_id asc limit 1`
	return s.queryOneGame(ctx, substring, name)
}

func (s *Store) queryOneGame(ctx context.Context, sql string, args ...any) (*Game, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("game by name: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("game by name: %w", err)
		}
		return nil, nil
	}
	game, err := scanGame(rows)
	if err != nil {
		return nil, fmt.Errorf("scan game: %w", err)
	}
	return &game, nil
}

// TagNames returns the full tag vocabulary for slot validation.
func (s *Store) TagNames(ctx context.Context) ([]string, error) {
	return s.names(ctx, "tag_names", `select name from tags order by name asc`)
}

// PublisherNames returns the full publisher vocabulary for slot validation.
func (s *Store) PublisherNames(ctx context.Context) ([]string, error) {
	return s.names(ctx, "publisher_names", `select name from publishers order by name asc`)
}

func (s *Store) names(ctx context.Context, metric, sql string) (out []string, err error) {
	start := time.Now()
	defer func() { observe(metric, start, err) }()

	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", metric, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", metric, err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", metric, err)
	}
	return out, nil
}

// TopTags lists tags by how many games carry them.
func (s *Store) TopTags(ctx context.Context) ([]NamedCount, error) {
	return s.counts(ctx, "top_tags", `
		select t.name, count(gt.app_id) as game_count
		from tags t
		join game_tags gt on gt.tag_id = t.tag_id
		group by t.tag_id, t.name
		order by game_count desc, t.name asc`)
}

// TopPublishers lists publishers by how many games they shipped.
func (s *Store) TopPublishers(ctx context.Context) ([]NamedCount, error) {
	return s.counts(ctx, "top_publishers", `
		select p.name, count(gp.app_id) as game_count
		from publishers p
		join game_publishers gp on gp.publisher_id = p.publisher_id
		group by p.publisher_id, p.name
		order by game_count desc, p.name asc`)
}

func (s *Store) counts(ctx context.Context, metric, sql string) (out []NamedCount, err error) {
	start := time.Now()
	defer func() { observe(metric, start, err) }()

	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", metric, err)
	}
	defer rows.Close()

	for rows.Next() {
		var nc NamedCount
		if err := rows.Scan(&nc.Name, &nc.GameCount); err != nil {
			return nil, fmt.Errorf("%s: %w", metric, err)
		}
		out = append(out, nc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", metric, err)
	}
	return out, nil
}

// Enrich attaches the related name lists to the given games in one pass per
// relation. Call it on the final display set, not the whole candidate pool.
func (s *Store) Enrich(ctx context.Context, games []Game) (out []Game, err error) {
	if len(games) == 0 {
		return games, nil
	}

	start := time.Now()
	defer func() { observe("enrich", start, err) }()

	ids := make([]int64, len(games))
	for i, g := range games {
		ids[i] = g.AppID
	}

	relations := []struct {
		sql    string
		assign func(g *Game, names []string)
	}{
		{
			sql: `select gd.app_id, array_agg(d.name order by d.name)
				from game_developers gd join developers d on d.developer_id = gd.developer_id
				where gd.app_id = any($1) group by gd.app_id`,
			assign: func(g *Game, names []string) { g.Developers = names },
		},
		{
			sql: `select gp.app_id, array_agg(p.name order by p.name)
				from game_publishers gp join publishers p on p.publisher_id = gp.publisher_id
				where gp.app_id = any($1) group by gp.app_id`,
			assign: func(g *Game, names []string) { g.Publishers = names },
		},
		{
			sql: `select gg.app_id, array_agg(ge.name order by ge.name)
				from game_genres gg join genres ge on ge.genre_id = gg.genre_id
				where gg.app_id = any($1) group by gg.app_id`,
			assign: func(g *Game, names []string) { g.Genres = names },
		},
		{
			sql: `select gt.app_id, array_agg(t.name order by gt.tag_value desc, t.name)
				from game_tags gt join tags t on t.tag_id = gt.tag_id
				where gt.app_id = any($1) group by gt.app_id`,
			assign: func(g *Game, names []string) { g.Tags = names },
		},
		{
			sql: `select gl.app_id, array_agg(l.name order by l.name)
				from game_supported_languages gl join languages l on l.language_id = gl.language_id
				where gl.app_id = any($1) group by gl.app_id`,
			assign: func(g *Game, names []string) { g.Languages = names },
		},
	}

	out = make([]Game, len(games))
	copy(out, games)
	index := make(map[int64]*Game, len(out))
	for i := range out {
		index[out[i].AppID] = &out[i]
	}

	for _, rel := range relations {
		byID, err := s.namesByAppID(ctx, rel.sql, ids)
		if err != nil {
			return nil, err
		}
		for id, names := range byID {
			if g, ok := index[id]; ok {
				rel.assign(g, names)
			}
		}
	}
	return out, nil
}

func (s *Store) namesByAppID(ctx context.Context, sql string, ids []int64) (map[int64][]string, error) {
	rows, err := s.db.Query(ctx, sql, ids)
	if err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var (
			appID int64
			names []string
		)
		if err := rows.Scan(&appID, &names); err != nil {
			return nil, fmt.Errorf("enrich scan: %w", err)
		}
		out[appID] = names
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}
	return out, nil
}

func scanGame(rows pgx.Rows) (Game, error) {
	var (
		g     Game
		score float64
	)
	err := rows.Scan(
		&g.AppID, &g.Name, &g.ReleaseDate, &g.EstimatedOwners,
		&g.RequiredAge, &g.Price, &g.ShortDescription,
		&g.Reviews, &g.HeaderImage,
		&g.SupportWindows, &g.SupportMac, &g.SupportLinux,
		&g.MetacriticScore, &g.Positive, &g.Negative,
		&score,
	)
	return g, err
}

func lowerAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, strings.ToLower(n))
	}
	return out
}

func observe(query string, start time.Time, err error) {
	metrics.CatalogQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, context.Canceled) {
		metrics.CatalogQueryErrors.WithLabelValues(query).Inc()
	}
}
