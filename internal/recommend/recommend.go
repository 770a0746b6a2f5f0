package recommend

import (
	"context"
	"errors"
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"

	"gamedex/internal/catalog"
	"gamedex/internal/metrics"
	"gamedex/internal/slots"
)

// ErrUnsupportedFilters marks a filter configuration outside the four
// supported facet combinations. The caller answers with a uniform
// "couldn't process" reply instead of guessing.
var ErrUnsupportedFilters = errors.New("unsupported filter combination")

// Candidate pool caps per combination. Sampling ranges over these pools,
// never over the whole catalog.
const (
	DefaultDisplayCount = 5

	globalPoolCap    = 1000
	genrePoolCap     = 500
	publisherPoolCap = 100
	combinedPoolCap  = 100
)

type Kind string

const (
	KindGlobal    Kind = "global"
	KindGenre     Kind = "genre"
	KindPublisher Kind = "publisher"
	KindCombined  Kind = "combined"
)

// Result is a bounded display set plus the facets that produced it, so the
// presentation layer can phrase the reply.
type Result struct {
	Kind       Kind
	Genres     []string
	Publishers []string
	Games      []catalog.Game
}

// Store is the read side of the catalog the recommender consumes.
type Store interface {
	QueryGames(ctx context.Context, f catalog.Filters, limit int) ([]catalog.Game, error)
}

type Recommender struct {
	store   Store
	log     *slog.Logger
	display int

	mu   sync.Mutex
	rand *mathrand.Rand
}

func New(store Store, logger *slog.Logger, displayCount int) *Recommender {
	if logger == nil {
		logger = slog.Default()
	}
	if displayCount <= 0 {
		displayCount = DefaultDisplayCount
	}
	return &Recommender{
		store:   store,
		log:     logger,
		display: displayCount,
		rand:    mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// Recommend maps a completed filter configuration onto the catalog query,
// ranks by score inside the query, and samples the display set. The four
// supported combinations are global (both facets inactive), genre-only,
// publisher-only and combined; everything else is ErrUnsupportedFilters.
func (r *Recommender) Recommend(ctx context.Context, cfg slots.FilterConfig) (Result, error) {
	genres := cfg.Genres
	publishers := cfg.Publishers

	var (
		result  Result
		filters catalog.Filters
		limit   int
	)
	switch {
	case genres.Inactive() && publishers.Inactive():
		result.Kind = KindGlobal
		limit = globalPoolCap
	case genres.Confirmed() && publishers.Confirmed():
		result.Kind = KindCombined
		result.Genres = genres.Values
		result.Publishers = publishers.Values
		filters = catalog.Filters{Publishers: publishers.Values, Tags: genres.Values}
		limit = combinedPoolCap
	case publishers.Confirmed() && genres.Inactive():
		result.Kind = KindPublisher
		result.Publishers = publishers.Values
		filters = catalog.Filters{Publishers: publishers.Values}
		limit = publisherPoolCap
	case genres.Confirmed() && publishers.Inactive():
		result.Kind = KindGenre
		result.Genres = genres.Values
		filters = catalog.Filters{Tags: genres.Values}
		limit = genrePoolCap
	default:
		r.log.Warn("unsupported filter combination",
			"genres", genres.Kind.String(), "publishers", publishers.Kind.String())
		return Result{}, ErrUnsupportedFilters
	}

	candidates, err := r.store.QueryGames(ctx, filters, limit)
	if err != nil {
		return Result{}, err
	}
	result.Games = r.pick(candidates)

	metrics.RecommendationsServed.WithLabelValues(string(result.Kind)).Inc()
	return result, nil
}

// TopByPublisher serves the single-publisher browse intent: ranked, capped,
// no sampling.
func (r *Recommender) TopByPublisher(ctx context.Context, publisher string, limit int) ([]catalog.Game, error) {
	if limit <= 0 {
		limit = r.display
	}
	return r.store.QueryGames(ctx, catalog.Filters{Publishers: []string{publisher}}, limit)
}

func (r *Recommender) pick(candidates []catalog.Game) []catalog.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return SelectForDisplay(r.rand, candidates, r.display)
}
