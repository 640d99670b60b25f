package service

import (
	"context"
	"encoding/json"
	"fmt"
	"tennis-dashboard/internal/api"
	"tennis-dashboard/internal/config"
	"tennis-dashboard/internal/constants"
	"tennis-dashboard/internal/domain"
	"tennis-dashboard/internal/repository"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("tennis-dashboard/service")

// TennisAPI is the part of the external client the service depends on.
type TennisAPI interface {
	GetRankings(ctx context.Context) ([]domain.Ranking, error)
	GetLiveMatches(ctx context.Context) ([]domain.MatchStats, error)
	GetMatch(ctx context.Context, matchID string) (domain.MatchStats, error)
	GetPlayer(ctx context.Context, playerID string) (json.RawMessage, error)
	Search(ctx context.Context, query string) ([]api.SearchResult, error)
	GetCalendar(ctx context.Context) (json.RawMessage, error)
	GetTournamentStats(ctx context.Context, tournamentID string) (json.RawMessage, error)
}

var _ TennisAPI = (*api.TennisClient)(nil)

type Overview struct {
	Rankings []domain.Ranking    `json:"rankings"`
	Matches  []domain.MatchStats `json:"matches"`
}

type TennisService struct {
	client TennisAPI
	cache  *repository.CacheRepository
	ttl    time.Duration
	logger zerolog.Logger
}

func NewTennisService(client TennisAPI, cache *repository.CacheRepository, cfg *config.Config, logger zerolog.Logger) *TennisService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = constants.CacheTTL
	}
	return &TennisService{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "tennis_service").Logger(),
	}
}

// GetOverview fetches WTA rankings and live matches in parallel. Either
// failure fails the whole overview.
func (s *TennisService) GetOverview(ctx context.Context) (*Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	var overview Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rankings, err := cached(gctx, s, "rankings:wta", s.client.GetRankings)
		if err != nil {
			return fmt.Errorf("failed to fetch rankings: %w", err)
		}
		overview.Rankings = rankings
		return nil
	})
	g.Go(func() error {
		matches, err := cached(gctx, s, "matches:live", s.client.GetLiveMatches)
		if err != nil {
			return fmt.Errorf("failed to fetch live matches: %w", err)
		}
		overview.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to build tennis overview")
		return nil, err
	}

	s.logger.Info().
		Int("rankings", len(overview.Rankings)).
		Int("matches", len(overview.Matches)).
		Msg("tennis overview fetched")
	return &overview, nil
}

func (s *TennisService) GetMatchStats(ctx context.Context, matchID string) (domain.MatchStats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	stats, err := cached(ctx, s, "match:"+matchID, func(ctx context.Context) (domain.MatchStats, error) {
		return s.client.GetMatch(ctx, matchID)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to fetch match stats")
		return domain.MatchStats{}, fmt.Errorf("failed to fetch match stats: %w", err)
	}
	return stats, nil
}

func (s *TennisService) GetPlayer(ctx context.Context, playerID string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player, err := cached(ctx, s, "player:"+playerID, func(ctx context.Context) (json.RawMessage, error) {
		return s.client.GetPlayer(ctx, playerID)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("player_id", playerID).Msg("failed to fetch player")
		return nil, fmt.Errorf("failed to fetch player: %w", err)
	}
	return player, nil
}

// Search caches results per query string as sent, without normalizing case.
func (s *TennisService) Search(ctx context.Context, query string) ([]api.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	results, err := cached(ctx, s, "search:"+query, func(ctx context.Context) ([]api.SearchResult, error) {
		return s.client.Search(ctx, query)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to search")
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	return results, nil
}

func (s *TennisService) GetCalendar(ctx context.Context) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	calendar, err := cached(ctx, s, "calendar", s.client.GetCalendar)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch calendar")
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}
	return calendar, nil
}

func (s *TennisService) GetTournamentStats(ctx context.Context, tournamentID string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	stats, err := cached(ctx, s, "tournament:"+tournamentID, func(ctx context.Context) (json.RawMessage, error) {
		return s.client.GetTournamentStats(ctx, tournamentID)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("tournament_id", tournamentID).Msg("failed to fetch tournament stats")
		return nil, fmt.Errorf("failed to fetch tournament stats: %w", err)
	}
	return stats, nil
}

// RunPurger drops expired cache rows every interval until ctx ends.
func (s *TennisService) RunPurger(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
			if _, err := s.cache.Purge(dbCtx, s.ttl); err != nil {
				s.logger.Warn().Err(err).Msg("failed to purge cache")
			}
			cancel()
		}
	}
}

func cached[T any](ctx context.Context, s *TennisService, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	ctx, span := tracer.Start(ctx, "tennis.cached_fetch")
	defer span.End()
	span.SetAttributes(attribute.String("cache.key", key))

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	body, ok, err := s.cache.Get(dbCtx, key, s.ttl)
	cancel()
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, fetching from API")
	}
	if ok {
		var v T
		if err := json.Unmarshal(body, &v); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return v, nil
		}
		s.logger.Warn().Str("key", key).Msg("cached body is corrupt, refetching")
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	v, err := fetch(apiCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream fetch failed")
		return zero, err
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to encode response for cache")
		return v, nil
	}
	dbCtx, cancel = context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	if err := s.cache.Put(dbCtx, key, encoded); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache response")
	}
	return v, nil
}
