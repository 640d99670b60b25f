package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"tennis-dashboard/internal/api"
	"tennis-dashboard/internal/catalog"
	"tennis-dashboard/internal/constants"
	"tennis-dashboard/internal/domain"
	"tennis-dashboard/internal/live"
	"tennis-dashboard/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const DashboardPath = "/tennis.v1.Dashboard/"

const (
	GetMatchProcedure             = DashboardPath + "GetMatch"
	WatchMatchProcedure           = DashboardPath + "WatchMatch"
	GetHistoricalMatchesProcedure = DashboardPath + "GetHistoricalMatches"
	GetPredictionPollsProcedure   = DashboardPath + "GetPredictionPolls"
	GetLeaderboardProcedure       = DashboardPath + "GetLeaderboard"
	GetTennisOverviewProcedure    = DashboardPath + "GetTennisOverview"
	GetTennisMatchProcedure       = DashboardPath + "GetTennisMatch"
	GetTennisPlayerProcedure      = DashboardPath + "GetTennisPlayer"
	GetTennisSearchProcedure      = DashboardPath + "GetTennisSearch"
	GetTennisCalendarProcedure    = DashboardPath + "GetTennisCalendar"
	GetTournamentStatsProcedure   = DashboardPath + "GetTournamentStats"
)

// TennisData is the cached view of the external tennis API.
type TennisData interface {
	GetOverview(ctx context.Context) (*service.Overview, error)
	GetMatchStats(ctx context.Context, matchID string) (domain.MatchStats, error)
	GetPlayer(ctx context.Context, playerID string) (json.RawMessage, error)
	Search(ctx context.Context, query string) ([]api.SearchResult, error)
	GetCalendar(ctx context.Context) (json.RawMessage, error)
	GetTournamentStats(ctx context.Context, tournamentID string) (json.RawMessage, error)
}

var _ TennisData = (*service.TennisService)(nil)

type DashboardServer struct {
	engine *live.Engine
	tennis TennisData
	logger zerolog.Logger
}

func NewDashboardServer(engine *live.Engine, tennis TennisData, logger zerolog.Logger) *DashboardServer {
	return &DashboardServer{
		engine: engine,
		tennis: tennis,
		logger: logger.With().Str("component", "dashboard_server").Logger(),
	}
}

// Handler mounts every Dashboard procedure under DashboardPath.
func (s *DashboardServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(GetMatchProcedure, connect.NewUnaryHandler(GetMatchProcedure, s.GetMatch, opts...))
	mux.Handle(WatchMatchProcedure, connect.NewServerStreamHandler(WatchMatchProcedure, s.WatchMatch, opts...))
	mux.Handle(GetHistoricalMatchesProcedure, connect.NewUnaryHandler(GetHistoricalMatchesProcedure, s.GetHistoricalMatches, opts...))
	mux.Handle(GetPredictionPollsProcedure, connect.NewUnaryHandler(GetPredictionPollsProcedure, s.GetPredictionPolls, opts...))
	mux.Handle(GetLeaderboardProcedure, connect.NewUnaryHandler(GetLeaderboardProcedure, s.GetLeaderboard, opts...))
	mux.Handle(GetTennisOverviewProcedure, connect.NewUnaryHandler(GetTennisOverviewProcedure, s.GetTennisOverview, opts...))
	mux.Handle(GetTennisMatchProcedure, connect.NewUnaryHandler(GetTennisMatchProcedure, s.GetTennisMatch, opts...))
	mux.Handle(GetTennisPlayerProcedure, connect.NewUnaryHandler(GetTennisPlayerProcedure, s.GetTennisPlayer, opts...))
	mux.Handle(GetTennisSearchProcedure, connect.NewUnaryHandler(GetTennisSearchProcedure, s.GetTennisSearch, opts...))
	mux.Handle(GetTennisCalendarProcedure, connect.NewUnaryHandler(GetTennisCalendarProcedure, s.GetTennisCalendar, opts...))
	mux.Handle(GetTournamentStatsProcedure, connect.NewUnaryHandler(GetTournamentStatsProcedure, s.GetTournamentStats, opts...))
	return DashboardPath, mux
}

func (s *DashboardServer) GetMatch(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	msg, err := toStruct(s.engine.Snapshot())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// WatchMatch streams the current snapshot and then one snapshot per tick.
// A stream that cannot keep up loses ticks instead of stalling the engine.
func (s *DashboardServer) WatchMatch(ctx context.Context, req *connect.Request[emptypb.Empty], stream *connect.ServerStream[structpb.Struct]) error {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &s.logger
	}

	updates := make(chan domain.Match, constants.WatchBufferSize)
	unsubscribe := s.engine.Subscribe(func(m domain.Match) {
		select {
		case updates <- m:
		default:
			logger.Warn().Int("match_time", m.MatchTime).Msg("watch stream is behind, dropping tick")
		}
	})
	defer unsubscribe()

	logger.Info().Msg("watch stream opened")
	defer logger.Info().Msg("watch stream closed")

	current := s.engine.Snapshot()
	if err := sendMatch(stream, current); err != nil {
		return err
	}
	last := current.MatchTime

	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-updates:
			// the first buffered tick may predate the initial snapshot
			if m.MatchTime <= last {
				continue
			}
			if err := sendMatch(stream, m); err != nil {
				return err
			}
			last = m.MatchTime
		}
	}
}

func sendMatch(stream *connect.ServerStream[structpb.Struct], m domain.Match) error {
	msg, err := toStruct(m)
	if err != nil {
		return connect.NewError(connect.CodeInternal, err)
	}
	if err := stream.Send(msg); err != nil {
		return fmt.Errorf("failed to send snapshot: %w", err)
	}
	return nil
}

func (s *DashboardServer) GetHistoricalMatches(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	surface := ""
	if v, ok := req.Msg.GetFields()["surface"]; ok {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("surface must be a string"))
		}
		surface = sv.StringValue
	}

	matches := catalog.FilterBySurface(catalog.HistoricalMatches(), surface)
	return respond(map[string]any{"matches": matches})
}

func (s *DashboardServer) GetPredictionPolls(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	type pollView struct {
		domain.PredictionPoll
		Percentages []float64 `json:"percentages"`
	}

	polls := catalog.PredictionPolls()
	views := make([]pollView, 0, len(polls))
	for _, p := range polls {
		pct := make([]float64, len(p.Options))
		for i := range p.Options {
			pct[i] = catalog.Percentage(p, i)
		}
		views = append(views, pollView{PredictionPoll: p, Percentages: pct})
	}
	return respond(map[string]any{"polls": views})
}

func (s *DashboardServer) GetLeaderboard(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	return respond(map[string]any{"entries": catalog.Leaderboard()})
}

func (s *DashboardServer) GetTennisOverview(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	overview, err := s.tennis.GetOverview(ctx)
	if err != nil {
		return nil, upstreamError(err)
	}
	return respond(overview)
}

func (s *DashboardServer) GetTennisMatch(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	matchID, err := requiredString(req.Msg, "matchId")
	if err != nil {
		return nil, err
	}
	stats, err := s.tennis.GetMatchStats(ctx, matchID)
	if err != nil {
		return nil, upstreamError(err)
	}
	return respond(stats)
}

func (s *DashboardServer) GetTennisPlayer(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	playerID, err := requiredString(req.Msg, "playerId")
	if err != nil {
		return nil, err
	}
	player, err := s.tennis.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, upstreamError(err)
	}
	return respond(map[string]any{"player": player})
}

func (s *DashboardServer) GetTennisSearch(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	query, err := requiredString(req.Msg, "query")
	if err != nil {
		return nil, err
	}
	results, err := s.tennis.Search(ctx, query)
	if err != nil {
		return nil, upstreamError(err)
	}
	if results == nil {
		results = []api.SearchResult{}
	}
	return respond(map[string]any{"results": results})
}

func (s *DashboardServer) GetTennisCalendar(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	calendar, err := s.tennis.GetCalendar(ctx)
	if err != nil {
		return nil, upstreamError(err)
	}
	return respond(map[string]any{"calendar": calendar})
}

func (s *DashboardServer) GetTournamentStats(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	tournamentID, err := requiredString(req.Msg, "tournamentId")
	if err != nil {
		return nil, err
	}
	stats, err := s.tennis.GetTournamentStats(ctx, tournamentID)
	if err != nil {
		return nil, upstreamError(err)
	}
	return respond(map[string]any{"stats": stats})
}

func requiredString(msg *structpb.Struct, field string) (string, error) {
	v := msg.GetFields()[field].GetStringValue()
	if v == "" {
		return "", connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s is required", field))
	}
	return v, nil
}

func upstreamError(err error) error {
	if errors.Is(err, api.ErrRequestFailed) {
		return connect.NewError(connect.CodeUnavailable, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func respond(v any) (*connect.Response[structpb.Struct], error) {
	msg, err := toStruct(v)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// toStruct goes through JSON so the wire shape matches the json tags on
// the domain types.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build struct: %w", err)
	}
	return msg, nil
}
