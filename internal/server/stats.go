package server

import (
	"context"
	"errors"
	"net/http"
	"time"
	"zamboni-stats/internal/domain"
	"zamboni-stats/internal/service"
	"zamboni-stats/internal/stats"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const StatsServicePath = "/zamboni.v1.StatsService/"

const (
	GetGamesProcedure         = StatsServicePath + "GetGames"
	GetPlayerHistoryProcedure = StatsServicePath + "GetPlayerHistory"
	GetLeaderboardsProcedure  = StatsServicePath + "GetLeaderboards"
	ListPlayersProcedure      = StatsServicePath + "ListPlayers"
	GetProfileProcedure       = StatsServicePath + "GetProfile"
	GetStatusProcedure        = StatsServicePath + "GetStatus"
)

type StatsServer struct {
	gameSvc   *service.GameService
	playerSvc *service.PlayerService
}

func NewStatsServer(gameSvc *service.GameService, playerSvc *service.PlayerService) *StatsServer {
	return &StatsServer{gameSvc: gameSvc, playerSvc: playerSvc}
}

// Handler mounts every procedure under StatsServicePath.
func (s *StatsServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetGamesProcedure, connect.NewUnaryHandler(GetGamesProcedure, s.GetGames, opts...))
	mux.Handle(GetPlayerHistoryProcedure, connect.NewUnaryHandler(GetPlayerHistoryProcedure, s.GetPlayerHistory, opts...))
	mux.Handle(GetLeaderboardsProcedure, connect.NewUnaryHandler(GetLeaderboardsProcedure, s.GetLeaderboards, opts...))
	mux.Handle(ListPlayersProcedure, connect.NewUnaryHandler(ListPlayersProcedure, s.ListPlayers, opts...))
	mux.Handle(GetProfileProcedure, connect.NewUnaryHandler(GetProfileProcedure, s.GetProfile, opts...))
	mux.Handle(GetStatusProcedure, connect.NewUnaryHandler(GetStatusProcedure, s.GetStatus, opts...))
	return StatsServicePath, mux
}

func (s *StatsServer) GetGames(ctx context.Context, req *connect.Request[GamesRequest]) (*connect.Response[GamesResponse], error) {
	defer timed(ctx, "GetGames")()

	games, err := s.gameSvc.Games(ctx, req.Msg.session(), req.Msg.Force)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GamesResponse{Games: games}), nil
}

func (s *StatsServer) GetPlayerHistory(ctx context.Context, req *connect.Request[PlayerHistoryRequest]) (*connect.Response[PlayerHistoryResponse], error) {
	defer timed(ctx, "GetPlayerHistory")()

	entries, err := s.gameSvc.PlayerHistory(ctx, req.Msg.session(), req.Msg.Gamertag, req.Msg.Force)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &PlayerHistoryResponse{Gamertag: req.Msg.Gamertag, Entries: entries}
	for _, e := range entries {
		switch e.Outcome {
		case domain.OutcomeWin:
			resp.Wins++
		case domain.OutcomeLoss:
			resp.Losses++
		default:
			resp.Draws++
		}
	}
	return connect.NewResponse(resp), nil
}

func (s *StatsServer) GetLeaderboards(ctx context.Context, req *connect.Request[LeaderboardsRequest]) (*connect.Response[LeaderboardsResponse], error) {
	defer timed(ctx, "GetLeaderboards")()

	lb, err := s.gameSvc.Leaderboards(ctx, req.Msg.session(), domain.ParseRange(req.Msg.Range), req.Msg.Force)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&LeaderboardsResponse{Leaderboards: lb, Categories: stats.Categories(lb)}), nil
}

func (s *StatsServer) ListPlayers(ctx context.Context, req *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error) {
	defer timed(ctx, "ListPlayers")()

	players, err := s.playerSvc.Players(ctx, req.Msg.session(), req.Msg.Query, req.Msg.Force)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListPlayersResponse{Players: players}), nil
}

func (s *StatsServer) GetProfile(ctx context.Context, req *connect.Request[ProfileRequest]) (*connect.Response[ProfileResponse], error) {
	defer timed(ctx, "GetProfile")()

	profile, err := s.playerSvc.Profile(ctx, req.Msg.session(), req.Msg.Gamertag, req.Msg.Force)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ProfileResponse{Profile: profile, AvgGoals: profile.AvgGoals()}), nil
}

func (s *StatsServer) GetStatus(ctx context.Context, req *connect.Request[StatusRequest]) (*connect.Response[StatusResponse], error) {
	defer timed(ctx, "GetStatus")()

	status, err := s.playerSvc.Status(ctx, req.Msg.session(), req.Msg.Force)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&StatusResponse{Status: status}), nil
}

// toConnectError reports bad sessions as invalid arguments; anything else
// means the upstream could not be reached or read.
func toConnectError(err error) error {
	if errors.Is(err, domain.ErrInvalidSession) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	if errors.Is(err, context.Canceled) {
		return connect.NewError(connect.CodeCanceled, err)
	}
	return connect.NewError(connect.CodeUnavailable, err)
}

func timed(ctx context.Context, procedure string) func() {
	start := time.Now()
	return func() {
		zerolog.Ctx(ctx).Debug().
			Str("procedure", procedure).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("rpc handled")
	}
}
