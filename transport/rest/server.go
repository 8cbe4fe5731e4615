package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
}

func New(logger *slog.Logger, userService userService, gamePlayService gamePlayService, scoreService scoreService, statsService statsService) *Server {
	h := newHandlers(logger, userService, gamePlayService, scoreService, statsService)

	return &Server{
		logger:     logger.With("component", "rest"),
		httpServer: &http.Server{
			Handler:      newRouter(h),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

func newRouter(h *handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", h.ping)

	mux.HandleFunc("POST /user", h.createUser)

	mux.HandleFunc("POST /game", h.newGame)
	mux.HandleFunc("GET /game/{id}", h.getGame)
	mux.HandleFunc("PUT /game/{id}/move", h.makeMove)
	mux.HandleFunc("PUT /game/{id}/cancel", h.cancelGame)
	mux.HandleFunc("GET /game/{id}/history", h.getGameHistory)
	mux.HandleFunc("GET /games", h.getGames)
	mux.HandleFunc("GET /games/user/{name}", h.getUserGames)

	mux.HandleFunc("GET /scores", h.getScores)
	mux.HandleFunc("GET /scores/user/{name}", h.getUserScores)
	mux.HandleFunc("GET /scores/top", h.getHighTotalScores)
	mux.HandleFunc("GET /rankings", h.getUserRankings)

	mux.HandleFunc("GET /stats/winning-chance", h.getWinningChance)

	return mux
}

func (that *Server) Start(port string) error {
	that.httpServer.Addr = ":" + port

	if err := that.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
