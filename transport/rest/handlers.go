package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/guessagame/tictactoe-backend/internal/apperror"
	"github.com/guessagame/tictactoe-backend/internal/entity"
	"github.com/guessagame/tictactoe-backend/internal/service"
)

// defaultTopLimit caps leaderboard responses when no explicit limit is asked.
const defaultTopLimit = 10

type userService interface {
	CreateUser(ctx context.Context, name, email string) (*entity.User, error)
}

type gamePlayService interface {
	NewGame(ctx context.Context, userName, userMark, opponentName, opponentMark, firstMover string) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeMove(ctx context.Context, id, mover string, cell int) (*entity.Game, string, error)
	CancelGame(ctx context.Context, id string) (*entity.Game, error)
	GetGames(ctx context.Context) ([]*entity.Game, error)
	GetActiveUserGames(ctx context.Context, name string) ([]*entity.Game, error)
	GetGameHistory(ctx context.Context, id string) ([]entity.Move, error)
}

type scoreService interface {
	GetScores(ctx context.Context) ([]entity.Score, error)
	GetUserScores(ctx context.Context, name string) ([]entity.Score, error)
	GetHighTotalScores(ctx context.Context, limit int) ([]service.UserTotal, error)
	GetUserRankings(ctx context.Context, limit int) ([]service.UserRanking, error)
}

type statsService interface {
	WinningChance(ctx context.Context) (string, error)
}

type handlers struct {
	logger *slog.Logger

	userService     userService
	gamePlayService gamePlayService
	scoreService    scoreService
	statsService    statsService
}

func newHandlers(logger *slog.Logger, userService userService, gamePlayService gamePlayService, scoreService scoreService, statsService statsService) *handlers {
	return &handlers{
		logger: logger.With("component", "rest"),

		userService:     userService,
		gamePlayService: gamePlayService,
		scoreService:    scoreService,
		statsService:    statsService,
	}
}

func (that *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !that.decode(w, r, &req) {
		return
	}

	user, err := that.userService.CreateUser(r.Context(), req.UserName, req.Email)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, messageResponse{Message: "User " + user.Name + " created!"})
}

func (that *handlers) newGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.gamePlayService.NewGame(r.Context(), req.UserName, req.UserTic, req.OpponentName, req.OpponentTic, req.UserOfNextMove)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, newGameResponse(game, "Good luck playing Tic-Tac-Toe!"))
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gamePlayService.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	message := "Time to make a move!"
	if !game.IsActive() {
		message = ""
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game, message))
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var req makeMoveRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, message, err := that.gamePlayService.MakeMove(r.Context(), r.PathValue("id"), req.UserOfMove, req.Position)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game, message))
}

func (that *handlers) cancelGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gamePlayService.CancelGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game, "Game has been canceled"))
}

func (that *handlers) getGameHistory(w http.ResponseWriter, r *http.Request) {
	moves, err := that.gamePlayService.GetGameHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newHistoryResponse(moves))
}

func (that *handlers) getGames(w http.ResponseWriter, r *http.Request) {
	games, err := that.gamePlayService.GetGames(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGamesResponse(games))
}

func (that *handlers) getUserGames(w http.ResponseWriter, r *http.Request) {
	games, err := that.gamePlayService.GetActiveUserGames(r.Context(), r.PathValue("name"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGamesResponse(games))
}

func (that *handlers) getScores(w http.ResponseWriter, r *http.Request) {
	scores, err := that.scoreService.GetScores(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newScoresResponse(scores))
}

func (that *handlers) getUserScores(w http.ResponseWriter, r *http.Request) {
	scores, err := that.scoreService.GetUserScores(r.Context(), r.PathValue("name"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newScoresResponse(scores))
}

func (that *handlers) getHighTotalScores(w http.ResponseWriter, r *http.Request) {
	totals, err := that.scoreService.GetHighTotalScores(r.Context(), that.limit(r))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newTotalScoresResponse(totals))
}

func (that *handlers) getUserRankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := that.scoreService.GetUserRankings(r.Context(), that.limit(r))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newRankingsResponse(rankings))
}

func (that *handlers) getWinningChance(w http.ResponseWriter, r *http.Request) {
	value, err := that.statsService.WinningChance(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	if value == "" {
		value = "The winning chance has not been computed yet"
	}

	that.writeJSON(w, http.StatusOK, messageResponse{Message: value})
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func newGamesResponse(games []*entity.Game) gamesResponse {
	items := make([]gameResponse, 0, len(games))
	for _, game := range games {
		items = append(items, newGameResponse(game, ""))
	}
	return gamesResponse{Items: items}
}

func (that *handlers) limit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultTopLimit
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultTopLimit
	}

	return limit
}

func (that *handlers) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error kind to a status code. Callers can always tell a
// rejected move (conflict) apart from a terminal game (forbidden) and from a
// malformed request (validation).
func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
	default:
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}
