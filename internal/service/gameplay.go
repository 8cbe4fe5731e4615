package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/guessagame/tictactoe-backend/internal/entity"
)

// Defaults applied when new_game omits the optional fields.
const (
	DefaultUserMark     = "O"
	DefaultOpponentMark = "X"
)

type GamePlayService interface {
	NewGame(ctx context.Context, userName, userMark, opponentName, opponentMark, firstMover string) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeMove(ctx context.Context, id, mover string, cell int) (*entity.Game, string, error)
	CancelGame(ctx context.Context, id string) (*entity.Game, error)

	GetGames(ctx context.Context) ([]*entity.Game, error)
	GetActiveUserGames(ctx context.Context, name string) ([]*entity.Game, error)
	GetGameHistory(ctx context.Context, id string) ([]entity.Move, error)
}

type gamePlayUserRepo interface {
	GetByName(ctx context.Context, name string) (*entity.User, error)
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	UpdateTx(ctx context.Context, id string, mutate func(game *entity.Game) ([]entity.Score, error)) (*entity.Game, error)
	All(ctx context.Context) ([]*entity.Game, error)
	ActiveByUser(ctx context.Context, name string) ([]*entity.Game, error)
}

type gamePlayService struct {
	logger *slog.Logger

	userRepo gamePlayUserRepo
	gameRepo gameRepo
}

func NewGamePlayService(logger *slog.Logger, userRepo gamePlayUserRepo, gameRepo gameRepo) GamePlayService {
	return &gamePlayService{
		logger: logger.With("component", "gameplay"),

		userRepo: userRepo,
		gameRepo: gameRepo,
	}
}

// NewGame creates a game between two registered users. The opponent defaults
// to the reserved computer user, the marks default to O and X, and the first
// mover defaults to the creating user.
func (that *gamePlayService) NewGame(ctx context.Context, userName, userMark, opponentName, opponentMark, firstMover string) (*entity.Game, error) {
	if opponentName == "" {
		opponentName = entity.ComputerName
	}
	if userMark == "" {
		userMark = DefaultUserMark
	}
	if opponentMark == "" {
		opponentMark = DefaultOpponentMark
	}
	if firstMover == "" {
		firstMover = userName
	}

	if _, err := that.userRepo.GetByName(ctx, userName); err != nil {
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}

	if _, err := that.userRepo.GetByName(ctx, opponentName); err != nil {
		return nil, fmt.Errorf("failed to get opponent by name: %w", err)
	}

	game, err := entity.NewGame(uuid.NewString(), userName, userMark, opponentName, opponentMark, firstMover)
	if err != nil {
		return nil, err
	}

	if err = that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "user", userName, "opponent", opponentName)

	return game, nil
}

func (that *gamePlayService) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// MakeMove validates and applies one move as a single conditional update on
// the stored game. When the move ends the game, both score records are
// written in the same transaction as the terminal state.
func (that *gamePlayService) MakeMove(ctx context.Context, id, mover string, cell int) (*entity.Game, string, error) {
	if _, err := that.userRepo.GetByName(ctx, mover); err != nil {
		return nil, "", fmt.Errorf("failed to get mover by name: %w", err)
	}

	var message string

	game, err := that.gameRepo.UpdateTx(ctx, id, func(game *entity.Game) ([]entity.Score, error) {
		applied, err := game.ApplyMove(mover, cell)
		if err != nil {
			return nil, err
		}

		message = applied

		if game.GameOver {
			return game.FinalScores(time.Now().UTC()), nil
		}

		return nil, nil
	})
	if err != nil {
		return nil, "", err
	}

	if game.GameOver {
		that.logger.Info("game finished", "gameID", game.ID, "board", game.Board.String())
	}

	return game, message, nil
}

// CancelGame moves an active game to the canceled state. No scores are
// written: cancellation is not a terminal outcome.
func (that *gamePlayService) CancelGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.UpdateTx(ctx, id, func(game *entity.Game) ([]entity.Score, error) {
		return nil, game.Cancel()
	})
	if err != nil {
		return nil, err
	}

	that.logger.Info("game canceled", "gameID", game.ID)

	return game, nil
}

func (that *gamePlayService) GetGames(ctx context.Context) ([]*entity.Game, error) {
	games, err := that.gameRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

// GetActiveUserGames lists the user's games that still accept moves; finished
// and canceled games are excluded.
func (that *gamePlayService) GetActiveUserGames(ctx context.Context, name string) ([]*entity.Game, error) {
	if _, err := that.userRepo.GetByName(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}

	games, err := that.gameRepo.ActiveByUser(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list active games: %w", err)
	}

	return games, nil
}

func (that *gamePlayService) GetGameHistory(ctx context.Context, id string) ([]entity.Move, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game.History, nil
}
