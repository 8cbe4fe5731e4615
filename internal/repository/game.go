package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guessagame/tictactoe-backend/internal/apperror"
	"github.com/guessagame/tictactoe-backend/internal/entity"
)

// updateTxRetries bounds the optimistic-concurrency retry loop before the
// conflict is surfaced to the caller.
const updateTxRetries = 3

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	UpdateTx(ctx context.Context, id string, mutate func(game *entity.Game) ([]entity.Score, error)) (*entity.Game, error)
	All(ctx context.Context) ([]*entity.Game, error)
	Active(ctx context.Context) ([]*entity.Game, error)
	ActiveByUser(ctx context.Context, name string) ([]*entity.Game, error)
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	if err = that.client.Set(ctx, gameKey(game.ID), gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	if err = that.client.SAdd(ctx, gamesSetKey, game.ID).Err(); err != nil {
		return fmt.Errorf("failed to index game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrGameNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var game entity.Game
	if err = json.Unmarshal([]byte(response), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

// UpdateTx applies mutate to the current game state under a WATCH on the game
// key: read, validate, write. Scores returned by mutate are appended in the
// same transaction, so a game is never left terminal without its score
// records. A concurrent write to the key aborts the transaction and the read
// is retried; two near-simultaneous moves can therefore never both pass the
// turn check against a stale board.
func (that *dbGame) UpdateTx(ctx context.Context, id string, mutate func(game *entity.Game) ([]entity.Score, error)) (*entity.Game, error) {
	key := gameKey(id)

	var updated *entity.Game

	txFn := func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, key).Result()

		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %q", apperror.ErrGameNotFound, id)
		}

		if err != nil {
			return fmt.Errorf("failed to get game by id: %w", err)
		}

		var game entity.Game
		if err = json.Unmarshal([]byte(response), &game); err != nil {
			return fmt.Errorf("failed to unmarshal game: %w", err)
		}

		scores, err := mutate(&game)
		if err != nil {
			return err
		}

		gameJSON, err := json.Marshal(&game)
		if err != nil {
			return fmt.Errorf("failed to marshal game: %w", err)
		}

		scorePayloads := make([][]byte, 0, len(scores))
		for _, score := range scores {
			scoreJSON, err := json.Marshal(score)
			if err != nil {
				return fmt.Errorf("failed to marshal score: %w", err)
			}
			scorePayloads = append(scorePayloads, scoreJSON)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, 0)
			for i, payload := range scorePayloads {
				pipe.RPush(ctx, scoresLogKey, payload)
				pipe.RPush(ctx, userScoresKey(scores[i].UserName), payload)
			}
			return nil
		})
		if err != nil {
			return err
		}

		updated = &game

		return nil
	}

	for range updateTxRetries {
		err := that.client.Watch(ctx, txFn, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to update game: %w", err)
		}

		return updated, nil
	}

	return nil, apperror.ErrGameModified
}

func (that *dbGame) All(ctx context.Context) ([]*entity.Game, error) {
	ids, err := that.client.SMembers(ctx, gamesSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	games := make([]*entity.Game, 0, len(ids))
	for _, id := range ids {
		game, err := that.GetByID(ctx, id)
		if errors.Is(err, apperror.ErrGameNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		games = append(games, game)
	}

	return games, nil
}

// Active returns games that are neither finished nor canceled.
func (that *dbGame) Active(ctx context.Context) ([]*entity.Game, error) {
	games, err := that.All(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*entity.Game, 0, len(games))
	for _, game := range games {
		if game.IsActive() {
			active = append(active, game)
		}
	}

	return active, nil
}

func (that *dbGame) ActiveByUser(ctx context.Context, name string) ([]*entity.Game, error) {
	games, err := that.Active(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make([]*entity.Game, 0, len(games))
	for _, game := range games {
		if game.IsParticipant(name) {
			byUser = append(byUser, game)
		}
	}

	return byUser, nil
}
