package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guessagame/tictactoe-backend/internal/entity"
)

// ScoreRepository is append-only: scores are never updated or deleted. The
// gameplay path writes them inside the game transaction (see GameRepository
// UpdateTx) so Add exists for seeding and out-of-band inserts.
type ScoreRepository interface {
	Add(ctx context.Context, score entity.Score) error
	All(ctx context.Context) ([]entity.Score, error)
	ByUser(ctx context.Context, name string) ([]entity.Score, error)
}

type dbScore struct {
	client *redis.Client
}

func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

func (that *dbScore) Add(ctx context.Context, score entity.Score) error {
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, scoresLogKey, scoreJSON)
		pipe.RPush(ctx, userScoresKey(score.UserName), scoreJSON)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to push score: %w", err)
	}

	return nil
}

// All returns every score in insertion order.
func (that *dbScore) All(ctx context.Context) ([]entity.Score, error) {
	return that.list(ctx, scoresLogKey)
}

func (that *dbScore) ByUser(ctx context.Context, name string) ([]entity.Score, error) {
	return that.list(ctx, userScoresKey(name))
}

func (that *dbScore) list(ctx context.Context, key string) ([]entity.Score, error) {
	payloads, err := that.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}

	scores := make([]entity.Score, 0, len(payloads))
	for _, payload := range payloads {
		var score entity.Score
		if err = json.Unmarshal([]byte(payload), &score); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score: %w", err)
		}

		scores = append(scores, score)
	}

	return scores, nil
}
