package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guessagame/tictactoe-backend/internal/entity"
)

// WinningChanceKey is the cache slot for the precomputed aggregate.
const WinningChanceKey = "winning-chance"

// StatsService maintains the cached winning-chance aggregate. The refresh is
// best-effort and runs out-of-band; readers must tolerate a stale or missing
// value.
type StatsService interface {
	RefreshWinningChance(ctx context.Context) error
	WinningChance(ctx context.Context) (string, error)
}

type statsScoreRepo interface {
	All(ctx context.Context) ([]entity.Score, error)
}

type cacheRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type statsService struct {
	logger *slog.Logger

	scoreRepo statsScoreRepo
	cacheRepo cacheRepo
}

func NewStatsService(logger *slog.Logger, scoreRepo statsScoreRepo, cacheRepo cacheRepo) StatsService {
	return &statsService{
		logger: logger.With("component", "stats"),

		scoreRepo: scoreRepo,
		cacheRepo: cacheRepo,
	}
}

// RefreshWinningChance recomputes the share of WIN results across all
// recorded scores and caches it.
func (that *statsService) RefreshWinningChance(ctx context.Context) error {
	scores, err := that.scoreRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scores: %w", err)
	}

	if len(scores) == 0 {
		return nil
	}

	wins := 0
	for _, score := range scores {
		if score.Result == entity.ResultWin {
			wins++
		}
	}

	value := fmt.Sprintf("The overall winning chance is %d%%", wins*100/len(scores))
	if err = that.cacheRepo.Set(ctx, WinningChanceKey, value); err != nil {
		return fmt.Errorf("failed to cache winning chance: %w", err)
	}

	that.logger.Info("winning chance refreshed", "value", value)

	return nil
}

// WinningChance returns the cached aggregate, or an empty string when it has
// not been computed yet.
func (that *statsService) WinningChance(ctx context.Context) (string, error) {
	value, err := that.cacheRepo.Get(ctx, WinningChanceKey)
	if err != nil {
		return "", fmt.Errorf("failed to read cached winning chance: %w", err)
	}

	return value, nil
}
