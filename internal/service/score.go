package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/guessagame/tictactoe-backend/internal/entity"
)

// UserTotal is one leaderboard row: the sum of a user's score points.
type UserTotal struct {
	UserName string
	Total    int
}

// UserRanking is a user's performance ratio in [0,1]: points earned over the
// points a perfect record would have earned.
type UserRanking struct {
	UserName string
	Ranking  float64
}

type ScoreService interface {
	GetScores(ctx context.Context) ([]entity.Score, error)
	GetUserScores(ctx context.Context, name string) ([]entity.Score, error)
	GetHighTotalScores(ctx context.Context, limit int) ([]UserTotal, error)
	GetUserRankings(ctx context.Context, limit int) ([]UserRanking, error)
}

type scoreRepo interface {
	All(ctx context.Context) ([]entity.Score, error)
	ByUser(ctx context.Context, name string) ([]entity.Score, error)
}

type scoreUserRepo interface {
	GetByName(ctx context.Context, name string) (*entity.User, error)
}

type scoreService struct {
	userRepo  scoreUserRepo
	scoreRepo scoreRepo
}

func NewScoreService(userRepo scoreUserRepo, scoreRepo scoreRepo) ScoreService {
	return &scoreService{
		userRepo:  userRepo,
		scoreRepo: scoreRepo,
	}
}

func (that *scoreService) GetScores(ctx context.Context) ([]entity.Score, error) {
	scores, err := that.scoreRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}

	return scores, nil
}

func (that *scoreService) GetUserScores(ctx context.Context, name string) ([]entity.Score, error) {
	if _, err := that.userRepo.GetByName(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}

	scores, err := that.scoreRepo.ByUser(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list user scores: %w", err)
	}

	return scores, nil
}

// userAggregate accumulates one user's points over the global score log.
type userAggregate struct {
	name   string
	points int
	count  int
}

// aggregate folds the score log into per-user totals. The returned slice is
// in first-seen order, which gives leaderboards their stable tie-break.
func (that *scoreService) aggregate(ctx context.Context) ([]*userAggregate, error) {
	scores, err := that.scoreRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}

	byName := make(map[string]*userAggregate)
	var ordered []*userAggregate

	for _, score := range scores {
		agg, ok := byName[score.UserName]
		if !ok {
			agg = &userAggregate{name: score.UserName}
			byName[score.UserName] = agg
			ordered = append(ordered, agg)
		}

		agg.points += score.Result.Points()
		agg.count++
	}

	return ordered, nil
}

// GetHighTotalScores returns the top limit users by total points, descending.
// Equal totals keep first-seen order.
func (that *scoreService) GetHighTotalScores(ctx context.Context, limit int) ([]UserTotal, error) {
	ordered, err := that.aggregate(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].points > ordered[j].points
	})

	totals := make([]UserTotal, 0, len(ordered))
	for _, agg := range ordered {
		totals = append(totals, UserTotal{UserName: agg.name, Total: agg.points})
	}

	return clip(totals, limit), nil
}

// GetUserRankings returns the top limit users by performance ratio.
func (that *scoreService) GetUserRankings(ctx context.Context, limit int) ([]UserRanking, error) {
	ordered, err := that.aggregate(ctx)
	if err != nil {
		return nil, err
	}

	rankings := make([]UserRanking, 0, len(ordered))
	for _, agg := range ordered {
		rankings = append(rankings, UserRanking{
			UserName: agg.name,
			Ranking:  float64(agg.points) / float64(entity.MaxPoints*agg.count),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Ranking > rankings[j].Ranking
	})

	return clip(rankings, limit), nil
}

func clip[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
