package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessagame/tictactoe-backend/internal/entity"
	"github.com/guessagame/tictactoe-backend/testing/suite"
)

func TestScoreRepository(t *testing.T) {
	ctx, st := suite.New(t)

	scoreRepo := NewScoreRepository(st.Storage)

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// Given: three scores written in order
	scores := []entity.Score{
		{UserName: "alice", OpponentName: "bob", BoardState: "OOO-X---X", Date: date, Result: entity.ResultWin},
		{UserName: "bob", OpponentName: "alice", BoardState: "OOO-X---X", Date: date, Result: entity.ResultLose},
		{UserName: "alice", OpponentName: "computer", BoardState: "OXOOXXXOO", Date: date, Result: entity.ResultTie},
	}
	for _, score := range scores {
		require.NoError(t, scoreRepo.Add(ctx, score))
	}

	// When: reading the global log
	all, err := scoreRepo.All(ctx)

	// Then: insertion order is preserved
	require.NoError(t, err)
	assert.Equal(t, scores, all)

	// When: reading one user's scores
	aliceScores, err := scoreRepo.ByUser(ctx, "alice")

	// Then: only that user's records come back, in order
	require.NoError(t, err)
	require.Len(t, aliceScores, 2)
	assert.Equal(t, entity.ResultWin, aliceScores[0].Result)
	assert.Equal(t, entity.ResultTie, aliceScores[1].Result)

	// And: an unknown user has no scores, which is not an error
	none, err := scoreRepo.ByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
