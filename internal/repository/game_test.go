package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessagame/tictactoe-backend/internal/apperror"
	"github.com/guessagame/tictactoe-backend/internal/entity"
	"github.com/guessagame/tictactoe-backend/testing/suite"
)

func newStoredGame(t *testing.T) *entity.Game {
	t.Helper()

	game, err := entity.NewGame("g1", "alice", "O", "bob", "X", "alice")
	require.NoError(t, err)

	return game
}

func TestGameRepository_CreateAndGet(t *testing.T) {
	t.Run("Round-trips a game through storage", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// Given: a fresh game
		game := newStoredGame(t)

		// When: storing and reloading it
		require.NoError(t, gameRepo.Create(ctx, game))

		stored, err := gameRepo.GetByID(ctx, game.ID)

		// Then: board, participants and flags survive
		require.NoError(t, err)
		assert.Equal(t, game.ID, stored.ID)
		assert.Equal(t, game.Board, stored.Board)
		assert.Equal(t, game.NextMover, stored.NextMover)
		assert.False(t, stored.GameOver)
		assert.False(t, stored.IsCanceled)
	})

	t.Run("GetByID reports missing games", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		_, err := gameRepo.GetByID(ctx, "missing")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameRepository_UpdateTx(t *testing.T) {
	t.Run("Applies a move and persists the new state", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		game := newStoredGame(t)
		require.NoError(t, gameRepo.Create(ctx, game))

		// When: applying a move under the transaction
		updated, err := gameRepo.UpdateTx(ctx, game.ID, func(game *entity.Game) ([]entity.Score, error) {
			_, err := game.ApplyMove("alice", 0)
			return nil, err
		})

		// Then: the stored state reflects the move
		require.NoError(t, err)
		assert.Equal(t, "O--------", updated.Board.String())

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, "O--------", stored.Board.String())
		assert.Equal(t, "bob", stored.NextMover)
		assert.Equal(t, []entity.Move{{Player: "alice", Cell: 0}}, stored.History)
	})

	t.Run("A mutate error leaves the game untouched", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		game := newStoredGame(t)
		require.NoError(t, gameRepo.Create(ctx, game))

		// When: the mutation is rejected (wrong turn)
		_, err := gameRepo.UpdateTx(ctx, game.ID, func(game *entity.Game) ([]entity.Score, error) {
			_, err := game.ApplyMove("bob", 0)
			return nil, err
		})

		// Then: the error passes through with its kind and nothing was written
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, "---------", stored.Board.String())
	})

	t.Run("Writes terminal scores atomically with the game", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)
		scoreRepo := NewScoreRepository(st.Storage)

		game := newStoredGame(t)
		require.NoError(t, gameRepo.Create(ctx, game))

		// Given: the game reaches a terminal state inside the transaction
		date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		updated, err := gameRepo.UpdateTx(ctx, game.ID, func(game *entity.Game) ([]entity.Score, error) {
			game.GameOver = true
			board, err := entity.ParseBoard("OOO-X---X")
			if err != nil {
				return nil, err
			}
			game.Board = board
			return game.FinalScores(date), nil
		})

		require.NoError(t, err)
		require.True(t, updated.GameOver)

		// Then: both score records landed in the log and the user indexes
		all, err := scoreRepo.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, entity.ResultWin, all[0].Result)
		assert.Equal(t, entity.ResultLose, all[1].Result)

		aliceScores, err := scoreRepo.ByUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, aliceScores, 1)
		assert.Equal(t, entity.ResultWin, aliceScores[0].Result)
	})

	t.Run("Retries after a concurrent write and applies the move", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		game := newStoredGame(t)
		require.NoError(t, gameRepo.Create(ctx, game))

		payload, err := json.Marshal(game)
		require.NoError(t, err)

		// Given: another client touches the game key between the
		// transactional read and write of the first attempt
		attempts := 0
		updated, err := gameRepo.UpdateTx(ctx, game.ID, func(game *entity.Game) ([]entity.Score, error) {
			attempts++
			if attempts == 1 {
				require.NoError(t, st.Storage.Set(ctx, gameKey(game.ID), payload, 0).Err())
			}

			_, err := game.ApplyMove("alice", 0)
			return nil, err
		})

		// Then: the aborted transaction was retried against the fresh state
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.Equal(t, "O--------", updated.Board.String())

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, "O--------", stored.Board.String())
	})

	t.Run("Surfaces a conflict when the game keeps changing", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		game := newStoredGame(t)
		require.NoError(t, gameRepo.Create(ctx, game))

		payload, err := json.Marshal(game)
		require.NoError(t, err)

		// Given: every attempt loses the race
		attempts := 0
		_, err = gameRepo.UpdateTx(ctx, game.ID, func(game *entity.Game) ([]entity.Score, error) {
			attempts++
			require.NoError(t, st.Storage.Set(ctx, gameKey(game.ID), payload, 0).Err())

			_, err := game.ApplyMove("alice", 0)
			return nil, err
		})

		// Then: the retry budget is exhausted and the caller sees a conflict
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrGameModified)
		assert.Equal(t, updateTxRetries, attempts)

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, "---------", stored.Board.String())
	})

	t.Run("UpdateTx reports missing games", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		_, err := gameRepo.UpdateTx(ctx, "missing", func(game *entity.Game) ([]entity.Score, error) {
			return nil, nil
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameRepository_ActiveByUser(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: one active, one finished and one canceled game for alice,
	// plus an active game between other players
	active := newStoredGame(t)
	require.NoError(t, gameRepo.Create(ctx, active))

	finished, err := entity.NewGame("g2", "alice", "O", "bob", "X", "bob")
	require.NoError(t, err)
	finished.GameOver = true
	require.NoError(t, gameRepo.Create(ctx, finished))

	canceled, err := entity.NewGame("g3", "alice", "O", "bob", "X", "alice")
	require.NoError(t, err)
	require.NoError(t, canceled.Cancel())
	require.NoError(t, gameRepo.Create(ctx, canceled))

	other, err := entity.NewGame("g4", "carol", "O", "dave", "X", "carol")
	require.NoError(t, err)
	require.NoError(t, gameRepo.Create(ctx, other))

	// When: listing alice's active games
	games, err := gameRepo.ActiveByUser(ctx, "alice")

	// Then: only the active game remains
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, active.ID, games[0].ID)

	// And: the global active listing excludes finished and canceled games
	allActive, err := gameRepo.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, allActive, 2)
}
