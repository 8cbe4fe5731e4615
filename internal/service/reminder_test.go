package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessagame/tictactoe-backend/internal/repository"
	"github.com/guessagame/tictactoe-backend/testing/suite"
)

type fakeMailer struct {
	sent    []string
	failFor string
}

func (that *fakeMailer) Send(to, _, _ string) error {
	if to == that.failFor {
		return errors.New("smtp unavailable")
	}

	that.sent = append(that.sent, to)

	return nil
}

func TestReminderService_SendReminders(t *testing.T) {
	t.Run("Emails participants of unfinished games", func(t *testing.T) {
		ctx, st := suite.New(t)

		userRepo := repository.NewUserRepository(st.Storage)
		gameRepo := repository.NewGameRepository(st.Storage)
		users := NewUserService(userRepo)
		gamePlay := NewGamePlayService(st.Logger, userRepo, gameRepo)

		mailer := &fakeMailer{}
		reminders := NewReminderService(st.Logger, userRepo, gameRepo, mailer)

		// Given: alice has an email, bob does not
		_, err := users.CreateUser(ctx, "alice", "alice@example.com")
		require.NoError(t, err)
		_, err = users.CreateUser(ctx, "bob", "")
		require.NoError(t, err)

		_, err = gamePlay.NewGame(ctx, "alice", "O", "bob", "X", "alice")
		require.NoError(t, err)

		// When: reminders run
		require.NoError(t, reminders.SendReminders(ctx))

		// Then: only alice gets one
		assert.Equal(t, []string{"alice@example.com"}, mailer.sent)
	})

	t.Run("Sends one mail per user across several games", func(t *testing.T) {
		ctx, st := suite.New(t)

		userRepo := repository.NewUserRepository(st.Storage)
		gameRepo := repository.NewGameRepository(st.Storage)
		users := NewUserService(userRepo)
		gamePlay := NewGamePlayService(st.Logger, userRepo, gameRepo)

		mailer := &fakeMailer{}
		reminders := NewReminderService(st.Logger, userRepo, gameRepo, mailer)

		_, err := users.CreateUser(ctx, "alice", "alice@example.com")
		require.NoError(t, err)
		_, err = users.CreateUser(ctx, "bob", "")
		require.NoError(t, err)

		_, err = gamePlay.NewGame(ctx, "alice", "O", "bob", "X", "alice")
		require.NoError(t, err)
		_, err = gamePlay.NewGame(ctx, "alice", "O", "bob", "X", "bob")
		require.NoError(t, err)

		require.NoError(t, reminders.SendReminders(ctx))

		assert.Equal(t, []string{"alice@example.com"}, mailer.sent)
	})

	t.Run("Skips canceled games", func(t *testing.T) {
		ctx, st := suite.New(t)

		userRepo := repository.NewUserRepository(st.Storage)
		gameRepo := repository.NewGameRepository(st.Storage)
		users := NewUserService(userRepo)
		gamePlay := NewGamePlayService(st.Logger, userRepo, gameRepo)

		mailer := &fakeMailer{}
		reminders := NewReminderService(st.Logger, userRepo, gameRepo, mailer)

		_, err := users.CreateUser(ctx, "alice", "alice@example.com")
		require.NoError(t, err)
		_, err = users.CreateUser(ctx, "bob", "bob@example.com")
		require.NoError(t, err)

		game, err := gamePlay.NewGame(ctx, "alice", "O", "bob", "X", "alice")
		require.NoError(t, err)
		_, err = gamePlay.CancelGame(ctx, game.ID)
		require.NoError(t, err)

		require.NoError(t, reminders.SendReminders(ctx))

		assert.Empty(t, mailer.sent)
	})

	t.Run("Keeps going when a single send fails", func(t *testing.T) {
		ctx, st := suite.New(t)

		userRepo := repository.NewUserRepository(st.Storage)
		gameRepo := repository.NewGameRepository(st.Storage)
		users := NewUserService(userRepo)
		gamePlay := NewGamePlayService(st.Logger, userRepo, gameRepo)

		mailer := &fakeMailer{failFor: "alice@example.com"}
		reminders := NewReminderService(st.Logger, userRepo, gameRepo, mailer)

		_, err := users.CreateUser(ctx, "alice", "alice@example.com")
		require.NoError(t, err)
		_, err = users.CreateUser(ctx, "bob", "bob@example.com")
		require.NoError(t, err)

		_, err = gamePlay.NewGame(ctx, "alice", "O", "bob", "X", "alice")
		require.NoError(t, err)

		require.NoError(t, reminders.SendReminders(ctx))

		assert.Equal(t, []string{"bob@example.com"}, mailer.sent)
	})
}
