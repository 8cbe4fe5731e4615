package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guessagame/tictactoe-backend/internal/entity"
)

// Mailer is the outbound notification boundary.
type Mailer interface {
	Send(to, subject, body string) error
}

// ReminderService nudges users with an email about games that still accept
// moves. Canceled and finished games never trigger a reminder.
type ReminderService interface {
	SendReminders(ctx context.Context) error
}

type reminderUserRepo interface {
	AllWithEmail(ctx context.Context) ([]*entity.User, error)
}

type reminderGameRepo interface {
	ActiveByUser(ctx context.Context, name string) ([]*entity.Game, error)
}

type reminderService struct {
	logger *slog.Logger

	userRepo reminderUserRepo
	gameRepo reminderGameRepo
	mailer   Mailer
}

func NewReminderService(logger *slog.Logger, userRepo reminderUserRepo, gameRepo reminderGameRepo, mailer Mailer) ReminderService {
	return &reminderService{
		logger: logger.With("component", "reminder"),

		userRepo: userRepo,
		gameRepo: gameRepo,
		mailer:   mailer,
	}
}

// SendReminders emails each user with a known address who has at least one
// unfinished game, one mail per user. Individual send failures are logged and
// do not stop the run.
func (that *reminderService) SendReminders(ctx context.Context) error {
	users, err := that.userRepo.AllWithEmail(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users with email: %w", err)
	}

	for _, user := range users {
		that.remind(ctx, user)
	}

	return nil
}

func (that *reminderService) remind(ctx context.Context, user *entity.User) {
	log := that.logger.With("user", user.Name)

	games, err := that.gameRepo.ActiveByUser(ctx, user.Name)
	if err != nil {
		log.Error("failed to list active games", "error", err)
		return
	}

	if len(games) == 0 {
		return
	}

	body := fmt.Sprintf("Hello %s, You have an unfinished Tic-Tac-Toe!", user.Name)
	if err = that.mailer.Send(user.Email, "This is a reminder!", body); err != nil {
		log.Error("failed to send reminder", "error", err)
		return
	}

	log.Info("reminder sent", "activeGames", len(games))
}
