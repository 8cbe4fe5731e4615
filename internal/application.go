package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guessagame/tictactoe-backend/internal/config"
	"github.com/guessagame/tictactoe-backend/internal/mailer"
	"github.com/guessagame/tictactoe-backend/internal/repository"
	"github.com/guessagame/tictactoe-backend/internal/repository/storage"
	"github.com/guessagame/tictactoe-backend/internal/scheduler"
	"github.com/guessagame/tictactoe-backend/internal/service"
	"github.com/guessagame/tictactoe-backend/transport/rest"
)

const shutdownTimeout = 10 * time.Second

// RunApp wires the application together and runs it until a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisClient, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisClient.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	userRepo := repository.NewUserRepository(redisClient)
	gameRepo := repository.NewGameRepository(redisClient)
	scoreRepo := repository.NewScoreRepository(redisClient)
	cacheRepo := repository.NewCacheRepository(redisClient)

	userService := service.NewUserService(userRepo)
	gamePlayService := service.NewGamePlayService(logger, userRepo, gameRepo)
	scoreService := service.NewScoreService(userRepo, scoreRepo)
	statsService := service.NewStatsService(logger, scoreRepo, cacheRepo)

	smtpMailer := mailer.New(conf.SMTP.Host, conf.SMTP.Port, conf.SMTP.Username, conf.SMTP.Password, conf.SMTP.From)
	reminderService := service.NewReminderService(logger, userRepo, gameRepo, smtpMailer)

	// the reserved default opponent must exist before the first game
	if err = userService.EnsureComputerUser(ctx); err != nil {
		return fmt.Errorf("could not seed computer user: %w", err)
	}

	jobs := scheduler.New(logger, reminderService, statsService)
	if err = jobs.Start(); err != nil {
		return fmt.Errorf("could not start scheduler: %w", err)
	}
	defer jobs.Stop()

	server := rest.New(logger, userService, gamePlayService, scoreService, statsService)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := server.Start(conf.HTTPPort); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err = server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown failed", "error", err)
		}

		return nil
	}
}
