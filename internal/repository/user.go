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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByName(ctx context.Context, name string) (*entity.User, error)
	EnsureComputer(ctx context.Context) error
	AllWithEmail(ctx context.Context) ([]*entity.User, error)
}

type dbUser struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) UserRepository {
	return &dbUser{
		client: client,
	}
}

// Create registers the user. SetNX keeps the duplicate check atomic.
func (that *dbUser) Create(ctx context.Context, user *entity.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	created, err := that.client.SetNX(ctx, userKey(user.Name), userJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set user: %w", err)
	}

	if !created {
		return fmt.Errorf("%w: %q", apperror.ErrUserExists, user.Name)
	}

	if err = that.client.SAdd(ctx, usersSetKey, user.Name).Err(); err != nil {
		return fmt.Errorf("failed to index user: %w", err)
	}

	return nil
}

func (that *dbUser) GetByName(ctx context.Context, name string) (*entity.User, error) {
	response, err := that.client.Get(ctx, userKey(name)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUserNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}

	var user entity.User
	if err = json.Unmarshal([]byte(response), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

// EnsureComputer seeds the reserved default opponent. Safe to call on every
// startup.
func (that *dbUser) EnsureComputer(ctx context.Context) error {
	computer := entity.User{Name: entity.ComputerName}

	computerJSON, err := json.Marshal(computer)
	if err != nil {
		return fmt.Errorf("failed to marshal computer user: %w", err)
	}

	if err = that.client.SetNX(ctx, userKey(entity.ComputerName), computerJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to seed computer user: %w", err)
	}

	if err = that.client.SAdd(ctx, usersSetKey, entity.ComputerName).Err(); err != nil {
		return fmt.Errorf("failed to index computer user: %w", err)
	}

	return nil
}

func (that *dbUser) AllWithEmail(ctx context.Context) ([]*entity.User, error) {
	names, err := that.client.SMembers(ctx, usersSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*entity.User, 0, len(names))
	for _, name := range names {
		user, err := that.GetByName(ctx, name)
		if errors.Is(err, apperror.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if user.Email != "" {
			users = append(users, user)
		}
	}

	return users, nil
}
