package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/guessagame/tictactoe-backend/internal/apperror"
	"github.com/guessagame/tictactoe-backend/internal/entity"
)

type UserService interface {
	CreateUser(ctx context.Context, name, email string) (*entity.User, error)
	GetUser(ctx context.Context, name string) (*entity.User, error)
	EnsureComputerUser(ctx context.Context) error
}

type userRepo interface {
	Create(ctx context.Context, user *entity.User) error
	GetByName(ctx context.Context, name string) (*entity.User, error)
	EnsureComputer(ctx context.Context) error
}

type userService struct {
	userRepo userRepo
}

func NewUserService(userRepo userRepo) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

func (that *userService) CreateUser(ctx context.Context, name, email string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: user name must not be empty", apperror.ErrValidation)
	}

	user := &entity.User{Name: name, Email: email}
	if err := that.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (that *userService) GetUser(ctx context.Context, name string) (*entity.User, error) {
	user, err := that.userRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}

	return user, nil
}

func (that *userService) EnsureComputerUser(ctx context.Context) error {
	if err := that.userRepo.EnsureComputer(ctx); err != nil {
		return fmt.Errorf("failed to ensure computer user: %w", err)
	}

	return nil
}
