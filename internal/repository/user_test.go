package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessagame/tictactoe-backend/internal/apperror"
	"github.com/guessagame/tictactoe-backend/internal/entity"
	"github.com/guessagame/tictactoe-backend/testing/suite"
)

func TestUserRepository_Create(t *testing.T) {
	ctx, st := suite.New(t)

	userRepo := NewUserRepository(st.Storage)

	// Given: a new user
	user := &entity.User{Name: "alice", Email: "alice@example.com"}

	// When: Create is called
	err := userRepo.Create(ctx, user)

	// Then: the user is stored and readable
	require.NoError(t, err)

	stored, err := userRepo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user, stored)

	// When: Create is called again with the same name
	err = userRepo.Create(ctx, &entity.User{Name: "alice"})

	// Then: the duplicate is rejected as a conflict
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrUserExists)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestUserRepository_GetByName_NotFound(t *testing.T) {
	ctx, st := suite.New(t)

	userRepo := NewUserRepository(st.Storage)

	_, err := userRepo.GetByName(ctx, "nobody")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestUserRepository_EnsureComputer(t *testing.T) {
	ctx, st := suite.New(t)

	userRepo := NewUserRepository(st.Storage)

	// When: seeding twice
	require.NoError(t, userRepo.EnsureComputer(ctx))
	require.NoError(t, userRepo.EnsureComputer(ctx))

	// Then: the reserved user exists exactly once
	computer, err := userRepo.GetByName(ctx, entity.ComputerName)
	require.NoError(t, err)
	assert.Equal(t, entity.ComputerName, computer.Name)
	assert.Empty(t, computer.Email)
}

func TestUserRepository_AllWithEmail(t *testing.T) {
	ctx, st := suite.New(t)

	userRepo := NewUserRepository(st.Storage)

	require.NoError(t, userRepo.EnsureComputer(ctx))
	require.NoError(t, userRepo.Create(ctx, &entity.User{Name: "alice", Email: "alice@example.com"}))
	require.NoError(t, userRepo.Create(ctx, &entity.User{Name: "bob"}))

	users, err := userRepo.AllWithEmail(ctx)

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Name)
}
