package apperror

import (
	"errors"
	"fmt"
)

// Error kinds. Every application error wraps exactly one of these so the
// transport layer can map it to a response status with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrUserExists   = fmt.Errorf("%w: a user with that name already exists", ErrConflict)
	ErrUserNotFound = fmt.Errorf("%w: a user with that name does not exist", ErrNotFound)
	ErrGameNotFound = fmt.Errorf("%w: game does not exist", ErrNotFound)

	ErrMarksEqual    = fmt.Errorf("%w: both players chose the same mark", ErrValidation)
	ErrInvalidMark   = fmt.Errorf("%w: mark must be a single printable character", ErrValidation)
	ErrBadFirstMover = fmt.Errorf("%w: first mover is not a participant of the game", ErrValidation)
	ErrInvalidCell   = fmt.Errorf("%w: cell index must be between 0 and 8", ErrValidation)

	ErrNotYourTurn    = fmt.Errorf("%w: it's not your turn", ErrConflict)
	ErrCellOccupied   = fmt.Errorf("%w: cell is already occupied", ErrConflict)
	ErrNotParticipant = fmt.Errorf("%w: user is not a player of this game", ErrConflict)
	ErrGameModified   = fmt.Errorf("%w: game was modified concurrently, retry the move", ErrConflict)

	ErrGameFinished = fmt.Errorf("%w: game is already finished", ErrForbidden)
	ErrGameCanceled = fmt.Errorf("%w: game is already canceled", ErrForbidden)
)
