package entity

import (
	"fmt"
	"time"

	"github.com/guessagame/tictactoe-backend/internal/apperror"
)

// Move is one accepted board mutation, kept in an append-only history.
type Move struct {
	Player string `json:"player"`
	Cell   int    `json:"cell"`
}

// Game is one match between two users. While neither GameOver nor IsCanceled
// is set the game is active and NextMover names the participant allowed to
// move. Once either flag is set no further moves are accepted.
type Game struct {
	ID           string    `json:"id"`
	UserName     string    `json:"user_name"`
	UserMark     string    `json:"user_mark"`
	OpponentName string    `json:"opponent_name"`
	OpponentMark string    `json:"opponent_mark"`
	Board        Board     `json:"board_state"`
	NextMover    string    `json:"next_mover"`
	GameOver     bool      `json:"game_over"`
	IsCanceled   bool      `json:"is_canceled"`
	History      []Move    `json:"history,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewGame creates an active game with an empty board.
func NewGame(id, userName, userMark, opponentName, opponentMark, firstMover string) (*Game, error) {
	if err := validateMark(userMark); err != nil {
		return nil, err
	}

	if err := validateMark(opponentMark); err != nil {
		return nil, err
	}

	if userMark == opponentMark {
		return nil, fmt.Errorf("%w: %q", apperror.ErrMarksEqual, userMark)
	}

	if firstMover != userName && firstMover != opponentName {
		return nil, fmt.Errorf("%w: %q", apperror.ErrBadFirstMover, firstMover)
	}

	return &Game{
		ID:           id,
		UserName:     userName,
		UserMark:     userMark,
		OpponentName: opponentName,
		OpponentMark: opponentMark,
		Board:        NewBoard(),
		NextMover:    firstMover,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func validateMark(mark string) error {
	if len(mark) != 1 || mark[0] <= ' ' || mark[0] > '~' {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if mark[0] == EmptyCell {
		return fmt.Errorf("%w: %q is reserved for empty cells", apperror.ErrInvalidMark, mark)
	}

	return nil
}

// ApplyMove validates the move server-side, applies it and returns a
// human-readable status message. Mover identity and turn order are always
// re-checked here: the API is stateless per request and the client-declared
// turn is never trusted.
func (that *Game) ApplyMove(mover string, cell int) (string, error) {
	if that.IsCanceled {
		return "", apperror.ErrGameCanceled
	}

	if that.GameOver {
		return "", apperror.ErrGameFinished
	}

	if !that.IsParticipant(mover) {
		return "", fmt.Errorf("%w: %q", apperror.ErrNotParticipant, mover)
	}

	if mover != that.NextMover {
		return "", fmt.Errorf("%w: waiting for %q", apperror.ErrNotYourTurn, that.NextMover)
	}

	board, err := that.Board.Place(cell, that.MarkOf(mover))
	if err != nil {
		return "", err
	}

	that.Board = board
	that.History = append(that.History, Move{Player: mover, Cell: cell})
	that.NextMover = that.OpponentOf(mover)

	verdict, winner := that.Board.Evaluate(that.UserMark[0], that.OpponentMark[0])
	switch verdict {
	case VerdictWin:
		that.GameOver = true
		return fmt.Sprintf("Game Over, %s has won", that.ownerOf(winner)), nil
	case VerdictTie:
		that.GameOver = true
		return "Game Over, it is a tie!", nil
	default:
		return "Next move: " + that.NextMover, nil
	}
}

// Cancel moves an active game to the canceled state. Canceled games cannot be
// replayed, are excluded from active listings and never produce scores.
func (that *Game) Cancel() error {
	if that.IsCanceled {
		return apperror.ErrGameCanceled
	}

	if that.GameOver {
		return apperror.ErrGameFinished
	}

	that.IsCanceled = true

	return nil
}

func (that *Game) IsActive() bool {
	return !that.GameOver && !that.IsCanceled
}

func (that *Game) IsParticipant(name string) bool {
	return name == that.UserName || name == that.OpponentName
}

func (that *Game) MarkOf(name string) byte {
	if name == that.UserName {
		return that.UserMark[0]
	}
	return that.OpponentMark[0]
}

func (that *Game) OpponentOf(name string) string {
	if name == that.UserName {
		return that.OpponentName
	}
	return that.UserName
}

func (that *Game) ownerOf(mark byte) string {
	if mark == that.UserMark[0] {
		return that.UserName
	}
	return that.OpponentName
}

// FinalScores derives both participants' score records from the terminal
// board. A non-tie game yields exactly one WIN and one LOSE record; a tie
// yields two TIE records.
func (that *Game) FinalScores(date time.Time) []Score {
	verdict, winner := that.Board.Evaluate(that.UserMark[0], that.OpponentMark[0])

	userResult := ResultTie
	if verdict == VerdictWin {
		if winner == that.UserMark[0] {
			userResult = ResultWin
		} else {
			userResult = ResultLose
		}
	}

	state := that.Board.String()

	return []Score{
		{
			UserName:     that.UserName,
			OpponentName: that.OpponentName,
			BoardState:   state,
			Date:         date,
			Result:       userResult,
		},
		{
			UserName:     that.OpponentName,
			OpponentName: that.UserName,
			BoardState:   state,
			Date:         date,
			Result:       userResult.Opposite(),
		},
	}
}
