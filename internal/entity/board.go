package entity

import (
	"encoding/json"
	"fmt"

	"github.com/guessagame/tictactoe-backend/internal/apperror"
)

const (
	// BoardSize is the number of cells on the 3x3 board.
	BoardSize = 9

	// EmptyCell is the sentinel for an unoccupied cell. Marks may never
	// collide with it.
	EmptyCell = byte('-')
)

// magicSquare assigns each cell its 3x3 magic square weight. Three distinct
// weights sum to 15 exactly when the cells form a row, a column or a diagonal,
// so win detection is a subset-sum check instead of line enumeration.
var magicSquare = [BoardSize]int{8, 1, 6, 3, 5, 7, 4, 9, 2}

// Verdict is the outcome of evaluating a board position.
type Verdict int

const (
	VerdictInProgress Verdict = iota
	VerdictWin
	VerdictTie
)

// Board is a row-major 3x3 grid. It is a value type: Place returns a new
// board, cells only ever fill and never clear.
type Board [BoardSize]byte

func NewBoard() Board {
	var board Board
	for i := range board {
		board[i] = EmptyCell
	}
	return board
}

// ParseBoard restores a board from its 9-character wire encoding.
func ParseBoard(state string) (Board, error) {
	var board Board
	if len(state) != BoardSize {
		return board, fmt.Errorf("board state must be %d characters, got %d", BoardSize, len(state))
	}
	copy(board[:], state)
	return board, nil
}

func (that Board) IsOccupied(cell int) bool {
	return cell >= 0 && cell < BoardSize && that[cell] != EmptyCell
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// Place returns a copy of the board with the mark set at cell.
func (that Board) Place(cell int, mark byte) (Board, error) {
	if cell < 0 || cell >= BoardSize {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that[cell] != EmptyCell {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell] = mark

	return that, nil
}

// Evaluate judges the position for the two marks. A simultaneous win for both
// marks cannot happen under correct turn alternation; it resolves to a tie so
// the result never depends on evaluation order.
func (that Board) Evaluate(markA, markB byte) (Verdict, byte) {
	winA := that.hasWinningLine(markA)
	winB := that.hasWinningLine(markB)

	switch {
	case winA && winB:
		return VerdictTie, EmptyCell
	case winA:
		return VerdictWin, markA
	case winB:
		return VerdictWin, markB
	}

	if that.IsFull() {
		return VerdictTie, EmptyCell
	}

	return VerdictInProgress, EmptyCell
}

// hasWinningLine reports whether three of the mark's cells weigh exactly 15.
// Only triples are considered, so fewer than three marks can never win.
func (that Board) hasWinningLine(mark byte) bool {
	var cells []int
	for i, cell := range that {
		if cell == mark {
			cells = append(cells, i)
		}
	}

	for i := 0; i < len(cells); i++ {
		for j := i + 1; j < len(cells); j++ {
			for k := j + 1; k < len(cells); k++ {
				if magicSquare[cells[i]]+magicSquare[cells[j]]+magicSquare[cells[k]] == 15 {
					return true
				}
			}
		}
	}

	return false
}

// String renders the wire encoding: 9 characters, left-to-right, top-to-bottom.
func (that Board) String() string {
	return string(that[:])
}

func (that Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(that[:]))
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var state string
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to decode board state: %w", err)
	}

	board, err := ParseBoard(state)
	if err != nil {
		return err
	}

	*that = board

	return nil
}
