package entity

import "time"

// Result is a game outcome from one participant's point of view.
type Result string

const (
	ResultWin  Result = "WIN"
	ResultTie  Result = "TIE"
	ResultLose Result = "LOSE"
)

// Points weighs a result for totals and rankings.
func (that Result) Points() int {
	switch that {
	case ResultWin:
		return 2
	case ResultTie:
		return 1
	default:
		return 0
	}
}

// Opposite returns the result as seen from the other side of the board.
func (that Result) Opposite() Result {
	switch that {
	case ResultWin:
		return ResultLose
	case ResultLose:
		return ResultWin
	default:
		return ResultTie
	}
}

// MaxPoints is the weight of a win, used to normalize rankings.
const MaxPoints = 2

// Score is one immutable record per (game, participant) pair, written only
// when a game finishes. Canceled games never produce scores.
type Score struct {
	UserName     string    `json:"user_name"`
	OpponentName string    `json:"opponent_name"`
	BoardState   string    `json:"board_state"`
	Date         time.Time `json:"date"`
	Result       Result    `json:"result"`
}
