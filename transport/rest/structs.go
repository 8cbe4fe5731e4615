package rest

import (
	"time"

	"github.com/guessagame/tictactoe-backend/internal/entity"
	"github.com/guessagame/tictactoe-backend/internal/service"
)

type createUserRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email,omitempty"`
}

type newGameRequest struct {
	UserName       string `json:"user_name"`
	UserTic        string `json:"user_tic,omitempty"`
	OpponentName   string `json:"opponent_name,omitempty"`
	OpponentTic    string `json:"opponent_tic,omitempty"`
	UserOfNextMove string `json:"user_of_next_move,omitempty"`
}

type makeMoveRequest struct {
	UserOfMove string `json:"user_of_move"`
	Position   int    `json:"position"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type gameResponse struct {
	ID             string `json:"id"`
	UserName       string `json:"user_name"`
	UserTic        string `json:"user_tic"`
	OpponentName   string `json:"opponent_name"`
	OpponentTic    string `json:"opponent_tic"`
	BoardState     string `json:"board_state"`
	UserOfNextMove string `json:"user_of_next_move"`
	GameOver       bool   `json:"game_over"`
	IsCanceled     bool   `json:"is_canceled"`
	Message        string `json:"message,omitempty"`
}

func newGameResponse(game *entity.Game, message string) gameResponse {
	return gameResponse{
		ID:             game.ID,
		UserName:       game.UserName,
		UserTic:        game.UserMark,
		OpponentName:   game.OpponentName,
		OpponentTic:    game.OpponentMark,
		BoardState:     game.Board.String(),
		UserOfNextMove: game.NextMover,
		GameOver:       game.GameOver,
		IsCanceled:     game.IsCanceled,
		Message:        message,
	}
}

type gamesResponse struct {
	Items []gameResponse `json:"items"`
}

type scoreResponse struct {
	UserName     string `json:"user_name"`
	OpponentName string `json:"opponent_name"`
	Date         string `json:"date"`
	Result       string `json:"result"`
	BoardState   string `json:"board_state"`
}

func newScoresResponse(scores []entity.Score) scoresResponse {
	items := make([]scoreResponse, 0, len(scores))
	for _, score := range scores {
		items = append(items, scoreResponse{
			UserName:     score.UserName,
			OpponentName: score.OpponentName,
			Date:         score.Date.Format(time.DateOnly),
			Result:       string(score.Result),
			BoardState:   score.BoardState,
		})
	}
	return scoresResponse{Items: items}
}

type scoresResponse struct {
	Items []scoreResponse `json:"items"`
}

type totalScoreResponse struct {
	UserName   string `json:"user_name"`
	TotalScore int    `json:"total_score"`
}

type totalScoresResponse struct {
	Items []totalScoreResponse `json:"items"`
}

func newTotalScoresResponse(totals []service.UserTotal) totalScoresResponse {
	items := make([]totalScoreResponse, 0, len(totals))
	for _, total := range totals {
		items = append(items, totalScoreResponse{UserName: total.UserName, TotalScore: total.Total})
	}
	return totalScoresResponse{Items: items}
}

type rankingResponse struct {
	UserName string  `json:"user_name"`
	Ranking  float64 `json:"ranking"`
}

type rankingsResponse struct {
	Items []rankingResponse `json:"items"`
}

func newRankingsResponse(rankings []service.UserRanking) rankingsResponse {
	items := make([]rankingResponse, 0, len(rankings))
	for _, ranking := range rankings {
		items = append(items, rankingResponse{UserName: ranking.UserName, Ranking: ranking.Ranking})
	}
	return rankingsResponse{Items: items}
}

type historyMove struct {
	Player   string `json:"player"`
	Position int    `json:"position"`
}

type historyResponse struct {
	Items []historyMove `json:"items"`
}

func newHistoryResponse(moves []entity.Move) historyResponse {
	items := make([]historyMove, 0, len(moves))
	for _, move := range moves {
		items = append(items, historyMove{Player: move.Player, Position: move.Cell})
	}
	return historyResponse{Items: items}
}
