package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-kv/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-kv/internal/entity"
)

// Reset returns the initial state: an empty board and no winner.
func Reset() *entity.Game {
	return entity.NewGame()
}

// ApplyMove places the move on a copy of current and reports the winner the
// move produced, or a draw when it filled the last cell. On an occupied cell
// current is returned unchanged together with a *apperror.CellOccupiedError.
//
// The position is expected to be validated by the caller.
func ApplyMove(current *entity.Game, move entity.Move) (*entity.Game, error) {
	if !current.Board[move.Row][move.Col].IsEmpty() {
		return current, &apperror.CellOccupiedError{Row: move.Row, Col: move.Col}
	}

	next := current.Clone()
	next.Board[move.Row][move.Col] = entity.NewCell(move.Mark)

	switch winner, ok := DetectWin(&next.Board, move.Row, move.Col, move.Mark); {
	case ok:
		next.Winner = entity.WinnerOf(winner)
	case next.Board.IsFull():
		next.Winner = entity.WinnerDraw
	default:
		next.Winner = entity.WinnerNone
	}

	return next, nil
}

// DetectWin checks only the lines through the pivot (row, col). That is enough
// as long as the pivot is the cell that was just filled.
func DetectWin(board *entity.Board, row, col int, mark entity.Mark) (entity.Mark, bool) {
	const last = entity.BoardSize - 1

	if lineHolds(mark, func(i int) entity.Cell { return board[row][i] }) {
		return mark, true
	}

	if lineHolds(mark, func(i int) entity.Cell { return board[i][col] }) {
		return mark, true
	}

	if row == col && lineHolds(mark, func(i int) entity.Cell { return board[i][i] }) {
		return mark, true
	}

	if row+col == last && lineHolds(mark, func(i int) entity.Cell { return board[i][last-i] }) {
		return mark, true
	}

	return "", false
}

func lineHolds(mark entity.Mark, cell func(i int) entity.Cell) bool {
	for i := range entity.BoardSize {
		if !cell(i).Holds(mark) {
			return false
		}
	}

	return true
}
