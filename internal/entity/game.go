package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BoardSize is the side of the square board.
const BoardSize = 3

const (
	MarkX Mark = "x"
	MarkO Mark = "o"
)

const (
	WinnerNone Winner = ""
	WinnerDraw Winner = "draw"
)

var (
	ErrInvalidMark     = errors.New("invalid mark")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidWinner   = errors.New("invalid winner")
	ErrInvalidBoard    = errors.New("invalid board")

	jsonNull  = []byte("null")
	jsonFalse = []byte("false")
)

// Mark is one of the two symbols a player can place.
type Mark string

// ParseMark accepts "x" or "o" in either case.
func ParseMark(s string) (Mark, error) {
	mark := Mark(strings.ToLower(s))
	if !mark.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMark, s)
	}

	return mark, nil
}

func (that Mark) IsValid() bool {
	return that == MarkX || that == MarkO
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMark, data)
	}

	mark, err := ParseMark(raw)
	if err != nil {
		return err
	}

	*that = mark

	return nil
}

// Cell is a board position. The zero value is empty.
type Cell struct {
	mark Mark
}

func NewCell(mark Mark) Cell {
	return Cell{mark: mark}
}

func (that Cell) IsEmpty() bool {
	return that.mark == ""
}

func (that Cell) Mark() (Mark, bool) {
	return that.mark, !that.IsEmpty()
}

func (that Cell) Holds(mark Mark) bool {
	return !that.IsEmpty() && that.mark == mark
}

func (that Cell) MarshalJSON() ([]byte, error) {
	if that.IsEmpty() {
		return jsonNull, nil
	}

	return json.Marshal(string(that.mark))
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*that = Cell{}
		return nil
	}

	var mark Mark
	if err := json.Unmarshal(data, &mark); err != nil {
		return err
	}

	*that = NewCell(mark)

	return nil
}

// Board is addressed as board[row][col].
type Board [BoardSize][BoardSize]Cell

// UnmarshalJSON rejects anything but BoardSize rows of BoardSize cells;
// a plain array decode would pad or truncate silently.
func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]Cell
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}

	if len(rows) != BoardSize {
		return fmt.Errorf("%w: %d rows", ErrInvalidBoard, len(rows))
	}

	var board Board
	for row, cells := range rows {
		if len(cells) != BoardSize {
			return fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, row, len(cells))
		}

		copy(board[row][:], cells)
	}

	*that = board

	return nil
}

func (that *Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell.IsEmpty() {
				return false
			}
		}
	}

	return true
}

// Winner is WinnerNone, a mark, or WinnerDraw. On the wire "no winner" is false.
type Winner string

func WinnerOf(mark Mark) Winner {
	return Winner(mark)
}

func (that Winner) Mark() (Mark, bool) {
	mark := Mark(that)
	return mark, mark.IsValid()
}

func (that Winner) MarshalJSON() ([]byte, error) {
	if that == WinnerNone {
		return jsonFalse, nil
	}

	return json.Marshal(string(that))
}

func (that *Winner) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonFalse) || bytes.Equal(data, jsonNull) {
		*that = WinnerNone
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidWinner, data)
	}

	if Winner(raw) == WinnerDraw {
		*that = WinnerDraw
		return nil
	}

	mark, err := ParseMark(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidWinner, raw)
	}

	*that = WinnerOf(mark)

	return nil
}

// Game is the persisted state of one game.
type Game struct {
	Board  Board  `json:"board"`
	Winner Winner `json:"winner"`
}

func NewGame() *Game {
	return &Game{}
}

func (that *Game) IsFinished() bool {
	return that.Winner != WinnerNone
}

// Clone returns a copy that shares nothing with the receiver.
func (that *Game) Clone() *Game {
	game := *that
	return &game
}

type Move struct {
	Row  int
	Col  int
	Mark Mark
}

func (that Move) Validate() error {
	if that.Row < 0 || that.Row >= BoardSize || that.Col < 0 || that.Col >= BoardSize {
		return fmt.Errorf("%w: row %d, col %d", ErrInvalidPosition, that.Row, that.Col)
	}

	if !that.Mark.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, string(that.Mark))
	}

	return nil
}
