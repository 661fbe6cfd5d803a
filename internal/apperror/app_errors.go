package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrMalformedRequest = errors.New("malformed request")
	ErrStoreUnavailable = errors.New("game store is unavailable")
	ErrConcurrentUpdate = errors.New("game was changed concurrently, try again")
)

// CellOccupiedError reports a move onto a cell that already holds a mark.
// It matches ErrCellOccupied with errors.Is.
type CellOccupiedError struct {
	Row int
	Col int
}

func (that *CellOccupiedError) Error() string {
	return fmt.Sprintf("cell at row: %d, col: %d is already taken", that.Row, that.Col)
}

func (that *CellOccupiedError) Is(target error) bool {
	return target == ErrCellOccupied
}
