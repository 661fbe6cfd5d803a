package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-kv/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-kv/internal/entity"
)

const maxBodyBytes = 4 << 10

var (
	errPositionRequired = errors.New("position must be [row, col]")
	errMarkRequired     = errors.New("mark is required")
)

type moveRequest struct {
	Position []int       `json:"position"`
	Mark     entity.Mark `json:"mark"`
}

// decodeMove - parses {"position": [row, col], "mark": "x"}. Clients that send the
// object encoded once more as a JSON string are accepted too.
func decodeMove(w http.ResponseWriter, r *http.Request) (entity.Move, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return entity.Move{}, fmt.Errorf("%w: %w", apperror.ErrMalformedRequest, err)
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '"' {
		var inner string
		if err = json.Unmarshal(body, &inner); err != nil {
			return entity.Move{}, fmt.Errorf("%w: %w", apperror.ErrMalformedRequest, err)
		}
		body = []byte(inner)
	}

	var req moveRequest
	if err = json.Unmarshal(body, &req); err != nil {
		return entity.Move{}, fmt.Errorf("%w: %w", apperror.ErrMalformedRequest, err)
	}

	if len(req.Position) != 2 {
		return entity.Move{}, fmt.Errorf("%w: %w", apperror.ErrMalformedRequest, errPositionRequired)
	}

	if req.Mark == "" {
		return entity.Move{}, fmt.Errorf("%w: %w", apperror.ErrMalformedRequest, errMarkRequired)
	}

	move := entity.Move{Row: req.Position[0], Col: req.Position[1], Mark: req.Mark}
	if err = move.Validate(); err != nil {
		return entity.Move{}, fmt.Errorf("%w: %w", apperror.ErrMalformedRequest, err)
	}

	return move, nil
}
