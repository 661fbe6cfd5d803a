package rest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-kv/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-kv/internal/entity"
)

func TestDecodeMove(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    entity.Move
		wantErr bool
	}{
		{
			name: "plain object",
			body: `{"position":[2,1],"mark":"o"}`,
			want: entity.Move{Row: 2, Col: 1, Mark: entity.MarkO},
		},
		{
			name: "object wrapped in a JSON string",
			body: `"{\"position\":[0,0],\"mark\":\"x\"}"`,
			want: entity.Move{Row: 0, Col: 0, Mark: entity.MarkX},
		},
		{
			name: "uppercase mark",
			body: `{"position":[1,1],"mark":"X"}`,
			want: entity.Move{Row: 1, Col: 1, Mark: entity.MarkX},
		},
		{name: "empty body", body: ``, wantErr: true},
		{name: "not json", body: `position=1,1`, wantErr: true},
		{name: "missing mark", body: `{"position":[1,1]}`, wantErr: true},
		{name: "unknown mark", body: `{"position":[1,1],"mark":"y"}`, wantErr: true},
		{name: "missing position", body: `{"mark":"x"}`, wantErr: true},
		{name: "short position", body: `{"position":[1],"mark":"x"}`, wantErr: true},
		{name: "long position", body: `{"position":[1,1,1],"mark":"x"}`, wantErr: true},
		{name: "fractional position", body: `{"position":[1.5,1],"mark":"x"}`, wantErr: true},
		{name: "string position", body: `{"position":["1","1"],"mark":"x"}`, wantErr: true},
		{name: "row out of range", body: `{"position":[3,0],"mark":"x"}`, wantErr: true},
		{name: "negative column", body: `{"position":[0,-1],"mark":"x"}`, wantErr: true},
		{name: "oversized body", body: `{"position":[0,0],"mark":"x","pad":"` + strings.Repeat("a", maxBodyBytes) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/game", strings.NewReader(tt.body))

			move, err := decodeMove(httptest.NewRecorder(), req)
			if tt.wantErr {
				require.ErrorIs(t, err, apperror.ErrMalformedRequest)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, move)
		})
	}
}
