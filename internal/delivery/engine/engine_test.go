package engine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap/zaptest"

	"othello_ai/internal/bootstrap"
	"othello_ai/internal/domain/board"
	"othello_ai/internal/domain/engine"
	"othello_ai/internal/httpresponse"
	engineuc "othello_ai/internal/usecase/engine"
	"othello_ai/internal/usecase/search"
)

func newRouter(t *testing.T) http.Handler {
	log := zaptest.NewLogger(t).Sugar()
	e := search.NewEngine(search.Options{StartDepth: 1, MaxDepth: 2}, log)
	h := NewEngineHandler(bootstrap.Config{}, log, engineuc.NewEngineUseCase(e, time.Minute, log))
	r := chi.NewRouter()
	r.Post("/engine/move", h.HandleChooseMove)
	r.Post("/engine/evaluate", h.HandleEvaluate)
	return r
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload string
	if s, ok := body.(string); ok {
		payload = s
	} else {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		payload = string(raw)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload)))
	return rec
}

func TestHandleChooseMove(t *testing.T) {
	rec := post(t, newRouter(t), "/engine/move", engine.MoveRequest{
		Board:       board.New(board.PlayerA).Rows(),
		ToMove:      "A",
		TimeLimitMs: 5000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d: %s", rec.Code, rec.Body)
	}
	var resp httpresponse.Response[engine.MoveResponse]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Body.Pass || resp.Body.Depth != 2 || resp.Body.Move == "" {
		t.Fatalf("got %+v", resp.Body)
	}
}

func TestHandleEvaluate(t *testing.T) {
	rec := post(t, newRouter(t), "/engine/evaluate", engine.EvaluateRequest{
		Board:  board.New(board.PlayerA).Rows(),
		ToMove: "B",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d: %s", rec.Code, rec.Body)
	}
	var resp httpresponse.Response[engine.EvaluateResponse]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Body.Perspective != "B" || len(resp.Body.LegalMoves) != 4 || resp.Body.Value != 112 {
		t.Fatalf("got %+v", resp.Body)
	}
}

func TestHandlersRejectBadRequests(t *testing.T) {
	h := newRouter(t)
	tests := []struct {
		name string
		path string
		body any
	}{
		{"broken json", "/engine/move", `{"board": [`},
		{"unknown field", "/engine/evaluate", `{"board": [], "to_move": "A", "colour": "A"}`},
		{"short board", "/engine/move", engine.MoveRequest{Board: []string{"..."}, ToMove: "A"}},
		{"bad side", "/engine/evaluate", engine.EvaluateRequest{Board: board.New(board.PlayerA).Rows(), ToMove: "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := post(t, h, tt.path, tt.body); rec.Code != http.StatusBadRequest {
				t.Fatalf("code %d, want 400: %s", rec.Code, rec.Body)
			}
		})
	}
}
