package engine

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"othello_ai/internal/bootstrap"
	"othello_ai/internal/domain/engine"
	"othello_ai/internal/httpresponse"
	"othello_ai/internal/utils"
)

// EngineService is served either in process or by a remote engine over gRPC.
type EngineService interface {
	ChooseMove(ctx context.Context, req engine.MoveRequest) (engine.MoveResponse, error)
	Evaluate(ctx context.Context, req engine.EvaluateRequest) (engine.EvaluateResponse, error)
}

type EngineHandler struct {
	cfg      bootstrap.Config
	log      *zap.SugaredLogger
	engineUC EngineService
}

func NewEngineHandler(cfg bootstrap.Config, log *zap.SugaredLogger, uc EngineService) *EngineHandler {
	return &EngineHandler{
		cfg:      cfg,
		log:      log,
		engineUC: uc,
	}
}

func (h *EngineHandler) HandleChooseMove(w http.ResponseWriter, r *http.Request) {
	var req engine.MoveRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		h.log.Debugf("bad move request: %v", err)
		httpresponse.WriteError(w, err)
		return
	}

	resp, err := h.engineUC.ChooseMove(r.Context(), req)
	if err != nil {
		h.log.Errorf("failed to choose a move: %v", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (h *EngineHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req engine.EvaluateRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		h.log.Debugf("bad evaluate request: %v", err)
		httpresponse.WriteError(w, err)
		return
	}

	resp, err := h.engineUC.Evaluate(r.Context(), req)
	if err != nil {
		h.log.Errorf("failed to evaluate: %v", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}
