package session

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"othello_ai/internal/bootstrap"
	"othello_ai/internal/domain/board"
	"othello_ai/internal/domain/session"
	"othello_ai/internal/httpresponse"
	sessionuc "othello_ai/internal/usecase/session"
	"othello_ai/internal/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// watcher serialises writes to one websocket.
type watcher struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *watcher) send(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

type SessionHandler struct {
	cfg       bootstrap.Config
	log       *zap.SugaredLogger
	sessionUC *sessionuc.SessionUseCase

	mu       sync.RWMutex
	watchers map[string]map[*watcher]struct{}
}

func NewSessionHandler(cfg bootstrap.Config, log *zap.SugaredLogger, uc *sessionuc.SessionUseCase) *SessionHandler {
	return &SessionHandler{
		cfg:       cfg,
		log:       log,
		sessionUC: uc,
		watchers:  make(map[string]map[*watcher]struct{}),
	}
}

type JsonOKResponse struct {
	Text string `json:"text"`
}

func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req session.CreateRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		httpresponse.WriteError(w, err)
		return
	}
	if req.EngineSide == "" {
		req.EngineSide = board.PlayerB.String()
	}
	side, err := board.ParsePlayer(req.EngineSide)
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}

	s, err := h.sessionUC.Create(r.Context(), side)
	if err != nil {
		h.log.Errorf("failed to create session: %v", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, s)
}

func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, s)
}

func (h *SessionHandler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req session.MoveRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		httpresponse.WriteError(w, err)
		return
	}

	s, err := h.sessionUC.Play(r.Context(), id, req.Move)
	if err != nil {
		h.log.Debugf("session %s rejected %q: %v", id, req.Move, err)
		httpresponse.WriteError(w, err)
		return
	}
	h.broadcast(s)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, s)
}

func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessionUC.Delete(r.Context(), id); err != nil {
		httpresponse.WriteError(w, err)
		return
	}
	h.log.Infof("session %s deleted", id)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, JsonOKResponse{Text: "session deleted"})
}

// HandleStream upgrades to a websocket that accepts {"move": ...} messages
// and pushes the session after every change, whichever client made it.
func (h *SessionHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := h.sessionUC.Get(r.Context(), id)
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("upgrade error: %v", err)
		return
	}
	self := &watcher{conn: conn}
	h.subscribe(id, self)
	defer func() {
		h.unsubscribe(id, self)
		conn.Close()
	}()

	if err := self.send(s); err != nil {
		h.log.Errorf("write to %s watcher: %v", id, err)
		return
	}

	ctx := r.Context()
	for {
		var req session.MoveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debugf("read error on %s: %v", id, err)
			}
			return
		}

		s, err := h.sessionUC.Play(ctx, id, req.Move)
		if err != nil {
			h.log.Debugf("session %s rejected %q: %v", id, req.Move, err)
			if err := self.send(httpresponse.ErrorResponse{ErrorDescription: err.Error()}); err != nil {
				return
			}
			continue
		}
		h.broadcast(s)
	}
}

func (h *SessionHandler) subscribe(id string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.watchers[id] == nil {
		h.watchers[id] = make(map[*watcher]struct{})
	}
	h.watchers[id][w] = struct{}{}
}

func (h *SessionHandler) unsubscribe(id string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.watchers[id], w)
	if len(h.watchers[id]) == 0 {
		delete(h.watchers, id)
	}
}

// broadcast pushes s to every watcher of its session.
func (h *SessionHandler) broadcast(s session.Session) {
	h.mu.RLock()
	targets := make([]*watcher, 0, len(h.watchers[s.ID]))
	for w := range h.watchers[s.ID] {
		targets = append(targets, w)
	}
	h.mu.RUnlock()

	for _, w := range targets {
		if err := w.send(s); err != nil {
			h.log.Errorf("write to %s watcher: %v", s.ID, err)
			w.conn.Close()
		}
	}
}
