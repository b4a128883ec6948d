package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"love-letter-server/auth"
	"love-letter-server/config"
	"love-letter-server/game"
	"love-letter-server/gameerrors"
	"love-letter-server/lobby"
	"love-letter-server/storage"
)

const bearerPrefix = "Bearer "

// Handler holds dependencies for API handlers.
type Handler struct {
	Config       *config.Config
	Lobbies      *lobby.Registry
	HistoryStore storage.RoundStore
}

// NewHandler creates a new API handler with the given dependencies.
// historyStore may be nil when no database is configured.
func NewHandler(cfg *config.Config, lobbies *lobby.Registry, historyStore storage.RoundStore) *Handler {
	return &Handler{
		Config:       cfg,
		Lobbies:      lobbies,
		HistoryStore: historyStore,
	}
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/session", h.CreateSession)
	mux.HandleFunc("POST /api/lobbies", h.CreateLobby)
	mux.HandleFunc("POST /api/lobbies/{code}/join", h.JoinLobby)
	mux.HandleFunc("POST /api/lobbies/{code}/leave", h.LeaveLobby)
	mux.HandleFunc("POST /api/lobbies/{code}/start", h.StartGame)
	mux.HandleFunc("POST /api/lobbies/{code}/play", h.PlayCard)
	mux.HandleFunc("GET /api/lobbies/{code}/state", h.State)
	mux.HandleFunc("GET /api/lobbies/{code}/history", h.History)
	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, r *http.Request) {
		CORS(w, r)
	})
}

// CORS sets CORS headers on the response. Returns true when the request was
// a preflight and has been answered.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// actionResponse is the body for every mutating endpoint. Rule violations
// are ok:false with the reason; the polling client shows them inline.
type actionResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "tag", "api", "err", err)
	}
}

// extractSession validates the Authorization header and returns the session.
func (h *Handler) extractSession(r *http.Request) (auth.Session, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return auth.Session{}, false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	sess, err := auth.ParseToken(h.Config.SessionSecret, token)
	if err != nil {
		return auth.Session{}, false
	}
	return sess, true
}

// lookupGame resolves the {code} path segment; replies 404 when unknown.
func (h *Handler) lookupGame(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	g, err := h.Lobbies.Get(r.PathValue("code"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, actionResponse{OK: false, Message: gameerrors.ErrLobbyNotFound.Error()})
		return nil, false
	}
	return g, true
}

// CreateSession allocates a session id for a display name and returns a
// signed token for it.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{OK: false, Message: "invalid request body"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, actionResponse{OK: false, Message: "name is required"})
		return
	}
	if len(name) > h.Config.MaxNameLength {
		name = name[:h.Config.MaxNameLength]
	}

	token, sid, err := auth.IssueToken(h.Config.SessionSecret, name)
	if err != nil {
		slog.Error("issuing session token", "tag", "api", "err", err)
		writeJSON(w, http.StatusInternalServerError, actionResponse{OK: false, Message: "failed to create session"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token":     token,
		"sessionId": sid,
		"name":      name,
	})
}

// CreateLobby creates a lobby and joins the caller as its first player.
func (h *Handler) CreateLobby(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	sess, ok := h.extractSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, actionResponse{OK: false, Message: "authorization required"})
		return
	}

	code, g := h.Lobbies.Create()
	if err := g.AddPlayer(game.NewPlayer(sess.Name, sess.SID)); err != nil {
		writeJSON(w, http.StatusOK, actionResponse{OK: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{OK: true, Code: code})
}

// JoinLobby adds the caller to an existing lobby.
func (h *Handler) JoinLobby(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	sess, ok := h.extractSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, actionResponse{OK: false, Message: "authorization required"})
		return
	}
	g, ok := h.lookupGame(w, r)
	if !ok {
		return
	}

	if err := g.AddPlayer(game.NewPlayer(sess.Name, sess.SID)); err != nil {
		writeJSON(w, http.StatusOK, actionResponse{OK: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{OK: true, Code: g.LobbyID})
}

// LeaveLobby removes the caller from the lobby; the last player out drops
// the lobby from the registry.
func (h *Handler) LeaveLobby(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	sess, ok := h.extractSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, actionResponse{OK: false, Message: "authorization required"})
		return
	}
	g, ok := h.lookupGame(w, r)
	if !ok {
		return
	}

	if err := g.RemovePlayer(sess.SID); err != nil {
		writeJSON(w, http.StatusOK, actionResponse{OK: false, Message: err.Error()})
		return
	}
	if len(g.Players) == 0 {
		h.Lobbies.Remove(g.LobbyID)
	}
	writeJSON(w, http.StatusOK, actionResponse{OK: true})
}

// StartGame begins the first round. Only the host may start.
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	sess, ok := h.extractSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, actionResponse{OK: false, Message: "authorization required"})
		return
	}
	g, ok := h.lookupGame(w, r)
	if !ok {
		return
	}

	player := g.GetPlayerBySID(sess.SID)
	if player == nil {
		writeJSON(w, http.StatusOK, actionResponse{OK: false, Message: gameerrors.ErrPlayerNotFound.Error()})
		return
	}
	if !player.IsHost {
		writeJSON(w, http.StatusOK, actionResponse{OK: false, Message: "only the host can start the game"})
		return
	}
	if err := g.StartGame(); err != nil {
		writeJSON(w, http.StatusOK, actionResponse{OK: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{OK: true})
}

// PlayCard plays one card for the caller.
func (h *Handler) PlayCard(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	sess, ok := h.extractSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, actionResponse{OK: false, Message: "authorization required"})
		return
	}
	g, ok := h.lookupGame(w, r)
	if !ok {
		return
	}

	var req struct {
		CardIndex       int    `json:"cardIndex"`
		TargetSessionID string `json:"targetSessionId"`
		GuessValue      int    `json:"guessValue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{OK: false, Message: "invalid request body"})
		return
	}

	msg, err := g.PlayCard(sess.SID, req.CardIndex, req.TargetSessionID, req.GuessValue)
	if err != nil {
		writeJSON(w, http.StatusOK, actionResponse{OK: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{OK: true, Message: msg})
}

// State returns the caller's view of the game. Polled every 1-2 seconds by
// clients; the auto-restart gate is checked on every poll so a finished
// round rolls over without any push channel.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	sess, ok := h.extractSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, actionResponse{OK: false, Message: "authorization required"})
		return
	}
	g, ok := h.lookupGame(w, r)
	if !ok {
		return
	}

	g.TryAutoRestart()
	writeJSON(w, http.StatusOK, g.StateFor(sess.SID))
}

// History lists recorded rounds for a lobby. Empty when no store is
// configured.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if _, ok := h.extractSession(r); !ok {
		writeJSON(w, http.StatusUnauthorized, actionResponse{OK: false, Message: "authorization required"})
		return
	}

	code := strings.ToUpper(r.PathValue("code"))
	records := []storage.RoundRecord{}
	if h.HistoryStore != nil {
		var err error
		records, err = h.HistoryStore.ListByLobbyID(r.Context(), code, 20)
		if err != nil {
			slog.Error("listing round history", "tag", "api", "err", err)
			writeJSON(w, http.StatusInternalServerError, actionResponse{OK: false, Message: "failed to load history"})
			return
		}
		if records == nil {
			records = []storage.RoundRecord{}
		}
	}
	writeJSON(w, http.StatusOK, records)
}
