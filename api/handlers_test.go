package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"love-letter-server/config"
	"love-letter-server/game"
	"love-letter-server/lobby"
	"love-letter-server/storage"
)

// mockRoundStore records calls instead of touching a database.
type mockRoundStore struct {
	inserted []storage.RoundRecord
}

func (m *mockRoundStore) InsertRoundResult(_ context.Context, lobbyID string, winners []string, playerCount int, endReason string, endedAt time.Time) error {
	m.inserted = append(m.inserted, storage.RoundRecord{
		LobbyID: lobbyID, Winners: winners, PlayerCount: playerCount, EndReason: endReason, EndedAt: endedAt,
	})
	return nil
}

func (m *mockRoundStore) ListByLobbyID(_ context.Context, lobbyID string, limit int) ([]storage.RoundRecord, error) {
	var out []storage.RoundRecord
	for _, r := range m.inserted {
		if r.LobbyID == lobbyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRoundStore) Close() {}

func newTestMux(store storage.RoundStore) *http.ServeMux {
	cfg := config.Defaults()
	cfg.SessionSecret = "test-secret"
	lobbies := lobby.NewRegistry(time.Second, nil)
	mux := http.NewServeMux()
	NewHandler(cfg, lobbies, store).Register(mux)
	return mux
}

// do performs a JSON request against the mux and decodes the response body.
func do(t *testing.T, mux *http.ServeMux, method, path, token string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decoding response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec
}

// newSession creates a session and returns its token and id.
func newSession(t *testing.T, mux *http.ServeMux, name string) (token, sid string) {
	t.Helper()
	var resp map[string]string
	rec := do(t, mux, http.MethodPost, "/api/session", "", map[string]string{"name": name}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("creating session: status %d", rec.Code)
	}
	return resp["token"], resp["sessionId"]
}

func TestSessionRequiresName(t *testing.T) {
	mux := newTestMux(nil)
	rec := do(t, mux, http.MethodPost, "/api/session", "", map[string]string{"name": "  "}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: status %d; want 400", rec.Code)
	}
}

func TestLobbyEndpointsRequireAuth(t *testing.T) {
	mux := newTestMux(nil)
	rec := do(t, mux, http.MethodPost, "/api/lobbies", "", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated create: status %d; want 401", rec.Code)
	}
	rec = do(t, mux, http.MethodGet, "/api/lobbies/ABCDEF/state", "", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated state: status %d; want 401", rec.Code)
	}
}

func TestUnknownLobbyIs404(t *testing.T) {
	mux := newTestMux(nil)
	token, _ := newSession(t, mux, "Ala")
	rec := do(t, mux, http.MethodGet, "/api/lobbies/NOPE42/state", token, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown lobby: status %d; want 404", rec.Code)
	}
}

type actionResp struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func TestFullGameFlow(t *testing.T) {
	mux := newTestMux(nil)

	hostToken, _ := newSession(t, mux, "Ala")
	guestToken, guestSID := newSession(t, mux, "Bartek")

	// Host creates a lobby.
	var created actionResp
	do(t, mux, http.MethodPost, "/api/lobbies", hostToken, nil, &created)
	if !created.OK || created.Code == "" {
		t.Fatalf("creating lobby: %+v", created)
	}
	base := "/api/lobbies/" + created.Code

	// Guest joins.
	var joined actionResp
	do(t, mux, http.MethodPost, base+"/join", guestToken, nil, &joined)
	if !joined.OK {
		t.Fatalf("joining: %+v", joined)
	}

	// Only the host can start.
	var denied actionResp
	do(t, mux, http.MethodPost, base+"/start", guestToken, nil, &denied)
	if denied.OK || !strings.Contains(denied.Message, "host") {
		t.Fatalf("non-host start: %+v", denied)
	}

	var started actionResp
	do(t, mux, http.MethodPost, base+"/start", hostToken, nil, &started)
	if !started.OK {
		t.Fatalf("host start: %+v", started)
	}

	// The host created the lobby first, so the round opens on their turn.
	var hostState game.StateMsg
	do(t, mux, http.MethodGet, base+"/state", hostToken, nil, &hostState)
	if !hostState.Started || hostState.GameOver {
		t.Fatalf("state after start: %+v", hostState)
	}
	if len(hostState.Hand) != 2 {
		t.Errorf("starting actor sees %d cards; want 2", len(hostState.Hand))
	}
	if hostState.TurnPlayer != "Ala" {
		t.Errorf("turn player %q; want Ala", hostState.TurnPlayer)
	}

	var guestState game.StateMsg
	do(t, mux, http.MethodGet, base+"/state", guestToken, nil, &guestState)
	if len(guestState.Hand) != 1 {
		t.Errorf("waiting player sees %d cards; want 1", len(guestState.Hand))
	}

	// Playing out of turn is a rule error, not an HTTP error.
	var outOfTurn actionResp
	do(t, mux, http.MethodPost, base+"/play", guestToken, map[string]any{"cardIndex": 0}, &outOfTurn)
	if outOfTurn.OK {
		t.Fatal("out-of-turn play succeeded")
	}

	// The host plays whatever is legal (the Countess when forced).
	idx := 0
	if hasCountessPair(hostState.Hand) {
		for i, c := range hostState.Hand {
			if c.Value == 7 {
				idx = i
			}
		}
	}
	var played actionResp
	do(t, mux, http.MethodPost, base+"/play", hostToken,
		map[string]any{"cardIndex": idx, "targetSessionId": guestSID}, &played)
	if !played.OK {
		t.Fatalf("host play: %+v", played)
	}

	do(t, mux, http.MethodGet, base+"/state", hostToken, nil, &hostState)
	if hostState.LastAction == nil || hostState.LastAction.Actor != "Ala" {
		t.Errorf("last action = %+v", hostState.LastAction)
	}
	if len(hostState.Logs) == 0 {
		t.Error("no log lines after a play")
	}
}

// hasCountessPair mirrors the forced-play condition for picking a legal card.
func hasCountessPair(hand []game.Card) bool {
	hasCountess, hasRoyal := false, false
	for _, c := range hand {
		switch c.Value {
		case 7:
			hasCountess = true
		case 5, 6:
			hasRoyal = true
		}
	}
	return hasCountess && hasRoyal
}

func TestLeaveDropsEmptyLobby(t *testing.T) {
	mux := newTestMux(nil)
	token, _ := newSession(t, mux, "Ala")

	var created actionResp
	do(t, mux, http.MethodPost, "/api/lobbies", token, nil, &created)
	base := "/api/lobbies/" + created.Code

	var left actionResp
	do(t, mux, http.MethodPost, base+"/leave", token, nil, &left)
	if !left.OK {
		t.Fatalf("leaving: %+v", left)
	}

	rec := do(t, mux, http.MethodGet, base+"/state", token, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty lobby still resolvable: status %d", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	store := &mockRoundStore{}
	mux := newTestMux(store)
	token, _ := newSession(t, mux, "Ala")

	var created actionResp
	do(t, mux, http.MethodPost, "/api/lobbies", token, nil, &created)

	store.inserted = append(store.inserted, storage.RoundRecord{
		LobbyID: created.Code, Winners: []string{"Ala"}, PlayerCount: 2, EndReason: "eliminations",
	})

	var records []storage.RoundRecord
	rec := do(t, mux, http.MethodGet, fmt.Sprintf("/api/lobbies/%s/history", created.Code), token, nil, &records)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: status %d", rec.Code)
	}
	if len(records) != 1 || records[0].Winners[0] != "Ala" {
		t.Errorf("history = %+v", records)
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	mux := newTestMux(nil)
	token, _ := newSession(t, mux, "Ala")

	var created actionResp
	do(t, mux, http.MethodPost, "/api/lobbies", token, nil, &created)

	var records []storage.RoundRecord
	rec := do(t, mux, http.MethodGet, "/api/lobbies/"+created.Code+"/history", token, nil, &records)
	if rec.Code != http.StatusOK || len(records) != 0 {
		t.Errorf("history without store: status %d, records %+v", rec.Code, records)
	}
}
