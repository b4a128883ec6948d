package lobby

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"love-letter-server/game"
	"love-letter-server/gameerrors"
)

// codeLength is the length of a lobby code shown to players.
const codeLength = 6

// Registry maps lobby codes to live games. It owns lobby lifecycle (creation
// on demand, eviction of idle lobbies) and nothing about game rules.
type Registry struct {
	mu    sync.Mutex
	games map[string]*game.Game

	restartDelay time.Duration

	// onRoundEnd is attached to every created game (e.g. the history
	// recorder). May be nil.
	onRoundEnd func(game.RoundResult)
}

// NewRegistry creates an empty registry. restartDelay configures each
// game's auto-restart gate; onRoundEnd may be nil.
func NewRegistry(restartDelay time.Duration, onRoundEnd func(game.RoundResult)) *Registry {
	return &Registry{
		games:        make(map[string]*game.Game),
		restartDelay: restartDelay,
		onRoundEnd:   onRoundEnd,
	}
}

// Create makes a new empty game under a fresh code and returns both.
func (r *Registry) Create() (string, *game.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.newCode()
	g := game.NewGame(code)
	if r.restartDelay > 0 {
		g.RestartDelay = r.restartDelay
	}
	g.OnRoundEnd = r.onRoundEnd
	r.games[code] = g
	slog.Info("lobby created", "tag", "lobby", "code", code)
	return code, g
}

// newCode derives a short uppercase lobby code from a fresh uuid, retrying
// on the (unlikely) collision. Caller holds the lock.
func (r *Registry) newCode() string {
	for {
		code := strings.ToUpper(uuid.NewString()[:codeLength])
		if _, taken := r.games[code]; !taken {
			return code
		}
	}
}

// Get returns the game for a code, or an error when the lobby is unknown.
func (r *Registry) Get(code string) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[strings.ToUpper(code)]
	if !ok {
		return nil, gameerrors.ErrLobbyNotFound
	}
	return g, nil
}

// Remove drops a lobby from the registry.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, strings.ToUpper(code))
}

// Len returns the number of registered lobbies.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}

// EvictStale removes lobbies that are empty or idle for longer than maxIdle.
// Returns how many were evicted.
func (r *Registry) EvictStale(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for code, g := range r.games {
		if len(g.Players) == 0 || time.Since(g.LastActivity) > maxIdle {
			delete(r.games, code)
			evicted++
			slog.Info("lobby evicted", "tag", "lobby", "code", code)
		}
	}
	return evicted
}

// RunEviction evicts stale lobbies on every tick until stop is closed.
// Should be run as a goroutine.
func (r *Registry) RunEviction(interval, maxIdle time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.EvictStale(maxIdle)
		case <-stop:
			return
		}
	}
}
