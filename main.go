package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"love-letter-server/api"
	"love-letter-server/config"
	"love-letter-server/game"
	"love-letter-server/lobby"
	"love-letter-server/loghandler"
	"love-letter-server/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found; using environment variables.")
	}

	cfg := config.Load()

	handler := loghandler.NewCompactHandler(os.Stdout, loghandler.ParseLevel(cfg.LogLevel))
	slog.SetDefault(slog.New(handler))

	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET is not set; session endpoints will reject all clients", "tag", "main")
	}

	ctx := context.Background()
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connecting to database", "tag", "main", "err", err)
		os.Exit(1)
	}
	if store == nil {
		slog.Info("DATABASE_URL not set; round history disabled", "tag", "main")
	} else {
		defer store.Close()
	}

	var onRoundEnd func(game.RoundResult)
	if store != nil {
		onRoundEnd = func(res game.RoundResult) {
			// Best-effort, off the game lock.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := store.InsertRoundResult(ctx, res.LobbyID, res.Winners, res.Players, res.EndReason, res.EndedAt); err != nil {
					slog.Error("recording round result", "tag", "storage", "err", err)
				}
			}()
		}
	}

	lobbies := lobby.NewRegistry(time.Duration(cfg.RoundRestartDelaySec)*time.Second, onRoundEnd)
	go lobbies.RunEviction(
		time.Duration(cfg.LobbyEvictionIntervalSec)*time.Second,
		time.Duration(cfg.LobbyIdleTimeoutSec)*time.Second,
		nil,
	)

	mux := http.NewServeMux()
	api.NewHandler(cfg, lobbies, roundStoreOrNil(store)).Register(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Love Letter server listening", "tag", "main", "addr", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

// roundStoreOrNil keeps a typed nil *Store from becoming a non-nil
// storage.RoundStore interface value.
func roundStoreOrNil(s *storage.Store) storage.RoundStore {
	if s == nil {
		return nil
	}
	return s
}
