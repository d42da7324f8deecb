package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"discord-panel-bot/cooldown"
	"discord-panel-bot/db"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Stats is the body served on /stats.
type Stats struct {
	Messages  int `json:"messages"`
	Triggers  int `json:"triggers"`
	Cooldowns int `json:"cooldowns"`
}

// NewRouter serves the keep-alive page hosting platforms ping, a health check
// and a small stats document.
func NewRouter(store db.Store, limiter *cooldown.Limiter, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "Discord Bot is running.")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		messages, err := store.Messages(r.Context())
		if err != nil {
			log.Warn("stats: loading messages", "err", err)
		}
		triggers, err := store.Triggers(r.Context())
		if err != nil {
			log.Warn("stats: loading triggers", "err", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Stats{
			Messages:  len(messages),
			Triggers:  len(triggers),
			Cooldowns: limiter.Len(),
		})
	})

	return r
}

func New(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
