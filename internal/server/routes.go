package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)

	r.HandleFunc("/", s.HelloHandler)
	r.HandleFunc("/health", s.HealthHandler)
	r.HandleFunc("/history/{roomCode}", s.HistoryHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.hub.HandleWebSocket)

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		// Websocket upgrades skip further CORS checks
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HelloHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "wordchain server"})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Health(ctx); err != nil {
		log.Error().Err(err).Msg("database health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}

type matchResultResponse struct {
	RoomCode     string    `json:"roomCode"`
	WinnerId     string    `json:"winnerId"`
	WinnerName   string    `json:"winnerName"`
	LoserId      string    `json:"loserId"`
	LoserName    string    `json:"loserName"`
	WinnerWords  []string  `json:"winnerWords"`
	LoserWords   []string  `json:"loserWords"`
	WrongGuesses int       `json:"wrongGuesses"`
	DurationMs   int64     `json:"durationMs"`
	FinishedAt   time.Time `json:"finishedAt"`
}

// HistoryHandler returns the most recent finished rounds for a room.
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "history disabled"})
		return
	}

	roomCode := mux.Vars(r)["roomCode"]

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	results, err := s.store.RecentResults(r.Context(), roomCode, limit)
	if err != nil {
		log.Error().Err(err).Str("room", roomCode).Msg("history query failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	out := make([]matchResultResponse, 0, len(results))
	for _, res := range results {
		out = append(out, matchResultResponse{
			RoomCode:     res.RoomCode,
			WinnerId:     res.WinnerId,
			WinnerName:   res.WinnerName,
			LoserId:      res.LoserId,
			LoserName:    res.LoserName,
			WinnerWords:  res.WinnerWords,
			LoserWords:   res.LoserWords,
			WrongGuesses: res.WrongGuesses,
			DurationMs:   res.Duration.Milliseconds(),
			FinishedAt:   res.FinishedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("error encoding response")
	}
}
