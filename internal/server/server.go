package server

import (
	"net/http"
	"time"

	"github.com/wordchain/backend/internal/database"
	"github.com/wordchain/backend/internal/game"
)

type Server struct {
	hub   *game.Hub
	store database.Store
}

// NewServer wires the hub and the optional match-history store behind an
// http.Server. WriteTimeout does not affect websockets; gorilla hijacks the
// connection during the upgrade.
func NewServer(port string, hub *game.Hub, store database.Store) *http.Server {
	s := &Server{hub: hub, store: store}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
