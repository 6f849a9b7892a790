package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wordchain/backend/internal/database"
	"github.com/wordchain/backend/internal/events"
	"github.com/wordchain/backend/internal/game"
	"github.com/wordchain/backend/internal/server"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx := context.Background()

	var store database.Store
	if url := os.Getenv("DATABASE_URL"); url != "" {
		s, err := database.New(ctx, url)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer s.Close()
		store = s
	} else {
		log.Info().Msg("DATABASE_URL not set, match history disabled")
	}

	publisher := events.New(os.Getenv("KAFKA_BROKER"), getEnv("KAFKA_TOPIC", "wordchain-events"))
	defer publisher.Close()

	hub := game.NewHub(store, publisher)

	port := getEnv("PORT", "8080")
	srv := server.NewServer(port, hub, store)

	log.Info().Str("port", port).Msg("starting wordchain server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
