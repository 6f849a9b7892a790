package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// MatchResult is one finished round.
type MatchResult struct {
	RoomCode     string
	WinnerId     string
	WinnerName   string
	LoserId      string
	LoserName    string
	WinnerWords  []string
	LoserWords   []string
	WrongGuesses int
	Duration     time.Duration
	FinishedAt   time.Time
}

// Store persists match history. The game runs fine without one; callers
// treat it as optional and best-effort.
type Store interface {
	SaveResult(ctx context.Context, result MatchResult) error
	RecentResults(ctx context.Context, roomCode string, limit int) ([]MatchResult, error)
	Health(ctx context.Context) error
	Close()
}

type service struct {
	pool *pgxpool.Pool
}

// New runs the embedded migrations and opens a connection pool.
func New(ctx context.Context, connString string) (Store, error) {
	if err := migrate(connString); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &service{pool: pool}, nil
}

func migrate(connString string) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return err
	}
	log.Info().Msg("migrations applied")
	return nil
}

func (s *service) SaveResult(ctx context.Context, result MatchResult) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO match_results
			(room_code, winner_id, winner_name, loser_id, loser_name,
			 winner_words, loser_words, wrong_guesses, duration_ms, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		result.RoomCode, result.WinnerId, result.WinnerName,
		result.LoserId, result.LoserName,
		result.WinnerWords, result.LoserWords,
		result.WrongGuesses, result.Duration.Milliseconds(), result.FinishedAt,
	)
	return err
}

func (s *service) RecentResults(ctx context.Context, roomCode string, limit int) ([]MatchResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT room_code, winner_id, winner_name, loser_id, loser_name,
		        winner_words, loser_words, wrong_guesses, duration_ms, finished_at
		 FROM match_results
		 WHERE room_code = $1
		 ORDER BY finished_at DESC
		 LIMIT $2`,
		roomCode, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]MatchResult, 0, limit)
	for rows.Next() {
		var r MatchResult
		var durationMs int64
		err := rows.Scan(
			&r.RoomCode, &r.WinnerId, &r.WinnerName, &r.LoserId, &r.LoserName,
			&r.WinnerWords, &r.LoserWords, &r.WrongGuesses, &durationMs, &r.FinishedAt,
		)
		if err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *service) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *service) Close() {
	s.pool.Close()
}
