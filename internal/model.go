package internal

import (
	"context"
	"sync"
	"time"
)

const (
	WordsPerPlayer    = 8
	MaxPlayersPerRoom = 2
	TurnDuration      = 20 * time.Second

	// A round is won once every opponent word except the free first
	// word has been revealed.
	WinningRevealCount = WordsPerPlayer - 1

	TimeoutGuessLabel = "⏱️ Timeout"
)

type GamePhase string

const (
	PhaseLobby      GamePhase = "lobby"
	PhaseConfirming GamePhase = "confirming"
	PhaseActive     GamePhase = "active"
	PhaseEnded      GamePhase = "ended"
)

// Conn is the write side of a client connection. *websocket.Conn satisfies
// it; tests use an in-memory recorder.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

type Player struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Connected   bool   `json:"connected"`
	TransportId string `json:"transportId"`

	Conn    Conn       `json:"-"`
	WriteMu sync.Mutex `json:"-"`
}

type WrongGuess struct {
	PlayerId string `json:"playerId"`
	Guess    string `json:"guess"`
}

type PlayerWords struct {
	Id    string   `json:"id"`
	Words []string `json:"words"`
}

// DisconnectSnapshot preserves a player's round state so a reconnect under a
// new transport id can restore it exactly.
type DisconnectSnapshot struct {
	PlayerId  string   `json:"playerId"`
	Name      string   `json:"name"`
	Words     []string `json:"words"`
	Confirmed bool     `json:"confirmed"`
	Revealed  []int    `json:"revealed"`
}

// TurnTimer is the single live deadline for a room. Arming always cancels
// the previous one first, so at most one is live per room.
type TurnTimer struct {
	HolderId string
	Deadline time.Time
	Context  context.Context
	Cancel   context.CancelFunc
}

type Room struct {
	Code    string
	Players []*Player // ordered, at most two

	// Round state, keyed by durable player id.
	Words        map[string][]string
	Revealed     map[string][]int
	Confirmed    map[string]bool
	WrongGuesses []WrongGuess
	CurrentTurn  string
	Phase        GamePhase
	Winner       string
	FinalWords   []PlayerWords
	StartedAt    time.Time

	Snapshots map[string]DisconnectSnapshot

	Timer *TurnTimer

	Mu sync.Mutex
}
