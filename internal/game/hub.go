package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wordchain/backend/internal"
	"github.com/wordchain/backend/internal/database"
	"github.com/wordchain/backend/internal/events"
)

// transportRef resolves a live transport id to the player it speaks for.
type transportRef struct {
	RoomCode string
	PlayerId string
}

// Hub owns every room and the transport-to-player mapping. All mutable game
// state hangs off a Hub instance, so tests build their own and the process
// runs exactly one.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*internal.Room
	transports map[string]transportRef

	store  database.Store
	events *events.Publisher

	turnDuration time.Duration
	randIntn     func(n int) int
}

func NewHub(store database.Store, publisher *events.Publisher) *Hub {
	return &Hub{
		rooms:        make(map[string]*internal.Room),
		transports:   make(map[string]transportRef),
		store:        store,
		events:       publisher,
		turnDuration: internal.TurnDuration,
		randIntn:     rand.Intn,
	}
}

// ensureRoom creates the room with all per-room collections on first use and
// never overwrites existing state.
func (h *Hub) ensureRoom(roomCode string) *internal.Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, exists := h.rooms[roomCode]; exists {
		return room
	}

	room := &internal.Room{
		Code:         roomCode,
		Players:      make([]*internal.Player, 0, internal.MaxPlayersPerRoom),
		Words:        make(map[string][]string),
		Revealed:     make(map[string][]int),
		Confirmed:    make(map[string]bool),
		WrongGuesses: make([]internal.WrongGuess, 0),
		Snapshots:    make(map[string]internal.DisconnectSnapshot),
		Phase:        internal.PhaseLobby,
	}
	h.rooms[roomCode] = room

	log.Debug().Str("room", roomCode).Msg("created room")
	return room
}

func (h *Hub) room(roomCode string) *internal.Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[roomCode]
}

// lookupTransport returns the player mapping for a transport id, if any.
func (h *Hub) lookupTransport(transportId string) (transportRef, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ref, ok := h.transports[transportId]
	return ref, ok
}

// mapTransport binds a transport to a player and evicts any other transport
// that pointed at the same player id, so a player never has two live
// sessions aliasing each other.
func (h *Hub) mapTransport(transportId, roomCode, playerId string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for tid, ref := range h.transports {
		if tid != transportId && ref.PlayerId == playerId {
			delete(h.transports, tid)
		}
	}
	h.transports[transportId] = transportRef{RoomCode: roomCode, PlayerId: playerId}
}

func (h *Hub) unmapTransport(transportId string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.transports, transportId)
}

// HandleResetGame clears all round data but keeps the player list and the
// room code, returning the room to the lobby.
func (h *Hub) HandleResetGame(data internal.ResetGameData) {
	room := h.room(data.RoomCode)
	if room == nil {
		return
	}

	room.Mu.Lock()
	h.resetRoomLocked(room)
	room.Mu.Unlock()

	log.Info().Str("room", room.Code).Msg("room reset")
	h.events.Publish(room.Code, "round reset")

	broadcastToRoom(room, internal.Message[any]{Type: internal.MsgGameReset})
	h.broadcastRoomState(room)
}

func (h *Hub) resetRoomLocked(room *internal.Room) {
	for pid := range room.Words {
		room.Words[pid] = []string{}
	}
	for pid := range room.Revealed {
		room.Revealed[pid] = []int{}
	}
	room.Confirmed = make(map[string]bool)
	room.WrongGuesses = make([]internal.WrongGuess, 0)
	room.CurrentTurn = ""
	room.Phase = internal.PhaseLobby
	room.Winner = ""
	room.FinalWords = nil
	room.StartedAt = time.Time{}
	// A stale snapshot would restore pre-reset words into the fresh round.
	room.Snapshots = make(map[string]internal.DisconnectSnapshot)
	h.cancelTurnTimerLocked(room)
}
