package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wordchain/backend/internal"
)

// HandleConfirmWords stores a player's word list and marks them confirmed.
// Once both players of a two-player room have confirmed, the round starts:
// each player's free first word is revealed, a random player gets the first
// turn, and the turn timer is armed.
//
// Actions from transports with no player mapping are dropped; they cannot be
// attributed. Word-list shape is validated at the websocket boundary.
func (h *Hub) HandleConfirmWords(transportId string, data internal.ConfirmWordsData) {
	ref, ok := h.lookupTransport(transportId)
	if !ok || ref.RoomCode != data.RoomCode {
		log.Debug().Str("transport", transportId).Str("room", data.RoomCode).Msg("confirm from unmapped transport")
		return
	}

	room := h.room(data.RoomCode)
	if room == nil {
		return
	}

	room.Mu.Lock()

	playerId := ref.PlayerId
	room.Words[playerId] = data.Words
	room.Confirmed[playerId] = true
	if room.Phase == internal.PhaseLobby {
		room.Phase = internal.PhaseConfirming
	}

	confirmed := internal.Message[string]{Type: internal.MsgPlayerConfirmed, Data: playerId}

	var start *internal.StartGameData
	if len(room.Confirmed) == internal.MaxPlayersPerRoom &&
		len(room.Players) == internal.MaxPlayersPerRoom &&
		room.Phase == internal.PhaseConfirming {
		start = h.startRoundLocked(room)
	}

	room.Mu.Unlock()

	log.Info().Str("room", data.RoomCode).Str("player", playerId).Msg("words confirmed")

	broadcastToRoom(room, confirmed)
	h.broadcastRoomState(room)

	if start != nil {
		log.Info().Str("room", data.RoomCode).Str("firstTurn", start.FirstTurn).Msg("round started")
		h.events.Publish(data.RoomCode, fmt.Sprintf("round started, first turn %s", start.FirstTurn))
		broadcastToRoom(room, internal.Message[internal.StartGameData]{Type: internal.MsgStartGame, Data: *start})
		h.broadcastRoomState(room)
	}
}

// startRoundLocked is the second half of the confirmation barrier. It seeds
// the free first-word reveals, picks the first turn uniformly at random and
// arms the timer for that player.
func (h *Hub) startRoundLocked(room *internal.Room) *internal.StartGameData {
	for _, p := range room.Players {
		words := room.Words[p.Id]
		if len(words) > 0 && strings.TrimSpace(words[0]) != "" && !room.IsRevealed(p.Id, 0) {
			room.Revealed[p.Id] = append(room.Revealed[p.Id], 0)
		}
	}

	firstTurn := room.Players[h.randIntn(len(room.Players))].Id
	room.CurrentTurn = firstTurn
	room.Phase = internal.PhaseActive
	room.Winner = ""
	room.FinalWords = nil
	room.StartedAt = time.Now()

	h.armTurnTimerLocked(room, firstTurn)

	// Both full word lists go out; the client decides which list to hide.
	players := make([]internal.PlayerWithWords, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, internal.PlayerWithWords{
			Id:          p.Id,
			Name:        p.Name,
			Words:       room.Words[p.Id],
			TransportId: p.TransportId,
			Connected:   p.Connected,
		})
	}

	return &internal.StartGameData{
		Players:      players,
		FirstTurn:    firstTurn,
		TurnDeadline: room.DeadlineMillis(),
	}
}
