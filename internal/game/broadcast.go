package game

import (
	"slices"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/wordchain/backend/internal"
)

// broadcastToRoom delivers a message to every connected player in the room.
// The recipient list is snapshotted under the room lock; writes happen
// outside it.
func broadcastToRoom(room *internal.Room, msg any) {
	room.Mu.Lock()
	recipients := make([]*internal.Player, 0, len(room.Players))
	for _, p := range room.Players {
		if p.Connected {
			recipients = append(recipients, p)
		}
	}
	room.Mu.Unlock()

	for _, p := range recipients {
		if err := p.SafeWriteJSON(msg); err != nil {
			log.Debug().Err(err).Str("room", room.Code).Str("player", p.Id).Msg("broadcast write failed")
		}
	}
}

// broadcastRoomState sends the authoritative full snapshot after a mutation.
func (h *Hub) broadcastRoomState(room *internal.Room) {
	room.Mu.Lock()
	state := snapshotRoomStateLocked(room)
	room.Mu.Unlock()

	broadcastToRoom(room, internal.Message[internal.RoomStateData]{Type: internal.MsgRoomState, Data: state})
}

func snapshotRoomStateLocked(room *internal.Room) internal.RoomStateData {
	words := make(map[string][]string, len(room.Words))
	for id, w := range room.Words {
		words[id] = slices.Clone(w)
	}
	revealed := make(map[string][]int, len(room.Revealed))
	for id, r := range room.Revealed {
		revealed[id] = slices.Clone(r)
	}
	confirmed := make([]string, 0, len(room.Confirmed))
	for id := range room.Confirmed {
		confirmed = append(confirmed, id)
	}
	sort.Strings(confirmed)

	return internal.RoomStateData{
		Players:          room.PlayerInfos(),
		ConfirmedPlayers: confirmed,
		Phase:            room.Phase,
		GameStarted:      room.Phase == internal.PhaseActive,
		CurrentTurn:      room.CurrentTurn,
		PlayerWords:      words,
		RevealedWords:    revealed,
		WrongGuesses:     slices.Clone(room.WrongGuesses),
		Winner:           room.Winner,
		FinalWords:       slices.Clone(room.FinalWords),
		TurnDeadline:     room.DeadlineMillis(),
	}
}
