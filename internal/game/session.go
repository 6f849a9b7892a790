package game

import (
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wordchain/backend/internal"
)

// HandleJoin attaches a connection to a player in a room. Identity is
// resolved in a fixed order: durable player id, then the previous transport
// id, then a case-insensitive name match, then revival from a disconnect
// snapshot. Only when all of those miss is a new player created, and only if
// the room has space.
func (h *Hub) HandleJoin(conn internal.Conn, transportId string, data internal.JoinRoomData) error {
	room := h.ensureRoom(data.RoomCode)

	room.Mu.Lock()

	player := resolvePlayer(room, data)
	if player != nil {
		h.migratePlayerLocked(room, player, conn, transportId, data.PlayerName)
	} else if snap, ok := room.Snapshots[data.PlayerId]; ok && len(room.Players) < internal.MaxPlayersPerRoom {
		player = h.revivePlayerLocked(room, snap, conn, transportId)
	} else if len(room.Players) >= internal.MaxPlayersPerRoom {
		room.Mu.Unlock()
		log.Info().Str("room", room.Code).Str("name", data.PlayerName).Msg("join rejected, room full")
		return ErrRoomFull
	} else {
		player = h.addPlayerLocked(room, conn, transportId, data)
	}

	playerId := player.Id
	updated := internal.Message[[]internal.PlayerInfo]{
		Type: internal.MsgPlayersUpdated,
		Data: room.PlayerInfos(),
	}
	room.Mu.Unlock()

	h.mapTransport(transportId, room.Code, playerId)

	log.Info().
		Str("room", room.Code).
		Str("player", playerId).
		Str("transport", transportId).
		Msg("player joined")

	broadcastToRoom(room, updated)
	h.broadcastRoomState(room)
	return nil
}

// resolvePlayer applies the reconnection precedence against players already
// in the room.
func resolvePlayer(room *internal.Room, data internal.JoinRoomData) *internal.Player {
	if data.PlayerId != "" {
		if p := room.FindPlayer(data.PlayerId); p != nil {
			return p
		}
	}
	if p := room.FindPlayerByTransport(data.PreviousTransportId); p != nil {
		return p
	}
	if data.PlayerName != "" {
		if p := room.FindPlayerByName(data.PlayerName); p != nil {
			return p
		}
	}
	return nil
}

// migratePlayerLocked rebinds an existing player to a new transport and
// restores any state snapshotted at disconnect time. The player keeps their
// slot in the room list.
func (h *Hub) migratePlayerLocked(room *internal.Room, player *internal.Player, conn internal.Conn, transportId, name string) {
	player.TransportId = transportId
	player.Connected = true
	if name != "" {
		player.Name = name
	}

	if snap, ok := room.Snapshots[player.Id]; ok {
		room.Words[player.Id] = snap.Words
		room.Revealed[player.Id] = snap.Revealed
		if snap.Confirmed {
			room.Confirmed[player.Id] = true
		} else {
			delete(room.Confirmed, player.Id)
		}
		delete(room.Snapshots, player.Id)
	}

	player.AttachConn(conn)
}

// revivePlayerLocked rebuilds a player entry from a disconnect snapshot when
// the player is no longer in the room list.
func (h *Hub) revivePlayerLocked(room *internal.Room, snap internal.DisconnectSnapshot, conn internal.Conn, transportId string) *internal.Player {
	player := &internal.Player{
		Id:          snap.PlayerId,
		Name:        snap.Name,
		Connected:   true,
		TransportId: transportId,
		Conn:        conn,
	}
	room.Players = append(room.Players, player)
	room.Words[player.Id] = snap.Words
	room.Revealed[player.Id] = snap.Revealed
	if snap.Confirmed {
		room.Confirmed[player.Id] = true
	}
	delete(room.Snapshots, player.Id)
	return player
}

func (h *Hub) addPlayerLocked(room *internal.Room, conn internal.Conn, transportId string, data internal.JoinRoomData) *internal.Player {
	id := data.PlayerId
	if id == "" {
		id = uuid.NewString()
	}
	player := &internal.Player{
		Id:          id,
		Name:        data.PlayerName,
		Connected:   true,
		TransportId: transportId,
		Conn:        conn,
	}
	room.Players = append(room.Players, player)
	if _, ok := room.Words[id]; !ok {
		room.Words[id] = []string{}
	}
	if _, ok := room.Revealed[id]; !ok {
		room.Revealed[id] = []int{}
	}
	return player
}

// HandleDisconnect snapshots the player's round state and marks them
// disconnected. The player stays in the room list so the opponent sees who
// they are waiting for. A transport with no mapping is a no-op, which makes
// double-disconnects harmless.
func (h *Hub) HandleDisconnect(transportId string) {
	ref, ok := h.lookupTransport(transportId)
	if !ok {
		log.Debug().Str("transport", transportId).Msg("disconnect without mapping")
		return
	}
	h.unmapTransport(transportId)

	room := h.room(ref.RoomCode)
	if room == nil {
		return
	}

	room.Mu.Lock()
	player := room.FindPlayer(ref.PlayerId)
	if player == nil {
		room.Mu.Unlock()
		return
	}

	room.Snapshots[player.Id] = internal.DisconnectSnapshot{
		PlayerId:  player.Id,
		Name:      player.Name,
		Words:     slices.Clone(room.Words[player.Id]),
		Confirmed: room.Confirmed[player.Id],
		Revealed:  slices.Clone(room.Revealed[player.Id]),
	}
	player.Connected = false
	player.AttachConn(nil)

	updated := internal.Message[[]internal.PlayerInfo]{
		Type: internal.MsgPlayersUpdated,
		Data: room.PlayerInfos(),
	}
	room.Mu.Unlock()

	log.Info().
		Str("room", ref.RoomCode).
		Str("player", ref.PlayerId).
		Str("transport", transportId).
		Msg("player disconnected")

	broadcastToRoom(room, updated)
	h.broadcastRoomState(room)
}
