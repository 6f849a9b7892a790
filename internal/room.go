package internal

import (
	"slices"
	"strings"
)

// Methods (Room struct). Callers hold r.Mu.

func (r *Room) FindPlayer(playerId string) *Player {
	for _, p := range r.Players {
		if p.Id == playerId {
			return p
		}
	}
	return nil
}

func (r *Room) FindPlayerByTransport(transportId string) *Player {
	if transportId == "" {
		return nil
	}
	for _, p := range r.Players {
		if p.TransportId == transportId {
			return p
		}
	}
	return nil
}

func (r *Room) FindPlayerByName(name string) *Player {
	for _, p := range r.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// Opponent returns the other player in a two-player room, or nil.
func (r *Room) Opponent(playerId string) *Player {
	for _, p := range r.Players {
		if p.Id != playerId {
			return p
		}
	}
	return nil
}

func (r *Room) IsRevealed(playerId string, index int) bool {
	return slices.Contains(r.Revealed[playerId], index)
}

// RevealedCount counts revealed indices for a player's word list, excluding
// the free first word. This is the number that decides the win.
func (r *Room) RevealedCount(playerId string) int {
	count := 0
	for _, idx := range r.Revealed[playerId] {
		if idx != 0 {
			count++
		}
	}
	return count
}

func (r *Room) PlayerInfos() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		infos = append(infos, p.Info())
	}
	return infos
}

// DeadlineMillis returns the live turn deadline as Unix milliseconds, or nil
// when no timer is armed.
func (r *Room) DeadlineMillis() *int64 {
	if r.Timer == nil {
		return nil
	}
	ms := r.Timer.Deadline.UnixMilli()
	return &ms
}
