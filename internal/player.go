package internal

// PlayerInfo is the wire view of a player, safe to marshal and copy.
type PlayerInfo struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Connected   bool   `json:"connected"`
	TransportId string `json:"transportId"`
}

func (p *Player) Info() PlayerInfo {
	return PlayerInfo{
		Id:          p.Id,
		Name:        p.Name,
		Connected:   p.Connected,
		TransportId: p.TransportId,
	}
}

// AttachConn swaps the player's connection, e.g. on reconnect.
func (p *Player) AttachConn(conn Conn) {
	p.WriteMu.Lock()
	p.Conn = conn
	p.WriteMu.Unlock()
}

// SafeWriteJSON serializes writes to the underlying connection. Gorilla
// connections do not tolerate concurrent writers.
func (p *Player) SafeWriteJSON(v any) error {
	p.WriteMu.Lock()
	defer p.WriteMu.Unlock()
	if p.Conn == nil {
		return nil
	}
	return p.Conn.WriteJSON(v)
}
