package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/wordchain/backend/internal"
	"github.com/wordchain/backend/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the connection, hands the client its transport id
// and starts the read loop. The transport id churns on every connection;
// player identity survives it (see HandleJoin).
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	transportId := utils.GenerateID(8)

	if err := conn.WriteJSON(internal.Message[internal.ConnectedData]{
		Type: internal.MsgConnected,
		Data: internal.ConnectedData{TransportId: transportId},
	}); err != nil {
		log.Debug().Err(err).Msg("failed to send transport id")
		conn.Close()
		return
	}

	go h.readPump(conn, transportId)
}

// readPump decodes and validates inbound frames, then dispatches them to the
// core handlers. Validation lives here so the handlers only ever see
// well-formed payloads.
func (h *Hub) readPump(conn *websocket.Conn, transportId string) {
	defer func() {
		conn.Close()
		h.HandleDisconnect(transportId)
	}()

	limiter := rate.NewLimiter(5, 10)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("transport", transportId).Msg("read loop closed")
			return
		}

		if !limiter.Allow() {
			log.Warn().Str("transport", transportId).Msg("rate limit exceeded, dropping message")
			continue
		}

		var msg internal.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug().Err(err).Str("transport", transportId).Msg("unparseable frame")
			continue
		}

		switch msg.Type {
		case internal.MsgJoinRoom:
			var data internal.JoinRoomData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			if data.RoomCode == "" || strings.TrimSpace(data.PlayerName) == "" {
				continue
			}
			if err := h.HandleJoin(conn, transportId, data); errors.Is(err, ErrRoomFull) {
				_ = conn.WriteJSON(internal.Message[any]{Type: internal.MsgRoomFull})
			}

		case internal.MsgConfirmWords:
			var data internal.ConfirmWordsData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			if !validWordList(data.Words) {
				log.Warn().Str("transport", transportId).Int("words", len(data.Words)).Msg("rejected malformed word submission")
				continue
			}
			h.HandleConfirmWords(transportId, data)

		case internal.MsgMakeGuess:
			var data internal.MakeGuessData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			if data.RoomCode == "" {
				continue
			}
			h.HandleMakeGuess(transportId, data)

		case internal.MsgResetGame:
			var data internal.ResetGameData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			h.HandleResetGame(data)

		default:
			log.Debug().Str("type", msg.Type).Str("transport", transportId).Msg("unknown message type")
		}
	}
}

func validWordList(words []string) bool {
	if len(words) != internal.WordsPerPlayer {
		return false
	}
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			return false
		}
	}
	return true
}
