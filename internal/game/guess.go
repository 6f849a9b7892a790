package game

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wordchain/backend/internal"
	"github.com/wordchain/backend/internal/database"
)

// HandleMakeGuess matches a guess against the opponent's unrevealed words.
// A hit reveals the word and keeps the turn; a miss is logged and passes the
// turn. Revealing every opponent word except the free first one ends the
// round.
func (h *Hub) HandleMakeGuess(transportId string, data internal.MakeGuessData) {
	ref, ok := h.lookupTransport(transportId)
	if !ok || ref.RoomCode != data.RoomCode {
		log.Debug().Str("transport", transportId).Str("room", data.RoomCode).Msg("guess from unmapped transport")
		return
	}

	room := h.room(data.RoomCode)
	if room == nil {
		return
	}

	room.Mu.Lock()

	if room.Phase != internal.PhaseActive {
		room.Mu.Unlock()
		return
	}

	guesserId := ref.PlayerId
	opponent := room.Opponent(guesserId)
	if opponent == nil {
		room.Mu.Unlock()
		return
	}

	// Exact, case-insensitive, whitespace-trimmed equality against the
	// first unrevealed index. No fuzzy matching.
	trimmed := strings.TrimSpace(data.Guess)
	index := -1
	for i, word := range room.Words[opponent.Id] {
		if room.IsRevealed(opponent.Id, i) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(word), trimmed) {
			index = i
			break
		}
	}
	correct := index != -1

	if correct {
		room.Revealed[opponent.Id] = append(room.Revealed[opponent.Id], index)

		if room.RevealedCount(opponent.Id) >= internal.WinningRevealCount {
			h.endRoundLocked(room, guesserId, opponent.Id)
			return
		}
	} else {
		room.WrongGuesses = append(room.WrongGuesses, internal.WrongGuess{PlayerId: guesserId, Guess: data.Guess})
	}

	nextTurn := guesserId
	if !correct {
		nextTurn = opponent.Id
	}
	room.CurrentTurn = nextTurn
	h.armTurnTimerLocked(room, nextTurn)

	result := internal.GuessResultData{
		Correct:      correct,
		Guess:        data.Guess,
		NextTurn:     nextTurn,
		Revealed:     []int{},
		PlayerId:     guesserId,
		TurnDeadline: room.DeadlineMillis(),
	}
	if correct {
		idx := index
		result.Index = &idx
		result.Revealed = []int{index}
	}

	room.Mu.Unlock()

	log.Info().
		Str("room", room.Code).
		Str("player", guesserId).
		Bool("correct", correct).
		Str("nextTurn", nextTurn).
		Msg("guess handled")

	if correct {
		h.events.Publish(room.Code, fmt.Sprintf("%s revealed word %d", guesserId, index))
	} else {
		h.events.Publish(room.Code, fmt.Sprintf("%s guessed wrong, turn passes", guesserId))
	}

	broadcastToRoom(room, internal.Message[internal.GuessResultData]{Type: internal.MsgGuessResult, Data: result})
	h.broadcastRoomState(room)
}

// endRoundLocked finishes the round with guesserId as the winner. It is
// entered with room.Mu held and releases it.
func (h *Hub) endRoundLocked(room *internal.Room, guesserId, opponentId string) {
	h.cancelTurnTimerLocked(room)

	room.Phase = internal.PhaseEnded
	room.Winner = guesserId
	room.CurrentTurn = ""
	room.FinalWords = []internal.PlayerWords{
		{Id: guesserId, Words: room.Words[guesserId]},
		{Id: opponentId, Words: room.Words[opponentId]},
	}

	end := internal.GameEndData{
		Winner:  guesserId,
		Players: room.FinalWords,
	}

	var result *database.MatchResult
	if h.store != nil {
		winner := room.FindPlayer(guesserId)
		loser := room.FindPlayer(opponentId)
		result = &database.MatchResult{
			RoomCode:     room.Code,
			WinnerId:     guesserId,
			LoserId:      opponentId,
			WinnerWords:  slices.Clone(room.Words[guesserId]),
			LoserWords:   slices.Clone(room.Words[opponentId]),
			WrongGuesses: len(room.WrongGuesses),
			Duration:     time.Since(room.StartedAt),
			FinishedAt:   time.Now(),
		}
		if winner != nil {
			result.WinnerName = winner.Name
		}
		if loser != nil {
			result.LoserName = loser.Name
		}
	}

	room.Mu.Unlock()

	log.Info().Str("room", room.Code).Str("winner", guesserId).Msg("round won")
	h.events.Publish(room.Code, fmt.Sprintf("round over, winner %s", guesserId))

	h.broadcastRoomState(room)
	broadcastToRoom(room, internal.Message[internal.GameEndData]{Type: internal.MsgGameEnd, Data: end})

	if result != nil {
		go h.persistResult(*result)
	}
}

func (h *Hub) persistResult(result database.MatchResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.store.SaveResult(ctx, result); err != nil {
		log.Error().Err(err).Str("room", result.RoomCode).Msg("failed to persist match result")
	}
}
