package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wordchain/backend/internal"
)

// armTurnTimerLocked schedules the turn deadline for holderId. Any existing
// timer is cancelled first, which keeps the one-live-timer-per-room
// invariant mechanical rather than conventional. Caller holds room.Mu.
func (h *Hub) armTurnTimerLocked(room *internal.Room, holderId string) {
	h.cancelTurnTimerLocked(room)

	if room.Phase != internal.PhaseActive || holderId == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.turnDuration)
	room.Timer = &internal.TurnTimer{
		HolderId: holderId,
		Deadline: time.Now().Add(h.turnDuration),
		Context:  ctx,
		Cancel:   cancel,
	}

	go func() {
		<-ctx.Done()
		if ctx.Err() != context.DeadlineExceeded {
			return // cancelled, superseded by a new timer or round end
		}
		h.handleTurnExpiry(room, holderId, ctx)
	}()
}

func (h *Hub) cancelTurnTimerLocked(room *internal.Room) {
	if room.Timer != nil {
		room.Timer.Cancel()
		room.Timer = nil
	}
}

// handleTurnExpiry treats the holder's silence as a forced wrong guess: it
// logs a timeout entry, passes the turn and re-arms for the opponent. The
// context identity check drops callbacks from timers that were replaced
// between firing and acquiring the lock.
func (h *Hub) handleTurnExpiry(room *internal.Room, holderId string, ctx context.Context) {
	room.Mu.Lock()

	if room.Timer == nil || room.Timer.Context != ctx {
		room.Mu.Unlock()
		return
	}
	if room.Phase != internal.PhaseActive || room.CurrentTurn != holderId {
		h.cancelTurnTimerLocked(room)
		room.Mu.Unlock()
		return
	}

	opponent := room.Opponent(holderId)
	if opponent == nil {
		h.cancelTurnTimerLocked(room)
		room.Mu.Unlock()
		return
	}

	room.WrongGuesses = append(room.WrongGuesses, internal.WrongGuess{
		PlayerId: holderId,
		Guess:    internal.TimeoutGuessLabel,
	})
	room.CurrentTurn = opponent.Id
	h.armTurnTimerLocked(room, opponent.Id)

	result := internal.GuessResultData{
		Correct:      false,
		Guess:        internal.TimeoutGuessLabel,
		NextTurn:     opponent.Id,
		Revealed:     []int{},
		PlayerId:     holderId,
		Timeout:      true,
		TurnDeadline: room.DeadlineMillis(),
	}

	room.Mu.Unlock()

	log.Info().
		Str("room", room.Code).
		Str("player", holderId).
		Str("nextTurn", opponent.Id).
		Msg("turn timed out")
	h.events.Publish(room.Code, fmt.Sprintf("%s timed out, turn passes", holderId))

	broadcastToRoom(room, internal.Message[internal.GuessResultData]{Type: internal.MsgGuessResult, Data: result})
	h.broadcastRoomState(room)
}
