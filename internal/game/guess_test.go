package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordchain/backend/internal"
)

func TestCorrectGuessCaseInsensitiveTrimmed(t *testing.T) {
	h := newTestHub()
	c1, _ := startRound(t, h, "ROOM1")

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		room.Words["p2"] = []string{"free", "castle", "moat", "keep", "tower", "gate", "wall", "drawbridge"}
	})

	h.HandleMakeGuess("t1", internal.MakeGuessData{RoomCode: "ROOM1", Guess: "  CaStLe  "})

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		assert.Contains(t, room.Revealed["p2"], 1)
		assert.Equal(t, "p1", room.CurrentTurn, "guesser keeps the turn on a hit")
		assert.Empty(t, room.WrongGuesses)
		require.NotNil(t, room.Timer)
		assert.Equal(t, "p1", room.Timer.HolderId, "timer is re-armed for the same holder")
	})

	result := decodeLast[internal.GuessResultData](t, c1, internal.MsgGuessResult)
	assert.True(t, result.Correct)
	require.NotNil(t, result.Index)
	assert.Equal(t, 1, *result.Index)
	assert.Equal(t, []int{1}, result.Revealed)
	assert.Equal(t, "p1", result.NextTurn)
	assert.Equal(t, "p1", result.PlayerId)
	assert.False(t, result.Timeout)
	assert.NotNil(t, result.TurnDeadline)
}

func TestGuessMatchesFirstUnrevealedIndex(t *testing.T) {
	h := newTestHub()
	startRound(t, h, "ROOM1")

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		room.Words["p2"] = []string{"echo", "echo", "echo", "d", "e", "f", "g", "h"}
		room.Revealed["p2"] = []int{0, 1}
	})

	h.HandleMakeGuess("t1", internal.MakeGuessData{RoomCode: "ROOM1", Guess: "echo"})

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		assert.Equal(t, []int{0, 1, 2}, room.Revealed["p2"], "scan skips revealed indices")
	})
}

func TestWrongGuessPassesTurn(t *testing.T) {
	h := newTestHub()
	startRound(t, h, "ROOM1")

	var deadlineBefore int64
	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		deadlineBefore = room.Timer.Deadline.UnixNano()
	})

	h.HandleMakeGuess("t1", internal.MakeGuessData{RoomCode: "ROOM1", Guess: "not a word in the list"})

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		require.Len(t, room.WrongGuesses, 1)
		assert.Equal(t, internal.WrongGuess{PlayerId: "p1", Guess: "not a word in the list"}, room.WrongGuesses[0])
		assert.Equal(t, "p2", room.CurrentTurn)
		require.NotNil(t, room.Timer)
		assert.Equal(t, "p2", room.Timer.HolderId)
		assert.GreaterOrEqual(t, room.Timer.Deadline.UnixNano(), deadlineBefore, "deadline is fresh")
	})
}

func TestWinOnSeventhReveal(t *testing.T) {
	h := newTestHub()
	c1, c2 := startRound(t, h, "ROOM1")

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		room.Words["p2"] = []string{"a", "b", "c", "d", "e", "f", "g", "h"}
		room.Revealed["p2"] = []int{0, 1, 2, 3, 4, 5, 6}
	})

	h.HandleMakeGuess("t1", internal.MakeGuessData{RoomCode: "ROOM1", Guess: "h"})

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		assert.Equal(t, internal.PhaseEnded, room.Phase)
		assert.Equal(t, "p1", room.Winner)
		assert.Empty(t, room.CurrentTurn)
		assert.Nil(t, room.Timer, "round end cancels the timer")
		require.Len(t, room.FinalWords, 2)
		assert.Equal(t, "p1", room.FinalWords[0].Id)
		assert.Equal(t, "p2", room.FinalWords[1].Id)
	})

	for _, c := range []*fakeConn{c1, c2} {
		end := decodeLast[internal.GameEndData](t, c, internal.MsgGameEnd)
		assert.Equal(t, "p1", end.Winner)
		require.Len(t, end.Players, 2)
	}

	state := decodeLast[internal.RoomStateData](t, c1, internal.MsgRoomState)
	assert.Equal(t, "p1", state.Winner)
	assert.False(t, state.GameStarted)
}

func TestSixRevealsIsNotAWin(t *testing.T) {
	h := newTestHub()
	startRound(t, h, "ROOM1")

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		room.Words["p2"] = []string{"a", "b", "c", "d", "e", "f", "g", "h"}
		room.Revealed["p2"] = []int{0, 1, 2, 3, 4, 5}
	})

	h.HandleMakeGuess("t1", internal.MakeGuessData{RoomCode: "ROOM1", Guess: "g"})

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		assert.Equal(t, internal.PhaseActive, room.Phase, "6 non-free reveals keeps playing")
		assert.Empty(t, room.Winner)
	})
}

func TestGuessIgnoredBeforeStart(t *testing.T) {
	h := newTestHub()
	joinPlayer(t, h, "ROOM1", "t1", "p1", "Alice")
	joinPlayer(t, h, "ROOM1", "t2", "p2", "Bob")

	h.HandleMakeGuess("t1", internal.MakeGuessData{RoomCode: "ROOM1", Guess: "early"})

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		assert.Empty(t, room.WrongGuesses)
		assert.Empty(t, room.Revealed["p2"])
	})
}

func TestGuessFromUnknownTransportIgnored(t *testing.T) {
	h := newTestHub()
	startRound(t, h, "ROOM1")

	h.HandleMakeGuess("ghost", internal.MakeGuessData{RoomCode: "ROOM1", Guess: "bravo-a"})

	withRoom(t, h, "ROOM1", func(room *internal.Room) {
		assert.Empty(t, room.WrongGuesses)
		assert.Equal(t, []int{0}, room.Revealed["p1"])
		assert.Equal(t, []int{0}, room.Revealed["p2"])
	})
}
