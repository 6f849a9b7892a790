package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPlayerRoom() *Room {
	return &Room{
		Code: "ROOM1",
		Players: []*Player{
			{Id: "p1", Name: "Alice", TransportId: "t1", Connected: true},
			{Id: "p2", Name: "Bob", TransportId: "t2", Connected: true},
		},
		Words:    map[string][]string{},
		Revealed: map[string][]int{},
	}
}

func TestFindPlayerByName(t *testing.T) {
	r := twoPlayerRoom()

	p := r.FindPlayerByName("ALICE")
	require.NotNil(t, p)
	assert.Equal(t, "p1", p.Id)

	assert.Nil(t, r.FindPlayerByName("Carol"))
}

func TestFindPlayerByTransport(t *testing.T) {
	r := twoPlayerRoom()

	p := r.FindPlayerByTransport("t2")
	require.NotNil(t, p)
	assert.Equal(t, "p2", p.Id)

	assert.Nil(t, r.FindPlayerByTransport(""), "empty transport id never matches")
}

func TestOpponent(t *testing.T) {
	r := twoPlayerRoom()

	require.NotNil(t, r.Opponent("p1"))
	assert.Equal(t, "p2", r.Opponent("p1").Id)
	assert.Equal(t, "p1", r.Opponent("p2").Id)

	solo := &Room{Players: []*Player{{Id: "p1"}}}
	assert.Nil(t, solo.Opponent("p1"))
}

func TestRevealedCountExcludesFreeWord(t *testing.T) {
	r := twoPlayerRoom()
	r.Revealed["p2"] = []int{0, 1, 4}

	assert.Equal(t, 2, r.RevealedCount("p2"))
	assert.Equal(t, 0, r.RevealedCount("p1"))

	r.Revealed["p2"] = []int{0, 1, 2, 3, 4, 5, 6, 7}
	assert.Equal(t, WinningRevealCount, r.RevealedCount("p2"))
}

func TestDeadlineMillis(t *testing.T) {
	r := twoPlayerRoom()
	assert.Nil(t, r.DeadlineMillis())

	deadline := time.Now().Add(TurnDuration)
	r.Timer = &TurnTimer{HolderId: "p1", Deadline: deadline}

	ms := r.DeadlineMillis()
	require.NotNil(t, ms)
	assert.Equal(t, deadline.UnixMilli(), *ms)
}
