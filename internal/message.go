package internal

// Message is the envelope for every frame in both directions.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Client -> server message types.
const (
	MsgJoinRoom     = "join_room"
	MsgConfirmWords = "confirm_words"
	MsgMakeGuess    = "make_guess"
	MsgResetGame    = "reset_game"
)

// Server -> client message types.
const (
	MsgConnected       = "connected"
	MsgRoomFull        = "room_full"
	MsgPlayersUpdated  = "players_updated"
	MsgPlayerConfirmed = "player_confirmed"
	MsgStartGame       = "start_game"
	MsgGuessResult     = "guess_result"
	MsgGameEnd         = "game_end"
	MsgGameReset       = "game_reset"
	MsgRoomState       = "room_state"
)

type JoinRoomData struct {
	RoomCode            string `json:"roomCode"`
	PlayerName          string `json:"playerName"`
	PreviousTransportId string `json:"previousTransportId,omitempty"`
	PlayerId            string `json:"playerId,omitempty"`
}

type ConfirmWordsData struct {
	RoomCode string   `json:"roomCode"`
	PlayerId string   `json:"playerId"`
	Words    []string `json:"words"`
}

type MakeGuessData struct {
	RoomCode string `json:"roomCode"`
	PlayerId string `json:"playerId"`
	Guess    string `json:"guess"`
}

type ResetGameData struct {
	RoomCode string `json:"roomCode"`
}

// ConnectedData tells a freshly upgraded client its transport id, the
// equivalent of a socket id. Clients echo it back as previousTransportId
// when they reconnect.
type ConnectedData struct {
	TransportId string `json:"transportId"`
}

type PlayerWithWords struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Words       []string `json:"words"`
	TransportId string   `json:"transportId"`
	Connected   bool     `json:"connected"`
}

type StartGameData struct {
	Players      []PlayerWithWords `json:"players"`
	FirstTurn    string            `json:"firstTurn"`
	TurnDeadline *int64            `json:"turnDeadline"`
}

type GuessResultData struct {
	Correct      bool   `json:"correct"`
	Index        *int   `json:"index,omitempty"`
	Guess        string `json:"guess"`
	NextTurn     string `json:"nextTurn"`
	Revealed     []int  `json:"revealed"`
	PlayerId     string `json:"playerId"`
	Timeout      bool   `json:"timeout,omitempty"`
	TurnDeadline *int64 `json:"turnDeadline"`
}

type GameEndData struct {
	Winner  string        `json:"winner"`
	Players []PlayerWords `json:"players"`
}

// RoomStateData is the full snapshot clients reconcile against. Every other
// notification is a delta layered on top of it.
type RoomStateData struct {
	Players          []PlayerInfo        `json:"players"`
	ConfirmedPlayers []string            `json:"confirmedPlayers"`
	Phase            GamePhase           `json:"phase"`
	GameStarted      bool                `json:"gameStarted"`
	CurrentTurn      string              `json:"currentTurn"`
	PlayerWords      map[string][]string `json:"playerWords"`
	RevealedWords    map[string][]int    `json:"revealedWords"`
	WrongGuesses     []WrongGuess        `json:"wrongGuesses"`
	Winner           string              `json:"winner"`
	FinalWords       []PlayerWords       `json:"finalWords"`
	TurnDeadline     *int64              `json:"turnDeadline"`
}
