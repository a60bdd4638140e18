package protocol

// Message kinds carried in the "type" discriminator.
const (
	TypeClientReady   = "client_ready"
	TypeClientJoined  = "client_joined"
	TypePeerConnected = "peer_connected"
	TypeError         = "error"

	TypeOffer     = "offer"
	TypeAnswer    = "answer"
	TypeCandidate = "candidate"
	TypeEndCall   = "end_call"

	TypeChatMessage = "chat_message"
	TypeYouTubeSync = "youtube_sync"

	TypeGuessMove    = "guess_game_move"
	TypeGuessHint    = "guess_game_hint"
	TypeGuessRestart = "guess_game_restart"
	TypeGuessState   = "guess_game_state"
)

// Error codes sent with TypeError.
const (
	CodeRoomFull      = "room_full"
	CodeInvalidRoomID = "invalid_room_id"
)

type GameStatus string

const (
	StatusPlaying GameStatus = "playing"
	StatusOver    GameStatus = "over"
)

// GameState is the full word game snapshot sent to room members.
type GameState struct {
	CurrentWord    string     `json:"currentWord"`
	DisplayWord    []string   `json:"displayWord"`
	TurnsLeft      int        `json:"turnsLeft"`
	GuessedLetters []string   `json:"guessedLetters"`
	GameStatus     GameStatus `json:"gameStatus"`
	Message        string     `json:"message"`
	Hint           string     `json:"hint"`
}

// Inbound is the part of every client message the router needs to dispatch it.
type Inbound struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`
}

type ClientReady struct {
	Username string `json:"username"`
	RoomID   string `json:"roomId,omitempty"`
}

type ChatMessage struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	RoomID   string `json:"roomId,omitempty"`
}

type GuessMove struct {
	Guess string `json:"guess"`
}

type ClientJoined struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

type PeerConnected struct {
	Type string `json:"type"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GameStateMessage struct {
	Type string `json:"type"`
	GameState
}

// Stats is served by the /stats endpoint.
type Stats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
	Games       int `json:"games"`
}
