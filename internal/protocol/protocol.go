// Package protocol defines the websocket wire format shared by the gateway,
// the room registry and the round engine.
package protocol

import "encoding/json"

// Message is the envelope for every websocket frame, inbound and outbound.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound actions.
const (
	EventCreateRoom     = "create-room"
	EventJoinRoom       = "join-room"
	EventStartGame      = "start-game"
	EventSubmitPrompt   = "submit-prompt"
	EventSubmitAnswer   = "submit-answer"
	EventStartNextRound = "start-next-round"
	EventRestartGame    = "restart-game"
)

// Outbound notices.
const (
	EventRoomCreated        = "room-created"
	EventJoinedRoom         = "joined-room"
	EventPlayersUpdate      = "players-update"
	EventErrorMessage       = "error-message"
	EventGameStarted        = "game-started"
	EventTeamAssigned       = "team-assigned"
	EventRoundReset         = "round-reset"
	EventPromptPlayer       = "prompt-player"
	EventPromptSelection    = "prompt-selection"
	EventTimerUpdate        = "timer-update"
	EventAnswerTimerUpdate  = "answer-timer-update"
	EventAnswerTimerExpired = "answer-timer-expired"
	EventPromptSubmitted    = "prompt-submitted"
	EventStartAnswerPhase   = "start-answer-phase"
	EventPlayerSubmitted    = "player-submitted"
	EventStoryGenerated     = "story-generated"
	EventEvaluationResults  = "evaluation-results"
	EventAnswerPhaseEnded   = "answer-phase-ended"
	EventGameEnded          = "game-ended"
)

// JoinRoomRequest is the payload of a join-room action.
type JoinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

// SubmitPromptRequest is the payload of a submit-prompt action.
type SubmitPromptRequest struct {
	Prompt string `json:"prompt"`
}

// SubmitAnswerRequest is the payload of a submit-answer action.
type SubmitAnswerRequest struct {
	PlayerName string `json:"playerName"`
	Answer     string `json:"answer"`
}

// TeamAssigned is sent to each player individually at game start.
type TeamAssigned struct {
	Team string `json:"team"`
}

// RoundReset carries the 1-based number of the round that is starting.
type RoundReset struct {
	Round int `json:"roundNumber"`
}

// PromptPlayer is sent to the round's prompt provider only.
type PromptPlayer struct {
	IsProvider bool `json:"isProvider"`
}

// PromptSelection tells the room who provides this round's prompt.
type PromptSelection struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// PromptSubmitted broadcasts the accepted (or fallback) prompt text.
type PromptSubmitted struct {
	Prompt string `json:"prompt"`
}

// PlayerSubmitted references a participant whose answer was recorded.
type PlayerSubmitted struct {
	PlayerID string `json:"playerId"`
}

// StoryGenerated carries the collaborator's story text, host only.
type StoryGenerated struct {
	Story string `json:"story"`
}

// PlayerScore is one row of a scoreboard or final placement list.
type PlayerScore struct {
	Name  string `json:"name"`
	Team  string `json:"team"`
	Score int    `json:"score"`
}

// EvaluationResults carries the round verdict plus updated scores.
type EvaluationResults struct {
	WinningTeam     string        `json:"winningTeam"`
	ImpactfulPlayer string        `json:"impactfulPlayer"`
	OriginalPlayer  string        `json:"originalPlayer"`
	ScoredPlayers   []PlayerScore `json:"scoredPlayers"`
}

// AnswerPhaseEnded closes a round; NextRoundAvailable signals the host may
// request the next one.
type AnswerPhaseEnded struct {
	NextRoundAvailable bool `json:"nextRoundAvailable"`
}

// GameEnded carries the final descending-score placements.
type GameEnded struct {
	Placements []PlayerScore `json:"placements"`
}
