package game

import "github.com/JochenSunaert/PlotTwist/logger"

// Team is one side of the Hero/Villain split.
type Team string

const (
	TeamHero    Team = "Hero"
	TeamVillain Team = "Villain"
)

// Phase is the single active stage of a room's game.
type Phase string

const (
	PhaseLobby         Phase = "Lobby"
	PhaseTeamsAssigned Phase = "TeamsAssigned"
	PhasePrompt        Phase = "PromptPhase"
	PhaseAnswer        Phase = "AnswerPhase"
	PhaseSettling      Phase = "Settling"
	PhaseSettled       Phase = "Settled"
	PhaseEnded         Phase = "Ended"
)

var phaseTransitions = map[Phase][]Phase{
	PhaseLobby:         {PhaseTeamsAssigned},
	PhaseTeamsAssigned: {PhasePrompt},
	PhasePrompt:        {PhaseAnswer},
	PhaseAnswer:        {PhaseSettling},
	PhaseSettling:      {PhaseSettled},
	PhaseSettled:       {PhasePrompt, PhaseEnded},
}

func (p Phase) canTransitionTo(next Phase) bool {
	for _, allowed := range phaseTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Player is a team-assigned member snapshot taken at game start. The slice
// order is the fixed prompt-provider rotation for the whole game.
type Player struct {
	ID    string
	Name  string
	Team  Team
	Score int
}

// Answer is one submitted entry of the active round.
type Answer struct {
	PlayerName string `json:"playerName"`
	Text       string `json:"answer"`
	Team       Team   `json:"team"`
}

// state is the live round-by-round progress of one started game.
type state struct {
	phase           Phase
	players         []Player
	currentRound    int
	totalRounds     int
	prompt          string
	promptSubmitted bool
	answers         []Answer
	answered        map[string]bool // player name -> already answered this round
	promptTimer     *Timer
	answerTimer     *Timer
}

func (g *state) setPhase(next Phase) {
	if !g.phase.canTransitionTo(next) {
		logger.Error("invalid phase transition %s -> %s", g.phase, next)
	}
	g.phase = next
}

func (g *state) cancelTimers() {
	if g.promptTimer != nil {
		g.promptTimer.Cancel()
		g.promptTimer = nil
	}
	if g.answerTimer != nil {
		g.answerTimer.Cancel()
		g.answerTimer = nil
	}
}
