package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JochenSunaert/PlotTwist/internal/protocol"
	"github.com/JochenSunaert/PlotTwist/internal/room"
	"github.com/JochenSunaert/PlotTwist/logger"
	"github.com/JochenSunaert/PlotTwist/pkg/utils"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrEmptyRoom       = errors.New("room has no players")
	ErrNotHost         = errors.New("caller is not the room host")
	ErrGameInProgress  = errors.New("game already in progress")
	ErrNoActiveRound   = errors.New("no active round")
	ErrEmptyPrompt     = errors.New("prompt is empty")
	ErrPromptSubmitted = errors.New("prompt already submitted this round")
	ErrUnknownPlayer   = errors.New("player not in this round")
	ErrAlreadyAnswered = errors.New("player already answered this round")
	ErrRoundNotSettled = errors.New("round not settled yet")
)

// RoomDirectory is the registry query surface the engine reads membership
// through. It never mutates rooms except for the lock flag.
type RoomDirectory interface {
	CodeFor(participantID string) (string, bool)
	HostID(code string) (string, bool)
	Members(code string) ([]room.Member, bool)
	MemberCount(code string) int
	Lock(code string)
	Unlock(code string)
}

// Notifier delivers notices to one participant or to everyone in a room.
type Notifier interface {
	ToParticipant(id string, event string, payload any)
	ToRoom(code string, event string, payload any)
}

// Options tune engine timing. Zero values fall back to the defaults.
type Options struct {
	PromptSeconds int
	AnswerSeconds int
	TickInterval  time.Duration
	SettleTimeout time.Duration
	Rand          *rand.Rand
}

const (
	defaultPromptSeconds = 25
	defaultAnswerSeconds = 35
	defaultSettleTimeout = 60 * time.Second
)

// Engine is the room/round state machine: team assignment, prompt-provider
// rotation, timed phases, settlement and scoring. One mutex serializes every
// state transition; timer callbacks and inbound actions alike run under it.
type Engine struct {
	mu       sync.Mutex
	games    map[string]*state
	rooms    RoomDirectory
	notify   Notifier
	narrator Narrator
	opts     Options
}

func NewEngine(rooms RoomDirectory, notify Notifier, narrator Narrator, opts Options) *Engine {
	if opts.PromptSeconds <= 0 {
		opts.PromptSeconds = defaultPromptSeconds
	}
	if opts.AnswerSeconds <= 0 {
		opts.AnswerSeconds = defaultAnswerSeconds
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = defaultSettleTimeout
	}
	if opts.Rand == nil {
		opts.Rand = utils.NewSeededRand()
	}
	return &Engine{
		games:    make(map[string]*state),
		rooms:    rooms,
		notify:   notify,
		narrator: narrator,
		opts:     opts,
	}
}

// StartGame locks the room, shuffles the membership into Hero/Villain teams
// and kicks off round 0. Host only, non-empty rooms only.
func (e *Engine) StartGame(callerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	code, ok := e.rooms.CodeFor(callerID)
	if !ok {
		e.callerError(callerID, "Room not found. Please try again.")
		return ErrRoomNotFound
	}
	hostID, ok := e.rooms.HostID(code)
	if !ok {
		e.callerError(callerID, "Room not found. Please try again.")
		return ErrRoomNotFound
	}
	if hostID != callerID {
		e.callerError(callerID, "Only the host can start the game.")
		return ErrNotHost
	}
	members, ok := e.rooms.Members(code)
	if !ok || len(members) == 0 {
		e.callerError(callerID, "Cannot start the game. No players in the room.")
		return ErrEmptyRoom
	}
	if g, exists := e.games[code]; exists && g.phase != PhaseEnded {
		e.callerError(callerID, "Game already in progress.")
		return ErrGameInProgress
	}

	e.rooms.Lock(code)

	players := make([]Player, len(members))
	for i, m := range members {
		players[i] = Player{ID: m.ID, Name: m.Name}
	}
	e.opts.Rand.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
	half := (len(players) + 1) / 2
	for i := range players {
		if i < half {
			players[i].Team = TeamHero
		} else {
			players[i].Team = TeamVillain
		}
	}

	g := &state{
		phase:        PhaseLobby,
		players:      players,
		currentRound: -1,
		totalRounds:  len(players),
	}
	g.setPhase(PhaseTeamsAssigned)
	e.games[code] = g

	for _, p := range players {
		e.notify.ToParticipant(p.ID, protocol.EventTeamAssigned, protocol.TeamAssigned{Team: string(p.Team)})
	}
	e.notify.ToRoom(code, protocol.EventGameStarted, struct{}{})
	logger.Info("game started in room %s with %d players", code, len(players))

	e.startRoundLocked(code, g, 0)
	return nil
}

// startRoundLocked resets per-round state, designates the prompt provider at
// the round's index in the fixed rotation order and starts the prompt timer.
func (e *Engine) startRoundLocked(code string, g *state, n int) {
	if n >= g.totalRounds {
		e.endGameLocked(code, g)
		return
	}
	if n < 0 || n >= len(g.players) {
		logger.Error("invalid round index %d for room %s", n, code)
		return
	}

	g.currentRound = n
	g.prompt = ""
	g.promptSubmitted = false
	g.answers = nil
	g.answered = make(map[string]bool)
	g.setPhase(PhasePrompt)

	e.notify.ToRoom(code, protocol.EventRoundReset, protocol.RoundReset{Round: n + 1})

	provider := g.players[n]
	e.notify.ToParticipant(provider.ID, protocol.EventPromptPlayer, protocol.PromptPlayer{IsProvider: true})
	e.notify.ToRoom(code, protocol.EventPromptSelection, protocol.PromptSelection{
		PlayerID:   provider.ID,
		PlayerName: provider.Name,
	})
	logger.Info("round %d started in room %s, prompt provider %s", n+1, code, provider.Name)

	round := n
	g.promptTimer = startTimer(e.opts.PromptSeconds, e.opts.TickInterval,
		func(remaining int) { e.onPromptTick(code, round, remaining) },
		func() { e.onPromptExpire(code, round) },
	)
}

func (e *Engine) onPromptTick(code string, round, remaining int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.games[code]
	if g == nil || g.phase != PhasePrompt || g.currentRound != round {
		return
	}
	e.notify.ToRoom(code, protocol.EventTimerUpdate, remaining)
}

// onPromptExpire synthesizes a fallback prompt if none was submitted, then
// moves into the answer phase either way.
func (e *Engine) onPromptExpire(code string, round int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.games[code]
	if g == nil || g.phase != PhasePrompt || g.currentRound != round {
		return
	}
	g.promptTimer = nil

	if !g.promptSubmitted {
		fallback := fallbackPrompts[e.opts.Rand.Intn(len(fallbackPrompts))]
		g.promptSubmitted = true
		g.prompt = fallback
		e.notify.ToRoom(code, protocol.EventPromptSubmitted, protocol.PromptSubmitted{Prompt: fallback})
		logger.Info("prompt timer expired in room %s, fallback prompt selected", code)
	}
	e.enterAnswerPhaseLocked(code, g)
}

// SubmitPrompt accepts the round's prompt text, at most once per round.
func (e *Engine) SubmitPrompt(callerID, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	code, ok := e.rooms.CodeFor(callerID)
	if !ok {
		logger.Info("submit-prompt from %s without a room", callerID)
		return ErrRoomNotFound
	}
	g := e.games[code]
	if g == nil || g.phase != PhasePrompt {
		logger.Info("submit-prompt ignored for room %s: no prompt phase active", code)
		return ErrNoActiveRound
	}

	text = strings.TrimSpace(text)
	if text == "" {
		e.callerError(callerID, "Prompt cannot be empty. Please try again.")
		return ErrEmptyPrompt
	}
	if g.promptSubmitted {
		logger.Info("duplicate prompt submission ignored in room %s", code)
		return ErrPromptSubmitted
	}

	if g.promptTimer != nil {
		g.promptTimer.Cancel()
		g.promptTimer = nil
	}
	g.promptSubmitted = true
	g.prompt = text
	e.notify.ToRoom(code, protocol.EventPromptSubmitted, protocol.PromptSubmitted{Prompt: text})
	logger.Info("prompt submitted for room %s", code)

	e.enterAnswerPhaseLocked(code, g)
	return nil
}

func (e *Engine) enterAnswerPhaseLocked(code string, g *state) {
	g.setPhase(PhaseAnswer)
	e.notify.ToRoom(code, protocol.EventStartAnswerPhase, struct{}{})

	round := g.currentRound
	g.answerTimer = startTimer(e.opts.AnswerSeconds, e.opts.TickInterval,
		func(remaining int) { e.onAnswerTick(code, round, remaining) },
		func() { e.onAnswerExpire(code, round) },
	)
}

func (e *Engine) onAnswerTick(code string, round, remaining int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.games[code]
	if g == nil || g.phase != PhaseAnswer || g.currentRound != round {
		return
	}
	// completeness wins the race against the clock
	if len(g.answers) > 0 && len(g.answers) >= e.rooms.MemberCount(code) {
		if g.answerTimer != nil {
			g.answerTimer.Cancel()
			g.answerTimer = nil
		}
		e.settleRoundLocked(code, g)
		return
	}
	e.notify.ToRoom(code, protocol.EventAnswerTimerUpdate, remaining)
}

// onAnswerExpire announces that time is up but keeps the phase open: all
// answers present is the sole close condition for the answer phase.
func (e *Engine) onAnswerExpire(code string, round int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.games[code]
	if g == nil || g.phase != PhaseAnswer || g.currentRound != round {
		return
	}
	g.answerTimer = nil
	e.notify.ToRoom(code, protocol.EventAnswerTimerExpired, struct{}{})
	logger.Info("answer timer expired in room %s with %d/%d answers", code, len(g.answers), e.rooms.MemberCount(code))
}

// SubmitAnswer records one answer per player per round, resolving the player
// by display name first and by caller id as a fallback. Blank text becomes a
// placeholder marker. Completeness triggers settlement immediately.
func (e *Engine) SubmitAnswer(callerID, playerName, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	code, ok := e.rooms.CodeFor(callerID)
	if !ok {
		e.callerError(callerID, "Room not found.")
		return ErrRoomNotFound
	}
	g := e.games[code]
	if g == nil {
		logger.Info("submit-answer ignored: no game state for room %s", code)
		return ErrNoActiveRound
	}
	if g.phase == PhaseSettling {
		// answer set already closed, late submissions are dropped
		logger.Info("submit-answer ignored: room %s is settling", code)
		return nil
	}
	if g.phase != PhaseAnswer {
		logger.Info("submit-answer ignored for room %s in phase %s", code, g.phase)
		return ErrNoActiveRound
	}

	var p *Player
	name := strings.TrimSpace(playerName)
	if name != "" {
		for i := range g.players {
			if g.players[i].Name == name {
				p = &g.players[i]
				break
			}
		}
	}
	if p == nil {
		for i := range g.players {
			if g.players[i].ID == callerID {
				p = &g.players[i]
				break
			}
		}
	}
	if p == nil {
		logger.Info("submit-answer: no matching player %q in room %s", playerName, code)
		return ErrUnknownPlayer
	}
	if g.answered[p.Name] {
		e.callerError(callerID, "You already submitted an answer this round.")
		return ErrAlreadyAnswered
	}

	answer := strings.TrimSpace(text)
	if answer == "" {
		answer = noAnswerPlaceholder
	}
	g.answered[p.Name] = true
	g.answers = append(g.answers, Answer{PlayerName: p.Name, Text: answer, Team: p.Team})
	e.notify.ToRoom(code, protocol.EventPlayerSubmitted, protocol.PlayerSubmitted{PlayerID: callerID})
	logger.Info("answer received from %s in room %s (%d/%d)", p.Name, code, len(g.answers), e.rooms.MemberCount(code))

	if len(g.answers) >= e.rooms.MemberCount(code) {
		if g.answerTimer != nil {
			g.answerTimer.Cancel()
			g.answerTimer = nil
		}
		e.settleRoundLocked(code, g)
	}
	return nil
}

// settleRoundLocked closes the answer set and hands the round to the
// narrator off the engine lock.
func (e *Engine) settleRoundLocked(code string, g *state) {
	g.setPhase(PhaseSettling)

	answers := make([]Answer, len(g.answers))
	copy(answers, g.answers)
	players := make([]Player, len(g.players))
	copy(players, g.players)

	go e.settle(code, g.currentRound, g.prompt, answers, players)
}

func (e *Engine) settle(code string, round int, prompt string, answers []Answer, players []Player) {
	ctx, cancel := context.WithTimeout(context.Background(), e.opts.SettleTimeout)
	defer cancel()

	story, err := e.narrator.GenerateStory(ctx, prompt, answers)
	if err != nil {
		e.settleFailed(code, round, fmt.Errorf("generate story: %w", err))
		return
	}
	verdict, err := e.narrator.EvaluateAnswers(ctx, prompt, answers, story, players)
	if err != nil {
		e.settleFailed(code, round, fmt.Errorf("evaluate answers: %w", err))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.games[code]
	if g == nil || g.phase != PhaseSettling || g.currentRound != round {
		return
	}

	for i := range g.players {
		p := &g.players[i]
		if p.Team == verdict.WinningTeam {
			p.Score++
		}
		if p.Name == verdict.ImpactfulPlayer {
			p.Score++
		}
		if p.Name == verdict.OriginalPlayer {
			p.Score++
		}
	}
	g.setPhase(PhaseSettled)

	if hostID, ok := e.rooms.HostID(code); ok {
		e.notify.ToParticipant(hostID, protocol.EventStoryGenerated, protocol.StoryGenerated{Story: story})
	}
	e.notify.ToRoom(code, protocol.EventEvaluationResults, protocol.EvaluationResults{
		WinningTeam:     string(verdict.WinningTeam),
		ImpactfulPlayer: verdict.ImpactfulPlayer,
		OriginalPlayer:  verdict.OriginalPlayer,
		ScoredPlayers:   scoreboard(g.players),
	})
	e.notify.ToRoom(code, protocol.EventAnswerPhaseEnded, protocol.AnswerPhaseEnded{NextRoundAvailable: true})
	logger.Info("round %d settled in room %s, winning team %s", round+1, code, verdict.WinningTeam)
}

// settleFailed reports the collaborator failure to the host and leaves the
// round recoverable: no scores, no retry, next round stays requestable.
func (e *Engine) settleFailed(code string, round int, err error) {
	logger.Error("settlement failed for room %s: %v", code, err)

	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.games[code]
	if g == nil || g.phase != PhaseSettling || g.currentRound != round {
		return
	}
	g.setPhase(PhaseSettled)

	if hostID, ok := e.rooms.HostID(code); ok {
		e.notify.ToParticipant(hostID, protocol.EventErrorMessage, "Failed to generate story. Please try again.")
	}
	e.notify.ToRoom(code, protocol.EventAnswerPhaseEnded, protocol.AnswerPhaseEnded{NextRoundAvailable: true})
}

// StartNextRound advances the rotation, ending the game past the last round.
// Host only, and only once the current round has settled.
func (e *Engine) StartNextRound(callerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	code, g, err := e.hostGame(callerID)
	if err != nil {
		return err
	}
	if g.phase != PhaseSettled {
		e.callerError(callerID, "Round is not finished yet.")
		return ErrRoundNotSettled
	}
	e.startRoundLocked(code, g, g.currentRound+1)
	return nil
}

func (e *Engine) endGameLocked(code string, g *state) {
	g.setPhase(PhaseEnded)
	g.cancelTimers()

	placements := scoreboard(g.players)
	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].Score > placements[j].Score
	})
	e.notify.ToRoom(code, protocol.EventGameEnded, protocol.GameEnded{Placements: placements})
	delete(e.games, code)
	logger.Info("game ended in room %s", code)
}

// RestartGame discards the game state and unlocks the room so the host can
// start again with the same membership.
func (e *Engine) RestartGame(callerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	code, ok := e.rooms.CodeFor(callerID)
	if !ok {
		e.callerError(callerID, "Room not found. Please try again.")
		return ErrRoomNotFound
	}
	hostID, ok := e.rooms.HostID(code)
	if !ok {
		e.callerError(callerID, "Room not found. Please try again.")
		return ErrRoomNotFound
	}
	if hostID != callerID {
		e.callerError(callerID, "Only the host can restart the game.")
		return ErrNotHost
	}

	if g := e.games[code]; g != nil {
		g.cancelTimers()
		delete(e.games, code)
	}
	e.rooms.Unlock(code)
	logger.Info("game restarted in room %s", code)
	return nil
}

// DropGame tears down a room's game state after the room itself died.
func (e *Engine) DropGame(code string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.games[code]
	if g == nil {
		return
	}
	g.cancelTimers()
	delete(e.games, code)
	logger.Info("game state dropped for room %s", code)
}

func (e *Engine) hostGame(callerID string) (string, *state, error) {
	code, ok := e.rooms.CodeFor(callerID)
	if !ok {
		e.callerError(callerID, "Room not found. Please try again.")
		return "", nil, ErrRoomNotFound
	}
	hostID, ok := e.rooms.HostID(code)
	if !ok {
		e.callerError(callerID, "Room not found. Please try again.")
		return "", nil, ErrRoomNotFound
	}
	if hostID != callerID {
		e.callerError(callerID, "Only the host can do that.")
		return "", nil, ErrNotHost
	}
	g := e.games[code]
	if g == nil {
		e.callerError(callerID, "No game in progress.")
		return "", nil, ErrNoActiveRound
	}
	return code, g, nil
}

func (e *Engine) callerError(id, msg string) {
	e.notify.ToParticipant(id, protocol.EventErrorMessage, msg)
}

func scoreboard(players []Player) []protocol.PlayerScore {
	scores := make([]protocol.PlayerScore, len(players))
	for i, p := range players {
		scores[i] = protocol.PlayerScore{Name: p.Name, Team: string(p.Team), Score: p.Score}
	}
	return scores
}
