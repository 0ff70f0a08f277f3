// Package gateway maps inbound participant actions to registry/engine calls
// and delivers outbound notices over websocket connections. It fabricates no
// game-state messages of its own.
package gateway

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/JochenSunaert/PlotTwist/internal/protocol"
	"github.com/JochenSunaert/PlotTwist/logger"
)

// Registry is the room surface the gateway dispatches into.
type Registry interface {
	Create(hostID string) (string, error)
	Join(callerID, code, name string) error
	Remove(callerID string) (code string, deleted bool)
	ParticipantIDs(code string) []string
}

// Engine is the round surface the gateway dispatches into.
type Engine interface {
	StartGame(callerID string) error
	SubmitPrompt(callerID, text string) error
	SubmitAnswer(callerID, playerName, text string) error
	StartNextRound(callerID string) error
	RestartGame(callerID string) error
	DropGame(code string)
}

// Hub owns all live connections and implements the Notifier surface the
// registry and engine publish through.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   Registry
	engine  Engine
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Attach wires the dispatch targets. Must be called before serving.
func (h *Hub) Attach(rooms Registry, engine Engine) {
	h.rooms = rooms
	h.engine = engine
}

// HandleConn runs a participant connection until it closes. Each connection
// gets a fresh opaque identifier.
func (h *Hub) HandleConn(conn *websocket.Conn) {
	c := newClient(uuid.NewString(), conn)

	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	logger.Info("participant %s connected", c.ID)

	go h.readPump(c)
	c.writePump()
}

func (h *Hub) readPump(c *Client) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("participant %s readPump panic: %v", c.ID, r)
		}
		c.cleanup()
		h.disconnect(c)
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, raw, err := c.conn.ReadMessage()
			if err != nil {
				logger.Debug("read from participant %s: %v", c.ID, err)
				return
			}
			h.dispatch(c.ID, raw)
		}
	}
}

// dispatch maps one inbound frame 1:1 onto a registry or engine operation.
// Operation errors are already reported to the caller by the callee; the
// gateway only logs them.
func (h *Hub) dispatch(participantID string, raw []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Info("invalid message from participant %s: %v", participantID, err)
		return
	}
	logger.Debug("participant %s -> %s", participantID, msg.Type)

	switch msg.Type {
	case protocol.EventCreateRoom:
		if _, err := h.rooms.Create(participantID); err != nil {
			logger.Debug("create-room from %s: %v", participantID, err)
		}

	case protocol.EventJoinRoom:
		var p protocol.JoinRoomRequest
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			logger.Info("invalid join-room payload from %s: %v", participantID, err)
			return
		}
		code := strings.ToUpper(strings.TrimSpace(p.RoomCode))
		if err := h.rooms.Join(participantID, code, p.Name); err != nil {
			logger.Debug("join-room from %s: %v", participantID, err)
		}

	case protocol.EventStartGame:
		if err := h.engine.StartGame(participantID); err != nil {
			logger.Debug("start-game from %s: %v", participantID, err)
		}

	case protocol.EventSubmitPrompt:
		var p protocol.SubmitPromptRequest
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			logger.Info("invalid submit-prompt payload from %s: %v", participantID, err)
			return
		}
		if err := h.engine.SubmitPrompt(participantID, p.Prompt); err != nil {
			logger.Debug("submit-prompt from %s: %v", participantID, err)
		}

	case protocol.EventSubmitAnswer:
		var p protocol.SubmitAnswerRequest
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			logger.Info("invalid submit-answer payload from %s: %v", participantID, err)
			return
		}
		if err := h.engine.SubmitAnswer(participantID, p.PlayerName, p.Answer); err != nil {
			logger.Debug("submit-answer from %s: %v", participantID, err)
		}

	case protocol.EventStartNextRound:
		if err := h.engine.StartNextRound(participantID); err != nil {
			logger.Debug("start-next-round from %s: %v", participantID, err)
		}

	case protocol.EventRestartGame:
		if err := h.engine.RestartGame(participantID); err != nil {
			logger.Debug("restart-game from %s: %v", participantID, err)
		}

	default:
		logger.Info("unknown message type %q from participant %s", msg.Type, participantID)
	}
}

func (h *Hub) disconnect(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	h.mu.Unlock()
	logger.Info("participant %s disconnected", c.ID)

	code, deleted := h.rooms.Remove(c.ID)
	if deleted {
		h.engine.DropGame(code)
	}
}

// ToParticipant delivers one notice to a single participant.
func (h *Hub) ToParticipant(id string, event string, payload any) {
	msg, ok := h.envelope(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	c := h.clients[id]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	h.push(c, msg)
}

// ToRoom broadcasts one notice to everyone in a room, host included.
func (h *Hub) ToRoom(code string, event string, payload any) {
	msg, ok := h.envelope(event, payload)
	if !ok {
		return
	}
	for _, id := range h.rooms.ParticipantIDs(code) {
		h.mu.RLock()
		c := h.clients[id]
		h.mu.RUnlock()
		if c != nil {
			h.push(c, msg)
		}
	}
}

func (h *Hub) push(c *Client, msg []byte) {
	select {
	case <-c.ctx.Done():
	case c.send <- msg:
	default:
		logger.Error("participant %s send buffer full, dropping message", c.ID)
	}
}

func (h *Hub) envelope(event string, payload any) ([]byte, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("marshal %s payload: %v", event, err)
		return nil, false
	}
	msg, err := json.Marshal(protocol.Message{Type: event, Data: data})
	if err != nil {
		logger.Error("marshal %s envelope: %v", event, err)
		return nil, false
	}
	return msg, true
}
