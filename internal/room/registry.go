package room

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/JochenSunaert/PlotTwist/internal/protocol"
	"github.com/JochenSunaert/PlotTwist/logger"
	"github.com/JochenSunaert/PlotTwist/pkg/utils"
)

var (
	ErrAlreadyHosting = errors.New("caller already hosts a room")
	ErrAlreadyJoined  = errors.New("caller is already in a room")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomLocked     = errors.New("room is locked")
	ErrRoomFull       = errors.New("room is full")
)

// Notifier delivers outbound notices to one participant or to everyone in a
// room. The websocket gateway implements it.
type Notifier interface {
	ToParticipant(id string, event string, payload any)
	ToRoom(code string, event string, payload any)
}

// Registry owns every live room: creation, membership, locking and teardown.
// The code->room map is the only globally shared structure; code generation
// retries under the same lock that inserts the room, so codes are unique
// among live rooms.
type Registry struct {
	mu            sync.RWMutex
	rooms         map[string]*Room
	byParticipant map[string]string // participant id -> room code
	rng           *rand.Rand
	notify        Notifier
}

func NewRegistry(notify Notifier) *Registry {
	return &Registry{
		rooms:         make(map[string]*Room),
		byParticipant: make(map[string]string),
		rng:           utils.NewSeededRand(),
		notify:        notify,
	}
}

// Create makes a new unlocked room owned by hostID and notifies the host of
// its code. A caller that already hosts a live room is rejected.
func (reg *Registry) Create(hostID string) (string, error) {
	reg.mu.Lock()
	for _, r := range reg.rooms {
		if r.HostID == hostID {
			reg.mu.Unlock()
			reg.notify.ToParticipant(hostID, protocol.EventErrorMessage, "You already have an active room.")
			logger.Info("create-room rejected: %s already hosts a room", hostID)
			return "", ErrAlreadyHosting
		}
	}

	code := utils.RandomRoomCode(reg.rng)
	for _, exists := reg.rooms[code]; exists; _, exists = reg.rooms[code] {
		code = utils.RandomRoomCode(reg.rng)
	}

	reg.rooms[code] = &Room{Code: code, HostID: hostID}
	reg.byParticipant[hostID] = code
	reg.mu.Unlock()

	reg.notify.ToParticipant(hostID, protocol.EventRoomCreated, code)
	logger.Info("room %s created by %s", code, hostID)
	return code, nil
}

// Join appends the caller to the room's member list and republishes the
// membership to everyone in the room.
func (reg *Registry) Join(callerID, code, name string) error {
	reg.mu.Lock()
	if _, joined := reg.byParticipant[callerID]; joined {
		reg.mu.Unlock()
		reg.notify.ToParticipant(callerID, protocol.EventErrorMessage, "You are already in a room.")
		return ErrAlreadyJoined
	}

	r, ok := reg.rooms[code]
	if !ok {
		reg.mu.Unlock()
		reg.notify.ToParticipant(callerID, protocol.EventErrorMessage, "Room not found.")
		logger.Info("join failed: room %s not found", code)
		return ErrRoomNotFound
	}
	if r.Locked {
		reg.mu.Unlock()
		reg.notify.ToParticipant(callerID, protocol.EventErrorMessage, "Game already started, cannot join.")
		logger.Info("join failed: room %s is locked", code)
		return ErrRoomLocked
	}
	if len(r.Members) >= MaxMembers {
		reg.mu.Unlock()
		reg.notify.ToParticipant(callerID, protocol.EventErrorMessage, "Room is full.")
		logger.Info("join failed: room %s is full", code)
		return ErrRoomFull
	}

	r.Members = append(r.Members, Member{ID: callerID, Name: name})
	reg.byParticipant[callerID] = code
	members := r.membersCopy()
	reg.mu.Unlock()

	reg.notify.ToParticipant(callerID, protocol.EventJoinedRoom, code)
	reg.notify.ToRoom(code, protocol.EventPlayersUpdate, members)
	logger.Info("%s joined room %s", name, code)
	return nil
}

// Remove detaches the caller from their room. A departing host tears the
// whole room down and every remaining member is told why; a departing member
// only shrinks the list. Returns the room code and whether the room was
// deleted so the gateway can cascade game teardown.
func (reg *Registry) Remove(callerID string) (string, bool) {
	reg.mu.Lock()
	code, ok := reg.byParticipant[callerID]
	if !ok {
		reg.mu.Unlock()
		return "", false
	}
	delete(reg.byParticipant, callerID)

	r, ok := reg.rooms[code]
	if !ok {
		reg.mu.Unlock()
		return "", false
	}

	if r.HostID == callerID {
		remaining := make([]string, 0, len(r.Members))
		for _, m := range r.Members {
			remaining = append(remaining, m.ID)
			delete(reg.byParticipant, m.ID)
		}
		delete(reg.rooms, code)
		reg.mu.Unlock()

		for _, id := range remaining {
			reg.notify.ToParticipant(id, protocol.EventErrorMessage, "Host left, room closed.")
		}
		logger.Info("host left, deleting room %s", code)
		return code, true
	}

	r.removeMember(callerID)
	members := r.membersCopy()
	reg.mu.Unlock()

	reg.notify.ToRoom(code, protocol.EventPlayersUpdate, members)
	logger.Info("player %s left room %s", callerID, code)
	return code, false
}

// Lock marks the room as started, blocking further joins.
func (reg *Registry) Lock(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok := reg.rooms[code]; ok {
		r.Locked = true
	}
}

// Unlock reopens the room for joins after a restart.
func (reg *Registry) Unlock(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok := reg.rooms[code]; ok {
		r.Locked = false
	}
}

// CodeFor resolves the room a participant is associated with.
func (reg *Registry) CodeFor(participantID string) (string, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	code, ok := reg.byParticipant[participantID]
	return code, ok
}

// HostID returns the owning host of a room.
func (reg *Registry) HostID(code string) (string, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[code]
	if !ok {
		return "", false
	}
	return r.HostID, true
}

// Members returns a copy of the room's member list in join order.
func (reg *Registry) Members(code string) ([]Member, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[code]
	if !ok {
		return nil, false
	}
	return r.membersCopy(), true
}

// MemberCount returns the current member count, 0 for unknown rooms.
func (reg *Registry) MemberCount(code string) int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[code]
	if !ok {
		return 0
	}
	return len(r.Members)
}

// ParticipantIDs lists everyone addressable in a room, host included.
func (reg *Registry) ParticipantIDs(code string) []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[code]
	if !ok {
		return nil
	}
	return r.participantIDs()
}
