package room

// MaxMembers caps how many players can join a single room.
const MaxMembers = 8

// Member is one joined player, in join order.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Room groups a host and up to MaxMembers players under a short code. The
// locked flag is set when a game starts and blocks further joins. All
// mutation goes through the Registry.
type Room struct {
	Code    string
	HostID  string
	Members []Member
	Locked  bool
}

func (r *Room) memberIndex(id string) int {
	for i, m := range r.Members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) removeMember(id string) bool {
	i := r.memberIndex(id)
	if i < 0 {
		return false
	}
	r.Members = append(r.Members[:i], r.Members[i+1:]...)
	return true
}

// participantIDs lists everyone addressable in this room, host first.
func (r *Room) participantIDs() []string {
	ids := make([]string, 0, len(r.Members)+1)
	ids = append(ids, r.HostID)
	for _, m := range r.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

func (r *Room) membersCopy() []Member {
	members := make([]Member, len(r.Members))
	copy(members, r.Members)
	return members
}
