package game

import (
	"fmt"
	"sync"
)

// Player is a snapshot of one seat's per-game state.
type Player struct {
	Name  string
	Role  Role
	Alive bool
}

type seat struct {
	player      Player
	participant Participant
	attrs       map[string]any
}

// Roster holds every participant of a game in registration order. Players
// are never removed, only marked dead.
type Roster struct {
	mu    sync.RWMutex
	order []string
	seats map[string]*seat
}

func NewRoster() *Roster {
	return &Roster{seats: make(map[string]*seat)}
}

// Register adds a living participant without a role.
func (r *Roster) Register(name string, p Participant) error {
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seats[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, name)
	}
	r.seats[name] = &seat{
		player:      Player{Name: name, Alive: true},
		participant: p,
		attrs:       make(map[string]any),
	}
	r.order = append(r.order, name)
	return nil
}

// AssignRole sets the role of a player. Each player gets exactly one role.
func (r *Roster) AssignRole(name string, role Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seats[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	if s.player.Role != NoRole {
		return fmt.Errorf("%w: %s is %s", ErrRoleAssigned, name, s.player.Role)
	}
	s.player.Role = role
	return nil
}

// AliveNames returns the names of living players in registration order. With
// roles given, only players holding one of them are returned.
func (r *Roster) AliveNames(roles ...Role) []string {
	keys := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		keys[role.Key()] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.order))
	for _, name := range r.order {
		s := r.seats[name]
		if !s.player.Alive {
			continue
		}
		if len(keys) > 0 {
			if _, ok := keys[s.player.Role.Key()]; !ok {
				continue
			}
		}
		names = append(names, name)
	}
	return names
}

// FirstAliveByRole returns the first living player, in registration order,
// holding role.
func (r *Roster) FirstAliveByRole(role Role) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		s := r.seats[name]
		if s.player.Alive && s.player.Role.Is(role) {
			return s.player, true
		}
	}
	return Player{}, false
}

// Kill marks a player dead. It reports whether the player was alive; unknown
// and already dead names are left untouched.
func (r *Roster) Kill(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seats[name]
	if !ok || !s.player.Alive {
		return false
	}
	s.player.Alive = false
	return true
}

func (r *Roster) SetAttribute(name, key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.seats[name]; ok {
		s.attrs[key] = value
	}
}

func (r *Roster) Attribute(name, key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.seats[name]
	if !ok {
		return nil, false
	}
	v, ok := s.attrs[key]
	return v, ok
}

func (r *Roster) Player(name string) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.seats[name]
	if !ok {
		return Player{}, false
	}
	return s.player, true
}

func (r *Roster) Participant(name string) (Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.seats[name]
	if !ok || s.participant == nil {
		return nil, false
	}
	return s.participant, true
}

func (r *Roster) IsAlive(name string) bool {
	p, ok := r.Player(name)
	return ok && p.Alive
}

func (r *Roster) RoleOf(name string) (Role, bool) {
	p, ok := r.Player(name)
	if !ok || p.Role == NoRole {
		return NoRole, false
	}
	return p.Role, true
}

// Names returns every registered name, dead or alive.
func (r *Roster) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Players returns a snapshot of every seat in registration order.
func (r *Roster) Players() []Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Player, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.seats[name].player)
	}
	return out
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
