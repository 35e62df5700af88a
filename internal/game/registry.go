package game

import (
	"fmt"
	"sync"

	"boardgame-service/domain"

	"go.uber.org/zap"
)

// Registry tracks every live room, addressable by id and by join code.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	byCode map[string]*Room

	settings   Settings
	codeLength int
	notify     Broadcaster
}

func NewRegistry(settings Settings, codeLength int, notify Broadcaster) *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		byCode:     make(map[string]*Room),
		settings:   settings,
		codeLength: codeLength,
		notify:     notify,
	}
}

// CreateRoom allocates a room with a fresh join code. firstJoinerTurn
// overrides the configured first-joiner policy for this room when non-nil.
func (reg *Registry) CreateRoom(templateID string, firstJoinerTurn *bool) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code, err := reg.uniqueCode()
	if err != nil {
		return nil, fmt.Errorf("allocate join code: %w", err)
	}

	settings := reg.settings
	if firstJoinerTurn != nil {
		settings.FirstJoinerBecomesCurrent = *firstJoinerTurn
	}

	room := NewRoom(templateID, code, settings, reg.notify)
	reg.rooms[room.ID()] = room
	reg.byCode[code] = room

	zap.L().Info("room created",
		zap.String("room_id", room.ID()),
		zap.String("code", code),
		zap.String("template_id", templateID))

	return room, nil
}

// uniqueCode draws codes until one does not collide with an active room. A
// code held by a finished room may be reassigned; that room stays
// addressable by id.
func (reg *Registry) uniqueCode() (string, error) {
	for {
		code, err := NewJoinCode(reg.codeLength)
		if err != nil {
			return "", err
		}
		existing, taken := reg.byCode[code]
		if !taken || existing.Status() != domain.RoomActive {
			return code, nil
		}
	}
}

func (reg *Registry) FindByID(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[id]
	return room, ok
}

func (reg *Registry) FindByCode(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.byCode[code]
	return room, ok
}

// Remove drops a room from both indexes. The cleanup owner calls this after
// archiving; the registry itself never expires rooms.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[id]
	if !ok {
		return
	}
	delete(reg.rooms, id)
	if reg.byCode[room.Code()] == room {
		delete(reg.byCode, room.Code())
	}

	zap.L().Info("room removed", zap.String("room_id", id))
}

// DropConnection reconciles room bookkeeping after a websocket goes away.
// Host and screen references are cleared; player bindings are kept so the
// player can reconnect later.
func (reg *Registry) DropConnection(roomID, connID string, role domain.Role) {
	room, ok := reg.FindByID(roomID)
	if !ok {
		return
	}

	switch role {
	case domain.RoleHost:
		room.DetachHost(connID)
	case domain.RoleScreen:
		room.RemoveScreen(connID)
	}
}
