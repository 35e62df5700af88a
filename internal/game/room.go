package game

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"boardgame-service/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Settings are the board parameters a room is created with. They come from
// configuration, never from the wire.
type Settings struct {
	StartCell                 int
	FinalCell                 int
	InitialPearls             int
	InitialAmulets            int
	FirstJoinerBecomesCurrent bool
}

// Actor identifies who asked for an operation: the connection id, its role,
// and for players the bound player id.
type Actor struct {
	ConnID   string
	Role     domain.Role
	PlayerID string
}

// Broadcaster delivers room snapshots to connections. The room calls it
// while still holding its own lock, so snapshots are enqueued in mutation
// order.
type Broadcaster interface {
	BroadcastRoomState(roomID string, state domain.RoomState)
	UnicastRoomState(connID string, state domain.RoomState)
}

// RollFunc produces one dice throw.
type RollFunc func() int

func defaultRoll() int { return rand.Intn(6) + 1 }

// Room holds one live game session. Every exported method locks the room
// for its full duration: mutation, event append, snapshot build and
// broadcast enqueue happen in one serialized section, so no client can
// observe a half-applied operation.
type Room struct {
	mu sync.Mutex

	id         string
	code       string
	templateID string
	status     domain.RoomStatus
	createdAt  time.Time
	startedAt  *time.Time
	finishedAt *time.Time

	hostConnID string
	screens    map[string]struct{}

	players         map[string]*domain.Player
	playerOrder     []string
	currentPlayerID string
	turnNumber      int

	lastDiceValue    int
	lastSelectedCell int

	events []domain.Event

	settings Settings
	roll     RollFunc
	notify   Broadcaster
}

func NewRoom(templateID, code string, settings Settings, notify Broadcaster) *Room {
	return &Room{
		id:         uuid.NewString(),
		code:       code,
		templateID: templateID,
		status:     domain.RoomActive,
		createdAt:  time.Now(),
		screens:    make(map[string]struct{}),
		players:    make(map[string]*domain.Player),
		settings:   settings,
		roll:       defaultRoll,
		notify:     notify,
	}
}

func (r *Room) ID() string   { return r.id }
func (r *Room) Code() string { return r.code }

func (r *Room) Status() domain.RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// SetRollFunc replaces the dice source; tests use it for determinism.
func (r *Room) SetRollFunc(roll RollFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roll = roll
}

// Join adds a new player with the configured starting position and
// resources. New players are rejected once the room has finished;
// reconnecting players go through Reconnect instead.
func (r *Room) Join(name string) (domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != domain.RoomActive {
		return domain.Player{}, fmt.Errorf("room %s no longer accepts players: %w", r.id, domain.ErrConflict)
	}

	p := &domain.Player{
		ID:       uuid.NewString(),
		Name:     name,
		Position: r.settings.StartCell,
		Pearls:   r.settings.InitialPearls,
		Amulets:  r.settings.InitialAmulets,
		Status:   domain.PlayerWaiting,
		JoinedAt: time.Now(),
	}
	r.players[p.ID] = p
	r.playerOrder = append(r.playerOrder, p.ID)

	r.appendEvent(domain.EventPlayerJoined, domain.RolePlayer, p.ID, map[string]any{
		"playerId": p.ID,
		"name":     p.Name,
	})

	if r.settings.FirstJoinerBecomesCurrent && r.currentPlayerID == "" {
		r.installCurrent(p.ID)
		r.appendEvent(domain.EventTurnChanged, "", "", map[string]any{
			"currentPlayerId": p.ID,
			"turnNumber":      r.turnNumber,
		})
	}

	zap.L().Info("player joined room",
		zap.String("room_id", r.id),
		zap.String("player_id", p.ID))

	r.broadcast()
	return *p, nil
}

// Reconnect resolves an existing player for a fresh connection. It mutates
// nothing, so it works on finished rooms too.
func (r *Room) Reconnect(playerID string) (domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return domain.Player{}, fmt.Errorf("player %s: %w", playerID, domain.ErrNotFound)
	}
	return *p, nil
}

// Start stamps the session start and installs the first current player. A
// room that already picked its current player through the first-joiner
// policy keeps it.
func (r *Room) Start(actor Actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actor.Role != domain.RoleHost {
		return fmt.Errorf("only the host may start the game: %w", domain.ErrUnauthorized)
	}
	if r.status != domain.RoomActive {
		return fmt.Errorf("room %s is %s: %w", r.id, r.status, domain.ErrConflict)
	}
	if r.startedAt != nil {
		return fmt.Errorf("game already started: %w", domain.ErrConflict)
	}
	if len(r.playerOrder) == 0 {
		return fmt.Errorf("cannot start a game without players: %w", domain.ErrConflict)
	}

	now := time.Now()
	r.startedAt = &now

	if r.currentPlayerID == "" {
		next, ok := r.selectNextPlayer()
		if !ok {
			return fmt.Errorf("no eligible player to start with: %w", domain.ErrConflict)
		}
		r.installCurrent(next)
	}

	r.appendEvent(domain.EventGameStarted, actor.Role, actor.PlayerID, map[string]any{
		"currentPlayerId": r.currentPlayerID,
		"turnNumber":      r.turnNumber,
	})

	zap.L().Info("game started",
		zap.String("room_id", r.id),
		zap.String("current_player_id", r.currentPlayerID))

	r.broadcast()
	return nil
}

// RollAuto throws the room's dice for the current player.
func (r *Room) RollAuto(actor Actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applyRoll(actor, r.roll())
}

// RollManual applies a caller-chosen dice value. The value is validated
// against the 1..6 range, never clamped.
func (r *Room) RollManual(actor Actor, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applyRoll(actor, value)
}

func (r *Room) applyRoll(actor Actor, value int) error {
	if value < 1 || value > 6 {
		return fmt.Errorf("dice value %d out of range: %w", value, domain.ErrInvalidInput)
	}
	if err := r.authorizeTurn(actor); err != nil {
		return err
	}
	if r.status != domain.RoomActive {
		return fmt.Errorf("room %s is %s: %w", r.id, r.status, domain.ErrConflict)
	}
	cur, ok := r.players[r.currentPlayerID]
	if r.currentPlayerID == "" || !ok {
		return fmt.Errorf("no current player to roll for: %w", domain.ErrConflict)
	}
	if cur.Status != domain.PlayerActive {
		return fmt.Errorf("current player is %s: %w", cur.Status, domain.ErrConflict)
	}

	from := cur.Position
	to := from + value
	if to >= r.settings.FinalCell {
		to = r.settings.FinalCell
		now := time.Now()
		cur.Status = domain.PlayerFinished
		cur.FinishedAt = &now
	}
	cur.Position = to
	r.lastDiceValue = value

	r.appendEvent(domain.EventDiceRolled, actor.Role, actor.PlayerID, map[string]any{
		"playerId": cur.ID,
		"value":    value,
		"from":     from,
		"to":       to,
		"finished": cur.Status == domain.PlayerFinished,
	})

	r.broadcast()
	return nil
}

// NextTurn rotates the turn to the next eligible player. When nobody is
// eligible anymore the room finishes instead.
func (r *Room) NextTurn(actor Actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.authorizeTurn(actor); err != nil {
		return err
	}
	if r.status != domain.RoomActive {
		return fmt.Errorf("room %s is %s: %w", r.id, r.status, domain.ErrConflict)
	}
	if r.currentPlayerID == "" {
		return fmt.Errorf("no current player: %w", domain.ErrConflict)
	}

	prev := r.currentPlayerID
	if cur := r.players[prev]; cur != nil && cur.Status == domain.PlayerActive {
		cur.Status = domain.PlayerWaiting
	}

	next, ok := r.selectNextPlayer()
	if !ok {
		r.finish("no eligible player remains")
		r.broadcast()
		return nil
	}

	r.installCurrent(next)
	r.appendEvent(domain.EventTurnChanged, actor.Role, actor.PlayerID, map[string]any{
		"previousPlayerId": prev,
		"currentPlayerId":  next,
		"turnNumber":       r.turnNumber,
	})

	r.broadcast()
	return nil
}

// AddComment appends a comment event. Hosts and players may comment;
// screens are read-only.
func (r *Room) AddComment(actor Actor, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actor.Role != domain.RoleHost && actor.Role != domain.RolePlayer {
		return fmt.Errorf("screens cannot post comments: %w", domain.ErrUnauthorized)
	}
	if r.status != domain.RoomActive {
		return fmt.Errorf("room %s is %s: %w", r.id, r.status, domain.ErrConflict)
	}

	r.appendEvent(domain.EventCommentAdded, actor.Role, actor.PlayerID, map[string]any{
		"text": text,
	})

	r.broadcast()
	return nil
}

// SelectCell records the cell the current turn is acting on. It only moves
// the transient display field, never a player.
func (r *Room) SelectCell(actor Actor, cell int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cell < 1 || cell > r.settings.FinalCell {
		return fmt.Errorf("cell %d outside the board: %w", cell, domain.ErrInvalidInput)
	}
	if err := r.authorizeTurn(actor); err != nil {
		return err
	}
	if r.status != domain.RoomActive {
		return fmt.Errorf("room %s is %s: %w", r.id, r.status, domain.ErrConflict)
	}
	if r.currentPlayerID == "" {
		return fmt.Errorf("no turn in progress: %w", domain.ErrConflict)
	}

	r.lastSelectedCell = cell
	r.appendEvent(domain.EventCellSelected, actor.Role, actor.PlayerID, map[string]any{
		"cell": cell,
	})

	r.broadcast()
	return nil
}

// PausePlayer freezes a player out of the rotation until resumed. Finished
// players stay finished.
func (r *Room) PausePlayer(actor Actor, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actor.Role != domain.RoleHost {
		return fmt.Errorf("only the host may pause players: %w", domain.ErrUnauthorized)
	}
	if r.status != domain.RoomActive {
		return fmt.Errorf("room %s is %s: %w", r.id, r.status, domain.ErrConflict)
	}
	p, ok := r.players[playerID]
	if !ok {
		return fmt.Errorf("player %s: %w", playerID, domain.ErrNotFound)
	}
	switch p.Status {
	case domain.PlayerFinished:
		return fmt.Errorf("player %s already finished: %w", playerID, domain.ErrConflict)
	case domain.PlayerSleeping:
		return fmt.Errorf("player %s already sleeping: %w", playerID, domain.ErrConflict)
	}

	p.Status = domain.PlayerSleeping
	r.appendEvent(domain.EventPlayerPaused, actor.Role, actor.PlayerID, map[string]any{
		"playerId": playerID,
	})

	r.broadcast()
	return nil
}

// ResumePlayer returns a sleeping player to the waiting pool.
func (r *Room) ResumePlayer(actor Actor, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actor.Role != domain.RoleHost {
		return fmt.Errorf("only the host may resume players: %w", domain.ErrUnauthorized)
	}
	if r.status != domain.RoomActive {
		return fmt.Errorf("room %s is %s: %w", r.id, r.status, domain.ErrConflict)
	}
	p, ok := r.players[playerID]
	if !ok {
		return fmt.Errorf("player %s: %w", playerID, domain.ErrNotFound)
	}
	if p.Status != domain.PlayerSleeping {
		return fmt.Errorf("player %s is not sleeping: %w", playerID, domain.ErrConflict)
	}

	p.Status = domain.PlayerWaiting
	r.appendEvent(domain.EventPlayerResumed, actor.Role, actor.PlayerID, map[string]any{
		"playerId": playerID,
	})

	r.broadcast()
	return nil
}

// AttachHost binds the moderating connection. A room has at most one host;
// reattaching the same connection is a no-op.
func (r *Room) AttachHost(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostConnID != "" && r.hostConnID != connID {
		return fmt.Errorf("room already has a host connection: %w", domain.ErrConflict)
	}
	r.hostConnID = connID

	r.broadcast()
	return nil
}

// DetachHost clears the host binding when that connection goes away. The
// next join_as_host may claim the room again.
func (r *Room) DetachHost(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostConnID != connID {
		return
	}
	r.hostConnID = ""

	r.broadcast()
}

// AddScreen registers a read-only observer connection.
func (r *Room) AddScreen(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.screens[connID] = struct{}{}

	r.broadcast()
}

// RemoveScreen drops an observer connection from the room.
func (r *Room) RemoveScreen(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.screens[connID]; !ok {
		return
	}
	delete(r.screens, connID)

	r.broadcast()
}

// Finish ends the game explicitly. Turn rotation finishes the room the same
// way when no eligible player remains.
func (r *Room) Finish(reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != domain.RoomActive {
		return fmt.Errorf("room %s is %s: %w", r.id, r.status, domain.ErrConflict)
	}
	r.finish(reason)

	r.broadcast()
	return nil
}

// Archive marks a finished room for removal by the cleanup owner.
func (r *Room) Archive() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != domain.RoomFinished {
		return fmt.Errorf("room %s is %s: %w", r.id, r.status, domain.ErrConflict)
	}
	r.status = domain.RoomArchived

	r.broadcast()
	return nil
}

// Snapshot returns a copy of the room state safe to use outside the lock.
func (r *Room) Snapshot() domain.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// SendStateTo unicasts the current snapshot to one connection, serialized
// with the room's mutations so it cannot arrive out of order.
func (r *Room) SendStateTo(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.notify != nil {
		r.notify.UnicastRoomState(connID, r.snapshot())
	}
}

func (r *Room) authorizeTurn(actor Actor) error {
	if actor.Role == domain.RoleHost {
		return nil
	}
	if actor.Role == domain.RolePlayer && actor.PlayerID != "" && actor.PlayerID == r.currentPlayerID {
		return nil
	}
	return fmt.Errorf("operation restricted to the host or the current player: %w", domain.ErrUnauthorized)
}

// selectNextPlayer walks playerOrder circularly from the entry after the
// current player, skipping finished and sleeping players. Without a current
// player it bootstraps: first waiting entry, else the first entry.
func (r *Room) selectNextPlayer() (string, bool) {
	n := len(r.playerOrder)
	if n == 0 {
		return "", false
	}

	if r.currentPlayerID == "" {
		for _, id := range r.playerOrder {
			if r.players[id].Status == domain.PlayerWaiting {
				return id, true
			}
		}
		return r.playerOrder[0], true
	}

	start := -1
	for i, id := range r.playerOrder {
		if id == r.currentPlayerID {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	for step := 1; step <= n; step++ {
		id := r.playerOrder[(start+step)%n]
		switch r.players[id].Status {
		case domain.PlayerWaiting, domain.PlayerActive:
			return id, true
		}
	}
	return "", false
}

func (r *Room) installCurrent(playerID string) {
	r.players[playerID].Status = domain.PlayerActive
	r.currentPlayerID = playerID
	r.turnNumber++
}

func (r *Room) finish(reason string) {
	now := time.Now()
	r.status = domain.RoomFinished
	r.finishedAt = &now
	r.currentPlayerID = ""
	r.appendEvent(domain.EventGameFinished, "", "", map[string]any{
		"reason": reason,
	})

	zap.L().Info("room finished",
		zap.String("room_id", r.id),
		zap.String("reason", reason))
}

func (r *Room) appendEvent(evType string, role domain.Role, actorID string, payload map[string]any) {
	r.events = append(r.events, domain.Event{
		ID:        uuid.NewString(),
		Type:      evType,
		Timestamp: time.Now(),
		ActorRole: role,
		ActorID:   actorID,
		Payload:   payload,
	})
	if len(r.events) > domain.EventLogCap {
		r.events = r.events[len(r.events)-domain.EventLogCap:]
	}
}

func (r *Room) snapshot() domain.RoomState {
	players := make([]domain.Player, 0, len(r.playerOrder))
	for _, id := range r.playerOrder {
		players = append(players, *r.players[id])
	}

	screens := make([]string, 0, len(r.screens))
	for id := range r.screens {
		screens = append(screens, id)
	}
	sort.Strings(screens)

	events := make([]domain.Event, len(r.events))
	copy(events, r.events)

	return domain.RoomState{
		ID:               r.id,
		Code:             r.code,
		TemplateID:       r.templateID,
		Status:           r.status,
		CreatedAt:        r.createdAt,
		StartedAt:        r.startedAt,
		FinishedAt:       r.finishedAt,
		HostConnected:    r.hostConnID != "",
		TurnNumber:       r.turnNumber,
		CurrentPlayerID:  r.currentPlayerID,
		LastDiceValue:    r.lastDiceValue,
		LastSelectedCell: r.lastSelectedCell,
		Players:          players,
		Screens:          screens,
		Events:           events,
	}
}

func (r *Room) broadcast() {
	if r.notify == nil {
		return
	}
	r.notify.BroadcastRoomState(r.id, r.snapshot())
}
