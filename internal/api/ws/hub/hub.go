package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"boardgame-service/domain"

	"github.com/fasthttp/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Dispatcher consumes one inbound frame from a connection.
type Dispatcher interface {
	Dispatch(client *domain.Client, raw []byte)
}

// RoomCleaner reconciles room bookkeeping when a bound connection drops.
type RoomCleaner interface {
	DropConnection(roomID, connID string, role domain.Role)
}

// Hub tracks every live connection and fans room snapshots out to the
// connections bound to each room. It owns the read and write pumps and is
// the only place that touches a client's Send channel or room binding.
type Hub struct {
	mutex       sync.RWMutex
	clients     map[string]*domain.Client
	roomClients map[string]map[string]*domain.Client

	register   chan *domain.Client
	unregister chan *domain.Client

	rooms      RoomCleaner
	dispatcher Dispatcher
}

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[string]*domain.Client),
		roomClients: make(map[string]map[string]*domain.Client),
		register:    make(chan *domain.Client),
		unregister:  make(chan *domain.Client),
	}
}

// Wire attaches the room cleaner and the message dispatcher. It must be
// called before Run.
func (h *Hub) Wire(rooms RoomCleaner, dispatcher Dispatcher) {
	h.rooms = rooms
	h.dispatcher = dispatcher
}

// Run consumes the register and unregister channels until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
			go h.readPump(client)
			go h.writePump(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case <-ctx.Done():
			return
		}
	}
}

// RegisterClient hands a new connection to the hub loop.
func (h *Hub) RegisterClient(client *domain.Client) {
	h.register <- client
}

func (h *Hub) registerClient(client *domain.Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client.ID] = client

	zap.L().Info("client connected", zap.String("conn_id", client.ID))
}

// unregisterClient removes the connection from both maps and closes its
// channels, then lets the registry reconcile the room it was bound to.
// Safe to run more than once for the same client.
func (h *Hub) unregisterClient(client *domain.Client) {
	h.mutex.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mutex.Unlock()
		return
	}
	delete(h.clients, client.ID)

	roomID, role := client.RoomID, client.Role
	if roomID != "" {
		if clients, ok := h.roomClients[roomID]; ok {
			delete(clients, client.ID)
			if len(clients) == 0 {
				delete(h.roomClients, roomID)
			}
		}
	}
	close(client.Send)
	close(client.Done)
	h.mutex.Unlock()

	zap.L().Info("client disconnected",
		zap.String("conn_id", client.ID),
		zap.String("room_id", roomID))

	// Room cleanup happens outside the hub lock: it takes the room lock,
	// and rooms broadcast back into the hub while holding theirs.
	if roomID != "" && h.rooms != nil {
		h.rooms.DropConnection(roomID, client.ID, role)
	}
}

// BindRoom records the connection's room membership and role. A join that
// has not created its player yet binds with an empty playerID and fills it
// in through SetPlayerID.
func (h *Hub) BindRoom(client *domain.Client, roomID string, role domain.Role, playerID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	client.RoomID = roomID
	client.Role = role
	client.PlayerID = playerID

	clients, ok := h.roomClients[roomID]
	if !ok {
		clients = make(map[string]*domain.Client)
		h.roomClients[roomID] = clients
	}
	clients[client.ID] = client
}

// SetPlayerID completes a player binding once the player entity exists.
func (h *Hub) SetPlayerID(client *domain.Client, playerID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	client.PlayerID = playerID
}

// ClearBinding detaches the connection from its room again, used when a
// join fails after the provisional binding was installed.
func (h *Hub) ClearBinding(client *domain.Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if clients, ok := h.roomClients[client.RoomID]; ok {
		delete(clients, client.ID)
		if len(clients) == 0 {
			delete(h.roomClients, client.RoomID)
		}
	}
	client.RoomID = ""
	client.Role = ""
	client.PlayerID = ""
}

// Binding returns the connection's current room binding.
func (h *Hub) Binding(client *domain.Client) (roomID string, role domain.Role, playerID string) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return client.RoomID, client.Role, client.PlayerID
}

// RoomClientCount reports how many connections are bound to the room.
func (h *Hub) RoomClientCount(roomID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.roomClients[roomID])
}

// BroadcastRoomState marshals the snapshot once and enqueues the identical
// frame to every connection bound to the room, whatever its role.
func (h *Hub) BroadcastRoomState(roomID string, state domain.RoomState) {
	message, err := json.Marshal(domain.ServerMessage{Type: domain.MsgRoomState, Payload: state})
	if err != nil {
		zap.L().Error("Failed to marshal room state",
			zap.String("room_id", roomID), zap.Error(err))
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, client := range h.roomClients[roomID] {
		h.enqueue(client, message)
	}
}

// UnicastRoomState sends the snapshot to a single connection.
func (h *Hub) UnicastRoomState(connID string, state domain.RoomState) {
	message, err := json.Marshal(domain.ServerMessage{Type: domain.MsgRoomState, Payload: state})
	if err != nil {
		zap.L().Error("Failed to marshal room state", zap.Error(err))
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if client, ok := h.clients[connID]; ok {
		h.enqueue(client, message)
	}
}

// SendMessage marshals and unicasts one envelope to the client.
func (h *Hub) SendMessage(client *domain.Client, msgType string, payload any) {
	message, err := json.Marshal(domain.ServerMessage{Type: msgType, Payload: payload})
	if err != nil {
		zap.L().Error("Failed to marshal message",
			zap.String("type", msgType), zap.Error(err))
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if _, ok := h.clients[client.ID]; ok {
		h.enqueue(client, message)
	}
}

// SendError unicasts an error envelope; errors are never broadcast.
func (h *Hub) SendError(client *domain.Client, message string) {
	h.SendMessage(client, domain.MsgError, domain.ErrorPayload{Message: message})
}

// enqueue runs under the hub lock so it cannot race the channel close in
// unregisterClient. A full buffer drops the frame rather than blocking a
// room operation.
func (h *Hub) enqueue(client *domain.Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		zap.L().Warn("client send buffer full, dropping message",
			zap.String("conn_id", client.ID))
	}
}

// readPump reads frames from one connection and feeds them through the
// rate limiter into the dispatcher. Exiting unregisters the client.
func (h *Hub) readPump(client *domain.Client) {
	defer func() {
		h.unregister <- client
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Warn("client read error",
					zap.String("conn_id", client.ID), zap.Error(err))
			}
			break
		}

		if client.Limiter != nil && !client.Limiter.Allow() {
			h.SendError(client, "message rate limit exceeded")
			continue
		}

		h.dispatcher.Dispatch(client, payload)
	}
}

// writePump drains the send buffer onto the wire and keeps the connection
// alive with pings.
func (h *Hub) writePump(client *domain.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			client.WriteLock.Lock()
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := client.Conn.WriteMessage(websocket.TextMessage, msg)
			client.WriteLock.Unlock()
			if err != nil {
				zap.L().Warn("websocket write error",
					zap.String("conn_id", client.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			client.WriteLock.Lock()
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := client.Conn.WriteMessage(websocket.PingMessage, nil)
			client.WriteLock.Unlock()
			if err != nil {
				return
			}

		case <-client.Done:
			return
		}
	}
}
