package domain

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"golang.org/x/time/rate"
)

// Role is the capability a connection claims when it binds to a room.
type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
	RoleScreen Role = "screen"
)

// Client is one live websocket connection. RoomID, Role and PlayerID form
// the connection's room binding; the hub owns them and guards every access
// with its lock. A connection binds to at most one room.
type Client struct {
	ID        string
	Conn      *websocket.Conn
	Send      chan []byte
	Done      chan struct{}
	WriteLock sync.Mutex
	Limiter   *rate.Limiter

	RoomID   string
	Role     Role
	PlayerID string
}
