package game

import (
	"testing"

	"boardgame-service/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(Settings{StartCell: 1, FinalCell: 40}, 6, nil)
}

func TestRegistry_CreateRoom(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry()

	room, err := reg.CreateRoom("template-classic", nil)
	require.NoError(t, err)
	require.Len(t, room.Code(), 6)
	for _, c := range room.Code() {
		assert.Contains(t, joinCodeAlphabet, string(c))
	}
	assert.Equal(t, domain.RoomActive, room.Status())

	byID, ok := reg.FindByID(room.ID())
	require.True(t, ok)
	assert.Same(t, room, byID)

	byCode, ok := reg.FindByCode(room.Code())
	require.True(t, ok)
	assert.Same(t, room, byCode)
}

func TestRegistry_CreateRoom_UniqueCodes(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		room, err := reg.CreateRoom("template-classic", nil)
		require.NoError(t, err)
		_, dup := seen[room.Code()]
		require.False(t, dup, "code %s issued twice", room.Code())
		seen[room.Code()] = struct{}{}
	}
}

func TestRegistry_CreateRoom_FirstJoinerOverride(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry()

	enabled := true
	room, err := reg.CreateRoom("template-classic", &enabled)
	require.NoError(t, err)
	alice, err := room.Join("alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, room.Snapshot().CurrentPlayerID)

	// Without an override the configured default applies.
	room2, err := reg.CreateRoom("template-classic", nil)
	require.NoError(t, err)
	_, err = room2.Join("bob")
	require.NoError(t, err)
	assert.Empty(t, room2.Snapshot().CurrentPlayerID)
}

func TestRegistry_FindByCode_Unknown(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry()
	_, ok := reg.FindByCode("QQQQQQ")
	assert.False(t, ok)
}

func TestRegistry_Remove(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry()
	room, err := reg.CreateRoom("template-classic", nil)
	require.NoError(t, err)

	reg.Remove(room.ID())

	_, ok := reg.FindByID(room.ID())
	assert.False(t, ok)
	_, ok = reg.FindByCode(room.Code())
	assert.False(t, ok)

	// Removing twice is harmless.
	reg.Remove(room.ID())
}

func TestRegistry_DropConnection(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry()
	room, err := reg.CreateRoom("template-classic", nil)
	require.NoError(t, err)

	require.NoError(t, room.AttachHost("conn-host"))
	room.AddScreen("conn-screen")
	alice, err := room.Join("alice")
	require.NoError(t, err)

	reg.DropConnection(room.ID(), "conn-host", domain.RoleHost)
	assert.False(t, room.Snapshot().HostConnected)

	reg.DropConnection(room.ID(), "conn-screen", domain.RoleScreen)
	assert.Empty(t, room.Snapshot().Screens)

	// Player entities survive their connection for later reconnection.
	reg.DropConnection(room.ID(), "conn-player", domain.RolePlayer)
	_, err = room.Reconnect(alice.ID)
	assert.NoError(t, err)
	assert.Len(t, room.Snapshot().Players, 1)

	// Unknown rooms are ignored.
	reg.DropConnection("missing", "conn", domain.RoleHost)
}
