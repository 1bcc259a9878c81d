package room

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/catalog"
	"github.com/iliyamo/igloo-rooms/internal/game"
	"github.com/iliyamo/igloo-rooms/internal/model"
)

// fakeOccupant records every event delivered to it.
type fakeOccupant struct {
	id   int
	nick string

	mu     sync.Mutex
	events []Event
	broken bool
}

func newOccupant(id int, nick string) *fakeOccupant {
	return &fakeOccupant{id: id, nick: nick}
}

func (f *fakeOccupant) ID() int          { return f.id }
func (f *fakeOccupant) Nickname() string { return f.nick }

func (f *fakeOccupant) Deliver(ev Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return ErrDeliveryFailed
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeOccupant) received() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.events...)
}

func (f *fakeOccupant) withCmd(cmd string) []Event {
	var out []Event
	for _, ev := range f.received() {
		if ev.Cmd == cmd {
			out = append(out, ev)
		}
	}
	return out
}

func (f *fakeOccupant) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}

var testSerializer = SerializerFunc(func(o Occupant) string {
	return fmt.Sprintf("%d|%s", o.ID(), o.Nickname())
})

const (
	roomTown   = 100
	roomCoffee = 110
	roomAttic  = 220
	roomSki    = 230
	roomTiny   = 900

	tableA  = 200
	tableB  = 201
	waddle2 = 103
	waddle4 = 100
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]model.RoomDefinition{
			{ID: roomTown, Name: "Town", MaxUsers: 80, Spawn: true},
			{ID: roomCoffee, Name: "Coffee Shop", MaxUsers: 80, Spawn: true},
			{ID: roomAttic, Name: "Lodge Attic", MaxUsers: 80},
			{ID: roomSki, Name: "Ski Hill", MaxUsers: 80},
			{ID: roomTiny, Name: "Closet", MaxUsers: 2},
		},
		[]model.TableDefinition{
			{ID: tableA, RoomID: roomAttic, Game: game.KindFindFour},
			{ID: tableB, RoomID: roomAttic, Game: game.KindMancala},
		},
		[]model.WaddleDefinition{
			{ID: waddle4, RoomID: roomSki, Seats: 4, Game: game.KindSled},
			{ID: waddle2, RoomID: roomSki, Seats: 2, Game: game.KindSled},
		},
	)
	require.NoError(t, err)
	return c
}

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	reg := NewRegistry(zap.NewNop(), testSerializer, game.Default(), opts...)
	require.NoError(t, reg.Setup(testCatalog(t)))
	return reg
}

func mustRoom(t *testing.T, reg *Registry, id int) *Room {
	t.Helper()
	r, ok := reg.Room(id)
	require.True(t, ok, "room %d", id)
	return r
}

func mustJoin(t *testing.T, r *Room, occupants ...*fakeOccupant) {
	t.Helper()
	for _, o := range occupants {
		require.NoError(t, r.Join(o))
	}
}
