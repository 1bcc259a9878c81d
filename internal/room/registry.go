// Package room tracks who is in which room and who holds which seat at the
// tables and waddles inside rooms.
//
// All rooms built by one Registry share a single occupancy lock.  Every
// mutation (join, leave, assign, release, reset) runs under it from the
// first check to the moment the resulting events are queued on the
// occupants' transports, so seat selection and the seat write can never
// interleave with another request.  Observers and the waddle start hook run
// after the lock is released.
package room

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/catalog"
	"github.com/iliyamo/igloo-rooms/internal/game"
)

// Registry maps room ids to live rooms.  It is built once at startup with
// Load, AttachTables and AttachWaddles and never rebuilt.
type Registry struct {
	oc     *occupancy
	games  *game.Registry
	rooms  map[int]*Room
	order  []*Room
	loaded bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver registers an observer for committed changes.
func WithObserver(obs Observer) Option {
	return func(r *Registry) { r.oc.observers = append(r.oc.observers, obs) }
}

// WithWaddleStart sets the hook that receives a waddle's line-up when it
// fills.
func WithWaddleStart(f StartFunc) Option {
	return func(r *Registry) { r.oc.start = f }
}

// NewRegistry returns an empty registry.  s renders occupants for roster
// strings; games resolves table and waddle game kinds.
func NewRegistry(log *zap.Logger, s Serializer, games *game.Registry, opts ...Option) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		oc:    newOccupancy(log, s),
		games: games,
		rooms: make(map[int]*Room),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe adds an observer after construction.
func (r *Registry) Observe(obs Observer) {
	r.oc.mu.Lock()
	defer r.oc.mu.Unlock()
	r.oc.observers = append(r.oc.observers, obs)
}

// Load creates one room per room definition.
func (r *Registry) Load(c *catalog.Catalog) error {
	if r.loaded {
		return ErrAlreadyLoaded
	}
	for _, def := range c.Rooms() {
		rm := newRoom(def, r.oc)
		r.rooms[def.ID] = rm
		r.order = append(r.order, rm)
	}
	r.loaded = true
	r.oc.log.Info("rooms loaded", zap.Int("rooms", len(r.order)))
	return nil
}

// AttachTables places every table definition in its room.  Load must have
// run.
func (r *Registry) AttachTables(c *catalog.Catalog) error {
	if !r.loaded {
		return ErrNotLoaded
	}
	for _, def := range c.Tables() {
		rm, ok := r.rooms[def.RoomID]
		if !ok {
			return fmt.Errorf("table %d: room %d: %w", def.ID, def.RoomID, ErrUnknownRoom)
		}
		g, err := r.games.New(def.Game)
		if err != nil {
			return fmt.Errorf("table %d: %w", def.ID, err)
		}
		rm.tables[def.ID] = newTable(def.ID, rm, g)
	}
	r.oc.log.Info("tables attached", zap.Int("tables", len(c.Tables())))
	return nil
}

// AttachWaddles places every waddle definition in its room.  Load must
// have run.
func (r *Registry) AttachWaddles(c *catalog.Catalog) error {
	if !r.loaded {
		return ErrNotLoaded
	}
	for _, def := range c.Waddles() {
		rm, ok := r.rooms[def.RoomID]
		if !ok {
			return fmt.Errorf("waddle %d: room %d: %w", def.ID, def.RoomID, ErrUnknownRoom)
		}
		g, err := r.games.New(def.Game)
		if err != nil {
			return fmt.Errorf("waddle %d: %w", def.ID, err)
		}
		rm.waddles[def.ID] = newWaddle(def.ID, def.Seats, rm, g)
	}
	r.oc.log.Info("waddles attached", zap.Int("waddles", len(c.Waddles())))
	return nil
}

// Setup runs Load, AttachTables and AttachWaddles in order.
func (r *Registry) Setup(c *catalog.Catalog) error {
	if err := r.Load(c); err != nil {
		return err
	}
	if err := r.AttachTables(c); err != nil {
		return err
	}
	return r.AttachWaddles(c)
}

// Room returns the room with the given id.
func (r *Registry) Room(id int) (*Room, bool) {
	rm, ok := r.rooms[id]
	return rm, ok
}

// Rooms lists every room in load order.
func (r *Registry) Rooms() []*Room {
	return append([]*Room(nil), r.order...)
}

// SpawnRooms lists the rooms players may be placed in on login, in load
// order.
func (r *Registry) SpawnRooms() []*Room {
	var out []*Room
	for _, rm := range r.order {
		if rm.def.Spawn {
			out = append(out, rm)
		}
	}
	return out
}

// RoomOf returns the room o is in, or nil.
func (r *Registry) RoomOf(o Occupant) *Room {
	r.oc.mu.Lock()
	defer r.oc.mu.Unlock()
	if p := r.oc.lookup(o); p != nil {
		return p.room
	}
	return nil
}

// SeatOf returns the table or waddle o is seated at, or nil.
func (r *Registry) SeatOf(o Occupant) SeatGroup {
	r.oc.mu.Lock()
	defer r.oc.mu.Unlock()
	if p := r.oc.lookup(o); p != nil {
		return p.seat
	}
	return nil
}

// Disconnect removes o from whatever seat and room it holds.  It is safe
// to call for an occupant that is nowhere.
func (r *Registry) Disconnect(o Occupant) {
	ob := r.oc.begin()
	defer r.oc.end(ob)

	p := r.oc.lookup(o)
	if p == nil {
		return
	}
	if p.seat != nil {
		if err := p.seat.release(ob, o); err != nil {
			r.oc.log.Error("release on disconnect", zap.Int("occupant_id", o.ID()), zap.Error(err))
		}
	}
	if p.room != nil {
		if err := p.room.leave(ob, o); err != nil {
			r.oc.log.Error("leave on disconnect", zap.Int("occupant_id", o.ID()), zap.Error(err))
		}
	}
	delete(r.oc.presence, o.ID())
}

// Snapshot is a point-in-time population count.
type Snapshot struct {
	Total int
	Rooms map[int]int // room id -> occupants
}

// Snapshot counts occupants per room.
func (r *Registry) Snapshot() Snapshot {
	r.oc.mu.Lock()
	defer r.oc.mu.Unlock()
	s := Snapshot{Rooms: make(map[int]int, len(r.order))}
	for _, rm := range r.order {
		n := len(rm.occupants)
		s.Rooms[rm.def.ID] = n
		s.Total += n
	}
	return s
}
