package room

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/model"
)

// Room is a live room: its occupants in join order plus the tables and
// waddles placed in it.  Topology is fixed after the registry attaches
// tables and waddles; only occupancy changes.
type Room struct {
	def       model.RoomDefinition
	oc        *occupancy
	occupants []Occupant
	tables    map[int]*Table
	waddles   map[int]*Waddle
}

func newRoom(def model.RoomDefinition, oc *occupancy) *Room {
	return &Room{
		def:     def,
		oc:      oc,
		tables:  make(map[int]*Table),
		waddles: make(map[int]*Waddle),
	}
}

func (r *Room) ID() int                          { return r.def.ID }
func (r *Room) Definition() model.RoomDefinition { return r.def }

// Join moves o into the room.  If o is in another room it leaves that room
// first.  o then receives jr with the roster, and every occupant, o
// included, receives ap.  Joining the room o is already in does nothing.
func (r *Room) Join(o Occupant) error {
	ob := r.oc.begin()
	defer r.oc.end(ob)
	return r.join(ob, o)
}

func (r *Room) join(ob *outbox, o Occupant) error {
	p := r.oc.lookup(o)
	if p != nil && p.room == r {
		return nil
	}
	if r.def.MaxUsers > 0 && len(r.occupants) >= r.def.MaxUsers {
		return fmt.Errorf("join room %d: %w", r.def.ID, ErrRoomFull)
	}
	if p != nil && p.room != nil {
		if err := p.room.leave(ob, o); err != nil {
			return err
		}
	}

	r.occupants = append(r.occupants, o)
	r.oc.place(o).room = r

	ob.send(o, NewEvent(CmdJoinRoom, r.def.ID, r.rosterSummary()))
	ob.broadcast(r, NewEvent(CmdAddPlayer, r.oc.serializer.Serialize(o)))
	ob.record(Change{Kind: ChangeJoin, OccupantID: o.ID(), RoomID: r.def.ID, Seat: -1})

	r.oc.log.Debug("occupant joined room",
		zap.Int("occupant_id", o.ID()),
		zap.Int("room_id", r.def.ID),
		zap.Int("population", len(r.occupants)))
	return nil
}

// Leave removes o from the room, releasing any seat o holds first.  The
// remaining occupants receive rp with o's id.  Leaving a room o is not in
// returns ErrNotInRoom.
func (r *Room) Leave(o Occupant) error {
	ob := r.oc.begin()
	defer r.oc.end(ob)
	return r.leave(ob, o)
}

func (r *Room) leave(ob *outbox, o Occupant) error {
	i := r.indexOf(o)
	if i < 0 {
		return fmt.Errorf("leave room %d: occupant %d: %w", r.def.ID, o.ID(), ErrNotInRoom)
	}
	if p := r.oc.lookup(o); p != nil && p.seat != nil {
		if err := p.seat.release(ob, o); err != nil {
			return err
		}
	}

	r.occupants = append(r.occupants[:i], r.occupants[i+1:]...)
	if p := r.oc.lookup(o); p != nil {
		p.room = nil
	}
	r.oc.tidy(o)

	ob.broadcast(r, NewEvent(CmdRemovePlayer, o.ID()))
	ob.record(Change{Kind: ChangeLeave, OccupantID: o.ID(), RoomID: r.def.ID, Seat: -1})

	r.oc.log.Debug("occupant left room",
		zap.Int("occupant_id", o.ID()),
		zap.Int("room_id", r.def.ID),
		zap.Int("population", len(r.occupants)))
	return nil
}

// RosterSummary serializes every occupant in join order, joined by %.
func (r *Room) RosterSummary() string {
	r.oc.mu.Lock()
	defer r.oc.mu.Unlock()
	return r.rosterSummary()
}

func (r *Room) rosterSummary() string {
	parts := make([]string, len(r.occupants))
	for i, o := range r.occupants {
		parts[i] = r.oc.serializer.Serialize(o)
	}
	return strings.Join(parts, Separator)
}

// Broadcast delivers ev to every occupant in join order.  A failed
// delivery is logged and the rest still receive it.
func (r *Room) Broadcast(ev Event) {
	ob := r.oc.begin()
	defer r.oc.end(ob)
	ob.broadcast(r, ev)
}

// Occupants returns a snapshot of the roster in join order.
func (r *Room) Occupants() []Occupant {
	r.oc.mu.Lock()
	defer r.oc.mu.Unlock()
	return append([]Occupant(nil), r.occupants...)
}

// Population is the current number of occupants.
func (r *Room) Population() int {
	r.oc.mu.Lock()
	defer r.oc.mu.Unlock()
	return len(r.occupants)
}

// Contains reports whether o is in the room.
func (r *Room) Contains(o Occupant) bool {
	r.oc.mu.Lock()
	defer r.oc.mu.Unlock()
	return r.indexOf(o) >= 0
}

// Table returns the table with the given id.
func (r *Room) Table(id int) (*Table, bool) {
	t, ok := r.tables[id]
	return t, ok
}

// Waddle returns the waddle with the given id.
func (r *Room) Waddle(id int) (*Waddle, bool) {
	w, ok := r.waddles[id]
	return w, ok
}

// Tables lists the room's tables ordered by id.
func (r *Room) Tables() []*Table {
	out := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Waddles lists the room's waddles ordered by id.
func (r *Room) Waddles() []*Waddle {
	out := make([]*Waddle, 0, len(r.waddles))
	for _, w := range r.waddles {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (r *Room) indexOf(o Occupant) int {
	for i, x := range r.occupants {
		if x.ID() == o.ID() {
			return i
		}
	}
	return -1
}
