package room

import "time"

// Occupant is a connected player.  The room layer never owns occupants; it
// keeps references and records where each one is in the registry's
// presence table.
type Occupant interface {
	// ID is the stable identity used for rp events and presence lookups.
	ID() int
	Nickname() string
	// Deliver queues ev for the occupant.  It is called with the occupancy
	// lock held and must not wait on the network.
	Deliver(ev Event) error
}

// Serializer renders an occupant the way the protocol expects in ap
// events and roster strings.  Called with the occupancy lock held.
type Serializer interface {
	Serialize(o Occupant) string
}

// SerializerFunc adapts a function to Serializer.
type SerializerFunc func(o Occupant) string

func (f SerializerFunc) Serialize(o Occupant) string { return f(o) }

// ChangeKind names an occupancy transition.
type ChangeKind string

const (
	ChangeJoin   ChangeKind = "join"
	ChangeLeave  ChangeKind = "leave"
	ChangeSeat   ChangeKind = "seat"
	ChangeUnseat ChangeKind = "unseat"
	ChangeReset  ChangeKind = "reset"
)

// Group kinds reported in Change.GroupKind.
const (
	GroupTable  = "table"
	GroupWaddle = "waddle"
)

// Change describes one committed transition.  Observers receive changes
// after the occupancy lock is released, in commit order per operation.
type Change struct {
	Kind       ChangeKind
	OccupantID int    // zero for resets
	RoomID     int
	GroupKind  string // empty for room changes
	GroupID    int
	Seat       int // -1 when not applicable
	At         time.Time
}

// Observer is notified of committed changes after the registry lock is
// released.  Changes from one operation arrive in commit order, but
// concurrent operations may interleave their notifications; a consumer that
// needs a global order should sort by At, which is stamped under the lock.
// Observers may be called from several goroutines at once.
type Observer func(Change)

// StartFunc receives a waddle's full line-up just before the waddle resets.
type StartFunc func(w *Waddle, lineup []Occupant)
