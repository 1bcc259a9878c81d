package room

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// presence records where an occupant currently is.  An occupant with no
// room and no seat has no entry.
type presence struct {
	room *Room
	seat SeatGroup
}

// occupancy is the state shared by every room, table and waddle of one
// registry.  mu is held for the whole of each mutation, including handing
// the resulting events to occupants, so slot decisions of concurrent
// requests never interleave.
type occupancy struct {
	mu         sync.Mutex
	presence   map[int]*presence
	serializer Serializer
	observers  []Observer
	start      StartFunc
	log        *zap.Logger
	now        func() time.Time
}

func newOccupancy(log *zap.Logger, s Serializer) *occupancy {
	return &occupancy{
		presence:   make(map[int]*presence),
		serializer: s,
		log:        log,
		now:        time.Now,
	}
}

func (oc *occupancy) lookup(o Occupant) *presence {
	return oc.presence[o.ID()]
}

func (oc *occupancy) place(o Occupant) *presence {
	p, ok := oc.presence[o.ID()]
	if !ok {
		p = &presence{}
		oc.presence[o.ID()] = p
	}
	return p
}

// tidy drops the entry once the occupant is nowhere.
func (oc *occupancy) tidy(o Occupant) {
	if p, ok := oc.presence[o.ID()]; ok && p.room == nil && p.seat == nil {
		delete(oc.presence, o.ID())
	}
}

type delivery struct {
	to Occupant
	ev Event
}

// outbox collects the effects of one operation.  Deliveries are flushed in
// the order they were recorded; changes and hooks run after unlock.
type outbox struct {
	oc         *occupancy
	deliveries []delivery
	changes    []Change
	after      []func()
}

func (oc *occupancy) begin() *outbox {
	oc.mu.Lock()
	return &outbox{oc: oc}
}

func (oc *occupancy) end(ob *outbox) {
	for _, d := range ob.deliveries {
		if err := d.to.Deliver(d.ev); err != nil {
			oc.log.Warn("event delivery failed",
				zap.Int("occupant_id", d.to.ID()),
				zap.String("cmd", d.ev.Cmd),
				zap.Error(err))
		}
	}
	observers := oc.observers
	oc.mu.Unlock()

	for _, c := range ob.changes {
		for _, obs := range observers {
			obs(c)
		}
	}
	for _, f := range ob.after {
		f()
	}
}

func (ob *outbox) send(o Occupant, ev Event) {
	ob.deliveries = append(ob.deliveries, delivery{to: o, ev: ev})
}

// broadcast addresses ev to the room's occupants as they are right now.
func (ob *outbox) broadcast(r *Room, ev Event) {
	for _, o := range r.occupants {
		ob.send(o, ev)
	}
}

func (ob *outbox) record(c Change) {
	c.At = ob.oc.now()
	ob.changes = append(ob.changes, c)
}
