// Package penguin is the connected-player side of occupancy: the entity
// the room layer seats and broadcasts to, and the string form other
// clients see in rosters.
package penguin

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/iliyamo/igloo-rooms/internal/room"
)

// DefaultQueueSize is used when New gets a non-positive size.
const DefaultQueueSize = 64

// Penguin is one connected player.  Deliver never blocks: events go to a
// bounded queue drained by the connection's writer.
type Penguin struct {
	id       int
	nickname string

	Color  int
	Member bool

	mu     sync.Mutex
	queue  chan room.Event
	closed bool
}

// New returns a penguin with an open send queue.
func New(id int, nickname string, queueSize int) *Penguin {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Penguin{
		id:       id,
		nickname: nickname,
		queue:    make(chan room.Event, queueSize),
	}
}

func (p *Penguin) ID() int          { return p.id }
func (p *Penguin) Nickname() string { return p.nickname }

// Deliver queues ev.  A closed connection yields room.ErrDeliveryFailed.  A
// full queue means the client has fallen behind: the event is dropped, the
// queue is closed so the writer ends the session, and ErrDeliveryFailed is
// returned.
func (p *Penguin) Deliver(ev room.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("penguin %d: connection closed: %w", p.id, room.ErrDeliveryFailed)
	}
	select {
	case p.queue <- ev:
		return nil
	default:
		p.closeLocked()
		return fmt.Errorf("penguin %d: send queue full: %w", p.id, room.ErrDeliveryFailed)
	}
}

// Queue is drained by the transport writer.  It is closed by Close or by
// an overflowing Deliver.
func (p *Penguin) Queue() <-chan room.Event { return p.queue }

// Closed reports whether deliveries have stopped.
func (p *Penguin) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Close stops further deliveries.  Safe to call more than once.
func (p *Penguin) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Penguin) closeLocked() {
	if p.closed {
		return
	}
	p.closed = true
	close(p.queue)
}

// StringCompiler renders penguins for rosters and ap events as
// id|nickname|approved|color|member, separated by pipes.
type StringCompiler struct{}

func (StringCompiler) Serialize(o room.Occupant) string {
	color, member := 0, false
	if p, ok := o.(*Penguin); ok {
		color, member = p.Color, p.Member
	}
	return strings.Join([]string{
		strconv.Itoa(o.ID()),
		o.Nickname(),
		"1",
		strconv.Itoa(color),
		boolFlag(member),
	}, "|")
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
