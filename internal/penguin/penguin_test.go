package penguin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/igloo-rooms/internal/room"
)

func TestDeliver_Queues(t *testing.T) {
	p := New(101, "Rockhopper", 2)

	require.NoError(t, p.Deliver(room.NewEvent(room.CmdJoinTable, 200, 1)))

	ev := <-p.Queue()
	assert.Equal(t, room.CmdJoinTable, ev.Cmd)
}

func TestDeliver_QueueFull(t *testing.T) {
	p := New(101, "Rockhopper", 1)
	require.NoError(t, p.Deliver(room.NewEvent("a")))

	err := p.Deliver(room.NewEvent("b"))

	assert.ErrorIs(t, err, room.ErrDeliveryFailed)
	assert.True(t, p.Closed())
	assert.ErrorIs(t, p.Deliver(room.NewEvent("c")), room.ErrDeliveryFailed)

	var cmds []string
	for ev := range p.Queue() {
		cmds = append(cmds, ev.Cmd)
	}
	assert.Equal(t, []string{"a"}, cmds, "queued events drain before the queue ends")
	p.Close()
}

func TestDeliver_AfterClose(t *testing.T) {
	p := New(101, "Rockhopper", 0)
	p.Close()
	p.Close()

	err := p.Deliver(room.NewEvent("a"))

	assert.ErrorIs(t, err, room.ErrDeliveryFailed)
	_, open := <-p.Queue()
	assert.False(t, open)
}

func TestStringCompiler(t *testing.T) {
	p := New(101, "Rockhopper", 0)
	p.Color = 4
	p.Member = true

	assert.Equal(t, "101|Rockhopper|1|4|1", StringCompiler{}.Serialize(p))
}
