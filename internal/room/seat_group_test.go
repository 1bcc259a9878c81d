package room

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atticTable(t *testing.T, reg *Registry, id int) (*Room, *Table) {
	t.Helper()
	attic := mustRoom(t, reg, roomAttic)
	table, ok := attic.Table(id)
	require.True(t, ok)
	return attic, table
}

func skiWaddle(t *testing.T, reg *Registry, id int) (*Room, *Waddle) {
	t.Helper()
	ski := mustRoom(t, reg, roomSki)
	w, ok := ski.Waddle(id)
	require.True(t, ok)
	return ski, w
}

func TestTable_AssignAndFull(t *testing.T) {
	reg := newTestRegistry(t)
	attic, table := atticTable(t, reg, tableA)
	a, b, c := newOccupant(1, "Alpha"), newOccupant(2, "Bravo"), newOccupant(3, "Charlie")
	mustJoin(t, attic, a, b, c)
	c.clear()

	seat, err := table.Assign(a)
	require.NoError(t, err)
	assert.Equal(t, 0, seat)
	seat, err = table.Assign(b)
	require.NoError(t, err)
	assert.Equal(t, 1, seat)

	_, err = table.Assign(c)
	assert.ErrorIs(t, err, ErrTableFull)
	assert.Nil(t, reg.SeatOf(c))

	jt := b.withCmd(CmdJoinTable)
	require.Len(t, jt, 1)
	assert.Equal(t, []string{"200", "2"}, jt[0].Args)
	ut := c.withCmd(CmdUpdateTable)
	require.Len(t, ut, 2)
	assert.Equal(t, []string{"200", "1"}, ut[0].Args)
	assert.Equal(t, []string{"200", "2"}, ut[1].Args)
	assert.Same(t, table, reg.SeatOf(a))
}

func TestTable_AssignRequiresRoom(t *testing.T) {
	reg := newTestRegistry(t)
	_, table := atticTable(t, reg, tableA)
	p := newOccupant(1, "A")
	mustJoin(t, mustRoom(t, reg, roomTown), p)

	_, err := table.Assign(p)

	assert.ErrorIs(t, err, ErrNotInRoom)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestSeat_AtMostOneGroup(t *testing.T) {
	reg := newTestRegistry(t)
	attic, table := atticTable(t, reg, tableA)
	other, _ := attic.Table(tableB)
	p := newOccupant(1, "A")
	mustJoin(t, attic, p)
	_, err := table.Assign(p)
	require.NoError(t, err)

	_, err = table.Assign(p)
	assert.ErrorIs(t, err, ErrAlreadySeated)
	_, err = other.Assign(p)
	assert.ErrorIs(t, err, ErrAlreadySeated)

	assert.Equal(t, 1, table.Count())
	assert.Equal(t, 0, other.Count())
}

func TestTable_ReleaseNotHeld(t *testing.T) {
	reg := newTestRegistry(t)
	attic, table := atticTable(t, reg, tableA)
	p := newOccupant(1, "A")
	mustJoin(t, attic, p)

	err := table.Release(p)

	assert.ErrorIs(t, err, ErrNotSeated)
	assert.ErrorIs(t, err, ErrPrecondition)
	_, err = table.SeatIndex(p)
	assert.ErrorIs(t, err, ErrNotSeated)
}

func TestTable_Release(t *testing.T) {
	reg := newTestRegistry(t)
	attic, table := atticTable(t, reg, tableA)
	a, b := newOccupant(1, "Alpha"), newOccupant(2, "Bravo")
	mustJoin(t, attic, a, b)
	_, err := table.Assign(a)
	require.NoError(t, err)
	_, err = table.Assign(b)
	require.NoError(t, err)
	a.clear()

	require.NoError(t, table.Release(a))

	assert.Len(t, a.withCmd(CmdLeaveTable), 1)
	ut := a.withCmd(CmdUpdateTable)
	require.Len(t, ut, 1)
	assert.Equal(t, []string{"200", "1"}, ut[0].Args)
	assert.Nil(t, reg.SeatOf(a))
	idx, err := table.SeatIndex(b)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	// the freed lowest seat is reused
	c := newOccupant(3, "Charlie")
	mustJoin(t, attic, c)
	seat, err := table.Assign(c)
	require.NoError(t, err)
	assert.Equal(t, 0, seat)
}

func TestTable_Status(t *testing.T) {
	reg := newTestRegistry(t)
	attic, table := atticTable(t, reg, tableB)
	a, b := newOccupant(1, "Alpha"), newOccupant(2, "Bravo")
	mustJoin(t, attic, a, b)
	board := "4,4,4,4,4,4,0,4,4,4,4,4,4,0"

	assert.Equal(t, "", table.Status())

	_, err := table.Assign(a)
	require.NoError(t, err)
	assert.Equal(t, "Alpha%%"+board, table.Status())

	_, err = table.Assign(b)
	require.NoError(t, err)
	assert.Equal(t, "Alpha%Bravo%"+board, table.Status())
}

func TestTable_Reset(t *testing.T) {
	reg := newTestRegistry(t)
	attic, table := atticTable(t, reg, tableA)
	a, b, w := newOccupant(1, "A"), newOccupant(2, "B"), newOccupant(3, "W")
	mustJoin(t, attic, a, b, w)
	_, err := table.Assign(a)
	require.NoError(t, err)
	_, err = table.Assign(b)
	require.NoError(t, err)
	w.clear()

	table.Reset()

	assert.Equal(t, 0, table.Count())
	assert.Nil(t, reg.SeatOf(a))
	assert.Nil(t, reg.SeatOf(b))
	ut := w.withCmd(CmdUpdateTable)
	require.Len(t, ut, 1)
	assert.Equal(t, []string{"200", "0"}, ut[0].Args)
	assert.Same(t, attic, reg.RoomOf(a), "reset keeps room membership")
}

func TestTable_ConcurrentAssign(t *testing.T) {
	reg := newTestRegistry(t)
	attic, table := atticTable(t, reg, tableA)
	occupants := make([]*fakeOccupant, 30)
	for i := range occupants {
		occupants[i] = newOccupant(i+1, fmt.Sprintf("P%d", i+1))
	}
	mustJoin(t, attic, occupants...)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		seats = map[int]int{}
		full  int
	)
	for _, o := range occupants {
		wg.Add(1)
		go func(o *fakeOccupant) {
			defer wg.Done()
			seat, err := table.Assign(o)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ErrTableFull)
				full++
				return
			}
			seats[seat]++
		}(o)
	}
	wg.Wait()

	assert.Equal(t, map[int]int{0: 1, 1: 1}, seats)
	assert.Equal(t, len(occupants)-2, full)
	assert.Len(t, table.Seated(), 2)
}

func TestWaddle_FillTriggersReset(t *testing.T) {
	reg := newTestRegistry(t)
	ski, w := skiWaddle(t, reg, waddle2)
	p1, p2 := newOccupant(1, "P1"), newOccupant(2, "P2")
	mustJoin(t, ski, p1, p2)
	p1.clear()
	p2.clear()

	seat, err := w.Assign(p1)
	require.NoError(t, err)
	assert.Equal(t, 0, seat)
	assert.Same(t, w, reg.SeatOf(p1))

	seat, err = w.Assign(p2)
	require.NoError(t, err)
	assert.Equal(t, 1, seat)

	assert.Nil(t, reg.SeatOf(p1))
	assert.Nil(t, reg.SeatOf(p2))
	assert.Empty(t, w.Seated())

	jw := p2.withCmd(CmdJoinWaddle)
	require.Len(t, jw, 1)
	assert.Equal(t, []string{"1"}, jw[0].Args)

	var clears, seated [][]string
	for _, ev := range p1.withCmd(CmdUpdateWaddle) {
		if len(ev.Args) == 2 {
			clears = append(clears, ev.Args)
		} else {
			seated = append(seated, ev.Args)
		}
	}
	assert.Equal(t, [][]string{{"103", "0", "P1"}, {"103", "1", "P2"}}, seated)
	assert.Equal(t, [][]string{{"103", "0"}, {"103", "1"}}, clears)
}

func TestWaddle_StartHookGetsLineup(t *testing.T) {
	var (
		started *Waddle
		lineup  []Occupant
	)
	reg := newTestRegistry(t, WithWaddleStart(func(w *Waddle, l []Occupant) {
		started, lineup = w, l
	}))
	ski, w := skiWaddle(t, reg, waddle2)
	p1, p2 := newOccupant(1, "P1"), newOccupant(2, "P2")
	mustJoin(t, ski, p1, p2)

	_, err := w.Assign(p1)
	require.NoError(t, err)
	assert.Nil(t, started)
	_, err = w.Assign(p2)
	require.NoError(t, err)

	assert.Same(t, w, started)
	require.Len(t, lineup, 2)
	assert.Equal(t, 1, lineup[0].ID())
	assert.Equal(t, 2, lineup[1].ID())
}

func TestWaddle_LazySlotsAndLineup(t *testing.T) {
	reg := newTestRegistry(t)
	ski, w := skiWaddle(t, reg, waddle4)
	assert.Nil(t, w.slots)
	assert.Equal(t, []string{"", "", "", ""}, w.Lineup())

	p := newOccupant(1, "P1")
	mustJoin(t, ski, p)
	_, err := w.Assign(p)
	require.NoError(t, err)

	assert.Len(t, w.slots, 4)
	assert.Equal(t, []string{"P1", "", "", ""}, w.Lineup())
}

func TestWaddle_Release(t *testing.T) {
	reg := newTestRegistry(t)
	ski, w := skiWaddle(t, reg, waddle4)
	p1, p2 := newOccupant(1, "P1"), newOccupant(2, "P2")
	mustJoin(t, ski, p1, p2)
	_, err := w.Assign(p1)
	require.NoError(t, err)
	_, err = w.Assign(p2)
	require.NoError(t, err)
	p2.clear()

	require.NoError(t, w.Release(p1))

	assert.Len(t, p1.withCmd(CmdLeaveWaddle), 1)
	uw := p2.withCmd(CmdUpdateWaddle)
	require.Len(t, uw, 1)
	assert.Equal(t, []string{"100", "0"}, uw[0].Args)
	assert.ErrorIs(t, w.Release(p1), ErrNotSeated)
	idx, err := w.SeatIndex(p2)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestWaddle_ResetAddressesOccupantRoom(t *testing.T) {
	reg := newTestRegistry(t)
	ski, w := skiWaddle(t, reg, waddle4)
	town := mustRoom(t, reg, roomTown)
	p, skiWatcher, townWatcher := newOccupant(1, "P1"), newOccupant(2, "S"), newOccupant(3, "T")
	mustJoin(t, ski, p, skiWatcher)
	mustJoin(t, town, townWatcher)
	_, err := w.Assign(p)
	require.NoError(t, err)

	// p's room reference points elsewhere while it still holds the seat
	reg.oc.mu.Lock()
	reg.oc.presence[p.ID()].room = town
	reg.oc.mu.Unlock()
	skiWatcher.clear()
	townWatcher.clear()

	w.Reset()

	assert.Empty(t, skiWatcher.withCmd(CmdUpdateWaddle))
	uw := townWatcher.withCmd(CmdUpdateWaddle)
	require.Len(t, uw, 1)
	assert.Equal(t, []string{"100", "0"}, uw[0].Args)
}

func TestWaddle_AssignRequiresRoom(t *testing.T) {
	reg := newTestRegistry(t)
	_, w := skiWaddle(t, reg, waddle4)

	_, err := w.Assign(newOccupant(1, "P1"))

	assert.ErrorIs(t, err, ErrNotInRoom)
}

func TestWaddle_ConcurrentAssignNeverDoubleSeats(t *testing.T) {
	var (
		mu      sync.Mutex
		lineups [][]Occupant
	)
	reg := newTestRegistry(t, WithWaddleStart(func(_ *Waddle, l []Occupant) {
		mu.Lock()
		lineups = append(lineups, l)
		mu.Unlock()
	}))
	ski, w := skiWaddle(t, reg, waddle4)
	occupants := make([]*fakeOccupant, 40)
	for i := range occupants {
		occupants[i] = newOccupant(i+1, fmt.Sprintf("P%d", i+1))
	}
	mustJoin(t, ski, occupants...)

	var wg sync.WaitGroup
	for _, o := range occupants {
		wg.Add(1)
		go func(o *fakeOccupant) {
			defer wg.Done()
			_, err := w.Assign(o)
			assert.NoError(t, err)
		}(o)
	}
	wg.Wait()

	require.Len(t, lineups, 10)
	seen := map[int]bool{}
	for _, l := range lineups {
		require.Len(t, l, 4)
		for _, o := range l {
			assert.False(t, seen[o.ID()], "occupant %d seated twice", o.ID())
			seen[o.ID()] = true
		}
	}
	assert.Empty(t, w.Seated())
}
