package game

import (
	"strconv"
	"strings"
)

// Built-in kinds as they appear in room_tables.game and room_waddles.game.
const (
	KindFindFour       = "four"
	KindMancala        = "mancala"
	KindSled           = "sled"
	KindCardJitsu      = "card"
	KindCardJitsuFire  = "fire"
	KindCardJitsuWater = "water"
	KindCardJitsuSnow  = "snow"
)

const (
	fourColumns = 7
	fourRows    = 6

	mancalaPits   = 6
	mancalaStones = 4
)

// FindFour is a 7x6 connect-four board.  Cells hold 0 (empty), 1 or 2.
type FindFour struct {
	board [fourColumns][fourRows]int
}

// NewFindFour returns an empty board.
func NewFindFour() *FindFour { return &FindFour{} }

func (f *FindFour) Kind() string { return KindFindFour }

// Status lists every cell column by column, comma separated.
func (f *FindFour) Status() string {
	cells := make([]string, 0, fourColumns*fourRows)
	for _, col := range f.board {
		for _, v := range col {
			cells = append(cells, strconv.Itoa(v))
		}
	}
	return strings.Join(cells, ",")
}

func (f *FindFour) Reset() { f.board = [fourColumns][fourRows]int{} }

// Mancala holds 14 pits: six per side followed by that side's store.
type Mancala struct {
	pits [2 * (mancalaPits + 1)]int
}

// NewMancala returns a board with four stones in every pit.
func NewMancala() *Mancala {
	m := &Mancala{}
	m.Reset()
	return m
}

func (m *Mancala) Kind() string { return KindMancala }

func (m *Mancala) Status() string {
	out := make([]string, len(m.pits))
	for i, v := range m.pits {
		out[i] = strconv.Itoa(v)
	}
	return strings.Join(out, ",")
}

func (m *Mancala) Reset() {
	for i := range m.pits {
		if i%(mancalaPits+1) == mancalaPits {
			m.pits[i] = 0 // store
			continue
		}
		m.pits[i] = mancalaStones
	}
}

// lobby backs waddle kinds.  The match itself runs on a separate game
// server once the waddle fills, so there is no state to summarise here.
type lobby struct {
	kind string
}

func (l *lobby) Kind() string   { return l.kind }
func (l *lobby) Status() string { return "" }
func (l *lobby) Reset()         {}
