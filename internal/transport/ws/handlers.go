package ws

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/penguin"
	"github.com/iliyamo/igloo-rooms/internal/room"
)

// Outbound commands owned by the transport.
const (
	CmdError      = "e"
	CmdTableList  = "gt"
	CmdWaddleList = "gw"
)

// Error codes sent in an e packet.
const (
	ErrCodeRoomFull   = 210
	ErrCodeSeatTaken  = 211
	ErrCodeNotFound   = 213
	ErrCodeBadRequest = 400
)

type handlerFunc func(s *Server, p *penguin.Penguin, args []string) error

var defaultHandlers = map[string]handlerFunc{
	"j#jr": (*Server).joinRoom,
	"a#jt": (*Server).joinTable,
	"a#lt": (*Server).leaveTable,
	"a#gt": (*Server).tableList,
	"w#jw": (*Server).joinWaddle,
	"w#lw": (*Server).leaveWaddle,
	"w#gw": (*Server).waddleList,
}

var (
	errNoSuchRoom  = errors.New("no such room")
	errNoSuchGroup = errors.New("no such seat group")
	errBadArgs     = errors.New("bad arguments")
)

func (s *Server) dispatch(p *penguin.Penguin, pkt Packet, log *zap.Logger) {
	h, ok := s.handlers[pkt.Handler]
	if !ok {
		log.Debug("unhandled packet", zap.String("handler", pkt.Handler))
		return
	}
	err := h(s, p, pkt.Args)
	if err == nil {
		return
	}
	code := errorCode(err)
	log.Debug("packet rejected", zap.String("handler", pkt.Handler), zap.Int("code", code), zap.Error(err))
	if code != 0 {
		_ = p.Deliver(room.NewEvent(CmdError, code))
	}
}

// errorCode maps a handler error to the code the client is told.  Zero
// means the client is not told anything.
func errorCode(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomFull):
		return ErrCodeRoomFull
	case errors.Is(err, room.ErrTableFull):
		return ErrCodeSeatTaken
	case errors.Is(err, errNoSuchRoom), errors.Is(err, errNoSuchGroup):
		return ErrCodeNotFound
	case errors.Is(err, errBadArgs):
		return ErrCodeBadRequest
	}
	// precondition failures mean stale client state
	return 0
}

func intArg(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%w: missing argument %d", errBadArgs, i)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadArgs, args[i])
	}
	return n, nil
}

func (s *Server) currentRoom(p *penguin.Penguin) (*room.Room, error) {
	r := s.rooms.RoomOf(p)
	if r == nil {
		return nil, room.ErrNotInRoom
	}
	return r, nil
}

func (s *Server) joinRoom(p *penguin.Penguin, args []string) error {
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	r, ok := s.rooms.Room(id)
	if !ok {
		return fmt.Errorf("%w: %d", errNoSuchRoom, id)
	}
	return r.Join(p)
}

func (s *Server) joinTable(p *penguin.Penguin, args []string) error {
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	r, err := s.currentRoom(p)
	if err != nil {
		return err
	}
	t, ok := r.Table(id)
	if !ok {
		return fmt.Errorf("%w: table %d", errNoSuchGroup, id)
	}
	_, err = t.Assign(p)
	return err
}

func (s *Server) leaveTable(p *penguin.Penguin, _ []string) error {
	t, ok := s.rooms.SeatOf(p).(*room.Table)
	if !ok {
		return room.ErrNotSeated
	}
	return t.Release(p)
}

func (s *Server) tableList(p *penguin.Penguin, args []string) error {
	r, err := s.currentRoom(p)
	if err != nil {
		return err
	}
	out := make([]any, 0, len(args))
	for i := range args {
		id, err := intArg(args, i)
		if err != nil {
			return err
		}
		if t, ok := r.Table(id); ok {
			out = append(out, fmt.Sprintf("%d|%d", id, t.Count()))
		}
	}
	return p.Deliver(room.NewEvent(CmdTableList, out...))
}

func (s *Server) joinWaddle(p *penguin.Penguin, args []string) error {
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	r, err := s.currentRoom(p)
	if err != nil {
		return err
	}
	w, ok := r.Waddle(id)
	if !ok {
		return fmt.Errorf("%w: waddle %d", errNoSuchGroup, id)
	}
	_, err = w.Assign(p)
	return err
}

func (s *Server) leaveWaddle(p *penguin.Penguin, _ []string) error {
	w, ok := s.rooms.SeatOf(p).(*room.Waddle)
	if !ok {
		return room.ErrNotSeated
	}
	return w.Release(p)
}

func (s *Server) waddleList(p *penguin.Penguin, args []string) error {
	r, err := s.currentRoom(p)
	if err != nil {
		return err
	}
	out := make([]any, 0, len(args))
	for i := range args {
		id, err := intArg(args, i)
		if err != nil {
			return err
		}
		if w, ok := r.Waddle(id); ok {
			out = append(out, fmt.Sprintf("%d|%s", id, strings.Join(w.Lineup(), ",")))
		}
	}
	return p.Deliver(room.NewEvent(CmdWaddleList, out...))
}
