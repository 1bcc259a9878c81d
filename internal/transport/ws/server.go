// Package ws carries occupant traffic over WebSocket.  Each connection is
// one penguin: a reader goroutine dispatches XT packets into the room
// layer and a writer goroutine drains the penguin's send queue onto the
// socket.
package ws

import (
	"errors"
	"maps"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/penguin"
	"github.com/iliyamo/igloo-rooms/internal/room"
	"github.com/iliyamo/igloo-rooms/internal/utils"
)

const (
	writeWait    = 10 * time.Second
	readWait     = 5 * time.Minute
	maxFrameSize = 4096
)

// Server upgrades HTTP requests and runs penguin sessions.
type Server struct {
	rooms     *room.Registry
	log       *zap.Logger
	secret    string
	queueSize int
	upgrader  websocket.Upgrader
	handlers  map[string]handlerFunc

	mu       sync.Mutex
	sessions map[int]*session
}

type session struct {
	conn   *websocket.Conn
	closed chan struct{}
}

// NewServer returns a transport bound to rooms.  secret verifies session
// tokens; queueSize bounds each penguin's outbound queue.
func NewServer(rooms *room.Registry, log *zap.Logger, secret string, queueSize int) *Server {
	return &Server{
		rooms:     rooms,
		log:       log,
		secret:    secret,
		queueSize: queueSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		handlers: maps.Clone(defaultHandlers),
		sessions: make(map[int]*session),
	}
}

// Handle is the echo handler for the upgrade endpoint.  The session token
// comes in the token query parameter.
func (s *Server) Handle(c echo.Context) error {
	claims, err := utils.ParseSessionToken(s.secret, c.QueryParam("token"))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	id, err := claims.PenguinID()
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.log.Debug("upgrade failed", zap.Error(err))
		return nil // the upgrader already replied
	}

	p := penguin.New(id, claims.Nickname, s.queueSize)
	p.Color, p.Member = claims.Color, claims.Member
	log := s.log.With(zap.String("conn_id", uuid.NewString()), zap.Int("penguin_id", id))

	sess := s.claim(id, conn)
	defer s.release(id, sess)

	log.Info("penguin connected", zap.String("nickname", claims.Nickname))
	s.run(conn, p, log)
	log.Info("penguin disconnected")
	return nil
}

// claim registers conn as id's session, closing and waiting out any
// previous session for the same penguin.
func (s *Server) claim(id int, conn *websocket.Conn) *session {
	s.mu.Lock()
	old := s.sessions[id]
	sess := &session{conn: conn, closed: make(chan struct{})}
	s.sessions[id] = sess
	s.mu.Unlock()

	if old != nil {
		_ = old.conn.Close()
		<-old.closed
	}
	return sess
}

func (s *Server) release(id int, sess *session) {
	s.mu.Lock()
	if s.sessions[id] == sess {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	close(sess.closed)
}

// Kick closes the connection of the penguin with the given id.  It reports
// whether a session was found.
func (s *Server) Kick(id int) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		_ = sess.conn.Close()
	}
	return ok
}

// Online is the number of open sessions.
func (s *Server) Online() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// run owns the session until the connection ends.  Cleanup is deferred so
// a panicking handler still takes the penguin out of its room and seat and
// stops the writer.
func (s *Server) run(conn *websocket.Conn, p *penguin.Penguin, log *zap.Logger) {
	written := make(chan struct{})
	go s.writeLoop(conn, p, log, written)
	defer func() {
		s.rooms.Disconnect(p)
		p.Close()
		<-written
		_ = conn.Close()
	}()

	if err := s.spawn(p); err != nil {
		log.Warn("no spawn room", zap.Error(err))
		_ = p.Deliver(room.NewEvent(CmdError, ErrCodeRoomFull))
		return
	}
	s.readLoop(conn, p, log)
}

func (s *Server) writeLoop(conn *websocket.Conn, p *penguin.Penguin, log *zap.Logger, done chan<- struct{}) {
	defer close(done)
	for ev := range p.Queue() {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(EncodeXT(ev))); err != nil {
			log.Debug("write failed", zap.String("cmd", ev.Cmd), zap.Error(err))
			_ = conn.Close() // unblocks the reader
			for range p.Queue() {
			}
			return
		}
	}
	// The queue closes when the session ends or when it overflowed; either
	// way the reader must stop too.
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	_ = conn.Close()
}

func (s *Server) readLoop(conn *websocket.Conn, p *penguin.Penguin, log *zap.Logger) {
	conn.SetReadLimit(maxFrameSize)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read failed", zap.Error(err))
			}
			return
		}
		pkt, err := ParseXT(string(msg))
		if err != nil {
			log.Debug("dropping frame", zap.ByteString("frame", msg), zap.Error(err))
			continue
		}
		s.dispatch(p, pkt, log)
	}
}

var errNoSpawn = errors.New("every spawn room is full")

// spawn places p in a random spawn room that still has space.
func (s *Server) spawn(p *penguin.Penguin) error {
	rooms := s.rooms.SpawnRooms()
	rand.Shuffle(len(rooms), func(i, j int) { rooms[i], rooms[j] = rooms[j], rooms[i] })
	for _, r := range rooms {
		err := r.Join(p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, room.ErrRoomFull) {
			return err
		}
	}
	return errNoSpawn
}
