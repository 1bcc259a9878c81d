package ws

import (
	"errors"
	"strings"

	"github.com/iliyamo/igloo-rooms/internal/room"
)

// ErrMalformed is returned for frames that are not XT packets.
var ErrMalformed = errors.New("malformed xt packet")

// Packet is one inbound request: %xt%<ext>%<handler>%<internal id>%<args...>%
type Packet struct {
	Ext     string
	Handler string
	Args    []string
}

// ParseXT decodes an inbound frame.
func ParseXT(frame string) (Packet, error) {
	parts := strings.Split(strings.TrimRight(frame, "\x00"), "%")
	// "", "xt", ext, handler, internal id, args..., ""
	if len(parts) < 5 || parts[0] != "" || parts[1] != "xt" || parts[3] == "" {
		return Packet{}, ErrMalformed
	}
	args := parts[5:]
	if n := len(args); n > 0 && args[n-1] == "" {
		args = args[:n-1]
	}
	return Packet{Ext: parts[2], Handler: parts[3], Args: args}, nil
}

// EncodeXT frames an outbound event as %xt%<cmd>%-1%<args...>%
func EncodeXT(ev room.Event) string {
	var b strings.Builder
	b.WriteString("%xt%")
	b.WriteString(ev.Cmd)
	b.WriteString("%-1%")
	for _, a := range ev.Args {
		b.WriteString(a)
		b.WriteByte('%')
	}
	return b.String()
}
