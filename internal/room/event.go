package room

import (
	"fmt"
	"strings"
)

// Separator joins roster entries and table status fields.
const Separator = "%"

// Outbound commands.
const (
	CmdJoinRoom     = "jr" // room-entered
	CmdAddPlayer    = "ap" // occupant-appeared
	CmdRemovePlayer = "rp" // occupant-removed
	CmdJoinTable    = "jt"
	CmdUpdateTable  = "ut"
	CmdLeaveTable   = "lt"
	CmdJoinWaddle   = "jw"
	CmdUpdateWaddle = "uw"
	CmdLeaveWaddle  = "lw"
)

// Event is one protocol message addressed to an occupant.  Framing is the
// transport's job.
type Event struct {
	Cmd  string
	Args []string
}

// NewEvent formats each argument with fmt.Sprint.
func NewEvent(cmd string, args ...any) Event {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = fmt.Sprint(a)
	}
	return Event{Cmd: cmd, Args: out}
}

func (e Event) String() string {
	if len(e.Args) == 0 {
		return e.Cmd
	}
	return e.Cmd + " " + strings.Join(e.Args, " ")
}
