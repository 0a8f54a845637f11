package chat

import (
	"errors"

	"github.com/google/uuid"

	"github.com/andy6609/chatrouter/internal/command"
)

// ServerHandle is the pseudo-handle users block to mute server broadcasts.
const ServerHandle = "server"

const maxHandleLength = 16

// Client is one connection as seen by the registry. Out is drained by the
// transport's writer goroutine; only the registry sends on or closes it.
type Client struct {
	ID   string
	Addr string
	Out  chan string // outbound lines to be written by the writer goroutine

	closed bool // owned by the registry goroutine
}

// NewClient returns a client with a fresh connection id and an outbound
// queue of the given size.
func NewClient(addr string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 32
	}
	return &Client{
		ID:   uuid.NewString(),
		Addr: addr,
		Out:  make(chan string, buffer),
	}
}

// User is the registry's record of a connection. Handle is empty until login
// succeeds and never changes afterwards.
type User struct {
	Handle  string
	Channel string
	Blocked *blockList

	client *Client
}

// LoggedIn reports whether the user has completed login.
func (u *User) LoggedIn() bool { return u.Handle != "" }

type EventType int

const (
	EventConnect EventType = iota
	EventDisconnect
	EventCommand
	EventNotice
	EventOperator
	EventServerBroadcast
	EventDisconnectAll
	EventPresence
)

func (t EventType) String() string {
	switch t {
	case EventConnect:
		return "connect"
	case EventDisconnect:
		return "disconnect"
	case EventCommand:
		return "command"
	case EventNotice:
		return "notice"
	case EventOperator:
		return "operator"
	case EventServerBroadcast:
		return "server_broadcast"
	case EventDisconnectAll:
		return "disconnect_all"
	case EventPresence:
		return "presence"
	default:
		return "unknown"
	}
}

type Event struct {
	Type   EventType
	Client *Client
	Cmd    command.Command
	Text   string
	Reply  chan<- Result // set for requests that wait on the registry
}

// Result answers a request event.
type Result struct {
	// Lines is operator-facing output, or the handles for a presence request.
	Lines    []string
	Delivery Delivery
}

// Delivery accounts for a single fan-out.
type Delivery struct {
	Delivered []string
	Failed    []string
}

// Complete reports whether every recipient accepted the line.
func (d Delivery) Complete() bool { return len(d.Failed) == 0 }

var (
	ErrHandleTaken     = errors.New("handle already in use")
	ErrHandleInvalid   = errors.New("invalid handle")
	ErrHandleReserved  = errors.New("handle is reserved")
	ErrAlreadyLoggedIn = errors.New("already logged in")

	ErrClientGone   = errors.New("client connection closed")
	ErrOutboundFull = errors.New("client outbound queue full")

	ErrRegistryStopped = errors.New("registry stopped")
)
