package chat

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/andy6609/chatrouter/internal/command"
)

// Registry owns every piece of shared chat state: the connection table,
// presence, block lists, the server mute set and the operator's moderation
// list. All of it is touched only by the Run goroutine, so each event sees a
// consistent snapshot and events from one connection apply in order.
type Registry struct {
	events   chan Event
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger

	defaultChannel string

	conns     map[string]*User // by client id, logged in or not
	handles   map[string]*User // logged-in users by handle
	muted     map[string]struct{}
	moderated *blockList // handles whose chat the operator withholds
}

func NewRegistry(buffer int, defaultChannel string, logger *slog.Logger) *Registry {
	if buffer <= 0 {
		buffer = 64
	}
	if defaultChannel == "" {
		defaultChannel = "public"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		events:         make(chan Event, buffer),
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
		logger:         logger.With("component", "registry"),
		defaultChannel: defaultChannel,
		conns:          make(map[string]*User),
		handles:        make(map[string]*User),
		muted:          make(map[string]struct{}),
		moderated:      newBlockList(),
	}
}

// Stop signals the Run loop to exit.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Wait blocks until the Run loop has completely finished.
func (r *Registry) Wait() {
	<-r.doneCh
}

func (r *Registry) Run() {
	defer close(r.doneCh)

	for {
		select {
		case ev := <-r.events:
			start := time.Now()
			eventType := r.handle(ev)
			MessagesTotal.WithLabelValues(eventType).Inc()
			EventProcessingDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
		case <-r.stopCh:
			return
		}
	}
}

// Connect adds a not yet logged-in connection.
func (r *Registry) Connect(c *Client) {
	r.post(Event{Type: EventConnect, Client: c})
}

// Disconnect removes c, announcing the departure if it had logged in.
// Disconnecting an unknown or already removed client is a no-op.
func (r *Registry) Disconnect(c *Client) {
	r.post(Event{Type: EventDisconnect, Client: c})
}

// Submit queues a parsed line from c.
func (r *Registry) Submit(c *Client, cmd command.Command) {
	r.post(Event{Type: EventCommand, Client: c, Cmd: cmd})
}

// Notify queues a line for c alone.
func (r *Registry) Notify(c *Client, text string) {
	r.post(Event{Type: EventNotice, Client: c, Text: text})
}

// Operator runs a console command against the registry and returns the
// lines to show the operator.
func (r *Registry) Operator(cmd command.Command) []string {
	return r.request(Event{Type: EventOperator, Cmd: cmd}).Lines
}

// Broadcast sends a server-originated line to every logged-in user that has
// not muted the server.
func (r *Registry) Broadcast(line string) Delivery {
	return r.request(Event{Type: EventServerBroadcast, Text: line}).Delivery
}

// DisconnectAll closes every connection without departure announcements.
func (r *Registry) DisconnectAll() {
	r.request(Event{Type: EventDisconnectAll})
}

// Presence returns the logged-in handles, sorted.
func (r *Registry) Presence() []string {
	return r.request(Event{Type: EventPresence}).Lines
}

func (r *Registry) post(ev Event) bool {
	select {
	case r.events <- ev:
		return true
	case <-r.doneCh:
		return false
	}
}

func (r *Registry) request(ev Event) Result {
	reply := make(chan Result, 1)
	ev.Reply = reply
	if !r.post(ev) {
		return Result{}
	}
	select {
	case res := <-reply:
		return res
	case <-r.doneCh:
		return Result{}
	}
}

func (r *Registry) handle(ev Event) string {
	var res Result
	eventType := ev.Type.String()

	switch ev.Type {
	case EventConnect:
		r.conns[ev.Client.ID] = &User{Blocked: newBlockList(), client: ev.Client}
		ConnectedClients.Set(float64(len(r.conns)))
		r.logger.Debug("client connected", "conn_id", ev.Client.ID, "addr", ev.Client.Addr)
	case EventDisconnect:
		if u, ok := r.conns[ev.Client.ID]; ok {
			r.drop(u, true)
		}
	case EventCommand:
		eventType = ev.Cmd.Name()
		if u, ok := r.conns[ev.Client.ID]; ok {
			r.dispatch(u, ev.Cmd)
		}
	case EventNotice:
		if u, ok := r.conns[ev.Client.ID]; ok {
			r.reply(u, ev.Text)
		}
	case EventOperator:
		res.Lines = r.operator(ev.Cmd)
	case EventServerBroadcast:
		res.Delivery = r.deliver(r.serverRecipients(), ev.Text)
	case EventDisconnectAll:
		for _, u := range r.conns {
			r.drop(u, false)
		}
	case EventPresence:
		res.Lines = r.presence()
	}

	if ev.Reply != nil {
		ev.Reply <- res
	}
	return eventType
}

func (r *Registry) dispatch(u *User, cmd command.Command) {
	switch cmd := cmd.(type) {
	case command.Login:
		r.login(u, cmd.Handle)
		return
	case command.Logoff, command.Quit:
		r.reply(u, msgGoodbye)
		r.drop(u, true)
		return
	case command.SetHost, command.SetPort, command.GetHost, command.GetPort:
		r.reply(u, fmt.Sprintf(msgClientOnly, cmd.Name()))
		return
	case command.Malformed:
		r.reply(u, fmt.Sprintf(msgMalformed, cmd.Keyword, cmd.Usage))
		return
	case command.Unknown:
		r.reply(u, msgNotRecognized)
		return
	}

	if !u.LoggedIn() {
		r.reply(u, msgMustLogin)
		return
	}

	switch cmd := cmd.(type) {
	case command.Chat:
		r.routeChat(u, cmd.Body)
	case command.Private:
		r.routePrivate(u, cmd.Recipient, cmd.Body)
	case command.SetChannel:
		u.Channel = cmd.Channel
		r.reply(u, fmt.Sprintf(msgChannelSet, cmd.Channel))
	case command.Block:
		r.reply(u, r.block(u, cmd.Target))
	case command.Unblock:
		for _, line := range r.unblock(u, cmd) {
			r.reply(u, line)
		}
	case command.WhoIBlock:
		for _, line := range r.whoIBlock(u) {
			r.reply(u, line)
		}
	case command.WhoBlocksMe:
		for _, line := range r.whoBlocksMe(u) {
			r.reply(u, line)
		}
	default:
		r.reply(u, msgNotRecognized)
	}
}

// drop closes u's connection and removes it from the registry.
func (r *Registry) drop(u *User, announce bool) {
	c := u.client
	delete(r.conns, c.ID)
	if !c.closed {
		c.closed = true
		// Closing Out stops the writer goroutine gracefully.
		close(c.Out)
	}
	ConnectedClients.Set(float64(len(r.conns)))

	if !u.LoggedIn() {
		return
	}
	r.release(u)
	r.logger.Info("user left", "handle", u.Handle, "conn_id", c.ID)

	if announce {
		r.deliver(r.everyone(), fmt.Sprintf(msgLoggedOff, u.Handle))
	}
}

func (r *Registry) presence() []string {
	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
