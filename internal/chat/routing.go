package chat

import "fmt"

// receivesChatFrom is the delivery predicate for ordinary chat.
func receivesChatFrom(recipient, sender *User) bool {
	return recipient.LoggedIn() &&
		!recipient.Blocked.Contains(sender.Handle) &&
		recipient.Channel == sender.Channel
}

// chatRecipients returns the users that see sender's chat lines.
func (r *Registry) chatRecipients(sender *User) []*User {
	var out []*User
	for _, u := range r.everyone() {
		if receivesChatFrom(u, sender) {
			out = append(out, u)
		}
	}
	return out
}

// serverRecipients returns the users that see server broadcasts. Channels
// and block lists do not apply; only the mute set does.
func (r *Registry) serverRecipients() []*User {
	var out []*User
	for _, u := range r.everyone() {
		if _, muted := r.muted[u.Handle]; !muted {
			out = append(out, u)
		}
	}
	return out
}

func (r *Registry) routeChat(sender *User, body string) Delivery {
	if r.moderated.Contains(sender.Handle) {
		r.logger.Info("chat withheld by operator block", "handle", sender.Handle)
		return Delivery{}
	}
	return r.deliver(r.chatRecipients(sender), fmt.Sprintf(msgChat, sender.Handle, body))
}

// routePrivate delivers to the recipient unless they block the sender, and
// always echoes to the sender. The sender is not told about a block.
func (r *Registry) routePrivate(sender *User, to, body string) Delivery {
	recipient, ok := r.handles[to]
	if !ok {
		r.reply(sender, fmt.Sprintf(msgNotLoggedOn, to))
		return Delivery{}
	}

	line := fmt.Sprintf(msgPrivate, sender.Handle, recipient.Handle, body)
	targets := []*User{sender}
	if recipient != sender {
		if recipient.Blocked.Contains(sender.Handle) {
			r.logger.Debug("private message dropped by recipient block", "from", sender.Handle, "to", to)
		} else {
			targets = append(targets, recipient)
		}
	}
	return r.deliver(targets, line)
}

// deliver queues line for every user in to. A failure for one recipient
// never stops delivery to the rest.
func (r *Registry) deliver(to []*User, line string) Delivery {
	var d Delivery
	for _, u := range to {
		if err := sendLine(u.client, line); err != nil {
			d.Failed = append(d.Failed, u.Handle)
			DeliveryFailures.Inc()
			r.logger.Warn("delivery failed", "handle", u.Handle, "conn_id", u.client.ID, "error", err)
			continue
		}
		d.Delivered = append(d.Delivered, u.Handle)
	}
	return d
}

// reply sends line to u alone.
func (r *Registry) reply(u *User, line string) {
	if err := sendLine(u.client, line); err != nil {
		DeliveryFailures.Inc()
		r.logger.Warn("reply failed", "handle", u.Handle, "conn_id", u.client.ID, "error", err)
	}
}

func sendLine(c *Client, line string) error {
	if c.closed {
		return ErrClientGone
	}
	// Non-blocking send prevents slow/disconnected clients from blocking the registry.
	select {
	case c.Out <- line:
		return nil
	default:
		return ErrOutboundFull
	}
}
