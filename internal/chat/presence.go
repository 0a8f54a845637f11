package chat

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

func validateHandle(handle string) error {
	if handle == "" || utf8.RuneCountInString(handle) > maxHandleLength || strings.IndexFunc(handle, unicode.IsSpace) >= 0 {
		return ErrHandleInvalid
	}
	if handle == ServerHandle {
		return ErrHandleReserved
	}
	return nil
}

// claim binds handle to u. It only checks and mutates presence.
func (r *Registry) claim(u *User, handle string) error {
	if u.LoggedIn() {
		return ErrAlreadyLoggedIn
	}
	if err := validateHandle(handle); err != nil {
		return err
	}
	if _, taken := r.handles[handle]; taken {
		return ErrHandleTaken
	}

	u.Handle = handle
	u.Channel = r.defaultChannel
	r.handles[handle] = u
	LoggedInUsers.Set(float64(len(r.handles)))
	return nil
}

func (r *Registry) login(u *User, handle string) {
	err := r.claim(u, handle)
	switch {
	case err == nil:
		r.logger.Info("user logged in", "handle", handle, "conn_id", u.client.ID, "addr", u.client.Addr)
		r.deliver(r.chatRecipients(u), fmt.Sprintf(msgLoggedOn, handle))
	case errors.Is(err, ErrAlreadyLoggedIn):
		r.reply(u, fmt.Sprintf(msgAlreadyLoggedIn, u.Handle))
	case errors.Is(err, ErrHandleInvalid):
		r.reply(u, fmt.Sprintf(msgHandleInvalid, maxHandleLength))
	case errors.Is(err, ErrHandleTaken), errors.Is(err, ErrHandleReserved):
		r.logger.Warn("login refused", "handle", handle, "conn_id", u.client.ID, "addr", u.client.Addr, "error", err)
		if errors.Is(err, ErrHandleTaken) {
			r.reply(u, fmt.Sprintf(msgHandleTaken, handle))
		} else {
			r.reply(u, fmt.Sprintf(msgHandleReserved, handle))
		}
		r.drop(u, false)
	}
}

// release frees u's handle and its server mute entry.
func (r *Registry) release(u *User) {
	delete(r.handles, u.Handle)
	delete(r.muted, u.Handle)
	LoggedInUsers.Set(float64(len(r.handles)))
}

// everyone returns the logged-in users ordered by handle.
func (r *Registry) everyone() []*User {
	users := make([]*User, 0, len(r.handles))
	for _, u := range r.handles {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Handle < users[j].Handle })
	return users
}
