package chat

import (
	"fmt"
	"sort"

	"github.com/andy6609/chatrouter/internal/command"
)

// block adds target to u's block list and returns the single reply line.
// Blocking ServerHandle mutes server broadcasts instead.
func (r *Registry) block(u *User, target string) string {
	if _, known := r.handles[target]; !known && target != ServerHandle {
		return fmt.Sprintf(msgNoSuchUser, target)
	}
	if target == u.Handle {
		return msgCannotBlockSelf
	}
	if !u.Blocked.Add(target) {
		return fmt.Sprintf(msgAlreadyBlocked, target)
	}
	if target == ServerHandle {
		r.muted[u.Handle] = struct{}{}
	}
	r.logger.Debug("block added", "handle", u.Handle, "target", target)
	return fmt.Sprintf(msgWillBlock, target)
}

func (r *Registry) unblock(u *User, cmd command.Unblock) []string {
	if cmd.All {
		if u.Blocked.Len() == 0 {
			return []string{msgNoBlocking}
		}
		var lines []string
		for _, target := range u.Blocked.Clear() {
			lines = append(lines, fmt.Sprintf(msgUnblocked, target))
		}
		delete(r.muted, u.Handle)
		return lines
	}

	if !u.Blocked.Remove(cmd.Target) {
		return []string{fmt.Sprintf(msgNotBlocked, cmd.Target)}
	}
	if cmd.Target == ServerHandle {
		delete(r.muted, u.Handle)
	}
	return []string{fmt.Sprintf(msgUnblocked, cmd.Target)}
}

func (r *Registry) whoIBlock(u *User) []string {
	entries := u.Blocked.Entries()
	if len(entries) == 0 {
		return []string{msgNoBlocking}
	}
	lines := make([]string, 0, len(entries))
	for _, target := range entries {
		lines = append(lines, fmt.Sprintf(msgIsBlocked, target))
	}
	return lines
}

// whoBlocksMe scans every logged-in user's block list for u.
func (r *Registry) whoBlocksMe(u *User) []string {
	var lines []string
	for _, other := range r.everyone() {
		if other.Blocked.Contains(u.Handle) {
			lines = append(lines, fmt.Sprintf(msgBlockedBy, other.Handle))
		}
	}
	if len(lines) == 0 {
		return []string{msgNobodyBlocksYou}
	}
	return lines
}

// operator runs a console command that touches registry state. Only the
// moderation list commands reach here.
func (r *Registry) operator(cmd command.Command) []string {
	switch cmd := cmd.(type) {
	case command.Block:
		return []string{r.operatorBlock(cmd.Target)}
	case command.Unblock:
		return r.operatorUnblock(cmd)
	case command.WhoIBlock:
		entries := r.moderated.Entries()
		if len(entries) == 0 {
			return []string{msgNoBlocking}
		}
		sort.Strings(entries)
		lines := make([]string, 0, len(entries))
		for _, target := range entries {
			lines = append(lines, fmt.Sprintf(msgOperatorIsBlock, target))
		}
		return lines
	default:
		return []string{msgNotRecognized}
	}
}

func (r *Registry) operatorBlock(target string) string {
	if target == ServerHandle {
		return msgCannotBlockSrv
	}
	if _, known := r.handles[target]; !known {
		return fmt.Sprintf(msgNoSuchUser, target)
	}
	if !r.moderated.Add(target) {
		return fmt.Sprintf(msgOperatorAlready, target)
	}
	r.logger.Info("operator blocked user", "handle", target)
	return fmt.Sprintf(msgOperatorBlocked, target)
}

func (r *Registry) operatorUnblock(cmd command.Unblock) []string {
	if cmd.All {
		if r.moderated.Len() == 0 {
			return []string{msgNoBlocking}
		}
		var lines []string
		for _, target := range r.moderated.Clear() {
			lines = append(lines, fmt.Sprintf(msgOperatorRelayed, target))
		}
		return lines
	}
	if !r.moderated.Remove(cmd.Target) {
		return []string{fmt.Sprintf(msgOperatorNotBlock, cmd.Target)}
	}
	r.logger.Info("operator unblocked user", "handle", cmd.Target)
	return []string{fmt.Sprintf(msgOperatorRelayed, cmd.Target)}
}
