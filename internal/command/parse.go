package command

import (
	"strconv"
	"strings"
)

const (
	usageLogin      = "usage: #login <handle>"
	usageSetHost    = "usage: #sethost <host>"
	usageSetPort    = "usage: #setport <port>"
	usageBlock      = "usage: #block <handle>"
	usageSetChannel = "usage: #setchannel <channel>"
	usagePrivate    = "usage: #private <handle> <message>"
)

// Split breaks a command line into its keyword and argument. ok is false when
// line is not a command.
func Split(line string) (keyword, arg string, ok bool) {
	if !strings.HasPrefix(line, Prefix) {
		return "", "", false
	}
	rest := line[len(Prefix):]
	keyword, arg, _ = strings.Cut(rest, " ")
	return keyword, arg, true
}

// ParseUser parses a line typed by a chat user.
func ParseUser(line string) Command {
	keyword, arg, ok := Split(line)
	if !ok {
		return Chat{Body: line}
	}

	switch keyword {
	case "login":
		handle := strings.TrimSpace(arg)
		if handle == "" {
			return Malformed{Keyword: keyword, Usage: usageLogin}
		}
		return Login{Handle: handle}
	case "logoff":
		return Logoff{}
	case "quit":
		return Quit{}
	case "sethost":
		host := strings.TrimSpace(arg)
		if host == "" {
			return Malformed{Keyword: keyword, Usage: usageSetHost}
		}
		return SetHost{Host: host}
	case "setport":
		return parseSetPort(arg)
	case "gethost":
		return GetHost{}
	case "getport":
		return GetPort{}
	case "block":
		return parseBlock(arg)
	case "unblock":
		return parseUnblock(arg)
	case "whoiblock":
		return WhoIBlock{}
	case "whoblocksme":
		return WhoBlocksMe{}
	case "setchannel":
		channel := strings.TrimSpace(arg)
		if channel == "" {
			return Malformed{Keyword: keyword, Usage: usageSetChannel}
		}
		return SetChannel{Channel: channel}
	case "private":
		return parsePrivate(arg)
	default:
		return Unknown{Keyword: keyword}
	}
}

// ParseOperator parses a line typed on the server console.
func ParseOperator(line string) Command {
	keyword, arg, ok := Split(line)
	if !ok {
		return Chat{Body: line}
	}

	switch keyword {
	case "quit":
		return Quit{}
	case "stop":
		return Stop{}
	case "start":
		return Start{}
	case "close":
		return Close{}
	case "setport":
		return parseSetPort(arg)
	case "getport":
		return GetPort{}
	case "block":
		return parseBlock(arg)
	case "unblock":
		return parseUnblock(arg)
	case "whoiblock":
		return WhoIBlock{}
	default:
		return Unknown{Keyword: keyword}
	}
}

func parseSetPort(arg string) Command {
	port, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || port < 1 || port > 65535 {
		return Malformed{Keyword: "setport", Usage: usageSetPort}
	}
	return SetPort{Port: port}
}

func parseBlock(arg string) Command {
	target := strings.TrimSpace(arg)
	if target == "" {
		return Malformed{Keyword: "block", Usage: usageBlock}
	}
	return Block{Target: target}
}

func parseUnblock(arg string) Command {
	target := strings.TrimSpace(arg)
	if target == "" {
		return Unblock{All: true}
	}
	return Unblock{Target: target}
}

func parsePrivate(arg string) Command {
	recipient, body, _ := strings.Cut(strings.TrimLeft(arg, " "), " ")
	if recipient == "" || strings.TrimSpace(body) == "" {
		return Malformed{Keyword: "private", Usage: usagePrivate}
	}
	return Private{Recipient: recipient, Body: body}
}
