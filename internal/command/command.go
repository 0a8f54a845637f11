// Package command turns raw chat input lines into typed commands.
//
// A line that starts with Prefix is a command: the keyword runs up to the
// first space and everything after that space is the argument. Any other line
// is a Chat message carried verbatim.
package command

// Prefix marks a line as a command.
const Prefix = "#"

// Command is one parsed input line. The set of implementations is closed;
// callers dispatch with a type switch.
type Command interface {
	// Name is the keyword the command was parsed from ("chat" for plain lines).
	Name() string
	command()
}

// Chat is a plain message. From an operator it is a server broadcast.
type Chat struct{ Body string }

type Login struct{ Handle string }

type Logoff struct{}

type Quit struct{}

type SetHost struct{ Host string }

type SetPort struct{ Port int }

type GetHost struct{}

type GetPort struct{}

// Block asks to stop receiving messages from Target.
type Block struct{ Target string }

// Unblock removes Target from the block list, or every entry when All is set.
type Unblock struct {
	Target string
	All    bool
}

type WhoIBlock struct{}

type WhoBlocksMe struct{}

type SetChannel struct{ Channel string }

// Private is a message delivered to a single recipient.
type Private struct {
	Recipient string
	Body      string
}

// Stop, Start and Close change the server's listening state.
type Stop struct{}

type Start struct{}

type Close struct{}

// Unknown is a command keyword the grammar does not know.
type Unknown struct{ Keyword string }

// Malformed is a known keyword whose argument is missing or unusable.
type Malformed struct {
	Keyword string
	Usage   string
}

func (Chat) Name() string        { return "chat" }
func (Login) Name() string       { return "login" }
func (Logoff) Name() string      { return "logoff" }
func (Quit) Name() string        { return "quit" }
func (SetHost) Name() string     { return "sethost" }
func (SetPort) Name() string     { return "setport" }
func (GetHost) Name() string     { return "gethost" }
func (GetPort) Name() string     { return "getport" }
func (Block) Name() string       { return "block" }
func (Unblock) Name() string     { return "unblock" }
func (WhoIBlock) Name() string   { return "whoiblock" }
func (WhoBlocksMe) Name() string { return "whoblocksme" }
func (SetChannel) Name() string  { return "setchannel" }
func (Private) Name() string     { return "private" }
func (Stop) Name() string        { return "stop" }
func (Start) Name() string       { return "start" }
func (Close) Name() string       { return "close" }
func (Unknown) Name() string     { return "unknown" }
func (Malformed) Name() string   { return "malformed" }

func (Chat) command()        {}
func (Login) command()       {}
func (Logoff) command()      {}
func (Quit) command()        {}
func (SetHost) command()     {}
func (SetPort) command()     {}
func (GetHost) command()     {}
func (GetPort) command()     {}
func (Block) command()       {}
func (Unblock) command()     {}
func (WhoIBlock) command()   {}
func (WhoBlocksMe) command() {}
func (SetChannel) command()  {}
func (Private) command()     {}
func (Stop) command()        {}
func (Start) command()       {}
func (Close) command()       {}
func (Unknown) command()     {}
func (Malformed) command()   {}
