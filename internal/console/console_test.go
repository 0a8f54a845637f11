package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andy6609/chatrouter/internal/chat"
	"github.com/andy6609/chatrouter/internal/command"
)

type fakeServer struct {
	listening bool
	closed    bool
	port      int

	calls      []string
	broadcasts []string
	operator   []command.Command
}

func (f *fakeServer) Listen() error {
	f.calls = append(f.calls, "listen")
	if f.listening {
		return chat.ErrAlreadyListening
	}
	f.listening, f.closed = true, false
	return nil
}

func (f *fakeServer) StopListening() error {
	f.calls = append(f.calls, "stop")
	if !f.listening {
		return chat.ErrNotListening
	}
	f.listening = false
	return nil
}

func (f *fakeServer) Close() error {
	f.calls = append(f.calls, "close")
	if f.closed {
		return chat.ErrAlreadyClosed
	}
	f.listening, f.closed = false, true
	return nil
}

func (f *fakeServer) SetPort(port int) error {
	if !f.closed {
		return chat.ErrNotClosed
	}
	f.port = port
	return nil
}

func (f *fakeServer) Port() int { return f.port }

func (f *fakeServer) Broadcast(text string) chat.Delivery {
	f.broadcasts = append(f.broadcasts, text)
	return chat.Delivery{}
}

func (f *fakeServer) Operator(cmd command.Command) []string {
	f.operator = append(f.operator, cmd)
	return []string{"operator:" + cmd.Name()}
}

func TestConsole_Execute(t *testing.T) {
	srv := &fakeServer{listening: true, port: 5555}
	var out bytes.Buffer
	c := New(srv, &out, nil)

	lines := []string{
		"hello everyone",
		"#getport",
		"#setport 6000",
		"#start",
		"#stop",
		"#stop",
		"#close",
		"#close",
		"#setport 6000",
		"#setport abc",
		"#start",
		"#block mallory",
		"#unblock",
		"#whoiblock",
		"#private bob hi",
		"",
	}
	for _, line := range lines {
		if err := c.Execute(line); err != nil {
			t.Fatalf("Execute(%q) returned error: %v", line, err)
		}
	}

	want := []string{
		"hello everyone",
		"Current Port: 5555",
		"Can not set port until the server is closed.",
		"Server is already listening.",
		"Server has stopped listening for connections.",
		"Server is already stopped.",
		"Server closed.",
		"Server is already closed.",
		"Port set to: 6000",
		"setport could not be processed: usage: #setport <port>",
		"Server listening for connections on port 6000",
		"operator:block",
		"operator:unblock",
		"operator:whoiblock",
		"Command not recognized.",
	}
	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("console output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hello everyone"}, srv.broadcasts); diff != "" {
		t.Fatalf("broadcasts mismatch (-want +got):\n%s", diff)
	}
	wantOperator := []command.Command{
		command.Block{Target: "mallory"},
		command.Unblock{All: true},
		command.WhoIBlock{},
	}
	if diff := cmp.Diff(wantOperator, srv.operator); diff != "" {
		t.Fatalf("operator commands mismatch (-want +got):\n%s", diff)
	}
}

func TestConsole_QuitClosesServer(t *testing.T) {
	srv := &fakeServer{listening: true}
	c := New(srv, &bytes.Buffer{}, nil)

	if err := c.Execute("#quit"); !errors.Is(err, ErrQuit) {
		t.Fatalf("Execute(#quit) want ErrQuit, got %v", err)
	}
	if !srv.closed {
		t.Fatal("quit did not close the server")
	}

	// Quitting an already closed server still quits.
	if err := c.Execute("#quit"); !errors.Is(err, ErrQuit) {
		t.Fatalf("second Execute(#quit) want ErrQuit, got %v", err)
	}
}

func TestConsole_Run(t *testing.T) {
	srv := &fakeServer{listening: true}
	var out bytes.Buffer
	c := New(srv, &out, nil)

	err := c.Run(context.Background(), strings.NewReader("first\n#quit\nnever\n"))
	if !errors.Is(err, ErrQuit) {
		t.Fatalf("Run() want ErrQuit, got %v", err)
	}
	if diff := cmp.Diff([]string{"first"}, srv.broadcasts); diff != "" {
		t.Fatalf("broadcasts mismatch (-want +got):\n%s", diff)
	}

	if err := c.Run(context.Background(), strings.NewReader("only\n")); err != nil {
		t.Fatalf("Run() on exhausted input want nil, got %v", err)
	}
}
