// Package console reads operator commands from a terminal and applies them
// to a running chat server.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/andy6609/chatrouter/internal/chat"
	"github.com/andy6609/chatrouter/internal/command"
)

// ErrQuit is returned by Run after the operator typed #quit.
var ErrQuit = errors.New("operator quit")

// Controller is the part of *chat.Server the console drives.
type Controller interface {
	Listen() error
	StopListening() error
	Close() error
	SetPort(port int) error
	Port() int
	Broadcast(text string) chat.Delivery
	Operator(cmd command.Command) []string
}

type Console struct {
	srv    Controller
	out    io.Writer
	logger *slog.Logger
}

func New(srv Controller, out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{srv: srv, out: out, logger: logger.With("component", "console")}
}

// Run executes lines from in until it is exhausted, ctx is done or the
// operator quits.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			if err != nil {
				return fmt.Errorf("reading console: %w", err)
			}
			return nil
		case line := <-lines:
			if err := c.Execute(line); err != nil {
				return err
			}
		}
	}
}

// Execute runs a single console line. It returns ErrQuit for #quit.
func (c *Console) Execute(line string) error {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil
	}

	switch cmd := command.ParseOperator(line).(type) {
	case command.Chat:
		d := c.srv.Broadcast(cmd.Body)
		c.display(cmd.Body)
		if !d.Complete() {
			c.logger.Warn("broadcast incomplete", "failed", d.Failed)
		}
	case command.Quit:
		if err := c.srv.Close(); err != nil && !errors.Is(err, chat.ErrAlreadyClosed) {
			c.display("Unable to close.")
		}
		return ErrQuit
	case command.Stop:
		if err := c.srv.StopListening(); err != nil {
			c.display("Server is already stopped.")
			return nil
		}
		c.display("Server has stopped listening for connections.")
	case command.Start:
		if err := c.srv.Listen(); err != nil {
			if errors.Is(err, chat.ErrAlreadyListening) {
				c.display("Server is already listening.")
			} else {
				c.logger.Error("listen failed", "error", err)
				c.display("Unable to start listening.")
			}
			return nil
		}
		c.display(fmt.Sprintf("Server listening for connections on port %d", c.srv.Port()))
	case command.Close:
		if err := c.srv.Close(); err != nil {
			c.display("Server is already closed.")
			return nil
		}
		c.display("Server closed.")
	case command.SetPort:
		if err := c.srv.SetPort(cmd.Port); err != nil {
			c.display("Can not set port until the server is closed.")
			return nil
		}
		c.display(fmt.Sprintf("Port set to: %d", cmd.Port))
	case command.GetPort:
		c.display(fmt.Sprintf("Current Port: %d", c.srv.Port()))
	case command.Block, command.Unblock, command.WhoIBlock:
		for _, l := range c.srv.Operator(cmd) {
			c.display(l)
		}
	case command.Malformed:
		c.display(fmt.Sprintf("%s could not be processed: %s", cmd.Keyword, cmd.Usage))
	default:
		c.display("Command not recognized.")
	}
	return nil
}

func (c *Console) display(line string) {
	fmt.Fprintln(c.out, line)
}
