// Package client is the thin line client for the chat server. It handles the
// commands that only make sense locally (host, port, connecting and
// disconnecting) and forwards everything else to the server.
package client

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/andy6609/chatrouter/internal/command"
)

const dialTimeout = 5 * time.Second

// Display shows lines to the user.
type Display interface {
	Display(line string)
}

type Client struct {
	ui     Display
	logger *slog.Logger

	mu      sync.Mutex
	host    string
	port    int
	conn    net.Conn
	closing bool // set when we close conn ourselves
}

func New(host string, port int, ui Display, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{ui: ui, logger: logger.With("component", "client"), host: host, port: port}
}

// Connected reports whether a server connection is open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// HandleInput processes one line typed by the user. It returns true when
// the user asked to quit.
func (c *Client) HandleInput(line string) bool {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return false
	}

	switch cmd := command.ParseUser(line).(type) {
	case command.Quit:
		c.disconnect()
		return true
	case command.Logoff:
		if !c.Connected() {
			c.ui.Display("You are already logged off.")
			return false
		}
		c.disconnect()
		c.ui.Display("Logoff Successful")
	case command.SetHost:
		if c.Connected() {
			c.ui.Display("Cannot set host while connected to server.")
			return false
		}
		c.mu.Lock()
		c.host = cmd.Host
		c.mu.Unlock()
		c.ui.Display("Host set to: " + cmd.Host)
	case command.SetPort:
		if c.Connected() {
			c.ui.Display("Cannot set port while connected to server.")
			return false
		}
		c.mu.Lock()
		c.port = cmd.Port
		c.mu.Unlock()
		c.ui.Display(fmt.Sprintf("Port set to: %d", cmd.Port))
	case command.GetHost:
		c.mu.Lock()
		host := c.host
		c.mu.Unlock()
		c.ui.Display("Current Host: " + host)
	case command.GetPort:
		c.mu.Lock()
		port := c.port
		c.mu.Unlock()
		c.ui.Display(fmt.Sprintf("Current Port: %d", port))
	case command.Login:
		if !c.Connected() {
			if err := c.connect(); err != nil {
				c.logger.Debug("connect failed", "error", err)
				c.ui.Display("Unable to login.")
				return false
			}
		}
		c.forward(line)
	case command.Malformed:
		c.ui.Display(fmt.Sprintf("%s could not be processed: %s", cmd.Keyword, cmd.Usage))
	default:
		if !c.Connected() {
			c.ui.Display("You are not connected. Use #login <handle> to connect.")
			return false
		}
		c.forward(line)
	}
	return false
}

func (c *Client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	addr := net.JoinHostPort(c.host, strconv.Itoa(c.port))
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	c.conn = conn
	c.closing = false
	go c.readLoop(conn)
	return nil
}

func (c *Client) disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	c.closing = true
	_ = c.conn.Close()
	c.conn = nil
}

func (c *Client) forward(line string) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		c.logger.Debug("send failed", "error", err)
		c.ui.Display("Could not send message to server.")
		c.disconnect()
	}
}

func (c *Client) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		c.ui.Display(scanner.Text())
	}

	c.mu.Lock()
	ours := c.closing || c.conn != conn
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logger.Debug("read failed", "error", err)
	}
	if !ours {
		c.ui.Display("Abnormal termination of connection")
	}
}
