package chat

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/gorilla/websocket"
)

// LineConn is a transport that carries one text line per read or write.
// ReadLine and WriteLine may be called from different goroutines.
type LineConn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

type tcpConn struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

// NewTCPConn frames conn as newline-delimited lines.
func NewTCPConn(conn net.Conn) LineConn {
	return &tcpConn{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}
}

func (t *tcpConn) ReadLine() (string, error) {
	line, err := t.r.ReadString('\n')
	if err == nil {
		return strings.TrimRight(line, "\r\n"), nil
	}
	if err == io.EOF && line != "" {
		// last line without newline
		return strings.TrimRight(line, "\r\n"), nil
	}
	if err == io.EOF {
		return "", io.EOF
	}
	return "", fmt.Errorf("read: %w", err)
}

func (t *tcpConn) WriteLine(line string) error {
	if _, err := t.w.WriteString(line + "\n"); err != nil {
		return err
	}
	return t.w.Flush()
}

func (t *tcpConn) Close() error { return t.conn.Close() }

func (t *tcpConn) RemoteAddr() string { return t.conn.RemoteAddr().String() }

type wsConn struct {
	conn *websocket.Conn
}

// NewWebSocketConn carries one line per text frame.
func NewWebSocketConn(conn *websocket.Conn) LineConn {
	return &wsConn{conn: conn}
}

func (w *wsConn) ReadLine() (string, error) {
	for {
		msgType, data, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "", io.EOF
			}
			return "", fmt.Errorf("read: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (w *wsConn) WriteLine(line string) error {
	return w.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (w *wsConn) Close() error { return w.conn.Close() }

func (w *wsConn) RemoteAddr() string { return w.conn.RemoteAddr().String() }
