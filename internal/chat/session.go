package chat

import (
	"errors"
	"io"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/andy6609/chatrouter/internal/command"
)

// SessionOptions bounds what a single connection may queue and send.
type SessionOptions struct {
	OutboundBuffer int
	MaxLineLength  int
	RatePerSecond  float64
	RateBurst      int
}

// HandleSession runs one connection: it registers a client, parses every
// line it reads and hands the result to reg, in read order. It returns when
// the connection fails or is closed by the registry.
func HandleSession(conn LineConn, reg *Registry, opts SessionOptions, logger *slog.Logger) {
	defer func() {
		_ = conn.Close()
	}()

	c := NewClient(conn.RemoteAddr(), opts.OutboundBuffer)
	logger = logger.With("conn_id", c.ID, "addr", c.Addr)

	StartOutboundWriter(conn, c.Out, logger)
	reg.Connect(c)
	defer reg.Disconnect(c)

	limiter := rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.RateBurst)
	if opts.RatePerSecond <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	for {
		line, err := conn.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug("connection read ended", "error", err)
			}
			return
		}
		if line == "" {
			continue
		}
		line = truncateLine(line, opts.MaxLineLength)
		if !limiter.Allow() {
			reg.Notify(c, msgTooFast)
			continue
		}
		reg.Submit(c, command.ParseUser(line))
	}
}

// truncateLine cuts line to at most max bytes without splitting a rune.
func truncateLine(line string, max int) string {
	if max <= 0 || len(line) <= max {
		return line
	}
	n := max
	for n > 0 && !utf8.RuneStart(line[n]) {
		n--
	}
	return line[:n]
}
