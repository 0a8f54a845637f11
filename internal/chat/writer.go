package chat

import "log/slog"

// StartOutboundWriter drains out into conn and closes conn once out is
// closed or a write fails.
func StartOutboundWriter(conn LineConn, out <-chan string, logger *slog.Logger) {
	go func() {
		defer conn.Close()
		for msg := range out {
			// Best-effort. If the connection breaks, just stop the writer.
			if err := conn.WriteLine(msg); err != nil {
				logger.Debug("outbound write failed", "error", err)
				return
			}
		}
	}()
}
