package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/andy6609/chatrouter/internal/client"
)

type stdoutDisplay struct{}

func (stdoutDisplay) Display(line string) { fmt.Println("> " + line) }

func main() {
	host := pflag.String("host", "localhost", "chat server host")
	port := pflag.Int("port", 5555, "chat server port")
	handle := pflag.String("login", "", "log in with this handle on startup")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	c := client.New(*host, *port, stdoutDisplay{}, logger)
	if *handle != "" {
		c.HandleInput("#login " + *handle)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if quit := c.HandleInput(scanner.Text()); quit {
			os.Exit(0)
		}
	}
	c.HandleInput("#quit")
}
