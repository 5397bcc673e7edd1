// Command healthcheck is the container liveness probe: one getMe round-trip
// against the Telegram Bot API using TELEGRAM_BOT_TOKEN. Exit 0 on success,
// 1 on any failure. It is wired as the Docker HEALTHCHECK command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"telegram-image-bot/internal/probe"
)

func main() {
	baseURL := flag.String("base-url", probe.DefaultBaseURL, "Telegram Bot API base URL")
	timeout := flag.Duration("timeout", probe.DefaultTimeout, "request timeout")
	flag.Parse()

	token := os.Getenv("TELEGRAM_BOT_TOKEN")

	checker := probe.New(*baseURL, *timeout)
	username, err := checker.Check(context.Background(), token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthcheck: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("ok: @%s\n", username)
}
