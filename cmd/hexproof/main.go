// Command hexproof fetches MTGJSON, Scryfall and mtg-vectors resources
// through the shared rate-limited client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{out: os.Stdout, errOut: os.Stderr}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
