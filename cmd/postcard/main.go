// Command postcard asks a running postcard service for a card and writes it
// to disk.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dmorgan81/postcard/internal/client"
	"github.com/dmorgan81/postcard/internal/log"
)

func main() {
	var (
		server  = flag.String("server", "http://localhost:3000", "postcard service URL")
		name    = flag.String("name", "", "recipient name")
		wish    = flag.String("wish", "", "gift or wish to depict")
		message = flag.String("message", "", "signature line")
		seed    = flag.Int64("seed", -1, "generation seed, negative for random")
		count   = flag.Int("n", 1, "number of cards to roll; each replaces the previous")
		out     = flag.String("out", ".", "directory to write the card to")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	ctx := log.NewContext(context.Background(), log.New(os.Stderr, level))
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if err := run(ctx, client.New(*server, nil), client.NewDisplay(*out), *count, client.Form{
		Name:    *name,
		Wish:    *wish,
		Message: *message,
		Seed:    seedFlag(*seed),
	}); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, display *client.Display, count int, form client.Form) error {
	for i := 0; i < max(count, 1); i++ {
		card, err := c.Generate(ctx, form)
		if err != nil {
			return err
		}
		path, err := display.Show(card)
		if err != nil {
			return err
		}
		fmt.Printf("%s\tseed=%d\n", path, card.Seed)
		// Later rolls pick fresh seeds.
		form.Seed = nil
	}
	return nil
}

func seedFlag(v int64) *int64 {
	if v < 0 {
		return nil
	}
	return &v
}

func describe(err error) string {
	var unreachable *client.UnreachableError
	if errors.As(err, &unreachable) {
		return "Could not connect to server. Please verify the backend is running."
	}
	return "Error: " + err.Error()
}
