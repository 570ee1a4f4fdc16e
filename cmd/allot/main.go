// Command allot submits a file of committee/portfolio proposals for a
// conference, one participant at a time, the way the organiser dashboard does.
//
//	allot -api http://localhost -conference <id> -login organiser@example.org -file proposals.json
//
// The password is read from ALLOT_PASSWORD.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		slog.Error("allotment failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cmd, err := newCommand(opts)
	if err != nil {
		return err
	}
	return cmd.execute(ctx, out)
}
