// Command printbroker-admin manages the destination/password registry of a
// broker's configured store backend.
//
// Usage:
//
//	printbroker-admin add -destination NAME -password SECRET
//	printbroker-admin remove -destination NAME -password SECRET
//	printbroker-admin list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/backend"
	"github.com/ericfisherdev/printbroker/internal/config"
	"github.com/ericfisherdev/printbroker/internal/domain/model"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

var errUsage = errors.New("usage: printbroker-admin add|remove|list [flags]")

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = run(ctx, os.Args[1:], os.Stdout, stores.Credentials)
	if closeErr := stores.Close(); closeErr != nil {
		logger.Error("error closing store", "error", closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run executes one admin subcommand against creds.
func run(ctx context.Context, args []string, out io.Writer, creds driven.CredentialStore) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "add":
		dest, pass, err := parsePair("add", args[1:])
		if err != nil {
			return err
		}
		if err := creds.Add(ctx, model.Credential{Destination: dest, Password: pass, CreatedAt: time.Now().UTC()}); err != nil {
			return err
		}
		fmt.Fprintf(out, "added credential for %s\n", dest)
		return nil

	case "remove":
		dest, pass, err := parsePair("remove", args[1:])
		if err != nil {
			return err
		}
		if err := creds.Remove(ctx, dest, pass); err != nil {
			return err
		}
		fmt.Fprintf(out, "removed credential for %s\n", dest)
		return nil

	case "list":
		list, err := creds.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DESTINATION\tCREATED")
		for _, c := range list {
			fmt.Fprintf(tw, "%s\t%s\n", c.Destination, c.CreatedAt.UTC().Format(time.RFC3339))
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

// parsePair parses the -destination and -password flags of a subcommand.
func parsePair(name string, args []string) (string, string, error) {
	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	dest := fset.String("destination", "", "destination identifier")
	pass := fset.String("password", "", "destination password")

	if err := fset.Parse(args); err != nil {
		return "", "", fmt.Errorf("%s: %w: %w", name, errUsage, err)
	}
	if *dest == "" || *pass == "" {
		return "", "", fmt.Errorf("%s: -destination and -password are required: %w", name, errUsage)
	}
	return *dest, *pass, nil
}
