package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/agenthands/homefeed/internal/app"
	"github.com/agenthands/homefeed/internal/core"
	"github.com/agenthands/homefeed/internal/core/model"
	"github.com/agenthands/homefeed/internal/server"
	"github.com/joho/godotenv"
)

const (
	exitOK         = 0
	exitStoreError = 1
	exitUsage      = 2
)

// feedApp is the slice of *app.App the commands use.
type feedApp interface {
	BuildFeed(ctx context.Context, handle string, topK int) (*model.Feed, error)
	HealthChecks() map[string]server.HealthChecker
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}

type opener func(ctx context.Context) (feedApp, error)

func openApp(ctx context.Context) (feedApp, error) {
	cfg, err := app.Bootstrap()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg, nil)
}

func main() {
	_ = godotenv.Load()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, openApp))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, open opener) int {
	cmd := newRootCmd(open)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, core.ErrUsage):
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, cmd.UsageString())
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitStoreError
	}
}
