// Package main is the entry point for the runq CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/runq/cmd/runq/commands"
	"go.trai.ch/runq/internal/app"
	"go.trai.ch/runq/internal/core/domain"
	_ "go.trai.ch/runq/internal/wiring"
)

// tunableLogger is implemented by loggers whose destination and verbosity can change at runtime.
type tunableLogger interface {
	SetOutput(w io.Writer)
	SetLevel(level domain.LogLevel)
}

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Telemetry.Close() }, nil
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)
	if l, ok := components.Logger.(tunableLogger); ok {
		l.SetOutput(stderr)
		cli.SetVerboseHook(func() { l.SetLevel(domain.LogLevelDebug) })
	}

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		var exitErr *commands.ExitCodeError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		// zerr prints a report with metadata when using %+v
		_, _ = fmt.Fprintf(stderr, "%+v\n", err)
		return 1
	}
	return 0
}
