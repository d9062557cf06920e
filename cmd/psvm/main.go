package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/paritytech/psvm/internal/cli"
	psvmerrors "github.com/paritytech/psvm/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := cli.ExitCode(err)
		switch code {
		case cli.ExitCanceled:
		case cli.ExitMismatch:
			fmt.Fprintln(os.Stderr, psvmerrors.UserMessage(err))
		default:
			fmt.Fprintln(os.Stderr, "Error: "+psvmerrors.UserMessage(err))
		}
		os.Exit(code)
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
