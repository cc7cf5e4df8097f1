package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/spotui/internal/formatter"
	"github.com/desertthunder/spotui/internal/shared"
)

// errors with a user-facing explanation in [formatter.DescribeError]
var described = []error{
	shared.ErrNoActiveDevice,
	shared.ErrTokenExpired,
	shared.ErrNotAuthenticated,
	shared.ErrPremiumRequired,
	shared.ErrRateLimited,
	shared.ErrMissingCredentials,
}

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		stop()
		for _, target := range described {
			if errors.Is(err, target) {
				logger.Error(formatter.DescribeError(err), "error", err)
				os.Exit(1)
			}
		}
		logger.Error("application error", "error", err)
		os.Exit(1)
	}
	stop()
}
