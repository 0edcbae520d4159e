// Command adminctl manages the portfolio admin API from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/adminkit/logger"
	"github.com/kbukum/adminkit/mutation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	if closeErr := a.close(context.Background()); closeErr != nil {
		logger.Get("adminctl").Warn("shutdown failed", logger.ErrorFields("close", closeErr))
	}
	stop()

	if err != nil {
		var merr *mutation.Error
		if !errors.As(err, &merr) || !a.notifies() {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
