// Command reimburse computes travel reimbursements from trip length, miles
// driven and receipt totals.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/reimburse/internal/reimbursement"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes. Input errors are distinguished so scripts can tell bad
// arguments from configuration or runtime failures.
const (
	exitFailure    = 1
	exitInputError = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if reimbursement.KindOf(err) != "" {
		return exitInputError
	}
	return exitFailure
}
