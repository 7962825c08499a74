package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// interruptContext returns a context that is cancelled when the process
// receives SIGINT or SIGTERM.
//
// Only the first signal is handled. Once it arrives the handler is removed,
// so a second signal terminates the process with the default behavior.
func interruptContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sig)
		select {
		case s := <-sig:
			fmt.Fprintf(os.Stderr, "\nReceived %s, cancelling. Interrupt again to terminate immediately.\n", s)
			cancel()
		case <-parent.Done():
			cancel()
		}
	}()

	return ctx
}
