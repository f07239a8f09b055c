package cmdutil

import (
	"os"
	"os/signal"
	"syscall"
)

// InterruptChan returns a channel that is closed on the first SIGINT or SIGTERM.
// Every goroutine waiting on it is released at once.
func InterruptChan() <-chan struct{} {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	interruptChan := make(chan struct{})
	go func() {
		<-sigChan
		signal.Stop(sigChan)
		close(interruptChan)
	}()

	return interruptChan
}
