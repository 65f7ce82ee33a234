package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels long-running commands on SIGINT/SIGTERM and tells
// the user what was kept.
type InterruptHandler struct {
	writer       io.Writer
	done         chan struct{}
	operation    string
	interrupted  bool
	showProgress bool
	mu           sync.Mutex
	stopOnce     sync.Once
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer, operation string) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	if operation == "" {
		operation = "Operation"
	}
	return &InterruptHandler{
		writer:    writer,
		operation: operation,
		done:      make(chan struct{}),
	}
}

// HandleInterrupts returns a context that is canceled on a signal. Canceling
// the parent context counts as an interrupt too. Call Stop once the work
// finished normally.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, showProgress bool) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.showProgress = showProgress

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			h.markInterrupted()
			cancel()
		case <-ctx.Done():
			h.markInterrupted()
		case <-h.done:
			cancel()
		}
	}()

	return ctx
}

// Stop releases the signal handler without reporting an interrupt.
func (h *InterruptHandler) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *InterruptHandler) markInterrupted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.interrupted {
		return
	}
	h.interrupted = true
	h.showInterruptMessage()
}

func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning(h.operation+" interrupted!")
	if h.showProgress {
		msg += "\n" + FormatInfo("Transactions saved before the interrupt have been kept.")
	}
	msg += "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
