package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer    io.Writer
		name      string
		operation string
		wantOp    string
	}{
		{name: "with custom writer", writer: &bytes.Buffer{}, operation: "Import", wantOp: "Import"},
		{name: "with nil writer", writer: nil, operation: "", wantOp: "Operation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer, tt.operation)
			assert.NotNil(t, handler.writer)
			assert.Equal(t, tt.wantOp, handler.operation)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestHandleInterrupts_ParentCancel(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import")

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent, true)

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled initially")
	default:
	}

	cancel()

	assert.Eventually(t, handler.WasInterrupted, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return strings.Contains(output.String(), "have been kept")
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, strings.Count(output.String(), "Import interrupted!"))
}

func TestHandleInterrupts_StopIsSilent(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import")

	ctx := handler.HandleInterrupts(context.Background(), true)
	handler.Stop()
	handler.Stop()

	assert.Eventually(t, func() bool { return ctx.Err() != nil }, time.Second, 10*time.Millisecond)
	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}

func TestShowInterruptMessage(t *testing.T) {
	tests := []struct {
		name         string
		expected     []string
		notExpected  []string
		showProgress bool
	}{
		{
			name:         "with progress",
			showProgress: true,
			expected:     []string{"Import interrupted!", "have been kept"},
		},
		{
			name:         "without progress",
			showProgress: false,
			expected:     []string{"Import interrupted!"},
			notExpected:  []string{"have been kept"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			handler := &InterruptHandler{
				writer:       &output,
				operation:    "Import",
				showProgress: tt.showProgress,
			}

			handler.showInterruptMessage()

			for _, expected := range tt.expected {
				assert.Contains(t, output.String(), expected)
			}
			for _, notExpected := range tt.notExpected {
				assert.NotContains(t, output.String(), notExpected)
			}
		})
	}
}
