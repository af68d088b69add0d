package cli

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalHandler_CancelsContextAndRunsCallbacks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	handler := NewSignalHandler(cancel)

	var called atomic.Bool
	handler.OnShutdown(func() { called.Store(true) })

	handler.StartWithNotify(false)
	handler.simulateSignal()
	handler.Wait()

	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected context to be cancelled")
	}
	assert.True(t, called.Load())

	handler.Stop()
}

func TestSignalHandler_CallbackOrder(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	handler := NewSignalHandler(cancel)

	var order []int
	handler.OnShutdown(func() { order = append(order, 1) })
	handler.OnShutdown(func() { order = append(order, 2) })

	handler.StartWithNotify(false)
	handler.simulateSignal()
	handler.Wait()

	require.Equal(t, []int{1, 2}, order)
	handler.Stop()
}

func TestSignalHandler_StopWithoutSignal(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	handler := NewSignalHandler(cancel)
	handler.StartWithNotify(false)

	done := make(chan struct{})
	go func() {
		handler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestSignalHandler_StopIsIdempotent(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	handler := NewSignalHandler(cancel)
	handler.StartWithNotify(false)

	handler.Stop()
	handler.Stop()
}
