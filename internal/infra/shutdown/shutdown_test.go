package shutdown

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"
)

func TestNewHandler_DefaultTimeout(t *testing.T) {
	if h := NewHandler(0); h.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", h.timeout, DefaultTimeout)
	}
}

func TestHandler_HookOrder(t *testing.T) {
	h := NewHandler(time.Second)

	var order []int
	for i := 1; i <= 3; i++ {
		h.OnShutdown(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Errorf("order = %v, want [3 2 1]", order)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done() should be closed after Shutdown()")
	}
}

func TestHandler_ShutdownOnce(t *testing.T) {
	h := NewHandler(time.Second)
	calls := 0
	h.OnShutdown(func(context.Context) error { calls++; return nil })

	h.Shutdown()
	h.Shutdown()
	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
}

func TestHandler_JoinsErrors(t *testing.T) {
	h := NewHandler(time.Second)
	errA := errors.New("a")
	errB := errors.New("b")
	h.OnShutdown(func(context.Context) error { return errA })
	h.OnShutdown(func(context.Context) error { return nil })
	h.OnShutdown(func(context.Context) error { return errB })

	err := h.Shutdown()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Shutdown() error = %v, want both hook errors", err)
	}
}

func TestHandler_HookDeadline(t *testing.T) {
	h := NewHandler(50 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	err := h.Shutdown()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() error = %v, want deadline exceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Error("hook deadline not enforced")
	}
}

func TestHandler_WaitContext(t *testing.T) {
	h := NewHandler(time.Second)
	ran := false
	h.OnShutdown(func(context.Context) error { ran = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if !ran {
		t.Error("hook did not run after context cancellation")
	}
}

func TestHandler_WaitSignal(t *testing.T) {
	h := NewHandler(time.Second)
	h.signals = append(h.signals[:0], syscall.SIGUSR1)

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not return after signal")
	}
}
