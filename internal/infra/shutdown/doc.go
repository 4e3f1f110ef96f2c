// Package shutdown runs cleanup hooks when podlink is asked to stop.
//
// Usage:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	err := h.Wait(ctx) // SIGINT, SIGTERM or ctx cancellation
package shutdown
