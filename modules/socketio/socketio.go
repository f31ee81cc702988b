// Package socketio provides socket.io client capabilities: fire-and-forget
// emits and emit-then-wait request/response exchanges.
package socketio

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/capscope/internal/ctxlog"
	"github.com/vk/capscope/internal/facade"
	"github.com/vk/capscope/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// defaultTimeout bounds each exchange when the call context carries no
// deadline of its own.
const defaultTimeout = 10 * time.Second

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value any
	err   error
}

// New builds the socketio implementation.
func New() facade.Impl {
	return facade.Impl{
		// emit connects, sends one event, and disconnects.
		"emit": func(ctx context.Context, rawURL, namespace, event string, data map[string]any) error {
			_, err := exchange(ctx, rawURL, namespace, event, data, "")
			return err
		},
		// request emits an event and waits for the first payload of the
		// named response event.
		"request": func(ctx context.Context, rawURL, namespace, emitEvent string, data map[string]any, onEvent string) (any, error) {
			if onEvent == "" {
				return nil, fmt.Errorf("request requires a response event name")
			}
			return exchange(ctx, rawURL, namespace, emitEvent, data, onEvent)
		},
	}
}

// exchange drives one connect/emit/[wait]/disconnect cycle. An empty onEvent
// means the exchange completes as soon as the emit has been sent.
func exchange(ctx context.Context, rawURL, namespace, emitEvent string, data map[string]any, onEvent string) (any, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL, "emitEvent", emitEvent, "onEvent", onEvent)
	logger.Debug("Socket.IO exchange started.")
	defer logger.Debug("Socket.IO exchange finished.")

	var isConnected atomic.Bool

	opCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	done := make(chan opResult, 1)

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected.", "sid", io.Id())
		io.Emit(emitEvent, data)
		if onEvent == "" {
			done <- opResult{}
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		done <- opResult{err: errs[0].(error)}
	})

	if onEvent != "" {
		io.On(types.EventName(onEvent), func(payload ...any) {
			var value any
			if len(payload) > 0 {
				value = payload[0]
			}
			done <- opResult{value: value}
		})
	}

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", onEvent)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}

// Register registers the implementation with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterImpl("socketio", &registry.RegisteredImpl{
		New:         func() any { return New() },
		Description: "Emits socket.io events and waits for responses.",
	})
}
