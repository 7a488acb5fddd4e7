// Package eventbus defines the contract for dispatching settlement
// events to post-commit subscribers.
package eventbus

import (
	"context"

	"github.com/mwendwa/payrelay/pkg/domain/events"
)

// HandlerFunc handles a single settlement event. A handler error is
// the handler's own problem; it never fails the publish.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus publishes settlement events and registers subscribers for them.
type Bus interface {
	Publish(ctx context.Context, e events.Event) error
	Subscribe(eventType string, handler HandlerFunc)
}
