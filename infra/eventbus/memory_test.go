package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mwendwa/payrelay/pkg/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEventBus_PublishDispatchesToSubscribers(t *testing.T) {
	bus := NewWithMemory(slog.Default())

	var seen []events.Event
	bus.Subscribe(events.PayoutReleased{}.Type(), func(_ context.Context, e events.Event) error {
		seen = append(seen, e)
		return nil
	})

	e := events.PayoutReleased{TransactionID: "tx-1", ConversationID: "AG_2024_7"}
	require.NoError(t, bus.Publish(context.Background(), e))

	require.Len(t, seen, 1)
	assert.Equal(t, e, seen[0])
	assert.Equal(t, []events.Event{e}, bus.Published())
}

func TestMemoryEventBus_HandlerErrorIsSwallowed(t *testing.T) {
	bus := NewWithMemory(slog.Default())

	bus.Subscribe(events.PayoutFailed{}.Type(), func(context.Context, events.Event) error {
		return errors.New("hook failure")
	})

	err := bus.Publish(context.Background(), events.PayoutFailed{ConversationID: "AG_2024_7"})
	require.NoError(t, err)
}

func TestMemoryEventBus_TypeIsolation(t *testing.T) {
	bus := NewWithMemory(slog.Default())

	var calls int
	bus.Subscribe(events.ChargeCompleted{}.Type(), func(context.Context, events.Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), events.ChargeFailed{CheckoutRequestID: "co-1"}))
	assert.Zero(t, calls)

	require.NoError(t, bus.Publish(context.Background(), events.ChargeCompleted{CheckoutRequestID: "co-1"}))
	assert.Equal(t, 1, calls)
}

func TestMemoryEventBus_ClearPublished(t *testing.T) {
	bus := NewWithMemory(slog.Default())

	require.NoError(t, bus.Publish(context.Background(), events.ChargeCompleted{}))
	require.Len(t, bus.Published(), 1)

	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}
