package payment

import (
	"context"
	"log/slog"

	"github.com/mwendwa/payrelay/pkg/domain/events"
	"github.com/mwendwa/payrelay/pkg/eventbus"
	"github.com/mwendwa/payrelay/pkg/repository"
)

// RegisterProjectCompletionHook subscribes the best-effort project
// completion side effect to payout releases. The hook runs after the
// transaction record is already released; its failure is logged by the
// bus and never rolls the release back.
func RegisterProjectCompletionHook(
	bus eventbus.Bus,
	projects repository.Project,
	logger *slog.Logger,
) {
	log := logger.With("hook", "project_completion")
	bus.Subscribe(events.PayoutReleased{}.Type(), func(ctx context.Context, e events.Event) error {
		released, ok := e.(events.PayoutReleased)
		if !ok || released.ProjectID == "" {
			return nil
		}
		if err := projects.MarkCompleted(ctx, released.ProjectID); err != nil {
			log.Error("Failed to complete project after payout",
				"project_id", released.ProjectID,
				"transaction_id", released.TransactionID,
				"error", err,
			)
			return err
		}
		log.Info("Project completed after payout",
			"project_id", released.ProjectID,
			"transaction_id", released.TransactionID,
		)
		return nil
	})
}
