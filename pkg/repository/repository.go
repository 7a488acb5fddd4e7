// Package repository defines the record-store ports the relay writes
// settlement state through. The hosted database behind them is an
// external collaborator; per-row update semantics are assumed.
package repository

import (
	"context"

	"github.com/mwendwa/payrelay/pkg/dto"
)

// Transaction is the transaction-record port. Records are addressed
// either by their own id or by a provider-issued correlation id.
type Transaction interface {
	// Get retrieves a transaction record by its id.
	Get(ctx context.Context, id string) (*dto.TransactionRead, error)

	// GetByConversationID retrieves a record by the provider
	// conversation id issued for its payout.
	GetByConversationID(ctx context.Context, conversationID string) (*dto.TransactionRead, error)

	// Update applies a partial update to a record by id.
	Update(ctx context.Context, id string, update dto.TransactionUpdate) error

	// UpdateByConversationID applies a partial update to the record
	// matching a provider conversation id.
	UpdateByConversationID(ctx context.Context, conversationID string, update dto.TransactionUpdate) error
}

// Project is the linked-project port used for the best-effort
// completion side effect after a payout.
type Project interface {
	// MarkCompleted transitions a project to completed.
	MarkCompleted(ctx context.Context, projectID string) error
}
