package dto

import (
	"time"

	"github.com/mwendwa/payrelay/pkg/domain"
)

// TransactionRead is a read-optimized DTO for transaction records. The
// record store owns the schema; this is the slice of it the relay
// reads during reconciliation.
type TransactionRead struct {
	ID                string
	Status            domain.Status
	Amount            int64
	Phone             string
	CheckoutRequestID string
	ConversationID    string
	ProviderReceiptID string
	ProjectID         string
	CreatedAt         time.Time
}

// TransactionUpdate updates one or more fields of a transaction
// record. Nil fields are left untouched.
type TransactionUpdate struct {
	Status            *domain.Status
	ConversationID    *string
	ProviderReceiptID *string
	ResultCode        *int
	ResultDesc        *string
}
