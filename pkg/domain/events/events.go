// Package events defines the settlement events emitted after callback
// reconciliation and successful payouts. Post-payment side effects
// (project completion, notifications) subscribe to these instead of
// being called inline, so their failures are observable on their own.
package events

// Event is the marker interface for settlement events.
type Event interface {
	Type() string
}

// ChargeCompleted is emitted when a charge-result callback reports
// success. Metadata carries the flattened callback items (amount,
// receipt number, phone number).
type ChargeCompleted struct {
	MerchantRequestID string
	CheckoutRequestID string
	Metadata          map[string]any
}

func (ChargeCompleted) Type() string { return "settlement.charge_completed" }

// ChargeFailed is emitted when a charge-result callback reports a
// nonzero result code.
type ChargeFailed struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
}

func (ChargeFailed) Type() string { return "settlement.charge_failed" }

// PayoutReleased is emitted when a payout is acknowledged by the
// provider or confirmed by a payout-result callback.
type PayoutReleased struct {
	TransactionID  string
	ConversationID string
	ReceiptID      string
	ProjectID      string
}

func (PayoutReleased) Type() string { return "settlement.payout_released" }

// PayoutFailed is emitted when a payout-result callback reports a
// nonzero result code.
type PayoutFailed struct {
	ConversationID string
	ResultCode     int
	ResultDesc     string
}

func (PayoutFailed) Type() string { return "settlement.payout_failed" }
