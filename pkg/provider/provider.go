// Package provider defines the ports the relay uses to talk to the
// mobile-money provider: a token source and the payment operations.
package provider

import "context"

// TokenSource yields a valid provider access token. Implementations
// are safe for concurrent use; concurrent callers during a refresh
// share a single acquisition.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// ChargeRequest is a push-to-pay (STK push) submission. Phone is a
// normalized 254-prefixed MSISDN and Amount is in whole shillings.
type ChargeRequest struct {
	Phone            string
	Amount           int64
	AccountReference string
	TransactionDesc  string
}

// ChargeResponse carries the provider's acknowledgment of a charge
// submission, returned to the caller unmodified.
type ChargeResponse struct {
	MerchantRequestID   string `json:"merchantRequestID"`
	CheckoutRequestID   string `json:"checkoutRequestID"`
	ResponseCode        string `json:"responseCode"`
	ResponseDescription string `json:"responseDescription"`
	CustomerMessage     string `json:"customerMessage"`
}

// PayoutRequest is a business-to-customer disbursement submission.
// OriginatorID is the caller-supplied idempotency token.
type PayoutRequest struct {
	Phone        string
	Amount       int64
	Remarks      string
	Occasion     string
	OriginatorID string
}

// PayoutResponse carries the provider's acknowledgment of a payout
// submission.
type PayoutResponse struct {
	ConversationID           string `json:"conversationID"`
	OriginatorConversationID string `json:"originatorConversationID"`
	ResponseCode             string `json:"responseCode"`
	ResponseDescription      string `json:"responseDescription"`
}

// Payments is the outbound payment port backed by the provider API.
type Payments interface {
	// Charge submits a push-to-pay prompt to the payer's device.
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)

	// Payout disburses funds from the service account to a recipient.
	Payout(ctx context.Context, req PayoutRequest) (*PayoutResponse, error)

	// QueryStatus fetches the provider's raw status payload for a
	// checkout request id.
	QueryStatus(ctx context.Context, checkoutRequestID string) (map[string]any, error)
}
