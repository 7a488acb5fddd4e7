// Package payment provides the relay's orchestration: charge and
// payout submission, status queries, and reconciliation of the
// provider's asynchronous callbacks against the record store.
package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mwendwa/payrelay/pkg/cache"
	"github.com/mwendwa/payrelay/pkg/domain"
	"github.com/mwendwa/payrelay/pkg/domain/events"
	"github.com/mwendwa/payrelay/pkg/dto"
	"github.com/mwendwa/payrelay/pkg/eventbus"
	"github.com/mwendwa/payrelay/pkg/phone"
	"github.com/mwendwa/payrelay/pkg/provider"
	"github.com/mwendwa/payrelay/pkg/repository"
)

const (
	// MinChargeAmount is the provider minimum for a push-to-pay
	// prompt, in whole shillings.
	MinChargeAmount = 1
	// MinPayoutAmount is the provider minimum for a B2C
	// disbursement.
	MinPayoutAmount = 10

	// TransactionReceiptKey is the payout callback parameter holding
	// the provider's transaction id.
	TransactionReceiptKey = "TransactionReceiptNumber"
)

// Service orchestrates payment operations against the provider and
// the record store.
type Service struct {
	payments     provider.Payments
	transactions repository.Transaction
	bus          eventbus.Bus
	statusCache  cache.StatusCache
	statusTTL    time.Duration
	logger       *slog.Logger
}

// New creates a payment Service. statusCache may be nil to disable
// status-query caching.
func New(
	payments provider.Payments,
	transactions repository.Transaction,
	bus eventbus.Bus,
	statusCache cache.StatusCache,
	statusTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		payments:     payments,
		transactions: transactions,
		bus:          bus,
		statusCache:  statusCache,
		statusTTL:    statusTTL,
		logger:       logger.With("service", "payment"),
	}
}

// ChargeCommand is a request to prompt a payer for payment.
type ChargeCommand struct {
	Phone            string
	Amount           int64
	AccountReference string
	TransactionDesc  string
}

// Charge validates and submits a push-to-pay prompt. Validation
// failures are terminal and issue no provider call; the provider's
// acknowledgment is returned unmodified.
func (s *Service) Charge(ctx context.Context, cmd ChargeCommand) (*provider.ChargeResponse, error) {
	msisdn, err := normalizePhone(cmd.Phone)
	if err != nil {
		return nil, err
	}
	if cmd.Amount < MinChargeAmount {
		return nil, domain.ErrAmountTooLow
	}

	resp, err := s.payments.Charge(ctx, provider.ChargeRequest{
		Phone:            msisdn,
		Amount:           cmd.Amount,
		AccountReference: cmd.AccountReference,
		TransactionDesc:  cmd.TransactionDesc,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Charge initiated",
		"phone", msisdn,
		"amount", cmd.Amount,
		"checkout_request_id", resp.CheckoutRequestID,
	)
	return resp, nil
}

// QueryStatus fetches the provider's raw status payload for a checkout
// request id, serving repeat polls from the status cache.
func (s *Service) QueryStatus(ctx context.Context, checkoutRequestID string) (map[string]any, error) {
	if checkoutRequestID == "" {
		return nil, domain.ErrCheckoutIDRequired
	}

	if s.statusCache != nil {
		if cached, err := s.statusCache.Get(checkoutRequestID); err == nil && cached != nil {
			s.logger.Debug("Status cache hit", "checkout_request_id", checkoutRequestID)
			return cached, nil
		}
	}

	status, err := s.payments.QueryStatus(ctx, checkoutRequestID)
	if err != nil {
		return nil, err
	}

	if s.statusCache != nil {
		if err := s.statusCache.Set(checkoutRequestID, status, s.statusTTL); err != nil {
			s.logger.Error("Status cache set failed", "checkout_request_id", checkoutRequestID, "error", err)
		}
	}
	return status, nil
}

// PayoutCommand is a request to disburse funds to a recipient against
// an existing transaction record.
type PayoutCommand struct {
	Phone          string
	Amount         int64
	Remarks        string
	Occasion       string
	TransactionID  string
	FinalProjectID string
}

// Payout validates and submits a B2C disbursement. On provider
// acknowledgment the referenced transaction is marked released with
// the conversation id, and a PayoutReleased event is published for the
// post-commit hooks. The record write and the hooks are best-effort:
// their failure is logged, not returned, because the provider has
// already accepted the disbursement.
func (s *Service) Payout(ctx context.Context, cmd PayoutCommand) (*provider.PayoutResponse, error) {
	msisdn, err := normalizePhone(cmd.Phone)
	if err != nil {
		return nil, err
	}
	if cmd.Amount < MinPayoutAmount {
		return nil, domain.ErrAmountTooLow
	}
	if cmd.TransactionID == "" {
		return nil, domain.ErrTransactionRequired
	}

	resp, err := s.payments.Payout(ctx, provider.PayoutRequest{
		Phone:        msisdn,
		Amount:       cmd.Amount,
		Remarks:      cmd.Remarks,
		Occasion:     cmd.Occasion,
		OriginatorID: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(
		"transaction_id", cmd.TransactionID,
		"conversation_id", resp.ConversationID,
	)

	released := domain.StatusReleased
	update := dto.TransactionUpdate{
		Status:         &released,
		ConversationID: &resp.ConversationID,
	}
	if err := s.transactions.Update(ctx, cmd.TransactionID, update); err != nil {
		logger.Error("Failed to mark transaction released after payout", "error", err)
	}

	s.publish(ctx, events.PayoutReleased{
		TransactionID:  cmd.TransactionID,
		ConversationID: resp.ConversationID,
		ProjectID:      cmd.FinalProjectID,
	})

	logger.Info("Payout submitted", "amount", cmd.Amount)
	return resp, nil
}

// HandleChargeResult reconciles a charge-result callback. Success is
// logged and published for subscribers; no record mutation happens
// here, the record was created by the collaborator before the charge.
func (s *Service) HandleChargeResult(ctx context.Context, cb provider.ChargeCallback) error {
	stk := cb.Body.StkCallback
	logger := s.logger.With(
		"merchant_request_id", stk.MerchantRequestID,
		"checkout_request_id", stk.CheckoutRequestID,
		"result_code", stk.ResultCode,
	)

	if stk.ResultCode != 0 {
		logger.Info("Charge failed", "result_desc", stk.ResultDesc)
		s.publish(ctx, events.ChargeFailed{
			MerchantRequestID: stk.MerchantRequestID,
			CheckoutRequestID: stk.CheckoutRequestID,
			ResultCode:        stk.ResultCode,
			ResultDesc:        stk.ResultDesc,
		})
		return nil
	}

	meta := cb.Metadata()
	logger.Info("Charge completed",
		"amount", meta["Amount"],
		"receipt", meta["MpesaReceiptNumber"],
		"phone", meta["PhoneNumber"],
	)
	s.publish(ctx, events.ChargeCompleted{
		MerchantRequestID: stk.MerchantRequestID,
		CheckoutRequestID: stk.CheckoutRequestID,
		Metadata:          meta,
	})
	return nil
}

// HandlePayoutResult reconciles a payout-result callback against the
// record matching its conversation id: released with the provider's
// transaction id on success, failed with the code and description
// otherwise.
func (s *Service) HandlePayoutResult(ctx context.Context, cb provider.PayoutCallback) error {
	result := cb.Result
	logger := s.logger.With(
		"conversation_id", result.ConversationID,
		"result_code", result.ResultCode,
	)

	if result.ResultCode != 0 {
		failed := domain.StatusFailed
		update := dto.TransactionUpdate{
			Status:     &failed,
			ResultCode: &result.ResultCode,
			ResultDesc: &result.ResultDesc,
		}
		if err := s.transactions.UpdateByConversationID(ctx, result.ConversationID, update); err != nil {
			logger.Error("Failed to mark transaction failed", "error", err)
			return err
		}
		logger.Info("Payout failed", "result_desc", result.ResultDesc)
		s.publish(ctx, events.PayoutFailed{
			ConversationID: result.ConversationID,
			ResultCode:     result.ResultCode,
			ResultDesc:     result.ResultDesc,
		})
		return nil
	}

	params := cb.Parameters()
	receipt := result.TransactionID
	if r, ok := params[TransactionReceiptKey].(string); ok && r != "" {
		receipt = r
	}

	released := domain.StatusReleased
	update := dto.TransactionUpdate{
		Status:            &released,
		ProviderReceiptID: &receipt,
		ResultCode:        &result.ResultCode,
		ResultDesc:        &result.ResultDesc,
	}
	if err := s.transactions.UpdateByConversationID(ctx, result.ConversationID, update); err != nil {
		logger.Error("Failed to mark transaction released", "error", err)
		return err
	}

	logger.Info("Payout released", "receipt", receipt)
	s.publish(ctx, events.PayoutReleased{
		ConversationID: result.ConversationID,
		ReceiptID:      receipt,
	})
	return nil
}

// HandlePayoutTimeout acknowledges a payout-timeout notification.
// No reconciliation is mandated for timeouts; the final result still
// arrives on the result URL.
func (s *Service) HandlePayoutTimeout(ctx context.Context, cb provider.PayoutCallback) error {
	s.logger.Warn("Payout timed out in the provider queue",
		"conversation_id", cb.Result.ConversationID,
		"originator_conversation_id", cb.Result.OriginatorConversationID,
	)
	return nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		s.logger.Error("Failed to publish settlement event", "event_type", e.Type(), "error", err)
	}
}

func normalizePhone(raw string) (string, error) {
	if raw == "" {
		return "", domain.ErrPhoneRequired
	}
	msisdn := phone.Normalize(raw)
	if !phone.IsValid(msisdn) {
		return "", domain.ErrInvalidPhone
	}
	return msisdn, nil
}
