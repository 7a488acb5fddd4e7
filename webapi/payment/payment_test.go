package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	infraeventbus "github.com/mwendwa/payrelay/infra/eventbus"
	"github.com/mwendwa/payrelay/pkg/config"
	"github.com/mwendwa/payrelay/pkg/dto"
	"github.com/mwendwa/payrelay/pkg/provider"
	paysvc "github.com/mwendwa/payrelay/pkg/service/payment"
	"github.com/mwendwa/payrelay/pkg/testutils"
	"github.com/mwendwa/payrelay/webapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePayments counts provider calls so tests can assert nothing
// reached the provider.
type fakePayments struct {
	chargeCalls atomic.Int64
	queryCalls  atomic.Int64
	payoutCalls atomic.Int64
	chargeErr   error
}

func (f *fakePayments) Charge(context.Context, provider.ChargeRequest) (*provider.ChargeResponse, error) {
	f.chargeCalls.Add(1)
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	return &provider.ChargeResponse{
		MerchantRequestID:   "mr-1",
		CheckoutRequestID:   "co-1",
		ResponseCode:        "0",
		ResponseDescription: "Success",
		CustomerMessage:     "Success",
	}, nil
}

func (f *fakePayments) Payout(context.Context, provider.PayoutRequest) (*provider.PayoutResponse, error) {
	f.payoutCalls.Add(1)
	return &provider.PayoutResponse{
		ConversationID:           "conv-1",
		OriginatorConversationID: "orig-1",
		ResponseCode:             "0",
	}, nil
}

func (f *fakePayments) QueryStatus(context.Context, string) (map[string]any, error) {
	f.queryCalls.Add(1)
	return map[string]any{"ResultCode": "0"}, nil
}

type stubTransactionRepo struct {
	byConv    map[string]dto.TransactionUpdate
	updateErr error
}

func (s *stubTransactionRepo) Get(context.Context, string) (*dto.TransactionRead, error) {
	return nil, nil
}

func (s *stubTransactionRepo) GetByConversationID(context.Context, string) (*dto.TransactionRead, error) {
	return nil, nil
}

func (s *stubTransactionRepo) Update(context.Context, string, dto.TransactionUpdate) error {
	return s.updateErr
}

func (s *stubTransactionRepo) UpdateByConversationID(_ context.Context, conversationID string, update dto.TransactionUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.byConv == nil {
		s.byConv = map[string]dto.TransactionUpdate{}
	}
	s.byConv[conversationID] = update
	return nil
}

func testConfig() *config.App {
	return &config.App{
		RateLimit: &config.RateLimit{
			ChargeMax: 3,
			QueryMax:  4,
			Window:    60 * time.Second,
		},
	}
}

func newTestApp(payments *fakePayments, txRepo *stubTransactionRepo) *fiber.App {
	bus := infraeventbus.NewWithMemory(slog.Default())
	svc := paysvc.New(payments, txRepo, bus, nil, 0, slog.Default())
	app, chargeLimiter, queryLimiter := webapi.SetupApp(testConfig())
	Routes(app, svc, chargeLimiter, queryLimiter)
	return app
}

func TestCharge_MissingPhoneReturns400WithoutProviderCall(t *testing.T) {
	payments := &fakePayments{}
	app := newTestApp(payments, &stubTransactionRepo{})

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/charge", `{"amount":100}`)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int64(0), payments.chargeCalls.Load())
}

func TestCharge_ZeroAmountReturns400WithoutProviderCall(t *testing.T) {
	payments := &fakePayments{}
	app := newTestApp(payments, &stubTransactionRepo{})

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/charge",
		`{"phoneNumber":"0746221954","amount":0}`)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int64(0), payments.chargeCalls.Load())
}

func TestCharge_ReturnsProviderResponseUnmodified(t *testing.T) {
	payments := &fakePayments{}
	app := newTestApp(payments, &stubTransactionRepo{})

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/charge",
		`{"phoneNumber":"0746221954","amount":100,"accountReference":"order-42"}`)
	defer resp.Body.Close() //nolint:errcheck

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body provider.ChargeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "co-1", body.CheckoutRequestID)
	assert.Equal(t, "mr-1", body.MerchantRequestID)
}

func TestCharge_ProviderFailureReturns500WithProviderBody(t *testing.T) {
	payments := &fakePayments{
		chargeErr: &provider.CallError{
			Operation: "stk_push",
			Status:    http.StatusServiceUnavailable,
			Body:      `{"errorMessage":"Spike arrest violation"}`,
		},
	}
	app := newTestApp(payments, &stubTransactionRepo{})

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/charge",
		`{"phoneNumber":"0746221954","amount":100}`)
	defer resp.Body.Close() //nolint:errcheck

	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var pd webapi.ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Contains(t, pd.Detail, "Spike arrest violation")
}

func TestQuery_MissingCheckoutIDReturns400(t *testing.T) {
	payments := &fakePayments{}
	app := newTestApp(payments, &stubTransactionRepo{})

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/query", `{}`)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int64(0), payments.queryCalls.Load())
}

func TestQueryRateLimit_FifthRequestRejectedLocally(t *testing.T) {
	payments := &fakePayments{}
	app := newTestApp(payments, &stubTransactionRepo{})

	for i := 0; i < 4; i++ {
		resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/query",
			`{"checkoutRequestID":"co-1"}`)
		resp.Body.Close() //nolint:errcheck
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d should pass", i+1)
	}

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/query",
		`{"checkoutRequestID":"co-1"}`)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, int64(4), payments.queryCalls.Load(),
		"the rejected request must not reach the provider")
}

func TestChargeRateLimit_FourthRequestRejectedLocally(t *testing.T) {
	payments := &fakePayments{}
	app := newTestApp(payments, &stubTransactionRepo{})

	for i := 0; i < 3; i++ {
		resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/charge",
			`{"phoneNumber":"0746221954","amount":100}`)
		resp.Body.Close() //nolint:errcheck
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d should pass", i+1)
	}

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/charge",
		`{"phoneNumber":"0746221954","amount":100}`)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, int64(3), payments.chargeCalls.Load())
}

func TestValidatePhone(t *testing.T) {
	app := newTestApp(&fakePayments{}, &stubTransactionRepo{})

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/validate-phone",
		`{"phoneNumber":"0746221954"}`)
	defer resp.Body.Close() //nolint:errcheck

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body ValidatePhoneResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "0746221954", body.Original)
	assert.Equal(t, "254746221954", body.Formatted)
	assert.True(t, body.IsValid)
}

func TestValidatePhone_InvalidReturns400(t *testing.T) {
	app := newTestApp(&fakePayments{}, &stubTransactionRepo{})

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/validate-phone",
		`{"phoneNumber":"12ab"}`)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = testutils.MakeRequestWithApp(app, fiber.MethodPost, "/validate-phone", `{}`)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func assertAccepted(t *testing.T, resp *http.Response) {
	t.Helper()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ack provider.CallbackAck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.Equal(t, 0, ack.ResultCode)
	assert.Equal(t, "Accepted", ack.ResultDesc)
}

func TestChargeCallback_AlwaysAcknowledges(t *testing.T) {
	app := newTestApp(&fakePayments{}, &stubTransactionRepo{})

	// Well-formed success envelope.
	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/callback/charge",
		`{"Body":{"stkCallback":{"MerchantRequestID":"mr-1","CheckoutRequestID":"co-1","ResultCode":0,"ResultDesc":"ok","CallbackMetadata":{"Item":[{"Name":"Amount","Value":100}]}}}}`)
	assertAccepted(t, resp)
	resp.Body.Close() //nolint:errcheck

	// Malformed body still gets the ack.
	resp = testutils.MakeRequestWithApp(app, fiber.MethodPost, "/callback/charge", `not json`)
	assertAccepted(t, resp)
	resp.Body.Close() //nolint:errcheck
}

func TestPayoutResultCallback_UpdatesRecordAndAcknowledges(t *testing.T) {
	txRepo := &stubTransactionRepo{}
	app := newTestApp(&fakePayments{}, txRepo)

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/callback/payout-result",
		`{"Result":{"ResultCode":0,"ResultDesc":"ok","ConversationID":"conv-7","TransactionID":"LGR019G3J2","ResultParameters":{"ResultParameter":[{"Key":"TransactionReceiptNumber","Value":"LGR019G3J2"}]}}}`)
	assertAccepted(t, resp)
	resp.Body.Close() //nolint:errcheck

	update, ok := txRepo.byConv["conv-7"]
	require.True(t, ok)
	require.NotNil(t, update.ProviderReceiptID)
	assert.Equal(t, "LGR019G3J2", *update.ProviderReceiptID)
}

func TestPayoutResultCallback_AcknowledgesEvenWhenStoreFails(t *testing.T) {
	txRepo := &stubTransactionRepo{updateErr: errors.New("store down")}
	app := newTestApp(&fakePayments{}, txRepo)

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/callback/payout-result",
		`{"Result":{"ResultCode":0,"ResultDesc":"ok","ConversationID":"conv-7"}}`)
	assertAccepted(t, resp)
	resp.Body.Close() //nolint:errcheck
}

func TestPayoutTimeoutCallback_Acknowledges(t *testing.T) {
	app := newTestApp(&fakePayments{}, &stubTransactionRepo{})

	resp := testutils.MakeRequestWithApp(app, fiber.MethodPost, "/callback/payout-timeout",
		`{"Result":{"ResultType":1,"ResultCode":1,"ResultDesc":"timeout","ConversationID":"conv-7"}}`)
	assertAccepted(t, resp)
	resp.Body.Close() //nolint:errcheck
}
