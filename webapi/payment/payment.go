// Package payment exposes the relay's HTTP surface: charge, query,
// payout, phone validation and the provider callback endpoints.
package payment

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mwendwa/payrelay/pkg/phone"
	paysvc "github.com/mwendwa/payrelay/pkg/service/payment"
	"github.com/mwendwa/payrelay/webapi"
)

// Routes registers HTTP routes for payment operations. chargeLimiter
// and queryLimiter cap those endpoints per source IP below the
// provider's published ceilings.
func Routes(
	app *fiber.App,
	svc *paysvc.Service,
	chargeLimiter fiber.Handler,
	queryLimiter fiber.Handler,
) {
	app.Post("/charge", chargeLimiter, Charge(svc))
	app.Post("/query", queryLimiter, Query(svc))
	app.Post("/payout", Payout(svc))
	app.Post("/validate-phone", ValidatePhone())

	app.Post("/callback/charge", ChargeCallback(svc))
	app.Post("/callback/payout-result", PayoutResultCallback(svc))
	app.Post("/callback/payout-timeout", PayoutTimeoutCallback(svc))
}

// Charge returns a Fiber handler that submits a push-to-pay prompt.
func Charge(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := webapi.BindAndValidate[ChargeRequest](c)
		if err != nil {
			return nil
		}

		resp, err := svc.Charge(c.Context(), paysvc.ChargeCommand{
			Phone:            input.PhoneNumber,
			Amount:           input.Amount,
			AccountReference: input.AccountReference,
			TransactionDesc:  input.TransactionDesc,
		})
		if err != nil {
			log.Errorf("Charge failed: %v", err)
			return webapi.ErrorResponseJSON(c, webapi.ErrorToStatusCode(err), "Charge failed", webapi.ErrorDetail(err))
		}

		return SuccessJSON(c, resp)
	}
}

// Query returns a Fiber handler that fetches the provider's raw status
// payload for a checkout request id.
func Query(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := webapi.BindAndValidate[QueryRequest](c)
		if err != nil {
			return nil
		}

		status, err := svc.QueryStatus(c.Context(), input.CheckoutRequestID)
		if err != nil {
			log.Errorf("Status query failed: %v", err)
			return webapi.ErrorResponseJSON(c, webapi.ErrorToStatusCode(err), "Status query failed", webapi.ErrorDetail(err))
		}

		return SuccessJSON(c, status)
	}
}

// Payout returns a Fiber handler that submits a B2C disbursement.
func Payout(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := webapi.BindAndValidate[PayoutRequest](c)
		if err != nil {
			return nil
		}

		resp, err := svc.Payout(c.Context(), paysvc.PayoutCommand{
			Phone:          input.PhoneNumber,
			Amount:         input.Amount,
			Remarks:        input.Remarks,
			Occasion:       input.Occasion,
			TransactionID:  input.Transaction,
			FinalProjectID: input.FinalProjectID,
		})
		if err != nil {
			log.Errorf("Payout failed: %v", err)
			return webapi.ErrorResponseJSON(c, webapi.ErrorToStatusCode(err), "Payout failed", webapi.ErrorDetail(err))
		}

		return SuccessJSON(c, resp)
	}
}

// ValidatePhone returns a Fiber handler that normalizes a phone number
// and reports whether the result is a valid MSISDN.
func ValidatePhone() fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := webapi.BindAndValidate[ValidatePhoneRequest](c)
		if err != nil {
			return nil
		}
		if input.PhoneNumber == "" {
			return webapi.ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", "phoneNumber is required")
		}

		formatted := phone.Normalize(input.PhoneNumber)
		valid := phone.IsValid(formatted)
		resp := ValidatePhoneResponse{
			Original:  input.PhoneNumber,
			Formatted: formatted,
			IsValid:   valid,
		}
		if !valid {
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return c.JSON(resp)
	}
}

// SuccessJSON writes a raw success payload. Provider acknowledgments
// are returned to the caller unmodified rather than wrapped.
func SuccessJSON(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(data)
}
