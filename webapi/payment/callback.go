package payment

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mwendwa/payrelay/pkg/provider"
	paysvc "github.com/mwendwa/payrelay/pkg/service/payment"
)

// Callback endpoints acknowledge unconditionally: the provider retries
// any delivery not answered with a success envelope, so a malformed
// body or a failed internal update still gets the Accepted ack.

// ChargeCallback returns a Fiber handler for charge-result
// notifications.
func ChargeCallback(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cb provider.ChargeCallback
		if err := c.BodyParser(&cb); err != nil {
			log.Errorf("Malformed charge callback: %v", err)
			return ackJSON(c)
		}

		if err := svc.HandleChargeResult(c.Context(), cb); err != nil {
			log.Errorf("Charge callback reconciliation failed: %v", err)
		}
		return ackJSON(c)
	}
}

// PayoutResultCallback returns a Fiber handler for payout-result
// notifications.
func PayoutResultCallback(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cb provider.PayoutCallback
		if err := c.BodyParser(&cb); err != nil {
			log.Errorf("Malformed payout result callback: %v", err)
			return ackJSON(c)
		}

		if err := svc.HandlePayoutResult(c.Context(), cb); err != nil {
			log.Errorf("Payout callback reconciliation failed: %v", err)
		}
		return ackJSON(c)
	}
}

// PayoutTimeoutCallback returns a Fiber handler for payout-timeout
// notifications.
func PayoutTimeoutCallback(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cb provider.PayoutCallback
		if err := c.BodyParser(&cb); err != nil {
			log.Errorf("Malformed payout timeout callback: %v", err)
			return ackJSON(c)
		}

		if err := svc.HandlePayoutTimeout(c.Context(), cb); err != nil {
			log.Errorf("Payout timeout handling failed: %v", err)
		}
		return ackJSON(c)
	}
}

func ackJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(provider.AcceptedAck())
}
