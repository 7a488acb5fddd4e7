package daraja

import (
	"context"
)

const queryPath = "/mpesa/stkpushquery/v1/query"

type queryPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

// QueryStatus fetches the provider's status payload for a checkout
// request id. The payload is returned raw; the provider's field set
// for this endpoint is not stable enough to type.
func (c *Client) QueryStatus(ctx context.Context, checkoutRequestID string) (map[string]any, error) {
	password, timestamp := c.signedPassword()
	payload := queryPayload{
		BusinessShortCode: c.shortCode,
		Password:          password,
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	var result map[string]any
	if err := c.post(ctx, "stk_query", queryPath, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}
