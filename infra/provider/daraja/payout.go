package daraja

import (
	"context"
	"strconv"

	"github.com/mwendwa/payrelay/pkg/provider"
)

const payoutPath = "/mpesa/b2c/v1/paymentrequest"

type payoutPayload struct {
	OriginatorConversationID string `json:"OriginatorConversationID"`
	InitiatorName            string `json:"InitiatorName"`
	SecurityCredential       string `json:"SecurityCredential"`
	CommandID                string `json:"CommandID"`
	Amount                   string `json:"Amount"`
	PartyA                   string `json:"PartyA"`
	PartyB                   string `json:"PartyB"`
	Remarks                  string `json:"Remarks"`
	QueueTimeOutURL          string `json:"QueueTimeOutURL"`
	ResultURL                string `json:"ResultURL"`
	Occasion                 string `json:"Occasion"`
}

type payoutResult struct {
	ConversationID           string `json:"ConversationID"`
	OriginatorConversationID string `json:"OriginatorConversationID"`
	ResponseCode             string `json:"ResponseCode"`
	ResponseDescription      string `json:"ResponseDescription"`
}

// Payout submits a B2C disbursement. The caller supplies the
// originator conversation id as the idempotency token.
func (c *Client) Payout(ctx context.Context, req provider.PayoutRequest) (*provider.PayoutResponse, error) {
	payload := payoutPayload{
		OriginatorConversationID: req.OriginatorID,
		InitiatorName:            c.initiatorName,
		SecurityCredential:       c.securityCredential,
		CommandID:                "BusinessPayment",
		Amount:                   strconv.FormatInt(req.Amount, 10),
		PartyA:                   c.shortCode,
		PartyB:                   req.Phone,
		Remarks:                  req.Remarks,
		QueueTimeOutURL:          c.callbackBaseURL + "/callback/payout-timeout",
		ResultURL:                c.callbackBaseURL + "/callback/payout-result",
		Occasion:                 req.Occasion,
	}

	var result payoutResult
	if err := c.post(ctx, "b2c_payment", payoutPath, payload, &result); err != nil {
		return nil, err
	}

	c.logger.Info("Payout submitted",
		"conversation_id", result.ConversationID,
		"originator_conversation_id", result.OriginatorConversationID,
		"response_code", result.ResponseCode,
	)
	return &provider.PayoutResponse{
		ConversationID:           result.ConversationID,
		OriginatorConversationID: result.OriginatorConversationID,
		ResponseCode:             result.ResponseCode,
		ResponseDescription:      result.ResponseDescription,
	}, nil
}
