package daraja

import (
	"context"
	"strconv"

	"github.com/mwendwa/payrelay/pkg/provider"
)

const chargePath = "/mpesa/stkpush/v1/processrequest"

type chargePayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type chargeResult struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// Charge submits an STK push prompting the payer to authorize the
// payment on their device.
func (c *Client) Charge(ctx context.Context, req provider.ChargeRequest) (*provider.ChargeResponse, error) {
	password, timestamp := c.signedPassword()
	payload := chargePayload{
		BusinessShortCode: c.shortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            strconv.FormatInt(req.Amount, 10),
		PartyA:            req.Phone,
		PartyB:            c.shortCode,
		PhoneNumber:       req.Phone,
		CallBackURL:       c.callbackBaseURL + "/callback/charge",
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.TransactionDesc,
	}

	var result chargeResult
	if err := c.post(ctx, "stk_push", chargePath, payload, &result); err != nil {
		return nil, err
	}

	c.logger.Info("Charge submitted",
		"merchant_request_id", result.MerchantRequestID,
		"checkout_request_id", result.CheckoutRequestID,
		"response_code", result.ResponseCode,
	)
	return &provider.ChargeResponse{
		MerchantRequestID:   result.MerchantRequestID,
		CheckoutRequestID:   result.CheckoutRequestID,
		ResponseCode:        result.ResponseCode,
		ResponseDescription: result.ResponseDescription,
		CustomerMessage:     result.CustomerMessage,
	}, nil
}
