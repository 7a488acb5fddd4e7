package provider

// Asynchronous callback envelopes as the provider delivers them. The
// provider requires a 2xx-equivalent acknowledgment for every
// delivery, whatever happens internally.

// ChargeCallback is the envelope posted after a push-to-pay prompt
// resolves on the payer's device.
type ChargeCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []MetadataItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// MetadataItem is one key/value entry of a charge callback's metadata.
type MetadataItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value,omitempty"`
}

// Metadata flattens the callback's metadata items into a map.
func (c *ChargeCallback) Metadata() map[string]any {
	items := c.Body.StkCallback.CallbackMetadata.Item
	flat := make(map[string]any, len(items))
	for _, item := range items {
		flat[item.Name] = item.Value
	}
	return flat
}

// PayoutCallback is the envelope posted with the final result of a
// B2C disbursement, and also the shape of the timeout notification.
type PayoutCallback struct {
	Result struct {
		ResultType               int    `json:"ResultType"`
		ResultCode               int    `json:"ResultCode"`
		ResultDesc               string `json:"ResultDesc"`
		OriginatorConversationID string `json:"OriginatorConversationID"`
		ConversationID           string `json:"ConversationID"`
		TransactionID            string `json:"TransactionID"`
		ResultParameters         struct {
			ResultParameter []ResultParameter `json:"ResultParameter"`
		} `json:"ResultParameters"`
	} `json:"Result"`
}

// ResultParameter is one key/value entry of a payout callback.
type ResultParameter struct {
	Key   string `json:"Key"`
	Value any    `json:"Value,omitempty"`
}

// Parameters flattens the callback's result parameters into a map.
func (c *PayoutCallback) Parameters() map[string]any {
	params := c.Result.ResultParameters.ResultParameter
	flat := make(map[string]any, len(params))
	for _, p := range params {
		flat[p.Key] = p.Value
	}
	return flat
}

// CallbackAck is the unconditional acknowledgment returned to the
// provider for every callback delivery.
type CallbackAck struct {
	ResultCode int    `json:"resultCode"`
	ResultDesc string `json:"resultDesc"`
}

// AcceptedAck is the acknowledgment every callback endpoint returns.
func AcceptedAck() CallbackAck {
	return CallbackAck{ResultCode: 0, ResultDesc: "Accepted"}
}
