package payment

// ChargeRequest is the inbound body for POST /charge.
type ChargeRequest struct {
	PhoneNumber      string `json:"phoneNumber"`
	Amount           int64  `json:"amount"`
	AccountReference string `json:"accountReference"`
	TransactionDesc  string `json:"transactionDesc"`
}

// QueryRequest is the inbound body for POST /query.
type QueryRequest struct {
	CheckoutRequestID string `json:"checkoutRequestID"`
}

// PayoutRequest is the inbound body for POST /payout.
type PayoutRequest struct {
	PhoneNumber    string `json:"phoneNumber"`
	Amount         int64  `json:"amount"`
	Remarks        string `json:"remarks"`
	Occasion       string `json:"occasion"`
	Transaction    string `json:"transaction"`
	FinalProjectID string `json:"finalProjectId"`
}

// ValidatePhoneRequest is the inbound body for POST /validate-phone.
type ValidatePhoneRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// ValidatePhoneResponse reports the normalization outcome.
type ValidatePhoneResponse struct {
	Original  string `json:"original"`
	Formatted string `json:"formatted"`
	IsValid   bool   `json:"isValid"`
}
