package domain

import "errors"

var (
	// ErrPhoneRequired indicates a missing or empty phone number.
	ErrPhoneRequired = errors.New("phone number is required")
	// ErrInvalidPhone indicates a phone number that could not be
	// normalized to a valid MSISDN.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrAmountTooLow indicates an amount below the provider minimum.
	ErrAmountTooLow = errors.New("amount is below the provider minimum")
	// ErrCheckoutIDRequired indicates a status query without a
	// checkout request id.
	ErrCheckoutIDRequired = errors.New("checkout request id is required")
	// ErrTransactionRequired indicates a payout without a backing
	// transaction record.
	ErrTransactionRequired = errors.New("transaction id is required")
	// ErrTransactionNotFound indicates no record matched the given
	// id or correlation id.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidTransition indicates a settlement status change the
	// state machine does not allow.
	ErrInvalidTransition = errors.New("invalid settlement status transition")
)
