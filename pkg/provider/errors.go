package provider

import "fmt"

// TokenError reports a failed access-token acquisition. It is typed
// distinctly so callers can tell an auth failure from a payment call
// failure; every waiter of a shared acquisition receives the same one.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token acquisition failed: %v", e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// CallError reports a failed provider call. Body carries the raw
// provider error payload when one was returned.
type CallError struct {
	Operation string
	Status    int
	Body      string
	Err       error
}

func (e *CallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: provider returned status %d: %s", e.Operation, e.Status, e.Body)
}

func (e *CallError) Unwrap() error { return e.Err }
