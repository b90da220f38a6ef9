package entity

import "fmt"

// ErrorKind classifies a provider failure by effect.
type ErrorKind string

const (
	// ErrKindRequest covers transport-level failures (dial, timeout, context).
	ErrKindRequest ErrorKind = "request_failed"
	// ErrKindStatus covers non-2xx HTTP responses and JSON-RPC error objects.
	ErrKindStatus ErrorKind = "bad_status"
	// ErrKindMalformed covers responses that parsed but did not match the
	// expected schema.
	ErrKindMalformed ErrorKind = "malformed_response"
)

// ProviderError is a typed failure from one of the third-party providers.
// Services catch these at the aggregation surface and fail soft; the error
// itself stays inspectable for logging and metrics.
type ProviderError struct {
	Provider  string
	Operation string
	Kind      ErrorKind
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Provider, e.Operation, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Operation, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with provider and operation context.
func NewProviderError(provider, operation string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Operation: operation, Kind: kind, Err: err}
}
