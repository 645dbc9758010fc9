package broker

import "fmt"

// ConfigError means the loaded configuration cannot serve the resolved
// mode (e.g. real mode without credentials). Fatal to the request, not
// the process.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}

// AuthError means token issuance failed. The token cache is left empty.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth error: %v", e.Err)
	}
	return fmt.Sprintf("auth error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *AuthError) Unwrap() error { return e.Err }

// UpstreamError preserves the KIS response detail for diagnostics.
// StatusCode 0 means the request never reached the upstream (transport
// failure or timeout); such errors are the only ones a caller may retry,
// and only for idempotent quote fetches.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream error: %v", e.Err)
	}
	return fmt.Sprintf("upstream error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Transient reports whether the call failed before reaching KIS.
func (e *UpstreamError) Transient() bool { return e.StatusCode == 0 }
