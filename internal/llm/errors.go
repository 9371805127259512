package llm

import (
	"errors"
	"fmt"
)

var (
	ErrMissingEndpoint = errors.New("llm: endpoint is not configured")
	ErrMissingAPIKey   = errors.New("llm: api key is not configured")
	ErrMissingModel    = errors.New("llm: model id is not configured")
)

// ConfigError reports a deployment misconfiguration.
type ConfigError struct {
	Setting string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: invalid configuration %s: %v", e.Setting, e.Err)
	}
	return fmt.Sprintf("llm: invalid configuration %s", e.Setting)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// GatewayError reports a failed call to a provider. StatusCode is zero for
// transport failures.
type GatewayError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("llm: %s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("llm: %s call failed: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("llm: %s call failed", e.Provider)
	}
}

func (e *GatewayError) Unwrap() error { return e.Err }

func wrapProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return err
	}
	return &GatewayError{Provider: provider, Err: err}
}
