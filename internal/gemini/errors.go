package gemini

import (
	"errors"
	"fmt"
)

// Gateway failure kinds. Callers branch with errors.Is; each carries a display
// message that never contains the credential.
var (
	ErrAuth          = errors.New("credential rejected")
	ErrRateLimit     = errors.New("quota exceeded")
	ErrNetwork       = errors.New("network failure")
	ErrContentPolicy = errors.New("content policy refusal")
	ErrEmptyResponse = errors.New("empty model response")
)

// GatewayError pairs a stable failure kind with a human-readable message.
type GatewayError struct {
	Kind error
	Msg  string
}

func (e *GatewayError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GatewayError) Unwrap() error { return e.Kind }

func gatewayErrf(kind error, format string, args ...any) error {
	return &GatewayError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
