package resolve

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/ppiankov/factcheck/internal/agent"
	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/search"
)

// Kind separates timeouts from every other resolution failure
type Kind int

const (
	KindFailure Kind = iota
	KindTimeout
)

func (k Kind) String() string {
	if k == KindTimeout {
		return "timeout"
	}
	return "failure"
}

// Cause is a coarse hint about what went wrong. It never changes how the
// error is handled; it only makes messages and logs more useful.
type Cause string

const (
	CauseMissingCredentials Cause = "missing_credentials"
	CauseAuth               Cause = "auth"
	CauseQuota              Cause = "quota"
	CauseNetwork            Cause = "network"
	CauseMalformed          Cause = "malformed"
	CauseLimit              Cause = "limit"
	CauseUnknown            Cause = "unknown"
)

// ResolutionError wraps any failure between credential validation and the
// agent's final answer
type ResolutionError struct {
	Kind  Kind
	Cause Cause
	Err   error
}

func (e *ResolutionError) Error() string {
	return e.Err.Error()
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a resolution timeout
func IsTimeout(err error) bool {
	var rerr *ResolutionError
	return errors.As(err, &rerr) && rerr.Kind == KindTimeout
}

func newResolutionError(err error) *ResolutionError {
	var rerr *ResolutionError
	if errors.As(err, &rerr) {
		return rerr
	}

	kind := KindFailure
	if errors.Is(err, agent.ErrTimeout) || errors.Is(err, agent.ErrMaxSteps) {
		kind = KindTimeout
	}
	return &ResolutionError{Kind: kind, Cause: classify(err), Err: err}
}

func classify(err error) Cause {
	var (
		searchErr *search.APIError
		parseErr  *agent.ParseError
		netErr    net.Error
	)

	switch {
	case errors.Is(err, model.ErrMissingCredentials):
		return CauseMissingCredentials
	case errors.Is(err, agent.ErrTimeout), errors.Is(err, agent.ErrMaxSteps):
		return CauseLimit
	case llm.IsAuthError(err):
		return CauseAuth
	case llm.IsQuotaError(err):
		return CauseQuota
	case errors.As(err, &searchErr):
		switch searchErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return CauseAuth
		case http.StatusTooManyRequests:
			return CauseQuota
		}
		return CauseUnknown
	case errors.As(err, &parseErr), errors.Is(err, llm.ErrEmptyResponse):
		return CauseMalformed
	case errors.As(err, &netErr):
		return CauseNetwork
	default:
		return CauseUnknown
	}
}

// wrap adds context while keeping the chain inspectable
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
