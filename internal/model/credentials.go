package model

import (
	"errors"
	"strings"
)

// Names of the credentials as the upstream SDKs document them.
// Only the CLI reads these from the environment.
const (
	EnvLLMKey    = "OPENAI_API_KEY"
	EnvSearchKey = "SERPAPI_API_KEY"
)

// ErrMissingCredentials is returned when one or both API keys are absent
var ErrMissingCredentials = errors.New("API keys are not set")

// Credentials holds the two upstream API keys for a single session or request.
// Values are never persisted or logged.
type Credentials struct {
	LLMKey    string `json:"-" yaml:"-"`
	SearchKey string `json:"-" yaml:"-"`
}

// Validate checks that both keys are present
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.LLMKey) == "" || strings.TrimSpace(c.SearchKey) == "" {
		return ErrMissingCredentials
	}
	return nil
}

// String redacts the keys so credentials are safe to print
func (c Credentials) String() string {
	return "Credentials{LLMKey:" + redact(c.LLMKey) + ", SearchKey:" + redact(c.SearchKey) + "}"
}

func redact(s string) string {
	if s == "" {
		return "<empty>"
	}
	return "<redacted>"
}
