package llm

import (
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// ErrEmptyResponse is returned when the API answers without any choices
var ErrEmptyResponse = errors.New("no response from OpenAI")

// StatusCode extracts the HTTP status from an OpenAI SDK error, or 0
func StatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// IsAuthError reports whether the API rejected the key
func IsAuthError(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsQuotaError reports whether the request hit a rate or billing limit
func IsQuotaError(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}
