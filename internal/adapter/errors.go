package adapter

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sleepstars/llmadapter/internal/clients"
)

var (
	// ErrConfiguration is returned when a model has no usable endpoint
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation is returned for malformed requests
	ErrValidation = errors.New("validation error")
	// ErrUpstreamReported is returned when a backend answered with an error payload
	ErrUpstreamReported = clients.ErrUpstreamReported
	// ErrMaxRetriesExceeded is returned when the AGI backend exhausted its attempts
	ErrMaxRetriesExceeded = clients.ErrMaxRetriesExceeded
)

// IsTransient reports whether err from the upstream completion API is worth
// retrying: service unavailable, server errors, rate limiting, connection
// failures and timeouts.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrUpstreamReported) || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return isTransientStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return isTransientStatus(reqErr.HTTPStatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	// Connection dropped mid-response
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
