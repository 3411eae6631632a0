package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Kind classifies a rephrase failure for user-facing reporting.
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindInvalidCredential Kind = "invalid_credential"
	KindEmptyInput        Kind = "empty_input"
	KindEmptyResponse     Kind = "empty_response"
	KindRateLimited       Kind = "rate_limited"
	KindTimeout           Kind = "timeout"
	KindUpstream          Kind = "upstream"
)

const upstreamExcerptLimit = 50

// Error is the single classified error type surfaced by the dispatch path.
// The message is short and suitable for a notification line.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the classification from err, or KindUpstream when err is
// not a classified rephrase error.
func KindOf(err error) Kind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}

	return KindUpstream
}

// classifyAPIError maps a transport/API failure onto the error taxonomy.
// Structured status codes win; the substring checks are ordered heuristics
// for errors that carry no structured signal.
func classifyAPIError(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return newError(KindInvalidCredential, "Invalid API key")
		case http.StatusTooManyRequests:
			return newError(KindRateLimited, "Rate limited. Try again in a moment")
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return newError(KindTimeout, "Request timed out")
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTimeout, "Request timed out")
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "api_key"), strings.Contains(msg, "authentication"):
		return newError(KindInvalidCredential, "Invalid API key")
	case strings.Contains(msg, "rate_limit"):
		return newError(KindRateLimited, "Rate limited. Try again in a moment")
	case strings.Contains(msg, "timeout"):
		return newError(KindTimeout, "Request timed out")
	}

	return newError(KindUpstream, fmt.Sprintf("API error: %s", truncate(err.Error(), upstreamExcerptLimit)))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit]
}
