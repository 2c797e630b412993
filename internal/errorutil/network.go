package errorutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// NetworkError is a failed remote read with enough context to decide
// whether another attempt is worthwhile.
type NetworkError struct {
	Operation  string
	URL        string
	StatusCode int // 0 when the request never produced a response
	Underlying error
	Retryable  bool
}

func (e *NetworkError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s failed for %s: HTTP %d: %v", e.Operation, e.URL, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("%s failed for %s: %v", e.Operation, e.URL, e.Underlying)
}

func (e *NetworkError) Unwrap() error {
	return e.Underlying
}

func (e *NetworkError) IsRetryable() bool {
	return e.Retryable
}

// NewNetworkError builds a NetworkError from a transport error and an
// optional HTTP status code.
func NewNetworkError(operation, url string, statusCode int, err error) *NetworkError {
	if err == nil {
		err = errors.New(http.StatusText(statusCode))
	}
	return &NetworkError{
		Operation:  operation,
		URL:        url,
		StatusCode: statusCode,
		Underlying: err,
		Retryable:  isRetryable(statusCode, err),
	}
}

// LogNetworkError logs netErr at warn level when retryable, error otherwise.
func LogNetworkError(logger *slog.Logger, netErr *NetworkError) *NetworkError {
	if logger == nil {
		return netErr
	}

	attrs := []slog.Attr{
		slog.String("operation", netErr.Operation),
		slog.String("url", netErr.URL),
		slog.String("error", netErr.Underlying.Error()),
		slog.Bool("retryable", netErr.Retryable),
	}
	if netErr.StatusCode > 0 {
		attrs = append(attrs, slog.Int("status_code", netErr.StatusCode))
	}

	level := slog.LevelError
	if netErr.Retryable {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "Network operation failed", toArgs(attrs)...)
	return netErr
}

func isRetryable(statusCode int, err error) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	if statusCode >= 400 {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}
