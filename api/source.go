package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"weatherline/internal/errorutil"
	"weatherline/internal/logger"
)

// HTTPSource downloads version-cache artifacts over HTTP. A "{name}"
// placeholder in the URL is replaced by the artifact name.
type HTTPSource struct {
	client *resty.Client
	url    string
}

// NewHTTPSource returns a source fetching url with the given timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout)

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.LogAPIResponse(resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time(), len(resp.Body()))
		return nil
	})

	return &HTTPSource{client: client, url: url}
}

// Fetch returns the response body for name. Non-2xx responses are errors.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	url := strings.ReplaceAll(s.url, "{name}", name)
	if url == "" {
		return nil, fmt.Errorf("%w: no update URL configured", ErrFetchFailure)
	}

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, errorutil.LogAndWrap(logger.Get().Logger, "module download", errorutil.NewNetworkError("fetch "+name, url, 0, err), errorutil.URLContext(url)...)
	}
	if !resp.IsSuccess() {
		return nil, errorutil.NewNetworkError("fetch "+name, url, resp.StatusCode(), nil)
	}
	return resp.Body(), nil
}
