package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"weatherline/internal/errorutil"
	"weatherline/internal/logger"
)

const (
	// DefaultBaseURL is the Bureau of Meteorology public forecast API.
	DefaultBaseURL = "https://api.weather.bom.gov.au/v1"

	locationEndpoint     = "/locations/{geohash}"
	observationsEndpoint = "/locations/{geohash}/observations"
	hourlyEndpoint       = "/locations/{geohash}/forecasts/hourly"
	dailyEndpoint        = "/locations/{geohash}/forecasts/daily"

	defaultTimeout = 10 * time.Second
	userAgent      = "WeatherLine/1.0"
)

// BOMAPIError is an error document returned by the BOM API.
type BOMAPIError struct {
	StatusCode int
	Code       string
	Title      string
	Detail     string
}

func (e *BOMAPIError) Error() string {
	msg := e.Title
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("BOM API error (HTTP %d): %s", e.StatusCode, msg)
}

// BOMClient fetches forecasts from the BOM API. BOM geohashes are six
// characters; longer hashes are rejected by the API.
type BOMClient struct {
	client *resty.Client
}

// NewBOMClient creates a client for baseURL, or DefaultBaseURL when empty.
func NewBOMClient(baseURL string) *BOMClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(defaultTimeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(shouldRetry)

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		headers := make(map[string]string)
		for key, values := range req.Header {
			if len(values) > 0 {
				headers[key] = values[0]
			}
		}
		logger.LogAPIRequest(req.Method, req.URL, headers)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.LogAPIResponse(resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time(), len(resp.Body()))
		return nil
	})

	return &BOMClient{client: client}
}

// SetTimeout configures the per-request timeout.
func (b *BOMClient) SetTimeout(timeout time.Duration) {
	b.client.SetTimeout(timeout)
}

// SetRetryPolicy configures retries for transient failures.
func (b *BOMClient) SetRetryPolicy(retryCount int, waitTime, maxWaitTime time.Duration) {
	b.client.SetRetryCount(retryCount).
		SetRetryWaitTime(waitTime).
		SetRetryMaxWaitTime(maxWaitTime)
}

func shouldRetry(resp *resty.Response, err error) bool {
	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	if err == nil && status < 400 {
		return false
	}
	return errorutil.NewNetworkError("retry check", "", status, err).IsRetryable()
}

// FetchRaw downloads the location, observations, hourly and daily
// resources concurrently. If any one fails the whole fetch fails.
func (b *BOMClient) FetchRaw(ctx context.Context, geohash string) (*RawForecast, error) {
	complete := logger.LogOperationStart("bom_fetch", map[string]any{
		"geohash": geohash,
	})

	if geohash == "" {
		err := fmt.Errorf("%w: empty geohash", ErrFetchFailure)
		complete(err)
		return nil, err
	}

	raw := &RawForecast{}
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range []struct {
		endpoint string
		dest     *json.RawMessage
	}{
		{locationEndpoint, &raw.Location},
		{observationsEndpoint, &raw.Observations},
		{hourlyEndpoint, &raw.Hourly},
		{dailyEndpoint, &raw.Daily},
	} {
		r := r
		g.Go(func() error {
			body, err := b.get(gctx, r.endpoint, geohash)
			if err != nil {
				return err
			}
			*r.dest = body
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		err = fmt.Errorf("%w: %w", ErrFetchFailure, err)
		complete(err)
		return nil, err
	}

	complete(nil)
	return raw, nil
}

func (b *BOMClient) get(ctx context.Context, endpoint, geohash string) (json.RawMessage, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParam("geohash", geohash).
		Get(endpoint)

	url := strings.ReplaceAll(endpoint, "{geohash}", geohash)
	if err != nil {
		return nil, errorutil.LogNetworkError(logger.Get().Logger,
			errorutil.NewNetworkError("fetch "+url, b.client.BaseURL+url, 0, err))
	}
	if !resp.IsSuccess() {
		return nil, errorutil.LogNetworkError(logger.Get().Logger,
			errorutil.NewNetworkError("fetch "+url, b.client.BaseURL+url, resp.StatusCode(), parseBOMError(resp)))
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("malformed JSON from %s", url)
	}
	if data := gjson.GetBytes(body, "data"); !data.IsObject() && !data.IsArray() {
		return nil, fmt.Errorf("response from %s has no data member", url)
	}
	return json.RawMessage(body), nil
}

// parseBOMError extracts the first entry of a BOM {"errors": [...]} body.
func parseBOMError(resp *resty.Response) error {
	first := gjson.GetBytes(resp.Body(), "errors.0")
	if !first.Exists() {
		return &BOMAPIError{StatusCode: resp.StatusCode()}
	}
	return &BOMAPIError{
		StatusCode: resp.StatusCode(),
		Code:       first.Get("code").String(),
		Title:      first.Get("title").String(),
		Detail:     first.Get("detail").String(),
	}
}

// IsNotFound reports whether err is a BOM 404, usually an unknown geohash.
func IsNotFound(err error) bool {
	var apiErr *BOMAPIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
