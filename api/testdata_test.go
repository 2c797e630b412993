package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const (
	testGeohash = "r1r14c"

	locationJSON = `{"data":{"geohash":"r1r14cw","id":"Carlton North-r1r14cw","name":"Carlton North","state":"VIC","timezone":"Australia/Melbourne"},"metadata":{"response_timestamp":"2024-01-15T02:10:00Z"}}`

	observationsJSON = `{"data":{"temp":21.4,"temp_feels_like":19.8,"humidity":55,"wind":{"speed_kilometre":17,"speed_knot":9,"direction":"SSW"},"station":{"name":"Melbourne (Olympic Park)"}}}`

	hourlyJSON = `{"metadata":{"issue_time":"2024-01-15T01:50:00Z"},"data":[
		{"time":"2024-01-15T03:00:00Z","temp":23,"is_night":false,"icon_descriptor":"mostly_sunny","rain":{"chance":5}},
		{"time":"2024-01-15T02:00:00Z","temp":22,"is_night":false,"icon_descriptor":"sunny","rain":{"chance":0}},
		{"time":"2024-01-15T04:00:00Z","temp":24,"is_night":false,"icon_descriptor":"shower","rain":{"chance":40}}
	]}`

	dailyJSON = `{"data":[
		{"date":"2024-01-14T13:00:00Z","temp_max":26,"temp_min":null,"icon_descriptor":"mostly_sunny","short_text":"Mostly sunny.","rain":{"chance":10}},
		{"date":"2024-01-15T13:00:00Z","temp_max":31,"temp_min":17,"icon_descriptor":"sunny","short_text":"Sunny.","rain":{"chance":0}}
	]}`
)

// bomServer serves the four BOM resources for testGeohash. Overrides map a
// resource suffix ("", "/observations", "/forecasts/hourly",
// "/forecasts/daily") to a handler.
type bomServer struct {
	*httptest.Server
	requests atomic.Int32
}

func newBOMServer(t *testing.T, overrides map[string]http.HandlerFunc) *bomServer {
	t.Helper()

	bodies := map[string]string{
		"":                  locationJSON,
		"/observations":     observationsJSON,
		"/forecasts/hourly": hourlyJSON,
		"/forecasts/daily":  dailyJSON,
	}

	s := &bomServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)

		prefix := "/locations/" + testGeohash
		if !strings.HasPrefix(r.URL.Path, prefix) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errors":[{"code":"NOT_FOUND","title":"Not Found","detail":"Unknown location"}]}`))
			return
		}
		suffix := strings.TrimPrefix(r.URL.Path, prefix)

		if h, ok := overrides[suffix]; ok {
			h(w, r)
			return
		}
		body, ok := bodies[suffix]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestBOMClient(baseURL string) *BOMClient {
	c := NewBOMClient(baseURL)
	c.SetTimeout(5 * time.Second)
	c.SetRetryPolicy(0, 0, 0)
	return c
}
