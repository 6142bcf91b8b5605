package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestServerExposesRequestMetrics(t *testing.T) {
	s := NewServer(nil, WithRequestMetrics(nil, time.Second))

	// First request flows through the metrics middleware.
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics endpoint: got %d", rec.Code)
	}

	// Second scrape sees the counters that request produced.
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "http_requests_total") {
		t.Fatalf("request counter not exported")
	}
	if !strings.Contains(body, "http_request_duration_seconds") {
		t.Fatalf("duration histogram not exported")
	}
}
