package api

import (
	"context"
	"net/http"
	"reflect"
	"testing"
)

func TestHealth(t *testing.T) {
	var method, path string
	c, _ := newTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_, _ = w.Write([]byte(`{
			"status": "healthy",
			"service": "Basic LLM Document Processing Webhook",
			"timestamp": "2025-01-01T00:00:00",
			"endpoints": ["/webhook/health", "/webhook/query"]
		}`))
	})

	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if method != http.MethodGet || path != EndpointHealth {
		t.Errorf("request = %s %s", method, path)
	}
	if !status.Healthy() {
		t.Errorf("expected healthy status, got %+v", status)
	}
	if !reflect.DeepEqual(status.Endpoints, []string{"/webhook/health", "/webhook/query"}) {
		t.Errorf("Endpoints = %v", status.Endpoints)
	}
}

func TestHealth_Unavailable(t *testing.T) {
	c, _ := newTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Health(context.Background())
	if err == nil || err.Error() != "API Error: Service Unavailable" {
		t.Errorf("error = %v", err)
	}
}
