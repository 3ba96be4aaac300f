package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apierrors "github.com/diogo/docwrangler/internal/errors"
)

func TestSendQuery_Request(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantKey bool
	}{
		{"with api key", "secret", true},
		{"without api key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				method, path, contentType, body string
				keyHeader                       []string
			)
			c, _ := newTestServer(t, tt.key, func(w http.ResponseWriter, r *http.Request) {
				method = r.Method
				path = r.URL.Path
				contentType = r.Header.Get("Content-Type")
				keyHeader = r.Header.Values(HeaderAPIKey)
				data, _ := io.ReadAll(r.Body)
				body = string(data)
				_, _ = w.Write([]byte(`{"status":"success","decision":"approved"}`))
			})

			if _, err := c.SendQuery(context.Background(), "Is <knee> surgery & rehab covered?"); err != nil {
				t.Fatalf("SendQuery() error = %v", err)
			}

			if method != http.MethodPost || path != EndpointQuery {
				t.Errorf("request = %s %s", method, path)
			}
			if contentType != "application/json" {
				t.Errorf("Content-Type = %q", contentType)
			}
			if want := `{"query":"Is <knee> surgery & rehab covered?"}`; body != want {
				t.Errorf("body = %s, want %s", body, want)
			}
			if tt.wantKey {
				if len(keyHeader) != 1 || keyHeader[0] != tt.key {
					t.Errorf("%s = %v, want %q", HeaderAPIKey, keyHeader, tt.key)
				}
			} else if len(keyHeader) != 0 {
				t.Errorf("%s header must be absent, got %v", HeaderAPIKey, keyHeader)
			}
		})
	}
}

func TestSendQuery_Decision(t *testing.T) {
	c, _ := newTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"status": "success",
			"query": "knee surgery",
			"decision": "approved",
			"confidence": 0.875,
			"amount": 50000,
			"justification": "Covered under clause 4.2",
			"source_clauses": ["Clause 4.2", "Annex B"]
		}`))
	})

	d, err := c.SendQuery(context.Background(), "knee surgery")
	if err != nil {
		t.Fatalf("SendQuery() error = %v", err)
	}

	if d.Decision != "approved" || d.Query != "knee surgery" {
		t.Errorf("decision = %+v", d)
	}
	if d.Confidence != 0.875 {
		t.Errorf("Confidence = %v", d.Confidence)
	}
	if d.Amount != "50000" {
		t.Errorf("Amount = %q", d.Amount)
	}
	if d.Justification != "Covered under clause 4.2" {
		t.Errorf("Justification = %q", d.Justification)
	}
	if !reflect.DeepEqual(d.SourceClauses, []string{"Clause 4.2", "Annex B"}) {
		t.Errorf("SourceClauses = %v", d.SourceClauses)
	}
	if d.Raw == "" {
		t.Error("expected raw body to be kept")
	}
}

func TestSendQuery_FieldVariants(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		decision   string
		confidence float64
		amount     string
		clauses    []string
	}{
		{"empty object", `{}`, "", 0, "", nil},
		{"string amount kept verbatim", `{"amount":"1,250.00"}`, "", 0, "1,250.00", nil},
		{"fractional amount", `{"amount":1250.5}`, "", 0, "1250.5", nil},
		{"zero amount is absent", `{"amount":0}`, "", 0, "", nil},
		{"null fields", `{"decision":null,"confidence":null,"amount":null}`, "", 0, "", nil},
		{"numeric string confidence", `{"confidence":"0.5"}`, "", 0.5, "", nil},
		{"object decision ignored", `{"decision":{"decision":"approved"}}`, "", 0, "", nil},
		{"empty clauses", `{"source_clauses":[]}`, "", 0, "", nil},
		{"non-string clause kept raw", `{"source_clauses":["a",7]}`, "", 0, "", []string{"a", "7"}},
		{"status other than error is success", `{"status":"pending","decision":"rejected"}`, "rejected", 0, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			d, err := c.SendQuery(context.Background(), "q")
			if err != nil {
				t.Fatalf("SendQuery() error = %v", err)
			}
			if d.Decision != tt.decision {
				t.Errorf("Decision = %q, want %q", d.Decision, tt.decision)
			}
			if d.Confidence != tt.confidence {
				t.Errorf("Confidence = %v, want %v", d.Confidence, tt.confidence)
			}
			if d.Amount != tt.amount {
				t.Errorf("Amount = %q, want %q", d.Amount, tt.amount)
			}
			if !reflect.DeepEqual(d.SourceClauses, tt.clauses) {
				t.Errorf("SourceClauses = %#v, want %#v", d.SourceClauses, tt.clauses)
			}
		})
	}
}

func TestSendQuery_ObjectDecisionLogsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c, _ := newTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"decision":{"decision":"approved"}}`))
	}, WithLogger(zap.New(core)))

	if _, err := c.SendQuery(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("ignoring non-string decision field").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}
}

func TestSendQuery_LogicalError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"with message", `{"status":"error","message":"Policy not found"}`, "Policy not found"},
		{"without message", `{"status":"error"}`, "Unknown error from server"},
		{"empty message", `{"status":"error","message":""}`, "Unknown error from server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			d, err := c.SendQuery(context.Background(), "q")
			if d != nil {
				t.Errorf("expected no decision, got %+v", d)
			}
			if !apierrors.IsLogicalError(err) {
				t.Fatalf("expected LogicalError, got %T: %v", err, err)
			}
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestSendQuery_HTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusNotFound, "API Error: Not Found"},
		{http.StatusInternalServerError, "API Error: Internal Server Error"},
		{http.StatusUnauthorized, "API Error: Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, _ := newTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "ignored"})
			})

			_, err := c.SendQuery(context.Background(), "q")
			if err == nil {
				t.Fatal("expected an error")
			}
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
			if apierrors.GetHTTPStatus(err) != tt.status {
				t.Errorf("status = %d", apierrors.GetHTTPStatus(err))
			}
		})
	}
}

func TestSendQuery_InvalidJSON(t *testing.T) {
	tests := []string{"not json", "", `["array"]`, "null"}

	for _, body := range tests {
		t.Run(body, func(t *testing.T) {
			c, _ := newTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := c.SendQuery(context.Background(), "q")
			if !apierrors.IsParseError(err) {
				t.Errorf("expected ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{500, "500"},
		{1250.5, "1250.5"},
		{-3, "-3"},
		{0.000001, "0.000001"},
		{0.0000001, "1e-7"},
		{1e21, "1e+21"},
		{123456789012, "123456789012"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
