package hello

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 5_000_000, time.UTC)

func newTestRouter() chi.Router {
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("HelloTest", "test"))
	Register(api, func() time.Time { return fixedNow })
	return router
}

type rawGreeting struct {
	Message   string `json:"message" cbor:"message"`
	Timestamp string `json:"timestamp" cbor:"timestamp"`
}

func getJSON(t *testing.T, router http.Handler, target string) rawGreeting {
	t.Helper()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("%s: expected 200, got %d: %s", target, resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("%s: expected application/json, got %s", target, ct)
	}
	var body rawGreeting
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	return body
}

func TestGetGreeting(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"named", "/api/hello?name=Test", "Hello, Test!"},
		{"missing name", "/api/hello", "Hello, DevOps!"},
		{"empty name", "/api/hello?name=", "Hello, DevOps!"},
		{"escaped name", "/api/hello?name=Jane%20Doe", "Hello, Jane Doe!"},
		{"unicode name", "/api/hello?name=%C3%91and%C3%BA", "Hello, Ñandú!"},
	}
	router := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := getJSON(t, router, tt.target)
			if body.Message != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, body.Message)
			}
			if body.Timestamp != "2024-03-01T12:00:00.005Z" {
				t.Fatalf("unexpected timestamp %q", body.Timestamp)
			}
		})
	}
}

func TestGetGreetingExactKeys(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/hello?name=Keys", nil))

	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	for _, key := range []string{"message", "timestamp"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("missing key %q in %v", key, payload)
		}
	}
}

func TestGetGreetingCBOR(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/hello?name=CBOR", nil)
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	newTestRouter().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Fatalf("expected application/cbor, got %s", ct)
	}
	var body rawGreeting
	if err := cbor.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("cbor unmarshal: %v", err)
	}
	if body.Message != "Hello, CBOR!" {
		t.Fatalf("expected 'Hello, CBOR!', got %q", body.Message)
	}
}

func TestRegisterDefaultsClock(t *testing.T) {
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("HelloTest", "test"))
	Register(api, nil)

	before := time.Now().Add(-time.Second)
	body := getJSON(t, router, "/api/hello")
	ts, err := time.Parse(time.RFC3339, body.Timestamp)
	if err != nil {
		t.Fatalf("timestamp %q: %v", body.Timestamp, err)
	}
	if ts.Before(before) {
		t.Fatalf("timestamp %v older than %v", ts, before)
	}
}

func TestMessage(t *testing.T) {
	if got := Message("World"); got != "Hello, World!" {
		t.Fatalf("unexpected message %q", got)
	}
}
