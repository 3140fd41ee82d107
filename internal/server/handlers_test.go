package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/skyexpress/courier/pkg/kv"
	"github.com/skyexpress/courier/pkg/pickup"
	"github.com/skyexpress/courier/pkg/tracking"
	"github.com/skyexpress/courier/pkg/webhook"
)

// fixedClock keeps every request in the same instant so duplicate
// suppression is deterministic.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time      { return c.t }
func (c fixedClock) Sleep(time.Duration) {}

func newTestServer(user, pass string) *Server {
	store := kv.NewMemory()
	pipeline := pickup.New(pickup.Config{
		Store:          store,
		Clock:          fixedClock{t: time.Unix(1700000000, 0)},
		BusinessNumber: "918121592299",
	})
	return New(pipeline, tracking.NewStore(store), webhook.NewNotifier(""), user, pass)
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPickupEndpoint(t *testing.T) {
	s := newTestServer("", "")
	h := s.Handler()
	body := `{"name":"A","phone":"9876543210","address":"X","service":"Domestic"}`

	rec := doJSON(t, h, http.MethodPost, "/api/pickup", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp PickupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.URL, "https://wa.me/918121592299?text=") {
		t.Fatalf("unexpected handoff URL: %s", resp.URL)
	}
	if !strings.Contains(resp.Message, "Phone: +919876543210") {
		t.Fatalf("message missing normalized phone:\n%s", resp.Message)
	}

	// Identical resubmission is suppressed, not treated as a server error.
	rec = doJSON(t, h, http.MethodPost, "/api/pickup", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPickupEndpointInvalidPhone(t *testing.T) {
	s := newTestServer("", "")
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/pickup",
		`{"name":"A","phone":"12-34","address":"X","service":"Domestic"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTrackingRoundTrip(t *testing.T) {
	s := newTestServer("", "")
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/tracking", `{"id":"ab12","status":"in transit"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/track?id=AB12", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("lookup: expected 200, got %d", rec.Code)
	}
	var tr TrackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !tr.Found || tr.Status != "in transit" || tr.ID != "AB12" {
		t.Fatalf("unexpected lookup response: %+v", tr)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/tracking?id=ab12", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/track?id=AB12", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestTrackingSaveRejectsEmpty(t *testing.T) {
	s := newTestServer("", "")
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/tracking", `{"id":"","status":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	s := newTestServer("admin", "secret")
	h := s.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/tracking", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tracking", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with credentials, got %d", rec.Code)
	}

	// The public endpoints stay open.
	rec = doJSON(t, h, http.MethodGet, "/api/track?id=NOPE", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("public track endpoint should not require auth, got %d", rec.Code)
	}
}
