package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gto-trainer/server/session"
)

func createSession(t *testing.T, srv *httptest.Server, body string) session.State {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d, want 201", resp.StatusCode)
	}
	var state session.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d, want 200", resp.StatusCode)
	}
	var payload struct {
		OK bool `json:"ok"`
		DB bool `json:"db"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if !payload.OK || payload.DB {
		t.Fatalf("health payload = %+v, want ok and no db", payload)
	}
}

func TestCreateAndFetchSession(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	state := createSession(t, srv, `{"hands":2,"mc_samples":60,"seed":42}`)
	if state.Status != session.StatusAwaitingInput {
		t.Fatalf("status = %v, want awaiting_input", state.Status)
	}
	if len(state.Node.ActionOptions) != 3 {
		t.Fatalf("menu has %d options, want 3", len(state.Node.ActionOptions))
	}

	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s", srv.URL, state.SessionID))
	if err != nil {
		t.Fatalf("fetch session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch status = %d, want 200", resp.StatusCode)
	}
	var fetched session.State
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode fetched: %v", err)
	}
	if fetched.SessionID != state.SessionID {
		t.Fatalf("fetched session id %s, want %s", fetched.SessionID, state.SessionID)
	}
}

func TestApplyActionViaHTTP(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	state := createSession(t, srv, `{"hands":1,"mc_samples":60,"seed":7}`)

	resp, err := http.Post(
		fmt.Sprintf("%s/api/sessions/%s/actions", srv.URL, state.SessionID),
		"application/json",
		bytes.NewBufferString(`{"kind":"fold"}`),
	)
	if err != nil {
		t.Fatalf("apply action: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("apply status = %d, want 200", resp.StatusCode)
	}
	var after session.State
	if err := json.NewDecoder(resp.Body).Decode(&after); err != nil {
		t.Fatalf("decode after: %v", err)
	}
	if after.Status != session.StatusCompleted {
		t.Fatalf("status = %v, want completed after folding the only hand", after.Status)
	}
	if after.Summary.HandsPlayed != 1 {
		t.Fatalf("hands played = %d, want 1", after.Summary.HandsPlayed)
	}
	if after.Summary.TotalProfitBB != -1.0 {
		t.Fatalf("profit = %.2f, want -1.0", after.Summary.TotalProfitBB)
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/sessions/0f2e8f9a-07ce-4d3b-9f4e-111111111111")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestBadSessionIDReturns400(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/sessions/not-a-uuid")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBadRivalStyleRejected(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/sessions", "application/json",
		bytes.NewBufferString(`{"rival_style":"maniac"}`))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestResultsWithoutDBUnavailable(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/results")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}
