package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mugloar/mugomatic/internal/runner"
)

func TestHandleStatus(t *testing.T) {
	sb := runner.NewScoreboard()
	sb.Record(0, "game1", 120)
	sb.Record(1, "game2", 340)

	srv := httptest.NewServer(NewServer(sb).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var snap runner.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.RunID != sb.RunID() {
		t.Errorf("runId = %q, want %q", snap.RunID, sb.RunID())
	}
	if len(snap.Workers) != 2 {
		t.Fatalf("workers = %+v", snap.Workers)
	}
	if snap.Best == nil || snap.Best.SessionID != "game2" || snap.Best.Score != 340 {
		t.Errorf("best = %+v, want game2/340", snap.Best)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := httptest.NewServer(NewServer(runner.NewScoreboard()).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("body = %v", body)
	}
}
