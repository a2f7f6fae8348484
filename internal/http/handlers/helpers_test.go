package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseDateParam(t *testing.T) {
	got, err := parseDateParam("20240131")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if got != "2024-01-31" {
		t.Fatalf("expected 2024-01-31, got %q", got)
	}

	for _, bad := range []string{"2024013", "20241301", "20240132", "not-a-date", ""} {
		if _, err := parseDateParam(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestPassID(t *testing.T) {
	ts := time.Date(2024, 1, 31, 8, 15, 30, 0, time.UTC)
	if got := passID("NAO01", ts); got != "NAO0120240131081530" {
		t.Fatalf("unexpected pass id %q", got)
	}
}

func TestRespondJSONByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/chargesBy/AM/20240101/20240131", nil)
	rec := httptest.NewRecorder()

	respond(rec, req, http.StatusOK, map[string]string{"status": "OK"})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"status":"OK"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRespondCSVList(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/station-popularity?format=csv", nil)
	rec := httptest.NewRecorder()

	payload := []map[string]interface{}{
		{"station_name": "Thiva", "passthrough_count": 12},
		{"station_name": "Afidnes", "passthrough_count": 7},
	}
	respond(rec, req, http.StatusOK, payload)

	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected csv content type, got %q", ct)
	}

	lines := strings.Split(rec.Body.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines: %q", len(lines), rec.Body.String())
	}
	if lines[0] != "passthrough_count,station_name" {
		t.Fatalf("unexpected header line %q", lines[0])
	}
	if lines[1] != "12,Thiva" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}

func TestRespondCSVFlattensNestedObject(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/healthcheck?format=csv", nil)
	rec := httptest.NewRecorder()

	payload := map[string]interface{}{
		"status": "OK",
		"counts": map[string]interface{}{
			"stations": 3,
			"tags":     5,
		},
	}
	respond(rec, req, http.StatusOK, payload)

	lines := strings.Split(rec.Body.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", rec.Body.String())
	}
	if lines[0] != "counts_stations,counts_tags,status" {
		t.Fatalf("nested keys not flattened: %q", lines[0])
	}
	if lines[1] != "3,5,OK" {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestRespondCSVEmptyList(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/settlements?format=csv", nil)
	rec := httptest.NewRecorder()

	respond(rec, req, http.StatusOK, []map[string]interface{}{})

	if rec.Body.String() != "" {
		t.Fatalf("expected empty body for empty list, got %q", rec.Body.String())
	}
}
