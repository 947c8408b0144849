package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-06-01")
	if err != nil {
		t.Fatalf("parse date-only: %v", err)
	}
	if !got.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", got)
	}

	got, err = ParseDate("2025-06-01T10:30:00Z")
	if err != nil {
		t.Fatalf("parse rfc3339: %v", err)
	}
	if got.Hour() != 10 || got.Minute() != 30 {
		t.Fatalf("unexpected time: %v", got)
	}

	got, err = ParseDate("")
	if err != nil || !got.IsZero() {
		t.Fatalf("empty input should be zero time, got %v, %v", got, err)
	}

	if _, err := ParseDate("June 1st"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=20&offset=40", nil)
	p := ParsePagination(req, 100, 500)
	if p.Limit != 20 || p.Offset != 40 {
		t.Fatalf("unexpected pagination: %+v", p)
	}

	req = httptest.NewRequest("GET", "/", nil)
	p = ParsePagination(req, 100, 500)
	if p.Limit != 100 || p.Offset != 0 {
		t.Fatalf("expected defaults, got %+v", p)
	}

	req = httptest.NewRequest("GET", "/?limit=9999&offset=-5", nil)
	p = ParsePagination(req, 100, 500)
	if p.Limit != 500 || p.Offset != 0 {
		t.Fatalf("expected clamped values, got %+v", p)
	}
}
