package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-08-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("expected %s, got %s", want, parsed)
	}

	parsed, err = ParseDate("2025-08-04T15:30:00+05:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equal(want) {
		t.Fatalf("expected timestamp truncated to %s, got %s", want, parsed)
	}

	if _, err := ParseDate("04/08/2025"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestValidatorCollectsAndSorts(t *testing.T) {
	v := NewValidator()
	v.Required("firstName", "")
	v.Enum("status", "archived", "active", "inactive")
	v.NonNegative("hours", -1)
	if _, ok := v.Date("startDate", "not-a-date"); ok {
		t.Fatal("expected date parse failure")
	}

	issues := v.Issues()
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %d: %v", len(issues), issues)
	}
	for i := 1; i < len(issues); i++ {
		if issues[i-1].Field > issues[i].Field {
			t.Fatalf("issues not sorted: %v", issues)
		}
	}
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start, _ := ParseDate("2025-08-10")
	end, _ := ParseDate("2025-08-04")
	v.DateOrder("startDate", start, "endDate", end)
	if !v.HasIssues() {
		t.Fatal("expected issue for end before start")
	}
}

func TestValidatorReject(t *testing.T) {
	v := NewValidator()
	rec := httptest.NewRecorder()
	if v.Reject(rec, "req-1") {
		t.Fatal("clean validator must not reject")
	}

	v.Required("email", "")
	rec = httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected rejection")
	}
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/employees?limit=500&offset=40", nil)
	p := ParsePagination(r, 50, 200)
	if p.Limit != 200 || p.Offset != 40 {
		t.Fatalf("unexpected pagination: %+v", p)
	}

	r = httptest.NewRequest("GET", "/employees", nil)
	p = ParsePagination(r, 50, 200)
	if p.Limit != 50 || p.Offset != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}
