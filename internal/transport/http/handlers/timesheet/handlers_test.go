package timesheethandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrms/internal/domain/timesheet"
)

func newPreviewHandler() *Handler {
	return &Handler{Service: timesheet.NewService(timesheet.NewStore(nil))}
}

func TestHandleWeekOf(t *testing.T) {
	h := newPreviewHandler()

	req := httptest.NewRequest(http.MethodGet, "/timesheets/week?date=2025-08-08&weeksOffset=-1", nil)
	rec := httptest.NewRecorder()
	h.handleWeekOf(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			WeekStart string `json:"weekStart"`
			WeekEnd   string `json:"weekEnd"`
			ISOYear   int    `json:"isoYear"`
			ISOWeek   int    `json:"isoWeek"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success response")
	}
	if got := envelope.Data.WeekStart; got != "2025-07-28T00:00:00Z" {
		t.Fatalf("expected week start 2025-07-28, got %s", got)
	}
	if envelope.Data.ISOWeek != 31 {
		t.Fatalf("expected ISO week 31, got %d", envelope.Data.ISOWeek)
	}
}

func TestHandleWeekOfBadInput(t *testing.T) {
	h := newPreviewHandler()

	for _, target := range []string{
		"/timesheets/week?date=not-a-date",
		"/timesheets/week?date=2025-08-08&weeksOffset=two",
		"/timesheets/week",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.handleWeekOf(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}
