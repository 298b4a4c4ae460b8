package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/lenbersih/lenbersih-api/internal/models"
)

func newBufferedHandler() *PGHandler {
	// No flush goroutine: Handle only touches the buffer.
	return &PGHandler{buffer: make([]models.SystemLog, 0, 50)}
}

func handleRecord(t *testing.T, h *PGHandler, args ...any) models.SystemLog {
	t.Helper()

	record := slog.NewRecord(time.Now(), slog.LevelError, "report notification failed", 0)
	record.Add(args...)
	if err := h.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(h.buffer) != 1 {
		t.Fatalf("got %d buffered entries, want 1", len(h.buffer))
	}
	return h.buffer[0]
}

func TestHandleCapturesReportID(t *testing.T) {
	h := newBufferedHandler()
	entry := handleRecord(t, h,
		"report_id", 42,
		"error", errors.New("smtp connect refused"),
	)

	if entry.ReportID == nil {
		t.Fatal("report_id attr not captured")
	}
	if *entry.ReportID != 42 {
		t.Errorf("got report id %d, want 42", *entry.ReportID)
	}
	if entry.Error != "smtp connect refused" {
		t.Errorf("got error %q", entry.Error)
	}
	if len(entry.Extra) != 0 {
		t.Errorf("dedicated attrs must not leak into extra: %s", entry.Extra)
	}
}

func TestHandleNonNumericReportIDGoesToExtra(t *testing.T) {
	h := newBufferedHandler()
	entry := handleRecord(t, h, "report_id", "not-a-number")

	if entry.ReportID != nil {
		t.Errorf("got report id %v, want nil", *entry.ReportID)
	}
	if len(entry.Extra) == 0 {
		t.Error("malformed report_id should be preserved in extra")
	}
}

func TestHandleCollectsUnknownAttrs(t *testing.T) {
	h := newBufferedHandler()
	entry := handleRecord(t, h,
		"trace_id", "abc-123",
		"action", "create",
		"attempt", 3,
	)

	if entry.TraceID != "abc-123" {
		t.Errorf("got trace id %q", entry.TraceID)
	}
	if entry.Action != "create" {
		t.Errorf("got action %q", entry.Action)
	}
	if len(entry.Extra) == 0 {
		t.Error("unmapped attrs should land in extra")
	}
}
