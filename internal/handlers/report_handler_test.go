package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/lenbersih/lenbersih-api/internal/config"
	"github.com/lenbersih/lenbersih-api/internal/dto"
	"github.com/lenbersih/lenbersih-api/internal/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubMailer struct{}

func (stubMailer) SendReportNotification(report *dto.Report) error { return nil }
func (stubMailer) Send(to, subject, htmlBody string) error         { return nil }

func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	cfg := &config.Config{UploadDir: t.TempDir()}
	svc := services.NewReportService(db, cfg, stubMailer{})
	handler := NewReportHandler(svc)

	app := fiber.New()
	app.Get("/api/reports", handler.List)
	app.Post("/api/reports", handler.Create)
	app.Get("/api/reports/track/:code", handler.Track)
	app.Get("/api/admin/reports", handler.AdminList)
	return app, mock
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"isAnonymous":      true,
		"reporterName":     "",
		"email":            "a@b.com",
		"category":         "Korupsi",
		"reportedName":     "X",
		"reportedPosition": "Staff",
		"reportedUnit":     "Ops",
		"incidentDate":     "2024-01-01",
		"incidentLocation": "Office",
		"description":      "A description that is comfortably over twenty characters.",
		"captchaInput":     "42913",
	}
}

func TestCreateReportMissingPayload(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/reports", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("got status %d, want 400", resp.StatusCode)
	}

	var body dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Report payload is required." {
		t.Errorf("got message %q", body.Message)
	}
}

func TestCreateReportValidationErrors(t *testing.T) {
	app, mock := newTestApp(t)

	payload := validPayload()
	payload["email"] = "not-an-email"
	payload["description"] = "too short"

	resp := postJSON(t, app, "/api/reports", payload)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("got status %d, want 400", resp.StatusCode)
	}

	var body dto.ValidationErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body.Fields["email"]; !ok {
		t.Errorf("expected email field error, got %v", body.Fields)
	}
	if _, ok := body.Fields["description"]; !ok {
		t.Errorf("expected description field error, got %v", body.Fields)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}

func TestCreateReportRejectsZipEvidence(t *testing.T) {
	app, mock := newTestApp(t)

	payload := validPayload()
	payload["evidenceData"] = []byte{0x1}
	payload["evidenceContentType"] = "application/zip"
	payload["evidenceFileName"] = "bukti.zip"

	resp := postJSON(t, app, "/api/reports", payload)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("got status %d, want 400", resp.StatusCode)
	}

	var body dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Format file bukti tidak didukung." {
		t.Errorf("got message %q", body.Message)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("nothing may be persisted: %v", err)
	}
}

func TestCreateReportSuccess(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "pelaporan"`).
		WillReturnRows(sqlmock.NewRows([]string{"id_pelaporan"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "history_status"`).
		WillReturnRows(sqlmock.NewRows([]string{"id_history_status"}).AddRow(1))
	mock.ExpectCommit()

	resp := postJSON(t, app, "/api/reports", validPayload())
	if resp.StatusCode != fiber.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("got status %d, want 201: %s", resp.StatusCode, raw)
	}
	if loc := resp.Header.Get("Location"); loc != "/api/reports" {
		t.Errorf("got Location %q, want /api/reports", loc)
	}

	var body dto.Report
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != 7 {
		t.Errorf("got id %d, want 7", body.ID)
	}
	if !body.IsAnonymous {
		t.Error("expected anonymous report")
	}
	if body.CaptchaInput != "" {
		t.Errorf("captcha input leaked into response: %q", body.CaptchaInput)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAdminListClampsPaging(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "pelaporan"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "pelaporan"`).
		WillReturnRows(sqlmock.NewRows([]string{"id_pelaporan"}))

	req := httptest.NewRequest("GET", "/api/admin/reports?limit=-1&offset=-5", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}

	var body struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Limit != 20 {
		t.Errorf("got limit %d, want default 20", body.Limit)
	}
	if body.Offset != 0 {
		t.Errorf("got offset %d, want 0", body.Offset)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListReports(t *testing.T) {
	app, mock := newTestApp(t)

	rows := sqlmock.NewRows([]string{
		"id_pelaporan", "nama", "email", "jenis_laporan", "nama_terlapor",
		"jabatan_terlapor", "unit_kerja_terlapor", "lokasi_kejadian",
		"uraian", "dokumen", "kode", "id_status", "approve",
	}).AddRow(1, "Anonim", "a@b.com", "Korupsi", "X", "Staff", "Ops",
		"Office", "A sufficiently long description here.", "", "AB12C", 1, 0)
	mock.ExpectQuery(`SELECT \* FROM "pelaporan"`).WillReturnRows(rows)

	req := httptest.NewRequest("GET", "/api/reports", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}

	var reports []dto.Report
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	if !reports[0].IsAnonymous {
		t.Error("stored sentinel should surface as anonymous")
	}
	if reports[0].TrackingCode != "AB12C" {
		t.Errorf("got tracking code %q", reports[0].TrackingCode)
	}
	if reports[0].CaptchaInput != "" {
		t.Errorf("captcha field must be empty, got %q", reports[0].CaptchaInput)
	}
}
