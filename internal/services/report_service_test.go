package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lenbersih/lenbersih-api/internal/config"
	"github.com/lenbersih/lenbersih-api/internal/dto"
	"github.com/lenbersih/lenbersih-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeMailer struct {
	sent   []dto.Report
	sendFn func(report *dto.Report) error
}

func (m *fakeMailer) SendReportNotification(report *dto.Report) error {
	if m.sendFn != nil {
		if err := m.sendFn(report); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, *report)
	return nil
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	return nil
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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
	return db, mock
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{UploadDir: t.TempDir()}
}

func validReport() *dto.Report {
	return &dto.Report{
		IsAnonymous:      true,
		Email:            "a@b.com",
		Category:         "Korupsi",
		ReportedName:     "X",
		ReportedPosition: "Staff",
		ReportedUnit:     "Ops",
		IncidentDate:     "2024-01-01",
		IncidentLocation: "Office",
		Description:      "Something happened that is long enough to describe.",
		CaptchaInput:     "12345",
	}
}

func expectReportInsert(mock sqlmock.Sqlmock, withEvidence bool) {
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "pelaporan"`).
		WillReturnRows(sqlmock.NewRows([]string{"id_pelaporan"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "history_status"`).
		WillReturnRows(sqlmock.NewRows([]string{"id_history_status"}).AddRow(1))
	if withEvidence {
		mock.ExpectQuery(`INSERT INTO "dokumen"`).
			WillReturnRows(sqlmock.NewRows([]string{"id_dokumen"}).AddRow(1))
	}
	mock.ExpectCommit()
}

func TestNormalizeReporter(t *testing.T) {
	tests := []struct {
		name        string
		reporter    string
		isAnonymous bool
		want        string
	}{
		{"anonymous blank gets sentinel", "", true, models.AnonymousName},
		{"anonymous whitespace gets sentinel", "   ", true, models.AnonymousName},
		{"anonymous with name keeps name", "Budi", true, "Budi"},
		{"open sentinel cleared", "Anonim", false, ""},
		{"open sentinel cleared case-insensitive", "ANONIM", false, ""},
		{"open name untouched", "Budi", false, "Budi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &dto.Report{ReporterName: tt.reporter, IsAnonymous: tt.isAnonymous}
			NormalizeReporter(r)
			if r.ReporterName != tt.want {
				t.Errorf("got %q, want %q", r.ReporterName, tt.want)
			}
		})
	}
}

func TestCreateRejectsDisallowedEvidenceType(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReportService(db, testConfig(t), &fakeMailer{})

	r := validReport()
	r.EvidenceData = []byte{0x1}
	r.EvidenceContentType = "application/zip"

	if _, err := svc.Create(r); !errors.Is(err, ErrEvidenceType) {
		t.Fatalf("got err %v, want ErrEvidenceType", err)
	}
	// Nothing may be persisted on rejection.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}

func TestCreateRejectsOversizedEvidence(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReportService(db, testConfig(t), &fakeMailer{})

	r := validReport()
	r.EvidenceData = make([]byte, models.MaxEvidenceSize+1)
	r.EvidenceContentType = "image/png"

	if _, err := svc.Create(r); !errors.Is(err, ErrEvidenceSize) {
		t.Fatalf("got err %v, want ErrEvidenceSize", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}

func TestCreateRejectsUnknownCategoryWhenStrict(t *testing.T) {
	db, _ := newMockDB(t)
	cfg := testConfig(t)
	cfg.CategoryStrict = true
	svc := NewReportService(db, cfg, &fakeMailer{})

	r := validReport()
	r.Category = "Cuaca"

	if _, err := svc.Create(r); !errors.Is(err, ErrCategory) {
		t.Fatalf("got err %v, want ErrCategory", err)
	}
}

func TestCreatePersistsAnonymousReport(t *testing.T) {
	db, mock := newMockDB(t)
	mailer := &fakeMailer{}
	svc := NewReportService(db, testConfig(t), mailer)

	expectReportInsert(mock, false)

	out, err := svc.Create(validReport())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if out.ID != 1 {
		t.Errorf("got id %d, want 1", out.ID)
	}
	if !out.IsAnonymous {
		t.Error("report should be anonymous")
	}
	if out.ReporterName != "" {
		t.Errorf("anonymous wire form should not expose a name, got %q", out.ReporterName)
	}
	if out.CaptchaInput != "" {
		t.Errorf("captcha input must be scrubbed, got %q", out.CaptchaInput)
	}
	if len(out.TrackingCode) != models.TrackingCodeLength {
		t.Errorf("got tracking code %q, want %d characters", out.TrackingCode, models.TrackingCodeLength)
	}
	if out.DateReported == nil || out.DateReported.Location() != time.UTC {
		t.Errorf("submission timestamp should be UTC, got %v", out.DateReported)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("got %d notification mails, want 1", len(mailer.sent))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCreateSucceedsWhenNotificationFails(t *testing.T) {
	db, mock := newMockDB(t)
	mailer := &fakeMailer{sendFn: func(*dto.Report) error {
		return errors.New("smtp connect refused")
	}}
	svc := NewReportService(db, testConfig(t), mailer)

	expectReportInsert(mock, false)

	out, err := svc.Create(validReport())
	if err != nil {
		t.Fatalf("Create should swallow notification failure, got %v", err)
	}
	if out.ID != 1 {
		t.Errorf("got id %d, want 1", out.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTrackingCodeAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[A-Z0-9]{5}$`)
	for i := 0; i < 100; i++ {
		code, err := trackingCode()
		if err != nil {
			t.Fatalf("trackingCode: %v", err)
		}
		if !valid.MatchString(code) {
			t.Fatalf("code %q outside tracking alphabet", code)
		}
	}
}

func TestEvidenceExt(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        string
	}{
		{"bukti.PDF", "application/pdf", ".pdf"},
		{"noext", "image/jpeg", ".jpg"},
		{"", "video/quicktime", ".mov"},
		{"", "application/unknown", ""},
		// The validated content type wins over whatever the client names the file.
		{"malware.exe", "image/png", ".png"},
		{"archive.tar.gz", "application/unknown", ".gz"},
	}
	for _, tt := range tests {
		r := &dto.Report{EvidenceFileName: tt.filename, EvidenceContentType: tt.contentType}
		if got := evidenceExt(r); got != tt.want {
			t.Errorf("evidenceExt(%q, %q) = %q, want %q", tt.filename, tt.contentType, got, tt.want)
		}
	}
}
