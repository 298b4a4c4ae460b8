package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lenbersih/lenbersih-api/internal/config"
	"github.com/lenbersih/lenbersih-api/internal/dto"
	"github.com/lenbersih/lenbersih-api/internal/mail"
	"github.com/lenbersih/lenbersih-api/internal/metrics"
	"github.com/lenbersih/lenbersih-api/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// Localized: these messages are returned to the submitter verbatim.
	ErrEvidenceType = errors.New("Format file bukti tidak didukung.")
	ErrEvidenceSize = fmt.Errorf("Ukuran file bukti melebihi %d MB.", models.MaxEvidenceSize/(1024*1024))
	ErrCategory     = errors.New("Jenis laporan tidak dikenal.")

	ErrReportNotFound = errors.New("report not found")
	ErrStatusNotFound = errors.New("status not found")
)

type ReportService struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer mail.Mailer
}

func NewReportService(db *gorm.DB, cfg *config.Config, mailer mail.Mailer) *ReportService {
	return &ReportService{db: db, cfg: cfg, mailer: mailer}
}

// NormalizeReporter applies the anonymity rules: a blank anonymous reporter
// becomes the sentinel, and a non-anonymous reporter who happens to type the
// sentinel is cleared to empty.
func NormalizeReporter(r *dto.Report) {
	if r.IsAnonymous && strings.TrimSpace(r.ReporterName) == "" {
		r.ReporterName = models.AnonymousName
	}
	if !r.IsAnonymous && strings.EqualFold(r.ReporterName, models.AnonymousName) {
		r.ReporterName = ""
	}
}

// Create validates evidence, normalizes the reporter, persists the report
// with its initial status and audit row, and notifies the administrator.
// Notification failure is logged and swallowed: the report is already stored.
func (s *ReportService) Create(r *dto.Report) (*dto.Report, error) {
	if len(r.EvidenceData) > 0 {
		if !models.IsAllowedEvidenceContentType(r.EvidenceContentType) {
			return nil, ErrEvidenceType
		}
		if !models.IsEvidenceSizeValid(int64(len(r.EvidenceData))) {
			return nil, ErrEvidenceSize
		}
	}

	if s.cfg.CategoryStrict && !models.IsSuggestedCategory(r.Category) {
		return nil, ErrCategory
	}

	NormalizeReporter(r)

	// Raw CAPTCHA answers must never reach storage.
	r.CaptchaInput = ""

	incident, err := time.Parse("2006-01-02", r.IncidentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid incident date: %w", err)
	}

	kode, err := trackingCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tracking code: %w", err)
	}

	// The entity carries anonymity in the stored name itself.
	nama := r.ReporterName
	if r.IsAnonymous {
		nama = models.AnonymousName
	}

	storedFile := ""
	if len(r.EvidenceData) > 0 {
		storedFile, err = s.storeEvidence(r)
		if err != nil {
			return nil, fmt.Errorf("failed to store evidence: %w", err)
		}
	}

	now := time.Now().UTC()
	entity := models.ReportEntity{
		Nama:              nama,
		Email:             r.Email,
		JenisLaporan:      r.Category,
		NamaTerlapor:      r.ReportedName,
		JabatanTerlapor:   r.ReportedPosition,
		UnitKerjaTerlapor: r.ReportedUnit,
		WaktuKejadian:     datatypes.Date(incident),
		LokasiKejadian:    r.IncidentLocation,
		Uraian:            r.Description,
		Dokumen:           storedFile,
		Kode:              kode,
		CreatedDate:       now,
		IDStatus:          models.StatusDiterima,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entity).Error; err != nil {
			return err
		}
		history := models.HistoryStatus{
			IDStatus:    models.StatusDiterima,
			IDPelaporan: entity.ID,
			Alasan:      "Laporan diterima sistem",
			CreatedDate: now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		if storedFile != "" {
			doc := models.Dokumen{DokumenPath: storedFile, IDPelaporan: entity.ID}
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if storedFile != "" {
			_ = os.Remove(filepath.Join(s.cfg.UploadDir, storedFile))
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	out := dto.ReportFromEntity(&entity)
	out.EvidenceContentType = r.EvidenceContentType

	if err := s.mailer.SendReportNotification(&out); err != nil {
		metrics.EmailFailures.Inc()
		slog.Error("report notification failed", "report_id", entity.ID, "error", err)
	} else {
		slog.Info("report notification sent", "report_id", entity.ID)
	}

	return &out, nil
}

// List returns every report in submission order, in wire form.
func (s *ReportService) List() ([]dto.Report, error) {
	var entities []models.ReportEntity
	if err := s.db.Order("id_pelaporan ASC").Find(&entities).Error; err != nil {
		return nil, err
	}

	reports := make([]dto.Report, len(entities))
	for i := range entities {
		reports[i] = dto.ReportFromEntity(&entities[i])
	}
	return reports, nil
}

// Track resolves a public tracking code to the report's workflow state.
func (s *ReportService) Track(code string) (*dto.TrackingResponse, error) {
	var entity models.ReportEntity
	err := s.db.
		Preload("Status").
		Preload("HistoryStatuses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_date ASC")
		}).
		Preload("HistoryStatuses.Status").
		Where("kode = ?", strings.ToUpper(code)).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	resp := dto.TrackingResponse{
		TrackingCode: entity.Kode,
		Category:     entity.JenisLaporan,
		Status:       entity.Status.Name,
		Approved:     entity.IsApproved(),
		DateReported: entity.CreatedDate,
	}
	for _, h := range entity.HistoryStatuses {
		resp.History = append(resp.History, dto.TrackingEntry{
			Status: h.Status.Name,
			Reason: h.Alasan,
			Date:   h.CreatedDate,
		})
	}
	return &resp, nil
}

// AdminList pages through reports newest-first with their current status.
func (s *ReportService) AdminList(limit, offset int) ([]models.ReportEntity, int64, error) {
	var entities []models.ReportEntity
	var total int64

	if err := s.db.Model(&models.ReportEntity{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := s.db.Preload("Status").
		Order("created_date DESC").
		Limit(limit).Offset(offset).
		Find(&entities).Error
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

// Get loads one report with status, history and evidence rows.
func (s *ReportService) Get(id int) (*models.ReportEntity, error) {
	var entity models.ReportEntity
	err := s.db.
		Preload("Status").
		Preload("DokumenList").
		Preload("HistoryStatuses").
		Preload("HistoryStatuses.Status").
		First(&entity, "id_pelaporan = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// UpdateStatus moves a report to another workflow status and appends the
// audit row in the same transaction.
func (s *ReportService) UpdateStatus(id int, req *dto.UpdateStatusRequest) error {
	var status models.Status
	if err := s.db.First(&status, "id_status = ?", req.StatusID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStatusNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ReportEntity{}).
			Where("id_pelaporan = ?", id).
			Update("id_status", req.StatusID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReportNotFound
		}

		history := models.HistoryStatus{
			IDStatus:    req.StatusID,
			IDPelaporan: id,
			Alasan:      req.Reason,
			CreatedDate: time.Now().UTC(),
		}
		return tx.Create(&history).Error
	})
}

// Approve marks a report approved and stamps the approval time.
func (s *ReportService) Approve(id int) error {
	now := time.Now().UTC()
	result := s.db.Model(&models.ReportEntity{}).
		Where("id_pelaporan = ?", id).
		Updates(map[string]interface{}{
			"approve":       1,
			"approved_date": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// Delete removes a report; dokumen and history_status rows go with it via
// the cascade constraints.
func (s *ReportService) Delete(id int) error {
	result := s.db.Delete(&models.ReportEntity{}, "id_pelaporan = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// Statuses returns the workflow status reference list.
func (s *ReportService) Statuses() ([]models.Status, error) {
	var statuses []models.Status
	if err := s.db.Order("id_status ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *ReportService) storeEvidence(r *dto.Report) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o750); err != nil {
		return "", err
	}

	name := uuid.New().String() + evidenceExt(r)
	path := filepath.Join(s.cfg.UploadDir, name)
	if err := os.WriteFile(path, r.EvidenceData, 0o600); err != nil {
		return "", err
	}
	return name, nil
}

// evidenceExt derives the stored extension from the validated content type.
// The client-supplied filename is only consulted when the type maps to
// nothing, never trusted over it.
func evidenceExt(r *dto.Report) string {
	switch strings.ToLower(r.EvidenceContentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	case "video/mp4":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	case "video/x-msvideo":
		return ".avi"
	}
	if ext := filepath.Ext(r.EvidenceFileName); ext != "" && len(ext) <= 5 {
		return strings.ToLower(ext)
	}
	return ""
}

const trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func trackingCode() (string, error) {
	buf := make([]byte, models.TrackingCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = trackingAlphabet[int(b)%len(trackingAlphabet)]
	}
	return string(buf), nil
}
