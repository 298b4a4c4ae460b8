package dto

import (
	"time"

	"github.com/lenbersih/lenbersih-api/internal/models"
)

// Report is the wire form of a whistleblowing submission. Evidence travels
// as transient bytes (base64 in JSON) and never reaches storage as-is; the
// raw CAPTCHA answer is scrubbed before any persisted copy.
type Report struct {
	ID               int    `json:"id"`
	ReporterName     string `json:"reporterName" validate:"max=150"`
	Email            string `json:"email" validate:"required,email,max=200"`
	Category         string `json:"category" validate:"required,max=100"`
	ReportedName     string `json:"reportedName" validate:"required,max=150"`
	ReportedPosition string `json:"reportedPosition" validate:"required,max=150"`
	ReportedUnit     string `json:"reportedUnit" validate:"required,max=150"`
	IncidentDate     string `json:"incidentDate" validate:"required,datetime=2006-01-02"`
	IncidentLocation string `json:"incidentLocation" validate:"required,max=200"`
	Description      string `json:"description" validate:"required,min=20"`
	IsAnonymous      bool   `json:"isAnonymous"`

	EvidenceData        []byte `json:"evidenceData,omitempty"`
	EvidenceContentType string `json:"evidenceContentType,omitempty"`
	EvidenceFileName    string `json:"evidenceFileName,omitempty"`

	CaptchaInput string `json:"captchaInput,omitempty"`

	TrackingCode string     `json:"trackingCode,omitempty"`
	DateReported *time.Time `json:"dateReported,omitempty"`
}

// ReportFromEntity maps a persisted report back to its wire form. Evidence
// bytes are not round-tripped; only the stored file reference survives.
func ReportFromEntity(e *models.ReportEntity) Report {
	created := e.CreatedDate
	r := Report{
		ID:               e.ID,
		Email:            e.Email,
		Category:         e.JenisLaporan,
		ReportedName:     e.NamaTerlapor,
		ReportedPosition: e.JabatanTerlapor,
		ReportedUnit:     e.UnitKerjaTerlapor,
		IncidentDate:     time.Time(e.WaktuKejadian).Format("2006-01-02"),
		IncidentLocation: e.LokasiKejadian,
		Description:      e.Uraian,
		IsAnonymous:      e.IsAnonymous(),
		EvidenceFileName: e.Dokumen,
		TrackingCode:     e.Kode,
		DateReported:     &created,
	}
	if !r.IsAnonymous {
		r.ReporterName = e.Nama
	}
	return r
}

// TrackingResponse is the public view returned for a tracking-code lookup.
// It deliberately carries no reporter identity.
type TrackingResponse struct {
	TrackingCode string          `json:"trackingCode"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
	Approved     bool            `json:"approved"`
	DateReported time.Time       `json:"dateReported"`
	History      []TrackingEntry `json:"history"`
}

type TrackingEntry struct {
	Status string    `json:"status"`
	Reason string    `json:"reason"`
	Date   time.Time `json:"date"`
}

// UpdateStatusRequest moves a report to another workflow status with a
// justification recorded in the audit trail.
type UpdateStatusRequest struct {
	StatusID int    `json:"statusId" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}
