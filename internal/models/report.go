package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// AnonymousName is the sentinel stored as reporter name for anonymous reports.
const AnonymousName = "Anonim"

// MaxEvidenceSize is the evidence upload cap (10 MiB).
const MaxEvidenceSize int64 = 10 * 1024 * 1024

// TrackingCodeLength is the length of the public tracking code (kode).
const TrackingCodeLength = 5

// AllowedEvidenceContentTypes lists the accepted evidence MIME types.
var AllowedEvidenceContentTypes = []string{
	"image/jpeg",
	"image/png",
	"application/pdf",
	"video/mp4",
	"video/quicktime",
	"video/x-msvideo",
}

// SuggestedCategories is reference metadata for the category field. It is
// only enforced server-side when CATEGORY_STRICT is enabled.
var SuggestedCategories = []string{
	"Korupsi",
	"Penyalahgunaan Wewenang",
	"Gratifikasi",
	"Benturan Kepentingan",
	"Pelanggaran Etika",
	"Kecurangan",
	"Lainnya",
}

func IsAllowedEvidenceContentType(contentType string) bool {
	for _, t := range AllowedEvidenceContentTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

func IsEvidenceSizeValid(size int64) bool {
	return size <= MaxEvidenceSize
}

func IsSuggestedCategory(category string) bool {
	for _, c := range SuggestedCategories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// ReportEntity is the persisted form of a whistleblowing report
// (pelaporan table).
type ReportEntity struct {
	ID                int            `gorm:"column:id_pelaporan;primaryKey;autoIncrement" json:"id"`
	Nama              string         `gorm:"column:nama;size:150;not null" json:"nama"`
	Email             string         `gorm:"column:email;size:200;not null" json:"email"`
	JenisLaporan      string         `gorm:"column:jenis_laporan;size:100;not null" json:"jenis_laporan"`
	NamaTerlapor      string         `gorm:"column:nama_terlapor;size:150;not null" json:"nama_terlapor"`
	JabatanTerlapor   string         `gorm:"column:jabatan_terlapor;size:150;not null" json:"jabatan_terlapor"`
	UnitKerjaTerlapor string         `gorm:"column:unit_kerja_terlapor;size:150;not null" json:"unit_kerja_terlapor"`
	WaktuKejadian     datatypes.Date `gorm:"column:waktu_kejadian;not null" json:"waktu_kejadian"`
	LokasiKejadian    string         `gorm:"column:lokasi_kejadian;size:200;not null" json:"lokasi_kejadian"`
	Uraian            string         `gorm:"column:uraian;type:text;not null" json:"uraian"`
	// Legacy single-document path; new evidence rows live in the dokumen table.
	Dokumen      string     `gorm:"column:dokumen;size:255" json:"dokumen"`
	Kode         string     `gorm:"column:kode;size:5;not null" json:"kode"`
	CreatedDate  time.Time  `gorm:"column:created_date;not null" json:"created_date"`
	IDStatus     int        `gorm:"column:id_status;not null" json:"id_status"`
	Approve      int        `gorm:"column:approve;not null;default:0" json:"approve"`
	ApprovedDate *time.Time `gorm:"column:approved_date" json:"approved_date,omitempty"`

	Status          Status          `gorm:"foreignKey:IDStatus;references:ID;constraint:OnDelete:RESTRICT" json:"status,omitempty"`
	DokumenList     []Dokumen       `gorm:"foreignKey:IDPelaporan;constraint:OnDelete:CASCADE" json:"dokumen_list,omitempty"`
	HistoryStatuses []HistoryStatus `gorm:"foreignKey:IDPelaporan;constraint:OnDelete:CASCADE" json:"history_statuses,omitempty"`
}

func (ReportEntity) TableName() string {
	return "pelaporan"
}

func (r *ReportEntity) IsAnonymous() bool {
	return strings.EqualFold(r.Nama, AnonymousName)
}

func (r *ReportEntity) IsApproved() bool {
	return r.Approve == 1
}
