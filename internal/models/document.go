package models

// Dokumen is one evidence file attached to a report (dokumen table).
// Cascade-deleted with its parent report.
type Dokumen struct {
	ID          int    `gorm:"column:id_dokumen;primaryKey;autoIncrement" json:"id"`
	DokumenPath string `gorm:"column:dokumen;size:255;not null" json:"dokumen"`
	IDPelaporan int    `gorm:"column:id_pelaporan;not null" json:"id_pelaporan"`
}

func (Dokumen) TableName() string {
	return "dokumen"
}
