package models

import "time"

// HistoryStatus is one audit-trail row recording a status transition applied
// to a report (history_status table). Append-only; cascades with its report,
// never with the status it references.
type HistoryStatus struct {
	ID          int       `gorm:"column:id_history_status;primaryKey;autoIncrement" json:"id"`
	IDStatus    int       `gorm:"column:id_status;not null" json:"id_status"`
	IDPelaporan int       `gorm:"column:id_pelaporan;not null" json:"id_pelaporan"`
	Alasan      string    `gorm:"column:alasan;type:text;not null" json:"alasan"`
	CreatedDate time.Time `gorm:"column:created_date;not null" json:"created_date"`

	Status Status `gorm:"foreignKey:IDStatus;references:ID;constraint:OnDelete:RESTRICT" json:"status,omitempty"`
}

func (HistoryStatus) TableName() string {
	return "history_status"
}
