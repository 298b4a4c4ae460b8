package models

// Status is a workflow stage label for reports (status table). Reference
// data: child rows block its deletion (RESTRICT).
type Status struct {
	ID   int    `gorm:"column:id_status;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:status;size:100;not null" json:"name"`
}

func (Status) TableName() string {
	return "status"
}

// Seeded workflow stages. ID 1 is assigned to every new submission.
const (
	StatusDiterima       = 1
	StatusDitolak        = 2
	StatusDitindaklanjut = 3
)
