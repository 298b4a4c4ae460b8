package models

// Group is a named role (groups table). Static reference data seeded at
// startup: admin, members.
type Group struct {
	ID          int    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:name;size:20;not null" json:"name"`
	Description string `gorm:"column:description;size:100;not null" json:"description"`

	UserGroups []UserGroup `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Group) TableName() string {
	return "groups"
}

const (
	GroupAdmin   = "admin"
	GroupMembers = "members"
)
