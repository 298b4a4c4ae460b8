package models

// UserGroup is the users_groups join row. Unique on (user, group); removed
// together with either side of the membership.
type UserGroup struct {
	ID      int `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID  int `gorm:"column:user_id;not null;uniqueIndex:uc_users_groups" json:"user_id"`
	GroupID int `gorm:"column:group_id;not null;uniqueIndex:uc_users_groups" json:"group_id"`

	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

func (UserGroup) TableName() string {
	return "users_groups"
}
