package models

import "strings"

// User is a back-office account (users table). Reports themselves are
// submitted without an account; users exist for the review workflow.
type User struct {
	ID                        int     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IPAddress                 string  `gorm:"column:ip_address;size:45;not null" json:"-"`
	Username                  *string `gorm:"column:username;size:100" json:"username,omitempty"`
	Password                  string  `gorm:"column:password;size:255;not null" json:"-"`
	Email                     string  `gorm:"column:email;size:254;not null;uniqueIndex:uc_email" json:"email"`
	ActivationSelector        *string `gorm:"column:activation_selector;size:255;uniqueIndex:uc_activation_selector" json:"-"`
	ActivationCode            *string `gorm:"column:activation_code;size:255" json:"-"`
	ForgottenPasswordSelector *string `gorm:"column:forgotten_password_selector;size:255;uniqueIndex:uc_forgotten_password_selector" json:"-"`
	ForgottenPasswordCode     *string `gorm:"column:forgotten_password_code;size:255" json:"-"`
	ForgottenPasswordTime     *int64  `gorm:"column:forgotten_password_time" json:"-"`
	RememberSelector          *string `gorm:"column:remember_selector;size:255;uniqueIndex:uc_remember_selector" json:"-"`
	RememberCode              *string `gorm:"column:remember_code;size:255" json:"-"`
	CreatedOn                 int64   `gorm:"column:created_on;not null" json:"created_on"`
	LastLogin                 *int64  `gorm:"column:last_login" json:"last_login,omitempty"`
	Active                    *int16  `gorm:"column:active" json:"active,omitempty"`
	FirstName                 *string `gorm:"column:first_name;size:50" json:"first_name,omitempty"`
	LastName                  *string `gorm:"column:last_name;size:50" json:"last_name,omitempty"`
	Company                   *string `gorm:"column:company;size:100" json:"company,omitempty"`
	Phone                     *string `gorm:"column:phone;size:20" json:"phone,omitempty"`

	UserGroups []UserGroup `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	var parts []string
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	return strings.Join(parts, " ")
}

func (u *User) IsActive() bool {
	return u.Active != nil && *u.Active == 1
}

// InGroup reports whether any preloaded membership matches name.
func (u *User) InGroup(name string) bool {
	for _, ug := range u.UserGroups {
		if strings.EqualFold(ug.Group.Name, name) {
			return true
		}
	}
	return false
}
