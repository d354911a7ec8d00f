package models

import "time"

// Roles assigned to authenticated users. The first registered user becomes
// the site owner and gets RoleAdmin; everyone else is a reader.
const (
	RoleAdmin  = "admin"
	RoleReader = "reader"
)

// UserModel represents an authenticated identity.
type UserModel struct {
	Base
	Username      string     `json:"username"        gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Mail          string     `json:"mail"`
	Avatar        string     `json:"avatar"`
	URL           string     `json:"url"`
	Introduce     string     `json:"introduce"`
	Password      string     `json:"-"               gorm:"not null"`
	Role          string     `json:"role"            gorm:"index;default:'reader'"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// IsAdmin reports whether the user carries the admin role.
func (u *UserModel) IsAdmin() bool { return u.Role == RoleAdmin }

// DisplayLabel returns the label used in activity notifications:
// name, else mail, else "anonymous".
func (u *UserModel) DisplayLabel() string {
	if u == nil {
		return "anonymous"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Mail != "" {
		return u.Mail
	}
	return "anonymous"
}
