package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:20;default:'user';not null" json:"role"` // user, moderator, admin
	Active    bool      `gorm:"default:true" json:"active"`
	Superuser bool      `gorm:"default:false" json:"superuser"`
	Bio       string    `gorm:"size:500" json:"bio"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave keeps superuser accounts consistent: a superuser is always an
// active admin, whatever the submitted form said.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Superuser {
		u.Role = RoleAdmin
		u.Active = true
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}
