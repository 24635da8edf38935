package models

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Elevated reports whether the role grants access to the admin area.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

type User struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	SubjectID string `gorm:"uniqueIndex"`
	Email     string `gorm:"uniqueIndex"`

	FirstName string
	LastName  string
	AvatarURL string

	Phone   string
	College string
	Course  string
	Year    string
	Address string

	Role       Role `gorm:"default:user"`
	LastLogin  *time.Time
	LoginCount int

	IsActive bool `gorm:"default:true"`
	IsBanned bool `gorm:"default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}
