package models

import (
	"html"
	"strings"
	"time"
)

// User represents an author or reader of the blog.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(20);not null"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(100);not null;index:idx_users_name,priority:1"`
	LastName     string    `json:"last_name" gorm:"type:varchar(100);not null;index:idx_users_name,priority:2"`
	Email        string    `json:"email,omitempty" gorm:"type:varchar(255)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	AvatarImage  []byte    `json:"-"`
	Bio          string    `json:"bio,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns the first and last name separated by a space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasAvatar reports whether the user uploaded an avatar image.
func (u *User) HasAvatar() bool {
	return len(u.AvatarImage) > 0
}

// FormattedBio returns the bio escaped for HTML with newlines as line breaks.
func (u *User) FormattedBio() string {
	return formatText(u.Bio)
}

// UserSettings is a partial update of a user profile. Nil fields are left
// untouched.
type UserSettings struct {
	FirstName *string
	LastName  *string
	Password  *string
	Email     *string
	Avatar    []byte
	Bio       *string
}

// Empty reports whether no field is present.
func (s UserSettings) Empty() bool {
	return s.FirstName == nil && s.LastName == nil && s.Password == nil &&
		s.Email == nil && s.Avatar == nil && s.Bio == nil
}

func formatText(s string) string {
	if s == "" {
		return ""
	}
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
