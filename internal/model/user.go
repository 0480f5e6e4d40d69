package model

import (
	"strings"
	"unicode"
)

// User types accepted by the login endpoint.
const (
	UserTypeStudent = "student"
	UserTypeStaff   = "staff"
)

// User is the canonical session user. All server payload shapes are
// normalised into this type at the API boundary.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Staff reports whether the user may access the management surfaces.
func (u *User) Staff() bool {
	return u.IsStaff || u.IsSuperuser
}

// DisplayName returns the best human-readable name available.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	default:
		return "User"
	}
}

// Initials returns up to two uppercase initials for the display name.
func (u *User) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(u.DisplayName()) {
		for _, r := range part {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}

// RegisterRequest is the payload for the registration endpoint.
type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
