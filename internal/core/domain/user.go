package domain

import (
	"errors"
	"time"
)

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUnauthenticated = errors.New("not authenticated")
var ErrInvalidOAuthState = errors.New("invalid oauth state")

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// User models an account. Identity fields (Name, Email, Image) are written
// by the sign-in callback from provider data; the profile fields below them
// are mutated only through the profile update operation.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`

	Bio        string `json:"bio,omitempty"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Theme      Theme  `json:"theme"`

	EmailNotifications bool `json:"emailNotifications"`
	TaskReminders      bool `json:"taskReminders"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
