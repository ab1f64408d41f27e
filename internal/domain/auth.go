package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

type AuthCredentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores everything past 72 bytes
)

// Normalize lower-cases the username and checks the sign-up rules.
func (c AuthCredentials) Normalize() (AuthCredentials, error) {
	c.Username = strings.ToLower(strings.TrimSpace(c.Username))
	c.Email = strings.TrimSpace(c.Email)
	if !usernamePattern.MatchString(c.Username) {
		return c, Invalid("username", "must be 3-32 characters of a-z, 0-9, '_', '.', '-'")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return c, Invalid("email", "is not an email address")
	}
	if utf8.RuneCountInString(c.Password) < minPasswordLen {
		return c, Invalid("password", "must be at least %d characters", minPasswordLen)
	}
	if len(c.Password) > maxPasswordLen {
		return c, Invalid("password", "must be at most %d bytes", maxPasswordLen)
	}
	return c, nil
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Token struct {
	Access  string `json:"accessToken"`
	Refresh string `json:"refreshToken"`
}

// Claims is the authenticated identity carried by an access token.
type Claims struct {
	UserID int64
	Role   Role
}

func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }
