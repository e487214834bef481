package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type UserStatus string

const (
	StatusActive UserStatus = "active"
	StatusBanned UserStatus = "banned"
)

type User struct {
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	Role         Role       `json:"role"`
	JoinDate     time.Time  `json:"joinDate"`
	Status       UserStatus `json:"status"`
	PasswordHash string     `json:"passwordHash,omitempty"`
}

func (u User) IsAdmin() bool  { return u.Role == RoleAdmin }
func (u User) IsBanned() bool { return u.Status == StatusBanned }

// Public strips credentials before the user leaves the service.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// NameFromEmail derives a display name from the local part of an email,
// "jane.doe@x.com" becomes "Jane Doe".
func NameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	if len(parts) == 0 {
		return email
	}
	return strings.Join(parts, " ")
}

// Session is a logged-in user. Persisted so a restart keeps people signed in.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
