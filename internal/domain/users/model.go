package users

import (
	"time"

	"github.com/Spok95/access-bot/internal/lang"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        int64 // Telegram user id
	Username  string
	Name      string
	Lang      lang.Lang
	Role      Role
	Banned    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Display возвращает @username, а если его нет — имя.
func (u *User) Display() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.Name
}

type Telegram struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}
