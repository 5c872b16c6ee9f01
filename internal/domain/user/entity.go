package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User entity. Admins are the only user kind; clients never hold accounts,
// they act through the public quotation link.
type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	name         string
	lastLogin    *time.Time
	createdAt    time.Time
}

func NewUser(email Email, passwordHash, name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		name:         name,
	}, nil
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Name() string          { return u.name }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
