package user

import (
	"github.com/google/uuid"

	"entitlement-service/internal/domain/locale"
)

// User is owned by the platform's account service; the engine only reads it
// to resolve the purchaser and address notifications.
type User struct {
	id       uuid.UUID
	email    Email
	name     string
	locale   locale.Locale
	isActive bool
}

func NewUser(id uuid.UUID, email Email, name string, preferred locale.Locale, isActive bool) *User {
	if !preferred.IsValid() {
		preferred = locale.EN
	}
	return &User{
		id:       id,
		email:    email,
		name:     name,
		locale:   preferred,
		isActive: isActive,
	}
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Email() Email          { return u.email }
func (u *User) Name() string          { return u.name }
func (u *User) Locale() locale.Locale { return u.locale }
func (u *User) IsActive() bool        { return u.isActive }

// DisplayName falls back to the mailbox part of the address.
func (u *User) DisplayName() string {
	if u.name != "" {
		return u.name
	}
	return u.email.LocalPart()
}
