package models

import (
	"time"
)

// User represents a marketplace account. The same record backs buyers and
// sellers; authentication itself happens upstream, this service only stores
// the credential hash and the profile fields the transaction flow needs
// (address at checkout, name/phone on seller listings).
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"` // never exposed in JSON
	Name         string    `bson:"name" json:"name"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	IsSeller     bool      `bson:"isSeller" json:"isSeller"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updated_at"`
}

type RegisterUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsSeller bool   `json:"isSeller"`
}

// SetTimestamps sets createdAt on first call and always updates updatedAt
func (u *User) SetTimestamps() {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

// HasAddress reports whether checkout can show a shipping destination.
func (u *User) HasAddress() bool {
	return u.Address != ""
}
