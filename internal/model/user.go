// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered survey participant.
//
// WHY PasswordHash with `json:"-"`?
// The dash tag tells encoding/json to NEVER serialize this field, in either
// direction. Even if a handler accidentally writes the whole User struct to a
// response, the bcrypt hash stays server-side.
//
// WHY Email immutable?
// Email is the login identifier and carries a UNIQUE constraint in the DB.
// Changing it would mean re-checking uniqueness and invalidating sessions,
// so this service simply never updates it.
//
// An account created through GitHub sign-in has an empty PasswordHash.
// Password login against an empty hash always fails (bcrypt rejects it),
// which keeps the login error uniform — see service.AuthService.Login.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Summary is the non-sensitive projection of a User returned by login.
// It exists so handlers never have to think about which User fields are
// safe to expose — Summary contains only safe ones.
type Summary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Summary returns the user's public projection.
func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Email: u.Email, Name: u.Name}
}
