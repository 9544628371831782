package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// User roles.
const (
	RoleDonor = "donor"
	RoleAdmin = "admin"
)

// User lifecycle states.
const (
	UserActive  = "active"
	UserPending = "pending"
)

// Field names of the user document.
const (
	UserEmail     = "email"
	UserRole      = "role"
	UserStatus    = "status"
	UserCreatedAt = "createdAt"
)

// CreatedAtLayout is the wall-clock layout stored in createdAt.
const CreatedAtLayout = "2006-01-02 15:04:05"

// CreatedAtOffset shifts the UTC instant to the platform's local wall clock.
const CreatedAtOffset = 6 * time.Hour

// User documents are schemaless; only the fields above are interpreted.
type User = bson.M

// NewUser copies the caller's profile and overwrites the fields a caller may
// not choose on sign up.
func NewUser(profile bson.M, now time.Time) User {
	user := make(User, len(profile)+3)
	for k, v := range profile {
		user[k] = v
	}
	delete(user, "_id")
	user[UserRole] = RoleDonor
	user[UserStatus] = UserPending
	user[UserCreatedAt] = FormatCreatedAt(now)
	return user
}

// FormatCreatedAt renders now as a timezone-naive timestamp.
func FormatCreatedAt(now time.Time) string {
	return now.UTC().Add(CreatedAtOffset).Format(CreatedAtLayout)
}

// RoleOf returns the role stored on a user document.
func RoleOf(user User) string {
	role, _ := user[UserRole].(string)
	return role
}

// IsAdmin reports whether the user document carries the admin role.
func IsAdmin(user User) bool {
	return user != nil && RoleOf(user) == RoleAdmin
}
