package model

import "time"

// Role determines which marketplace operations a user may perform.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole validates textual role representation.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return r, true
	}
	return "", false
}

// User represents a registered marketplace account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated actor behind a request.
type Principal struct {
	ID     int64
	Role   Role
	Active bool
}

// Principal projects the user into the identity consumed by use cases.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role, Active: u.Active}
}
