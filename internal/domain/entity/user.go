package entity

import "time"

// Roles de usuario del back-office.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User representa un usuario del back-office.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         string // "admin" | "member"
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
