package domain

// Role type to distinguish between user roles.
type Role string

// Define constants for roles. Account management itself (registration, login)
// lives in a separate identity service; this backend only consumes the role
// claim carried by the bearer token.
const (
	RoleTrainer Role = "trainer"
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)
