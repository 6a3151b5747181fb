package domain

// User represents an authenticated person who can belong to one or more companies.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Email        string `json:"email"`        // Unique login identifier
	PasswordHash string `json:"-"`            // bcrypt hash, never serialized
	IsActive     bool   `json:"isActive"`     // Soft delete flag
	AuditFields         // Embed common audit fields
}
