package entity

// DirectoryUser is the read-only view of a user account the settlement core needs.
type DirectoryUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}
