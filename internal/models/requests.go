package models

// RegisterRequest represents the registration request payload.
// Role is optional; when present it must parse to USER or ORGANIZER.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangeRoleRequest represents the admin role change payload
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ChangeStatusRequest represents the admin status change payload
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AccountListItem is the admin listing view of an account. The password hash
// never leaves the service layer.
type AccountListItem struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Status    Status `json:"status"`
	CreatedAt string `json:"created_at"`
}

// TokenResponse carries a freshly issued session token
type TokenResponse struct {
	Token string `json:"token"`
}
