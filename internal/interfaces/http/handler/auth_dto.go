package handler

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=200" example:"ops@acme.com"`
	Password string `json:"password" binding:"required,max=128" example:"s3cure-pass"`
}

// RegisterRequest represents the request body for self-registration. The
// account stays pending until an administrator approves it.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=200" example:"clerk@acme.com"`
	Password  string `json:"password" binding:"required,min=8,max=128" example:"s3cure-pass"`
	FirstName string `json:"first_name" binding:"required,max=100" example:"Ana"`
	LastName  string `json:"last_name" binding:"max=100" example:"Silva"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}
