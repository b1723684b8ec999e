package handler

import "github.com/google/uuid"

// CreateUserRequest represents the request body for adding a user. Users
// created by an administrator are active immediately.
type CreateUserRequest struct {
	Email     string     `json:"email" binding:"required,email,max=200" example:"dispatcher@acme.com"`
	Password  string     `json:"password" binding:"required,min=8,max=128" example:"s3cure-pass"`
	FirstName string     `json:"first_name" binding:"required,max=100" example:"Joao"`
	LastName  string     `json:"last_name" binding:"max=100" example:"Pereira"`
	Phone     string     `json:"phone" binding:"max=50"`
	RoleID    *uuid.UUID `json:"role_id"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	FirstName *string    `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string    `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string    `json:"phone" binding:"omitempty,max=50"`
	RoleID    *uuid.UUID `json:"role_id"`
}

// CreateRoleRequest represents the request body for creating a role
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=100" example:"Yard clerk"`
	Description string   `json:"description" binding:"max=500"`
	Permissions []string `json:"permissions" binding:"required,dive,min=3,max=100" example:"containers:read,stock:*"`
}

// UpdateRoleRequest represents the request body for updating a role
type UpdateRoleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string   `json:"description" binding:"omitempty,max=500"`
	Permissions *[]string `json:"permissions" binding:"omitempty,dive,min=3,max=100"`
}
