package handler

// OnboardTenantRequest represents the public sign-up of a new tenant and its
// first administrator
type OnboardTenantRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200" example:"Acme Logistics"`
	Subdomain      string `json:"subdomain" binding:"required,subdomain" example:"acme"`
	ContactPhone   string `json:"contact_phone" binding:"omitempty,max=50" example:"+351 210 000 000"`
	AdminEmail     string `json:"admin_email" binding:"required,email,max=200" example:"admin@acme.com"`
	AdminPassword  string `json:"admin_password" binding:"required,min=8,max=128" example:"s3cure-pass"`
	AdminFirstName string `json:"admin_first_name" binding:"required,max=100" example:"Rita"`
	AdminLastName  string `json:"admin_last_name" binding:"max=100" example:"Costa"`
}

// UpdateTenantRequest represents the editable profile of the current tenant.
// The subdomain cannot change.
// @name HandlerUpdateTenantRequest
type UpdateTenantRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email,max=200"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=50"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	Notes        *string `json:"notes" binding:"omitempty,max=2000"`
}
