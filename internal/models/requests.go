package models

// RegisterRequest represents the request to create a new account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254" example:"bob@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72,nospaces" example:"mypassword123"`
}

// LoginRequest represents the login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254" example:"bob@example.com"`
	Password string `json:"password" binding:"required" example:"mypassword123"`
}

// RefreshRequest represents the request to rotate a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// LogoutRequest revokes a specific refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// RegisterDeviceRequest presents a device fingerprint for the caller
type RegisterDeviceRequest struct {
	Fingerprint string `json:"fingerprint" binding:"required,fingerprint" example:"c29tZS1kZXZpY2UtaGFzaA"`
}

// AdminReviewRequest carries the admin decision for a pending device change
type AdminReviewRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject" example:"approve"`
}
