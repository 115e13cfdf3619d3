package dto

import "time"

// LoginRequest starts the email login flow.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AdminLoginRequest is the password path reserved for admins.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// OTPVerifyRequest redeems a one-time passcode for a token.
type OTPVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"otp" validate:"required,len=6,numeric"`
}

// LoginStartResponse tells the client which credential to present next.
type LoginStartResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

// TokenVerifyRequest asks whether a previously issued token is still good.
type TokenVerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// TokenClaimsResponse echoes the verified token's claims.
type TokenClaimsResponse struct {
	UserID    uint      `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponse carries a signed access token after successful verification.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	UserID      uint   `json:"user_id"`
	Name        string `json:"name"`
}
