package dto

import "time"

// PasswordRequest carries the master password for setup and unlock
type PasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// SessionTokenDTO is returned after setup or unlock
type SessionTokenDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStatusDTO reports the lock state
type SessionStatusDTO struct {
	Configured bool `json:"configured"`
	Unlocked   bool `json:"unlocked"`
}
