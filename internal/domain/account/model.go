package account

import "time"

// Provider tags
const (
	ProviderUCloud = "ucloud"
)

// Account is one credentialed principal at a cloud provider.
// PublicKey and PrivateKey hold ciphertext produced by the secrets package and
// are never serialized.
type Account struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Provider   string    `json:"provider"`
	PublicKey  string    `json:"-"`
	PrivateKey string    `json:"-"`
	Region     string    `json:"region,omitempty"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Credentials is the decrypted key pair used to sign provider calls.
// It lives only for the duration of one refresh cycle.
type Credentials struct {
	PublicKey  string `json:"-"`
	PrivateKey string `json:"-"`
}

// String keeps key material out of logs and fmt verbs.
func (c Credentials) String() string {
	return "Credentials{redacted}"
}

// GoString is String for %#v.
func (c Credentials) GoString() string {
	return c.String()
}

// CreateInput carries plaintext credentials for a new account
type CreateInput struct {
	Name       string `json:"name" validate:"required,notblank,max=128"`
	Provider   string `json:"provider" validate:"required,oneof=ucloud"`
	PublicKey  string `json:"public_key" validate:"required,notblank,credential"`
	PrivateKey string `json:"private_key" validate:"required,notblank,credential"`
	Region     string `json:"region,omitempty" validate:"omitempty,max=64,region"`
	Enabled    *bool  `json:"enabled,omitempty"`
}

// UpdateInput carries optional changes; nil fields are left untouched.
// Supplying either key replaces the stored ciphertext for that key.
type UpdateInput struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,notblank,max=128"`
	PublicKey  *string `json:"public_key,omitempty" validate:"omitempty,notblank,credential"`
	PrivateKey *string `json:"private_key,omitempty" validate:"omitempty,notblank,credential"`
	Region     *string `json:"region,omitempty" validate:"omitempty,max=64,region"`
	Enabled    *bool   `json:"enabled,omitempty"`
}

// HasCredentials reports whether the update touches key material.
func (u UpdateInput) HasCredentials() bool {
	return u.PublicKey != nil || u.PrivateKey != nil
}
