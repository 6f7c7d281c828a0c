// Package secrets encrypts account credentials at rest and hashes the master password.
//
// Ciphertext layout is base64(salt || iv || sealed) where the key is derived from the
// passphrase with PBKDF2-SHA256 and sealed is AES-256-GCM output including its tag.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	Iterations = 100000
	SaltSize   = 16
	IVSize     = 12
	KeySize    = 32
)

var (
	// ErrDecrypt is returned for a wrong passphrase or corrupted ciphertext.
	ErrDecrypt = errors.New("secrets: decryption failed")
	// ErrEmptyPassphrase is returned when no passphrase is supplied.
	ErrEmptyPassphrase = errors.New("secrets: empty passphrase")
)

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, Iterations, KeySize, sha256.New)
}

// Encrypt seals plaintext with a key derived from passphrase and a fresh random salt and IV.
func Encrypt(plaintext, passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrEmptyPassphrase
	}

	buf := make([]byte, SaltSize+IVSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("secrets: read random: %w", err)
	}
	salt, iv := buf[:SaltSize], buf[SaltSize:]

	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return "", err
	}

	out := gcm.Seal(buf, iv, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Any failure other than an empty passphrase is reported as ErrDecrypt.
func Decrypt(ciphertext, passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrEmptyPassphrase
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < SaltSize+IVSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}
	salt, iv, sealed := raw[:SaltSize], raw[SaltSize:SaltSize+IVSize], raw[SaltSize+IVSize:]

	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return "", err
	}

	plain, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secrets: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("secrets: new gcm: %w", err)
	}
	return gcm, nil
}

// HashPassword returns the bcrypt hash of the master password.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("secrets: hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
