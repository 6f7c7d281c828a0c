package secrets

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	r := require.New(t)

	ct, err := Encrypt("pub-key-123", "correct horse")
	r.NoError(err)
	r.NotContains(ct, "pub-key-123")

	raw, err := base64.StdEncoding.DecodeString(ct)
	r.NoError(err)
	r.Len(raw, SaltSize+IVSize+len("pub-key-123")+16)

	pt, err := Decrypt(ct, "correct horse")
	r.NoError(err)
	r.Equal("pub-key-123", pt)
}

func TestEncryptUsesFreshSalt(t *testing.T) {
	r := require.New(t)

	a, err := Encrypt("same", "pw")
	r.NoError(err)
	b, err := Encrypt("same", "pw")
	r.NoError(err)
	r.NotEqual(a, b)
}

func TestDecryptFailures(t *testing.T) {
	good, err := Encrypt("secret", "pw")
	require.NoError(t, err)

	raw, _ := base64.StdEncoding.DecodeString(good)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name       string
		ciphertext string
		passphrase string
		wantErr    error
	}{
		{"wrong passphrase", good, "other", ErrDecrypt},
		{"tampered", tampered, "pw", ErrDecrypt},
		{"not base64", "%%%", "pw", ErrDecrypt},
		{"too short", base64.StdEncoding.EncodeToString([]byte("abc")), "pw", ErrDecrypt},
		{"empty passphrase", good, "", ErrEmptyPassphrase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.ciphertext, tt.passphrase)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Decrypt() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPasswordHash(t *testing.T) {
	r := require.New(t)

	hash, err := HashPassword("master", bcrypt.MinCost)
	r.NoError(err)
	r.True(CheckPassword(hash, "master"))
	r.False(CheckPassword(hash, "Master"))
}
