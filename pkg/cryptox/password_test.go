package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"short password", "secret"},
		{"unicode password", "пароль密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			require.NotEqual(t, tt.password, hash)

			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			require.Equal(t, DefaultCost, cost)

			require.NoError(t, VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestHashPasswordRejectsOverlongInput(t *testing.T) {
	t.Parallel()

	// bcrypt only consumes 72 bytes of input.
	_, err := HashPassword(strings.Repeat("a", 100))
	require.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	t.Run("accepts matching password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("correct horse", hash))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("battery staple", hash), ErrPasswordMismatch)
	})

	t.Run("rejects malformed hash", func(t *testing.T) {
		err := VerifyPassword("correct horse", "not-a-bcrypt-hash")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrPasswordMismatch)
	})
}

func TestBcryptAdapter(t *testing.T) {
	t.Parallel()

	var h Bcrypt
	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	require.NoError(t, h.Verify("secret1", hash))
	require.ErrorIs(t, h.Verify("secret2", hash), ErrPasswordMismatch)
}
