package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates unconfirmed active user", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("jane@example.com", "Jane", "Doe", "password123")
		require.NoError(t, err)

		assert.True(t, user.Active)
		assert.False(t, user.Confirmed)
		assert.Equal(t, "Jane Doe", user.FullName())
	})

	tests := []struct {
		name     string
		email    string
		first    string
		last     string
		password string
		wantErr  error
	}{
		{"empty email", "", "Jane", "Doe", "password123", ErrEmptyEmail},
		{"missing at sign", "jane.example.com", "Jane", "Doe", "password123", ErrInvalidEmail},
		{"missing domain dot", "jane@example", "Jane", "Doe", "password123", ErrInvalidEmail},
		{"blank first name", "jane@example.com", "  ", "Doe", "password123", ErrEmptyFirstName},
		{"blank last name", "jane@example.com", "Jane", "", "password123", ErrEmptyLastName},
		{"short password", "jane@example.com", "Jane", "Doe", "short", ErrPasswordTooShort},
		{"long password", "jane@example.com", "Jane", "Doe", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewUser(tt.email, tt.first, tt.last, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("jane@example.com", "Jane", "Doe", "password123")
	require.NoError(t, err)

	// A persisted user carries only the hash; that still validates.
	user.Password = ""
	user.HashedPassword = "$2a$10$fakehashfakehashfakehash"
	assert.NoError(t, user.Validate())

	// Neither plaintext nor hash is invalid.
	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}
