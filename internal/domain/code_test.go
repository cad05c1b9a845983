package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmationCode(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	code := NewConfirmationCode(userID, "user@example.com")

	assert.Equal(t, userID, code.UserID)
	assert.Equal(t, "user@example.com", code.Email)
	assert.Equal(t, CodeStatusPending, code.Status)
	assert.False(t, code.Used())

	_, err := uuid.Parse(code.Code)
	require.NoError(t, err, "token should be an opaque UUID")
}

func TestConfirmationCodeUsed(t *testing.T) {
	t.Parallel()

	code := NewConfirmationCode(uuid.New(), "user@example.com")
	code.Status = CodeStatusUsed
	assert.True(t, code.Used())
}

func TestResetCodeExpiry(t *testing.T) {
	t.Parallel()

	ttl := 60 * time.Minute
	issued := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	code := NewResetCode("user@example.com")
	code.CreatedOn = issued

	t.Run("fresh code is live", func(t *testing.T) {
		t.Parallel()
		assert.False(t, code.Expired(issued.Add(time.Minute), ttl))
	})

	t.Run("code at exactly ttl is still live", func(t *testing.T) {
		t.Parallel()
		assert.False(t, code.Expired(issued.Add(ttl), ttl))
	})

	t.Run("code one minute past ttl is expired", func(t *testing.T) {
		t.Parallel()
		assert.True(t, code.Expired(issued.Add(ttl+time.Minute), ttl))
	})

	t.Run("expiry ignores status", func(t *testing.T) {
		t.Parallel()
		used := NewResetCode("user@example.com")
		used.CreatedOn = issued
		used.Status = CodeStatusUsed
		assert.True(t, used.Expired(issued.Add(ttl+time.Minute), ttl))
	})
}
