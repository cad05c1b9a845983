package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/mocks"
	"github.com/tasklane/tasklane-api/internal/platform/googleauth"
	"github.com/tasklane/tasklane-api/internal/store"
)

// fakeHasher avoids the cost of bcrypt in service tests. The hashing
// contract itself is covered in the auth package.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type accountFixture struct {
	svc      *AccountService
	users    *mocks.MockUserStore
	codes    *mocks.MockCodeStore
	tokens   *mocks.MockTokenStore
	invites  *mocks.MockInvitationStore
	errorLog *mocks.MockErrorLogStore
	mailer   *mocks.MockMailer
	jwt      *mocks.MockJWTService
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()

	f := &accountFixture{
		users:    mocks.NewMockUserStore(),
		codes:    mocks.NewMockCodeStore(),
		tokens:   mocks.NewMockTokenStore(),
		invites:  mocks.NewMockInvitationStore(),
		errorLog: &mocks.MockErrorLogStore{},
		mailer:   &mocks.MockMailer{},
		jwt:      &mocks.MockJWTService{Token: "issued-token"},
	}
	f.svc = NewAccountService(
		mocks.PassthroughTxRunner(),
		f.users,
		f.codes,
		f.tokens,
		f.invites,
		f.errorLog,
		fakeHasher{},
		f.jwt,
		f.mailer,
		nil,
	)
	return f
}

// seedUser registers a confirmed user directly in the mock store.
func (f *accountFixture) seedUser(t *testing.T, email string, confirmed bool) *domain.User {
	t.Helper()

	user, err := domain.NewUser(email, "Jane", "Doe", "password123")
	require.NoError(t, err)
	user.HashedPassword = "hashed:password123"
	user.Password = ""
	user.Confirmed = confirmed
	f.users.Users[email] = user
	return user
}

func TestRegister(t *testing.T) {
	t.Parallel()

	input := RegisterInput{
		Email:           "jane@example.com",
		FirstName:       "Jane",
		LastName:        "Doe",
		Password:        "password123",
		ConfirmPassword: "password123",
	}

	t.Run("creates user, code, and mail atomically", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)

		user, err := f.svc.Register(context.Background(), input)
		require.NoError(t, err)

		assert.False(t, user.Confirmed)
		assert.Empty(t, user.Password)
		assert.Equal(t, "hashed:password123", user.HashedPassword)

		require.Len(t, f.codes.ConfirmationCodes, 1)
		require.Len(t, f.mailer.Sent, 1)
		sent := f.mailer.Sent[0]
		assert.Equal(t, "jane@example.com", sent.To)
		assert.Equal(t, "confirmation", sent.Kind)
		_, exists := f.codes.ConfirmationCodes[sent.Code]
		assert.True(t, exists, "mailed code must be the stored code")
	})

	t.Run("password mismatch", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)

		bad := input
		bad.ConfirmPassword = "different123"
		_, err := f.svc.Register(context.Background(), bad)
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("duplicate email always fails", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		f.seedUser(t, "jane@example.com", true)

		_, err := f.svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmailTaken)

		// The taken email wins even when the passwords also disagree.
		mismatched := input
		mismatched.ConfirmPassword = "different123"
		_, err = f.svc.Register(context.Background(), mismatched)
		assert.ErrorIs(t, err, ErrEmailTaken)

		// Also when the race surfaces as a store conflict instead.
		f2 := newAccountFixture(t)
		f2.users.CreateFn = func(ctx context.Context, user *domain.User) error {
			return store.ErrEmailExists
		}
		_, err = f2.svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("mail failure degrades to internal and is recorded", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		f.mailer.Err = errors.New("smtp unreachable")

		_, err := f.svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrInternal)

		recorded := f.errorLog.Recorded()
		require.Len(t, recorded, 1)
		assert.Contains(t, recorded[0], "smtp unreachable")
	})

	t.Run("mail failure rolls the registration back", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		runner := &mocks.RecordingTxRunner{}
		f.svc.runTx = runner.Run
		f.mailer.Err = errors.New("smtp unreachable")

		_, err := f.svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrInternal)

		// The user and code writes happened inside the failed closure,
		// which never committed.
		assert.Equal(t, 0, runner.Commits)
		assert.Equal(t, 1, runner.Rollbacks)
		assert.Contains(t, f.users.Users, "jane@example.com")
		assert.Len(t, f.codes.ConfirmationCodes, 1)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("unknown email reads as invalid credentials", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)

		_, err := f.svc.Login(context.Background(), "ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unconfirmed account reported before password check", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		f.seedUser(t, "jane@example.com", false)

		_, err := f.svc.Login(context.Background(), "jane@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrAccountNotConfirmed)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		f.seedUser(t, "jane@example.com", true)

		_, err := f.svc.Login(context.Background(), "jane@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("success issues token", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		f.seedUser(t, "jane@example.com", true)

		token, err := f.svc.Login(context.Background(), "jane@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "issued-token", token)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)

	expiry := time.Now().Add(time.Hour)
	require.NoError(t, f.svc.Logout(context.Background(), "some-token", expiry))

	revoked, err := f.tokens.IsBlacklisted(context.Background(), "some-token")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestConfirmAccount(t *testing.T) {
	t.Parallel()

	t.Run("confirms user and consumes code", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		user := f.seedUser(t, "jane@example.com", false)

		code := domain.NewConfirmationCode(user.ID, user.Email)
		f.codes.ConfirmationCodes[code.Code] = code

		require.NoError(t, f.svc.ConfirmAccount(context.Background(), code.Code, nil))

		assert.True(t, user.Confirmed)
		assert.True(t, code.Used())

		// A second redemption is rejected.
		assert.ErrorIs(t,
			f.svc.ConfirmAccount(context.Background(), code.Code, nil),
			ErrCodeUsed)
	})

	t.Run("unknown code", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)

		err := f.svc.ConfirmAccount(context.Background(), "no-such-code", nil)
		assert.ErrorIs(t, err, store.ErrCodeNotFound)
	})

	t.Run("owner mismatch", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		user := f.seedUser(t, "jane@example.com", false)

		code := domain.NewConfirmationCode(user.ID, user.Email)
		f.codes.ConfirmationCodes[code.Code] = code

		other := uuid.New()
		err := f.svc.ConfirmAccount(context.Background(), code.Code, &other)
		assert.ErrorIs(t, err, ErrCodeNotOwner)
		assert.False(t, user.Confirmed)

		// The owner can still redeem it.
		require.NoError(t, f.svc.ConfirmAccount(context.Background(), code.Code, &user.ID))
		assert.True(t, user.Confirmed)
	})
}

func TestForgotPassword(t *testing.T) {
	t.Parallel()

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)

		err := f.svc.ForgotPassword(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.Empty(t, f.mailer.Sent)
	})

	t.Run("issues and mails reset code", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		f.seedUser(t, "jane@example.com", true)

		require.NoError(t, f.svc.ForgotPassword(context.Background(), "jane@example.com"))

		require.Len(t, f.codes.ResetCodes, 1)
		require.Len(t, f.mailer.Sent, 1)
		assert.Equal(t, "reset", f.mailer.Sent[0].Kind)
		_, exists := f.codes.ResetCodes[f.mailer.Sent[0].Code]
		assert.True(t, exists)
	})
}

func TestResetPassword(t *testing.T) {
	t.Parallel()

	seedReset := func(f *accountFixture, email string) *domain.ResetCode {
		code := domain.NewResetCode(email)
		f.codes.ResetCodes[code.Code] = code
		return code
	}

	t.Run("updates password and consumes code", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		user := f.seedUser(t, "jane@example.com", true)
		code := seedReset(f, user.Email)

		err := f.svc.ResetPassword(context.Background(), code.Code, "newpassword1", "newpassword1")
		require.NoError(t, err)

		assert.Equal(t, "hashed:newpassword1", user.HashedPassword)
		assert.True(t, code.Used())
	})

	t.Run("checks run in fixed order", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		user := f.seedUser(t, "jane@example.com", true)

		// Missing code wins over everything.
		err := f.svc.ResetPassword(context.Background(), "absent", "a", "b")
		assert.ErrorIs(t, err, store.ErrCodeNotFound)

		// Used beats expired and mismatch.
		used := seedReset(f, user.Email)
		used.Status = domain.CodeStatusUsed
		used.CreatedOn = time.Now().Add(-48 * time.Hour)
		err = f.svc.ResetPassword(context.Background(), used.Code, "a", "b")
		assert.ErrorIs(t, err, ErrCodeUsed)

		// Expired beats mismatch.
		expired := seedReset(f, user.Email)
		expired.CreatedOn = time.Now().Add(-48 * time.Hour)
		err = f.svc.ResetPassword(context.Background(), expired.Code, "a", "b")
		assert.ErrorIs(t, err, ErrCodeExpired)

		// Finally the password pair must agree.
		fresh := seedReset(f, user.Email)
		err = f.svc.ResetPassword(context.Background(), fresh.Code, "newpassword1", "different1")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("expiry window is the token lifetime", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		user := f.seedUser(t, "jane@example.com", true)
		code := seedReset(f, user.Email)

		issued := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
		code.CreatedOn = issued

		// The mock JWT service reports a one hour lifetime.
		f.svc.timeFunc = func() time.Time { return issued.Add(time.Hour) }
		err := f.svc.ResetPassword(context.Background(), code.Code, "newpassword1", "newpassword1")
		assert.NoError(t, err)

		code2 := seedReset(f, user.Email)
		code2.CreatedOn = issued
		f.svc.timeFunc = func() time.Time { return issued.Add(time.Hour + time.Minute) }
		err = f.svc.ResetPassword(context.Background(), code2.Code, "newpassword1", "newpassword1")
		assert.ErrorIs(t, err, ErrCodeExpired)
	})
}

func TestHandleGoogleCallback(t *testing.T) {
	t.Parallel()

	info := &googleauth.UserInfo{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	}

	t.Run("existing user gets token", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		f.seedUser(t, "jane@example.com", true)

		result, err := f.svc.HandleGoogleCallback(context.Background(), info)
		require.NoError(t, err)
		assert.Equal(t, "issued-token", result.Token)
		assert.False(t, result.PendingInvitation)
	})

	t.Run("pending invitation defers registration", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		f.invites.Pending["jane@example.com"] = true

		result, err := f.svc.HandleGoogleCallback(context.Background(), info)
		require.NoError(t, err)

		assert.True(t, result.PendingInvitation)
		assert.Equal(t, "jane@example.com", result.Email)
		assert.Empty(t, result.Token)
		assert.Empty(t, f.users.Users, "no account may be created on deferral")
	})

	t.Run("fresh identity registers pre-confirmed", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)

		result, err := f.svc.HandleGoogleCallback(context.Background(), info)
		require.NoError(t, err)
		assert.Equal(t, "issued-token", result.Token)

		user, ok := f.users.Users["jane@example.com"]
		require.True(t, ok)
		assert.True(t, user.Confirmed)
		assert.Empty(t, f.mailer.Sent, "federated signup sends no confirmation mail")
	})
}

func TestRegisterFederatedGeneratesPassword(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)

	user, token, err := f.svc.RegisterFederated(context.Background(), FederatedRegisterInput{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	assert.Equal(t, "issued-token", token)
	assert.True(t, user.Confirmed)
	assert.True(t, strings.HasPrefix(user.HashedPassword, "hashed:"))
	assert.Empty(t, user.Password)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("renames user and reissues token", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)
		user := f.seedUser(t, "jane@example.com", true)
		f.jwt.GenerateTokenFn = func(ctx context.Context, u *domain.User) (string, error) {
			return fmt.Sprintf("token-for-%s-%s", u.FirstName, u.LastName), nil
		}

		updated, token, err := f.svc.UpdateProfile(context.Background(), user.ID, "Janet", "Smith")
		require.NoError(t, err)

		assert.Equal(t, "Janet", updated.FirstName)
		assert.Equal(t, "Smith", updated.LastName)
		assert.Equal(t, "jane@example.com", updated.Email, "email stays immutable")
		assert.Equal(t, "token-for-Janet-Smith", token)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture(t)

		_, _, err := f.svc.UpdateProfile(context.Background(), uuid.New(), "Janet", "Smith")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
