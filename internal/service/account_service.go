package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/mail"
	"github.com/tasklane/tasklane-api/internal/platform/googleauth"
	"github.com/tasklane/tasklane-api/internal/platform/logger"
	"github.com/tasklane/tasklane-api/internal/service/auth"
	"github.com/tasklane/tasklane-api/internal/store"
)

// AccountService composes the user stores, lifecycle codes, token codec,
// hasher, and mailer into the account flows: registration (direct and
// federated), login, logout, confirmation, and password reset.
//
// Every mutating flow runs inside a single transaction. Mail dispatch is
// part of that unit: if the email cannot be sent, the user (or code) it
// refers to is never committed.
type AccountService struct {
	runTx    store.TxRunner
	users    store.UserStore
	codes    store.CodeStore
	tokens   store.TokenStore
	invites  store.InvitationStore
	errorLog store.ErrorLogStore
	hasher   auth.PasswordHasher
	jwt      auth.JWTService
	mailer   mail.Mailer
	logger   *slog.Logger
	timeFunc func() time.Time // Injectable for testing
}

// NewAccountService wires an AccountService from its collaborators.
// If logger is nil, the default logger is used.
func NewAccountService(
	runTx store.TxRunner,
	users store.UserStore,
	codes store.CodeStore,
	tokens store.TokenStore,
	invites store.InvitationStore,
	errorLog store.ErrorLogStore,
	hasher auth.PasswordHasher,
	jwtService auth.JWTService,
	mailer mail.Mailer,
	logger *slog.Logger,
) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		runTx:    runTx,
		users:    users,
		codes:    codes,
		tokens:   tokens,
		invites:  invites,
		errorLog: errorLog,
		hasher:   hasher,
		jwt:      jwtService,
		mailer:   mailer,
		logger:   logger.With(slog.String("component", "account_service")),
		timeFunc: time.Now,
	}
}

// RegisterInput carries the fields of a direct registration request.
type RegisterInput struct {
	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

// Register creates an unconfirmed user, issues a confirmation code, and
// mails it, all in one transaction. Returns ErrEmailTaken or
// ErrPasswordMismatch for the business failures; anything else degrades
// to ErrInternal after being recorded in the error log.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	// The email check comes first: a taken address fails as taken no
	// matter what else is wrong with the request.
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, s.degrade(ctx, "register: lookup email", err)
	}

	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	user, err := domain.NewUser(input.Email, input.FirstName, input.LastName, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.hashInto(user); err != nil {
		return nil, s.degrade(ctx, "register: hash password", err)
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		code := domain.NewConfirmationCode(user.ID, user.Email)
		if err := s.codes.WithTx(tx).CreateConfirmation(ctx, code); err != nil {
			return err
		}

		// Mail dispatch is inside the transaction on purpose: a code
		// that was never delivered must not exist.
		return s.mailer.SendConfirmation(ctx, user.Email, code.Code)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, s.degrade(ctx, "register", err)
	}

	return user, nil
}

// FederatedRegisterInput carries a registration arriving through the
// OAuth path. Password is optional: absent, a random one is generated
// since the account will authenticate through the provider.
type FederatedRegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// RegisterFederated creates a pre-confirmed user without sending mail
// and returns the user plus a fresh access token.
func (s *AccountService) RegisterFederated(ctx context.Context, input FederatedRegisterInput) (*domain.User, string, error) {
	password := input.Password
	if password == "" {
		password = uuid.New().String()
	}

	user, err := domain.NewUser(input.Email, input.FirstName, input.LastName, password)
	if err != nil {
		return nil, "", err
	}
	user.Confirmed = true
	if err := s.hashInto(user); err != nil {
		return nil, "", s.degrade(ctx, "federated register: hash password", err)
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", s.degrade(ctx, "federated register", err)
	}

	token, err := s.jwt.GenerateToken(ctx, user)
	if err != nil {
		return nil, "", s.degrade(ctx, "federated register: token", err)
	}

	return user, token, nil
}

// Login authenticates by email and password and returns a signed access
// token. Unknown email and bad password both read as
// ErrInvalidCredentials; an unconfirmed account is reported as such
// before the password is checked.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", s.degrade(ctx, "login: lookup email", err)
	}

	if !user.Confirmed {
		return "", ErrAccountNotConfirmed
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(ctx, user)
	if err != nil {
		return "", s.degrade(ctx, "login: token", err)
	}

	return token, nil
}

// Logout revokes the presented token. The authentication middleware
// consults the blacklist, so a logged-out token is dead immediately.
func (s *AccountService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if err := s.tokens.Blacklist(ctx, token, expiresAt); err != nil {
		return s.degrade(ctx, "logout", err)
	}
	return nil
}

// ConfirmAccount redeems a confirmation code: the owning user becomes
// confirmed and the code is invalidated, atomically. When the request
// carries a user id it must match the code's owner.
func (s *AccountService) ConfirmAccount(ctx context.Context, token string, userID *uuid.UUID) error {
	code, err := s.codes.GetConfirmation(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrCodeNotFound) {
			return store.ErrCodeNotFound
		}
		return s.degrade(ctx, "confirm: lookup code", err)
	}

	if code.Used() {
		return ErrCodeUsed
	}

	if userID != nil && *userID != code.UserID {
		return ErrCodeNotOwner
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).SetConfirmed(ctx, code.Email); err != nil {
			return err
		}
		return s.codes.WithTx(tx).InvalidateConfirmation(ctx, token)
	})
	if err != nil {
		return s.degrade(ctx, "confirm", err)
	}

	return nil
}

// ForgotPassword issues a reset code for the given email and mails it.
// Returns store.ErrUserNotFound when no account carries the email.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return store.ErrUserNotFound
		}
		return s.degrade(ctx, "forgot password: lookup email", err)
	}

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		code := domain.NewResetCode(email)
		if err := s.codes.WithTx(tx).CreateReset(ctx, code); err != nil {
			return err
		}
		return s.mailer.SendPasswordReset(ctx, email, code.Code)
	})
	if err != nil {
		return s.degrade(ctx, "forgot password", err)
	}

	return nil
}

// ResetPassword redeems a reset code. Checks run in a fixed order, the
// first failure short-circuiting: code exists, not used, not expired,
// new passwords match. Reset codes share the access-token TTL.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword, confirmNewPassword string) error {
	code, err := s.codes.GetReset(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrCodeNotFound) {
			return store.ErrCodeNotFound
		}
		return s.degrade(ctx, "reset password: lookup code", err)
	}

	if code.Used() {
		return ErrCodeUsed
	}

	if code.Expired(s.timeFunc().UTC(), s.jwt.TokenLifetime()) {
		return ErrCodeExpired
	}

	if newPassword != confirmNewPassword {
		return ErrPasswordMismatch
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return s.degrade(ctx, "reset password: hash", err)
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).UpdatePassword(ctx, code.Email, hashed); err != nil {
			return err
		}
		return s.codes.WithTx(tx).InvalidateReset(ctx, token)
	})
	if err != nil {
		return s.degrade(ctx, "reset password", err)
	}

	return nil
}

// GoogleCallbackResult is the outcome of the OAuth callback: either a
// token for a known or newly registered user, or a deferral to the
// client-side registration form because a pending invitation exists.
type GoogleCallbackResult struct {
	Token             string
	PendingInvitation bool
	Email             string
	FirstName         string
	LastName          string
}

// HandleGoogleCallback resolves a verified Google identity to a local
// account: existing users get a token, invited emails are deferred to
// the registration form, everyone else is registered federated.
func (s *AccountService) HandleGoogleCallback(ctx context.Context, info *googleauth.UserInfo) (*GoogleCallbackResult, error) {
	user, err := s.users.GetByEmail(ctx, info.Email)
	switch {
	case err == nil:
		token, err := s.jwt.GenerateToken(ctx, user)
		if err != nil {
			return nil, s.degrade(ctx, "google callback: token", err)
		}
		return &GoogleCallbackResult{Token: token}, nil

	case errors.Is(err, store.ErrUserNotFound):
		// fall through to registration below

	default:
		return nil, s.degrade(ctx, "google callback: lookup email", err)
	}

	pending, err := s.invites.HasPending(ctx, info.Email)
	if err != nil {
		return nil, s.degrade(ctx, "google callback: invitations", err)
	}
	if pending {
		return &GoogleCallbackResult{
			PendingInvitation: true,
			Email:             info.Email,
			FirstName:         info.FirstName,
			LastName:          info.LastName,
		}, nil
	}

	_, token, err := s.RegisterFederated(ctx, FederatedRegisterInput{
		Email:     info.Email,
		FirstName: info.FirstName,
		LastName:  info.LastName,
	})
	if err != nil {
		return nil, err
	}

	return &GoogleCallbackResult{Token: token}, nil
}

// UpdateProfile changes the user's name fields (email is immutable
// through this path) and re-issues a token reflecting the new identity.
func (s *AccountService) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string) (*domain.User, string, error) {
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).UpdateProfile(ctx, id, firstName, lastName)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", store.ErrUserNotFound
		}
		return nil, "", s.degrade(ctx, "update profile", err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, "", s.degrade(ctx, "update profile: reload", err)
	}

	token, err := s.jwt.GenerateToken(ctx, user)
	if err != nil {
		return nil, "", s.degrade(ctx, "update profile: token", err)
	}

	return user, token, nil
}

// hashInto replaces the user's plaintext password with its hash.
func (s *AccountService) hashInto(user *domain.User) error {
	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.Password = ""
	return nil
}

// degrade records the underlying failure in the diagnostic sink and
// returns the generic ErrInternal. The raw error never leaves the
// service boundary.
func (s *AccountService) degrade(ctx context.Context, op string, err error) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Error("account flow failed",
		slog.String("op", op),
		slog.String("error", err.Error()))

	// Best-effort: the sink swallows its own failures.
	_ = s.errorLog.Record(ctx, fmt.Sprintf("%s: %v", op, err))

	return ErrInternal
}
