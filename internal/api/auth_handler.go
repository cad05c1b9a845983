package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/tasklane/tasklane-api/internal/api/shared"
	"github.com/tasklane/tasklane-api/internal/platform/googleauth"
	"github.com/tasklane/tasklane-api/internal/platform/logger"
	"github.com/tasklane/tasklane-api/internal/service"
	"github.com/tasklane/tasklane-api/internal/store"
)

// AuthHandler serves the session lifecycle: login, logout, account
// confirmation, password reset, and the Google OAuth round trip.
type AuthHandler struct {
	accounts    *service.AccountService
	google      googleauth.Provider
	frontendURL string
}

// NewAuthHandler creates an AuthHandler with its dependencies.
func NewAuthHandler(accounts *service.AccountService, google googleauth.Provider, frontendURL string) *AuthHandler {
	return &AuthHandler{
		accounts:    accounts,
		google:      google,
		frontendURL: frontendURL,
	}
}

// Login handles POST /login. The credentials arrive form-encoded under
// username and password, the username being the account email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		shared.RespondValidationError(w, r, "Invalid form body")
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		shared.RespondValidationError(w, r, "Field 'username' and 'password' are required")
		return
	}

	token, err := h.accounts.Login(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			shared.RespondEnvelope(w, r, TokenOut{
				Envelope: shared.NewEnvelope(http.StatusForbidden, "Invalid Credentials"),
			})
		case errors.Is(err, service.ErrAccountNotConfirmed):
			shared.RespondEnvelope(w, r, TokenOut{
				Envelope: shared.NewEnvelope(http.StatusForbidden, "Email has not been verified yet"),
			})
		default:
			shared.RespondEnvelope(w, r, TokenOut{
				Envelope: shared.NewEnvelope(http.StatusInternalServerError, "There is a problem, try again"),
			})
		}
		return
	}

	shared.RespondEnvelope(w, r, TokenOut{
		Envelope:    shared.NewEnvelope(http.StatusOK, "Login successful"),
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Logout handles GET /logout. The presented token is blacklisted until
// its natural expiry, after which keeping it would serve no purpose.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := shared.TokenFromContext(r.Context())
	claims, cok := shared.ClaimsFromContext(r.Context())
	if !ok || !cok {
		shared.RespondUnauthorized(w, r, "Could not validate credentials")
		return
	}

	if err := h.accounts.Logout(r.Context(), token, claims.ExpiresAt); err != nil {
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusInternalServerError, "There is a problem, try again"))
		return
	}

	shared.RespondEnvelope(w, r, shared.NewEnvelope(http.StatusOK, "Logout successfully"))
}

// ConfirmAccount handles PATCH /confirmAccount.
func (h *AuthHandler) ConfirmAccount(w http.ResponseWriter, r *http.Request) {
	var req ConfirmAccountRequest
	if !DecodeValidated(w, r, &req) {
		return
	}

	err := h.accounts.ConfirmAccount(r.Context(), req.Code, req.UserID)
	switch {
	case err == nil:
		shared.RespondEnvelope(w, r, shared.NewEnvelope(http.StatusOK, "Account Confirmed"))
	case errors.Is(err, store.ErrCodeNotFound):
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusBadRequest, "Confirmation code does not exist"))
	case errors.Is(err, service.ErrCodeUsed):
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusBadRequest, "Account Already Confirmed"))
	case errors.Is(err, service.ErrCodeNotOwner):
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusForbidden, "You cannot confirm another user account"))
	default:
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusInternalServerError, "There is a problem, try again"))
	}
}

// ForgotPassword handles POST /forgotPassword.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !DecodeValidated(w, r, &req) {
		return
	}

	err := h.accounts.ForgotPassword(r.Context(), req.Email)
	switch {
	case err == nil:
		shared.RespondEnvelope(w, r, shared.NewEnvelope(http.StatusOK, "email sent!"))
	case errors.Is(err, store.ErrUserNotFound):
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusNotFound, "No account with this email"))
	default:
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusBadRequest, "Something went wrong"))
	}
}

// ResetPassword handles PATCH /resetPassword. The checks run in a fixed
// order so the client always learns the earliest failure: existence,
// reuse, expiry, then password agreement.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !DecodeValidated(w, r, &req) {
		return
	}

	err := h.accounts.ResetPassword(r.Context(), req.ResetPasswordToken, req.NewPassword, req.ConfirmNewPassword)
	switch {
	case err == nil:
		shared.RespondEnvelope(w, r, shared.NewEnvelope(http.StatusOK, "Password reset successfully"))
	case errors.Is(err, store.ErrCodeNotFound):
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusBadRequest, "Reset link does not exist"))
	case errors.Is(err, service.ErrCodeUsed):
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusBadRequest, "Code Already used"))
	case errors.Is(err, service.ErrCodeExpired):
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusBadRequest, "Code expired"))
	case errors.Is(err, service.ErrPasswordMismatch):
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusBadRequest, "Passwords do not match"))
	default:
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusBadRequest, "Something went wrong!"))
	}
}

// GoogleLogin handles GET /login/google: a plain redirect to the
// provider's consent screen.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// googleRegistrationData is the payload handed to the client-side
// registration form when a pending invitation defers federated signup.
type googleRegistrationData struct {
	Email                string `json:"email"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	HasPendingInvitation bool   `json:"has_pending_invitation"`
}

// GoogleCallback handles GET /auth/google/callback. Known and freshly
// registered users are redirected to the frontend with an access token;
// invited emails are redirected to the registration form instead.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		shared.RespondJSON(w, r, http.StatusBadRequest,
			shared.NewEnvelope(http.StatusBadRequest, "Could not verify Google login"))
		return
	}

	info, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		logger.FromContext(r.Context()).Error("google exchange failed", "error", err)
		shared.RespondJSON(w, r, http.StatusBadRequest,
			shared.NewEnvelope(http.StatusBadRequest, "Could not verify Google login"))
		return
	}

	result, err := h.accounts.HandleGoogleCallback(r.Context(), info)
	if err != nil {
		shared.RespondJSON(w, r, http.StatusBadRequest,
			shared.NewEnvelope(http.StatusBadRequest, "Could not verify Google login"))
		return
	}

	if result.PendingInvitation {
		data, err := json.Marshal(googleRegistrationData{
			Email:                result.Email,
			FirstName:            result.FirstName,
			LastName:             result.LastName,
			HasPendingInvitation: true,
		})
		if err != nil {
			shared.RespondJSON(w, r, http.StatusBadRequest,
				shared.NewEnvelope(http.StatusBadRequest, "Could not verify Google login"))
			return
		}
		target := fmt.Sprintf("%s/register?data=%s", h.frontendURL, url.QueryEscape(string(data)))
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
		return
	}

	target := fmt.Sprintf("%s/auth/callback?access_token=%s", h.frontendURL, url.QueryEscape(result.Token))
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
