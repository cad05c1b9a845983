package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/tasklane/tasklane-api/internal/api/shared"
	"github.com/tasklane/tasklane-api/internal/service"
	"github.com/tasklane/tasklane-api/internal/store"
)

// UserHandler serves registration and user directory endpoints.
type UserHandler struct {
	accounts *service.AccountService
	users    store.UserStore
}

// NewUserHandler creates a UserHandler with its dependencies.
func NewUserHandler(accounts *service.AccountService, users store.UserStore) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		users:    users,
	}
}

// Register handles POST /users/. Registration is all or nothing: the
// user row, the confirmation code, and the mail either all happen or
// none do.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !DecodeValidated(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			shared.RespondEnvelope(w, r, UserOut{
				Envelope: shared.NewEnvelope(http.StatusBadRequest, "Email already used"),
			})
		case errors.Is(err, service.ErrPasswordMismatch):
			shared.RespondEnvelope(w, r, UserOut{
				Envelope: shared.NewEnvelope(http.StatusBadRequest, "Passwords must match!"),
			})
		case errors.Is(err, service.ErrInternal):
			shared.RespondEnvelope(w, r, UserOut{
				Envelope: shared.NewEnvelope(http.StatusInternalServerError, "error"),
			})
		default:
			// Domain validation, e.g. a password outside the length bounds.
			shared.RespondValidationError(w, r, err.Error())
		}
		return
	}

	shared.RespondCreated(w, r, UserOut{
		Envelope: shared.NewEnvelope(http.StatusCreated,
			"User created successfully and a confirmation email sent."),
		User: newUserPayload(user),
	})
}

// RegisterWithGoogle handles POST /users/registerWithGoogle: the
// completion of a federated signup that was deferred to the
// registration form. The account is created pre-confirmed and a token
// is returned immediately.
func (h *UserHandler) RegisterWithGoogle(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !DecodeValidated(w, r, &req) {
		return
	}

	user, token, err := h.accounts.RegisterFederated(r.Context(), service.FederatedRegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			shared.RespondEnvelope(w, r, UserOut{
				Envelope: shared.NewEnvelope(http.StatusBadRequest, "Email already used"),
			})
		case errors.Is(err, service.ErrInternal):
			shared.RespondEnvelope(w, r, UserOut{
				Envelope: shared.NewEnvelope(http.StatusInternalServerError, "error"),
			})
		default:
			shared.RespondValidationError(w, r, err.Error())
		}
		return
	}

	shared.RespondCreated(w, r, UserOut{
		Envelope: shared.NewEnvelope(http.StatusCreated, "User created successfully"),
		User:     newUserPayload(user),
		NewToken: token,
	})
}

// GetByID handles GET /users/{id}.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := PathUUID(w, r, "id")
	if !ok {
		return
	}
	h.respondUser(w, r, id)
}

// Me handles GET /users/me/, the authenticated user's own record.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := MustUserID(w, r)
	if !ok {
		return
	}
	h.respondUser(w, r, userID)
}

func (h *UserHandler) respondUser(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondEnvelope(w, r, UserOut{
				Envelope: shared.NewEnvelope(http.StatusNotFound,
					fmt.Sprintf("User with id: %s does not exist", id)),
			})
			return
		}
		shared.RespondEnvelope(w, r, UserOut{
			Envelope: shared.NewEnvelope(http.StatusInternalServerError, "error"),
		})
		return
	}

	shared.RespondEnvelope(w, r, UserOut{
		Envelope: shared.NewEnvelope(http.StatusOK, fmt.Sprintf("User with id %s", id)),
		User:     newUserPayload(user),
	})
}

// List handles GET /users/: a paged directory, optionally filtered by a
// case-insensitive substring of the full name.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	pageSize, ok := QueryInt(w, r, "page_size", store.DefaultPageSize)
	if !ok {
		return
	}
	pageNumber, ok := QueryInt(w, r, "page_number", 1)
	if !ok {
		return
	}

	params := store.UserListParams{
		NameSubstr: r.URL.Query().Get("name_substr"),
		PageSize:   pageSize,
		PageNumber: pageNumber,
	}
	params.Normalize()

	users, total, err := h.users.List(r.Context(), params)
	if err != nil {
		shared.RespondEnvelope(w, r, UsersOut{
			Envelope: shared.NewEnvelope(http.StatusInternalServerError, "error"),
			List:     []UserPayload{},
		})
		return
	}

	list := make([]UserPayload, 0, len(users))
	for i := range users {
		list = append(list, newUserPayload(&users[i]))
	}

	shared.RespondEnvelope(w, r, UsersOut{
		Envelope:     shared.NewEnvelope(http.StatusOK, "All users"),
		PageNumber:   params.PageNumber,
		PageSize:     params.PageSize,
		TotalPages:   store.PageCount(total, params.PageSize),
		TotalRecords: total,
		List:         list,
	})
}

// Update handles PUT /users/{id}. Only the owner may update, and only
// the name fields change; email is immutable here. A fresh token
// reflecting the new identity rides along in the response.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathUUID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := MustUserID(w, r)
	if !ok {
		return
	}

	if userID != id {
		shared.RespondEnvelope(w, r, UserOut{
			Envelope: shared.NewEnvelope(http.StatusUnauthorized,
				"You are not authorized to update this user"),
		})
		return
	}

	var req UpdateUserRequest
	if !DecodeValidated(w, r, &req) {
		return
	}

	user, token, err := h.accounts.UpdateProfile(r.Context(), id, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondEnvelope(w, r, UserOut{
				Envelope: shared.NewEnvelope(http.StatusNotFound, "User does not exist"),
			})
			return
		}
		shared.RespondEnvelope(w, r, UserOut{
			Envelope: shared.NewEnvelope(http.StatusBadRequest, "error"),
		})
		return
	}

	shared.RespondEnvelope(w, r, UserOut{
		Envelope: shared.NewEnvelope(http.StatusOK, "User updated successfully"),
		User:     newUserPayload(user),
		NewToken: token,
	})
}
