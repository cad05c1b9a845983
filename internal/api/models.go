package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/tasklane/tasklane-api/internal/api/shared"
	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/store"
)

// Request DTOs. Validation tags are enforced by the shared validator
// before any business logic runs; violations produce HTTP 422.

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UpdateUserRequest is the payload for PUT /users/{id}. Email is
// accepted for symmetry with the user shape but is never changed.
type UpdateUserRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// ConfirmAccountRequest carries the confirmation code. UserID is
// optional; when present the code must belong to that user.
type ConfirmAccountRequest struct {
	Code   string     `json:"code" validate:"required"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

// ForgotPasswordRequest asks for a password reset mail.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the reset code and the new password pair.
type ResetPasswordRequest struct {
	ResetPasswordToken string `json:"reset_password_token" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8,max=72"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required"`
}

// TaskIn is the payload for creating or replacing a task.
type TaskIn struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tag         *string    `json:"tag,omitempty"`
}

// Response DTOs. Every response embeds the envelope so the semantic
// status and message always travel with the payload.

// UserPayload is the user shape returned to clients. Password material
// never appears here.
type UserPayload struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Active    bool      `json:"active"`
	Confirmed bool      `json:"confirmed"`
	CreatedOn time.Time `json:"created_on"`
}

func newUserPayload(u *domain.User) UserPayload {
	return UserPayload{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Active:    u.Active,
		Confirmed: u.Confirmed,
		CreatedOn: u.CreatedOn,
	}
}

// UserOut wraps a single user in the envelope. NewToken is set by the
// flows that change the identity baked into the access token.
type UserOut struct {
	shared.Envelope
	User     UserPayload `json:"user"`
	NewToken string      `json:"new_token,omitempty"`
}

// UsersOut is a paginated list of users.
type UsersOut struct {
	shared.Envelope
	PageNumber   int           `json:"page_number"`
	PageSize     int           `json:"page_size"`
	TotalPages   int           `json:"total_pages"`
	TotalRecords int           `json:"total_records"`
	List         []UserPayload `json:"list"`
}

// TokenOut carries a freshly issued access token.
type TokenOut struct {
	shared.Envelope
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TaskPayload is the task shape returned to clients.
type TaskPayload struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     *time.Time      `json:"due_date"`
	State       string          `json:"state"`
	Tag         *domain.TaskTag `json:"tag"`
	UserID      uuid.UUID       `json:"user_id"`
	CreatedOn   time.Time       `json:"created_on"`
	UpdatedOn   time.Time       `json:"updated_on"`
}

func newTaskPayload(t *domain.Task) TaskPayload {
	return TaskPayload{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		State:       string(t.State),
		Tag:         t.Tag,
		UserID:      t.UserID,
		CreatedOn:   t.CreatedOn,
		UpdatedOn:   t.UpdatedOn,
	}
}

// TaskOut wraps a single task in the envelope.
type TaskOut struct {
	shared.Envelope
	Task TaskPayload `json:"task"`
}

// TasksOut is a paginated list of tasks.
type TasksOut struct {
	shared.Envelope
	PageNumber   int           `json:"page_number"`
	PageSize     int           `json:"page_size"`
	TotalPages   int           `json:"total_pages"`
	TotalRecords int           `json:"total_records"`
	List         []TaskPayload `json:"list"`
}

func newTasksOut(env shared.Envelope, params store.TaskListParams, page *store.TaskPage) TasksOut {
	list := make([]TaskPayload, 0, len(page.Tasks))
	for i := range page.Tasks {
		list = append(list, newTaskPayload(&page.Tasks[i]))
	}
	return TasksOut{
		Envelope:     env,
		PageNumber:   params.PageNumber,
		PageSize:     params.PageSize,
		TotalPages:   page.TotalPages,
		TotalRecords: page.TotalRecords,
		List:         list,
	}
}

// StatsOut wraps the per-user task statistics.
type StatsOut struct {
	shared.Envelope
	Data store.TaskStats `json:"data"`
}
