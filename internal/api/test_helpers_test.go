package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/tasklane/tasklane-api/internal/api/shared"
	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/mocks"
	"github.com/tasklane/tasklane-api/internal/service"
	"github.com/tasklane/tasklane-api/internal/service/auth"
)

// fakeHasher keeps handler tests fast; the bcrypt contract is covered
// in the auth package.
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

// fixture bundles the mock stores with a real AccountService and the
// handlers under test.
type fixture struct {
	users    *mocks.MockUserStore
	tasks    *mocks.MockTaskStore
	codes    *mocks.MockCodeStore
	tokens   *mocks.MockTokenStore
	invites  *mocks.MockInvitationStore
	errorLog *mocks.MockErrorLogStore
	mailer   *mocks.MockMailer
	jwt      *mocks.MockJWTService
	google   *mocks.MockGoogleProvider
	accounts *service.AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:    mocks.NewMockUserStore(),
		tasks:    mocks.NewMockTaskStore(),
		codes:    mocks.NewMockCodeStore(),
		tokens:   mocks.NewMockTokenStore(),
		invites:  mocks.NewMockInvitationStore(),
		errorLog: &mocks.MockErrorLogStore{},
		mailer:   &mocks.MockMailer{},
		jwt:      &mocks.MockJWTService{Token: "issued-token"},
		google:   &mocks.MockGoogleProvider{},
	}
	f.accounts = service.NewAccountService(
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

func (f *fixture) seedUser(t *testing.T, email string, confirmed bool) *domain.User {
	t.Helper()

	user, err := domain.NewUser(email, "Jane", "Doe", "password123")
	require.NoError(t, err)
	user.HashedPassword = "hashed:password123"
	user.Password = ""
	user.Confirmed = confirmed
	f.users.Users[email] = user
	return user
}

func (f *fixture) seedTask(t *testing.T, owner *domain.User, title string) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(owner.ID, title, "", nil, nil)
	require.NoError(t, err)
	f.tasks.Tasks[task.ID] = task
	return task
}

// identityMiddleware stands in for the real authentication middleware,
// injecting the given user as the authenticated identity.
func identityMiddleware(user *domain.User, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), shared.UserIDContextKey, user.ID)
			ctx = context.WithValue(ctx, shared.ClaimsContextKey, &auth.Claims{
				UserID:    user.ID,
				Email:     user.Email,
				FirstName: user.FirstName,
				LastName:  user.LastName,
			})
			ctx = context.WithValue(ctx, shared.TokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// taskRouter mounts the task routes behind the injected identity.
func taskRouter(f *fixture, user *domain.User) http.Handler {
	h := NewTaskHandler(f.tasks)
	r := chi.NewRouter()
	r.Route("/task", func(r chi.Router) {
		r.Use(identityMiddleware(user, "test-token"))
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/stats/summary", h.Stats)
		r.Put("/mark_as_done/{id}", h.MarkAsDone)
		r.Put("/toggle_state/{id}", h.ToggleState)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

// doJSON executes a request against the handler and decodes the
// response body into a generic map.
func doJSON(t *testing.T, handler http.Handler, method, target string, body io.Reader) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func envelopeStatus(t *testing.T, body map[string]any) int {
	t.Helper()

	status, ok := body["status"].(float64)
	require.True(t, ok, "response must carry a numeric envelope status: %v", body)
	return int(status)
}
