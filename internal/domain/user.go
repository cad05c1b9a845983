package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
// Confirmed gates both login and task access: an unconfirmed user can
// authenticate with neither password nor token until the confirmation
// code has been redeemed.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Password       string    `json:"-"` // Plaintext, present only between request decode and hashing
	HashedPassword string    `json:"-"` // Never exposed in JSON
	Active         bool      `json:"-"`
	Confirmed      bool      `json:"confirmed"`
	CreatedOn      time.Time `json:"created_on"`
}

// NewUser creates a new unconfirmed User with the given identity fields and
// plaintext password. The caller is responsible for hashing the password
// before the user is persisted.
func NewUser(email, firstName, lastName, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password,
		Active:    true,
		Confirmed: false,
		CreatedOn: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// FullName returns the display name used in listings and search.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if strings.TrimSpace(u.FirstName) == "" {
		return ErrEmptyFirstName
	}

	if strings.TrimSpace(u.LastName) == "" {
		return ErrEmptyLastName
	}

	if u.Password != "" {
		// When a plaintext password is provided, validate its length.
		// The upper bound is bcrypt's practical input limit.
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Users loaded from storage carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// validEmailFormat performs basic validation of email shape: a local part,
// an @, and a domain containing an interior dot. Stricter validation is the
// job of the request schema layer.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
