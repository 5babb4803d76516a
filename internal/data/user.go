package data

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/mfdez/bookshelf/internal/validator"
)

// AnonymousUser represents an unauthenticated request. Handlers compare
// against it instead of checking for nil.
var AnonymousUser = &User{}

// User represents an account row in the "users" table.
type User struct {
	ID          int64       `json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	Username    string      `json:"username"`
	Password    password    `json:"-"`
	Permissions Permissions `json:"permissions,omitempty"`
	Version     int32       `json:"-"`
}

// IsAnonymous reports whether the user is the anonymous sentinel.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// password holds both the plaintext (only between Set and Insert) and the
// bcrypt hash of a user's password.
type password struct {
	plaintext *string
	hash      []byte
}

// Set hashes the plaintext password with bcrypt and stores both values.
func (p *password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	p.plaintext = &plaintext
	p.hash = hash
	return nil
}

// Matches reports whether the plaintext password matches the stored hash.
func (p *password) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintext))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

// ValidateUser runs the field-level rules for a new account.
func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.Username != "", "username", "must be provided")
	v.Check(len(user.Username) <= 150, "username", "must not be more than 150 characters long")

	if user.Password.plaintext != nil {
		v.Check(len(*user.Password.plaintext) >= 8, "password", "must be at least 8 characters long")
		v.Check(len(*user.Password.plaintext) <= 72, "password", "must not be more than 72 characters long")
	}
}

// UserModel wraps a *sql.DB connection and provides methods for creating
// and looking up user accounts.
type UserModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new user record to the database.
// Returns ErrDuplicateUsername when the username is already taken.
func (m UserModel) Insert(user *User) error {
	v := validator.New()
	ValidateUser(v, user)
	if !v.Valid() {
		return &ValidationError{Errors: v.Errors}
	}

	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at, version`

	err := m.DB.QueryRow(query, user.Username, user.Password.hash).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Version,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateUsername
		}
		return err
	}

	return nil
}

// GetByUsername retrieves the user with the given username.
// Returns ErrRecordNotFound if no such user exists.
func (m UserModel) GetByUsername(username string) (*User, error) {
	query := `
		SELECT id, created_at, username, password_hash, version
		FROM users
		WHERE username = $1`

	var user User
	err := m.DB.QueryRow(query, username).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Username,
		&user.Password.hash,
		&user.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}
