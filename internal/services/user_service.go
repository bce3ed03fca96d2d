package services

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rcampos/diapredict-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Registration rules.
const (
	minUsernameLen = 4
	minPasswordLen = 8
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ErrAuthenticationFailed is returned for both unknown usernames and wrong
// passwords; callers cannot tell the two apart.
var ErrAuthenticationFailed = errors.New("invalid username or password")

// Registration rule codes.
const (
	RuleMissingField     = "missing_field"
	RuleUsernameTooShort = "username_too_short"
	RulePasswordTooShort = "password_too_short"
	RuleInvalidEmail     = "invalid_email"
	RuleUsernameTaken    = "username_taken"
	RuleEmailTaken       = "email_taken"
)

// ValidationError reports which registration rule was violated.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, password, email, fullName string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register validates registration input, hashes the password and inserts the
// account. Uniqueness is enforced by a single INSERT against the UNIQUE
// constraints on username and email, so there is no window between an
// existence check and the insert; a constraint violation is translated back
// into the matching ValidationError. The store is never mutated on failure.
func (s *UserService) Register(username, password, email, fullName string) (models.User, error) {
	if username == "" || password == "" || email == "" || fullName == "" {
		return models.User{}, &ValidationError{Rule: RuleMissingField, Message: "all fields are required"}
	}
	if len(username) < minUsernameLen {
		return models.User{}, &ValidationError{
			Rule:    RuleUsernameTooShort,
			Message: fmt.Sprintf("username must be at least %d characters long", minUsernameLen),
		}
	}
	if len(password) < minPasswordLen {
		return models.User{}, &ValidationError{
			Rule:    RulePasswordTooShort,
			Message: fmt.Sprintf("password must be at least %d characters long", minPasswordLen),
		}
	}
	if !emailPattern.MatchString(email) {
		return models.User{}, &ValidationError{Rule: RuleInvalidEmail, Message: "invalid email format"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, full_name, password_hash) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Username, user.Email, user.FullName, user.PasswordHash); err != nil {
		if verr := translateUniqueViolation(err); verr != nil {
			return models.User{}, verr
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// translateUniqueViolation maps a UNIQUE constraint failure onto the
// registration rule for the column that collided.
func translateUniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	if strings.Contains(msg, "users.username") {
		return &ValidationError{Rule: RuleUsernameTaken, Message: "username already exists"}
	}
	if strings.Contains(msg, "users.email") {
		return &ValidationError{Rule: RuleEmailTaken, Message: "email already registered"}
	}
	return nil
}

// Authenticate verifies a user's credentials. Unknown users and wrong
// passwords are deliberately indistinguishable.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, full_name, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrAuthenticationFailed
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthenticationFailed
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, full_name, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with ID %s not found", id)
		}
		return models.User{}, err
	}
	return user, nil
}
