package domain

import (
	"net/mail"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/lorrc/accounts-backend/internal/core/errors"
)

// Validation constants
const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxFullNameLength = 255
	MaxEmailLength    = 255
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// User is the full stored record for one account. The hashed credential is
// part of the record; everything that leaves the service boundary goes
// through the PublicUser projection instead.
type User struct {
	FullName       string
	Username       string
	Email          string
	HashedPassword string
}

// PublicUser is the projection of a User with the credential omitted. It is
// the only shape handed to unauthenticated callers.
type PublicUser struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public projects the record into its credential-free view.
func (u User) Public() PublicUser {
	return PublicUser{
		FullName: u.FullName,
		Username: u.Username,
		Email:    u.Email,
	}
}

// Candidate carries the two identity fields checked by the uniqueness
// queries before a create or update is allowed to proceed.
type Candidate struct {
	Username string
	Email    string
}

// Candidate returns the record's identity fields for uniqueness checks.
func (u User) Candidate() Candidate {
	return Candidate{Username: u.Username, Email: u.Email}
}

// RegistrationParams holds parameters for account registration.
type RegistrationParams struct {
	FullName string
	Username string
	Email    string
	Password string
}

// Validate validates registration parameters, password included.
func (p *RegistrationParams) Validate() error {
	errs := p.validateProfile()

	for _, msg := range ValidatePassword(p.Password) {
		errs.Add("password", msg)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidateProfile validates everything but the password. Used for updates
// that keep the current credential.
func (p *RegistrationParams) ValidateProfile() error {
	errs := p.validateProfile()
	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (p *RegistrationParams) validateProfile() *apperrors.ValidationErrors {
	errs := apperrors.NewValidationErrors()

	if p.FullName == "" {
		errs.Add("fullName", "Full name is required")
	} else if len(p.FullName) > MaxFullNameLength {
		errs.Add("fullName", "Full name must be 255 characters or less")
	}

	for _, msg := range ValidateUsername(p.Username) {
		errs.Add("username", msg)
	}

	if p.Email == "" {
		errs.Add("email", "Email is required")
	} else if len(p.Email) > MaxEmailLength {
		errs.Add("email", "Email must be 255 characters or less")
	} else if !isValidEmail(p.Email) {
		errs.Add("email", "Invalid email format")
	}

	return errs
}

// ValidateUsername checks a username against the account naming rules.
// Returns a slice of error messages (empty if valid).
func ValidateUsername(username string) []string {
	var errors []string

	if username == "" {
		return []string{"Username is required"}
	}
	if len(username) < MinUsernameLength {
		errors = append(errors, "Username must be at least 3 characters long")
	}
	if len(username) > MaxUsernameLength {
		errors = append(errors, "Username must be 32 characters or less")
	}
	if !usernamePattern.MatchString(username) {
		errors = append(errors, "Username may only contain lowercase letters, digits, '.', '-' and '_'")
	}

	return errors
}

// ValidatePassword checks if a password meets security requirements.
// Returns a slice of error messages (empty if valid).
func ValidatePassword(password string) []string {
	var errors []string

	if password == "" {
		return []string{"Password is required"}
	}
	if len(password) < MinPasswordLength {
		errors = append(errors, "Password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordLength {
		errors = append(errors, "Password must be 128 characters or less")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		errors = append(errors, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		errors = append(errors, "Password must contain at least one lowercase letter")
	}
	if !hasNumber {
		errors = append(errors, "Password must contain at least one number")
	}

	return errors
}

// isValidEmail validates email format
func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// CheckPassword verifies if the provided password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
	return err == nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	if errs := ValidatePassword(password); len(errs) > 0 {
		return "", apperrors.ErrPasswordTooWeak
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// NewUser builds a stored record from validated registration parameters.
func NewUser(params RegistrationParams) (*User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	return &User{
		FullName:       params.FullName,
		Username:       params.Username,
		Email:          params.Email,
		HashedPassword: hashedPassword,
	}, nil
}
