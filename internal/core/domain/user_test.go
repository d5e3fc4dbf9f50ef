package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/accounts-backend/internal/core/errors"
)

func TestUser_Public_OmitsCredential(t *testing.T) {
	user := User{
		FullName:       "Ana Gomez",
		Username:       "ana",
		Email:          "ana@x.com",
		HashedPassword: "h1",
	}

	public := user.Public()

	assert.Equal(t, "Ana Gomez", public.FullName)
	assert.Equal(t, "ana", public.Username)
	assert.Equal(t, "ana@x.com", public.Email)
}

func TestUser_Candidate(t *testing.T) {
	user := User{Username: "ana", Email: "ana@x.com"}
	assert.Equal(t, Candidate{Username: "ana", Email: "ana@x.com"}, user.Candidate())
}

func TestRegistrationParams_Validate(t *testing.T) {
	valid := RegistrationParams{
		FullName: "Ana Gomez",
		Username: "ana",
		Email:    "ana@x.com",
		Password: "Password123",
	}

	t.Run("valid", func(t *testing.T) {
		p := valid
		assert.NoError(t, p.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*RegistrationParams)
		field  string
	}{
		{"missing full name", func(p *RegistrationParams) { p.FullName = "" }, "fullName"},
		{"full name too long", func(p *RegistrationParams) { p.FullName = strings.Repeat("a", 256) }, "fullName"},
		{"missing username", func(p *RegistrationParams) { p.Username = "" }, "username"},
		{"username too short", func(p *RegistrationParams) { p.Username = "ab" }, "username"},
		{"username bad charset", func(p *RegistrationParams) { p.Username = "Ana Gomez" }, "username"},
		{"missing email", func(p *RegistrationParams) { p.Email = "" }, "email"},
		{"bad email", func(p *RegistrationParams) { p.Email = "not-an-email" }, "email"},
		{"weak password", func(p *RegistrationParams) { p.Password = "weak" }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)

			var validationErr *apperrors.ValidationErrors
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tt.field)
		})
	}
}

func TestRegistrationParams_ValidateProfile_SkipsPassword(t *testing.T) {
	p := RegistrationParams{
		FullName: "Ana Gomez",
		Username: "ana",
		Email:    "ana@x.com",
	}
	assert.NoError(t, p.ValidateProfile())
	assert.Error(t, p.Validate())
}

func TestValidatePassword(t *testing.T) {
	assert.Empty(t, ValidatePassword("Password123"))
	assert.NotEmpty(t, ValidatePassword("alllowercase1"))
	assert.NotEmpty(t, ValidatePassword("ALLUPPERCASE1"))
	assert.NotEmpty(t, ValidatePassword("NoNumbersHere"))
	assert.NotEmpty(t, ValidatePassword("Sh0rt"))
	assert.NotEmpty(t, ValidatePassword(""))
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Password123")
	require.NoError(t, err)
	require.NotEqual(t, "Password123", hash)

	user := User{HashedPassword: hash}
	assert.True(t, user.CheckPassword("Password123"))
	assert.False(t, user.CheckPassword("WrongPassword1"))
}

func TestHashPassword_RejectsWeak(t *testing.T) {
	_, err := HashPassword("weak")
	assert.ErrorIs(t, err, apperrors.ErrPasswordTooWeak)
}

func TestNewUser(t *testing.T) {
	user, err := NewUser(RegistrationParams{
		FullName: "Ana Gomez",
		Username: "ana",
		Email:    "ana@x.com",
		Password: "Password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana", user.Username)
	assert.True(t, user.CheckPassword("Password123"))
}
