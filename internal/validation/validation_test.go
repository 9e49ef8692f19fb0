package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("#!bl4kJavaScrip7ra"))
	assert.False(t, IsStrongPassword("alllowercase1!"))
	assert.False(t, IsStrongPassword("NoDigits!!"))
	assert.False(t, IsStrongPassword("Sh0rt!"))
}

func TestStructMessages(t *testing.T) {
	type input struct {
		Email     string `json:"email" validate:"required,email"`
		Recipient int64  `json:"recipient" validate:"gt=0"`
		Password  string `json:"password" validate:"strongpassword"`
	}

	err := Struct(input{Email: "nope", Recipient: 0, Password: "weak"})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"Email must be a valid email",
		"Recipient must be greater than 0",
		"Password is not strong enough",
	}, verr.Fields)

	assert.NoError(t, Struct(input{Email: "a@example.com", Recipient: 2, Password: "Str0ng#Pass"}))
}
