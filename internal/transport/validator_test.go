package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/game_shop/internal/models"
)

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe), "expected FieldErrors, got %v", err)
	return fe
}

func TestValidate_Register(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(&RegisterForm{Email: "a@example.com", Password: "x", ConfirmPassword: "x"}))

	fe := fieldErrors(t, v.Validate(&RegisterForm{Email: "nope", Password: "x", ConfirmPassword: "y"}))
	assert.Equal(t, "Invalid email address.", fe["email"])
	assert.Equal(t, "Passwords must match", fe["confirm_password"])

	fe = fieldErrors(t, v.Validate(&RegisterForm{}))
	assert.Equal(t, "This field is required.", fe["email"])
	assert.Equal(t, "This field is required.", fe["password"])
}

func TestValidate_Account(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(&AccountForm{Email: "a@example.com"}))

	fe := fieldErrors(t, v.Validate(&AccountForm{Email: "a@example.com", NewPassword: "123", ConfirmNewPassword: "123"}))
	assert.Equal(t, "Field must be at least 6 characters long.", fe["new_password"])

	fe = fieldErrors(t, v.Validate(&AccountForm{Email: "a@example.com", NewPassword: "123456", ConfirmNewPassword: "654321"}))
	assert.Equal(t, "Passwords must match", fe["confirm_new_password"])
}

func TestValidate_Game(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(&GameForm{Title: "Space Adventure", VideoURL: "https://example.com/v"}))

	fe := fieldErrors(t, v.Validate(&GameForm{VideoURL: "not a url"}))
	assert.Contains(t, fe, "title")
	assert.Equal(t, "Invalid URL.", fe["video_url"])
}

func TestGameForm_Apply(t *testing.T) {
	g := models.Game{ID: 7}
	GameForm{Title: "  Space  ", Price: " $1 ", Genre: "Action, RPG "}.Apply(&g)

	assert.Equal(t, uint(7), g.ID)
	assert.Equal(t, "Space", g.Title)
	assert.Equal(t, "$1", g.Price)
	assert.Equal(t, "Action, RPG", g.Genre)

	assert.Equal(t, "Space", GameFormFrom(g).Title)
}
