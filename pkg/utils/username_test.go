package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice", "Alice_99", "bob", "x1_"}
	for _, u := range valid {
		assert.NoError(t, ValidateUsername(u), u)
	}

	invalid := []string{"", "ab", "this_name_is_way_too_long", "has space", "dash-name", "_alice", " alice"}
	for _, u := range invalid {
		err := ValidateUsername(u)
		require.Error(t, err, u)
		assert.ErrorIs(t, err, models.ErrInvalidInput, u)

		var ve *models.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "username", ve.Field)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Passw0rd!"))
	assert.ErrorIs(t, ValidatePassword("short"), models.ErrInvalidInput)
	assert.ErrorIs(t, ValidatePassword(string(make([]byte, 129))), models.ErrInvalidInput)
}

func TestNormalizeEmail(t *testing.T) {
	email, err := NormalizeEmail("  Alice@X.com ")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", email)

	for _, bad := range []string{"", "alice", "Alice <alice@x.com>", "a@"} {
		_, err := NormalizeEmail(bad)
		assert.ErrorIs(t, err, models.ErrInvalidInput, bad)
	}
}
