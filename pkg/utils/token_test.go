package utils

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	tok, err := GenerateResetToken()
	require.NoError(t, err)

	raw, err := hex.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, ResetTokenBytes)
	assert.GreaterOrEqual(t, len(raw)*8, 160)

	other, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestGenerateSessionToken(t *testing.T) {
	tok, err := GenerateSessionToken()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, SessionTokenBytes)
	assert.NotContains(t, tok, ".")
}
