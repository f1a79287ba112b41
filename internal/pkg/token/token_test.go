package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/pkg/errs"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewManager("secret", "hrms-auth", time.Minute, time.Hour)

	signed, err := m.Session(42, "GUEST", "session-code")
	require.NoError(t, err)

	claims, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ID)
	assert.Equal(t, "GUEST", claims.Role)
	assert.Equal(t, KindSession, claims.Kind)
	assert.Equal(t, "session-code", claims.Code)
}

func TestActivationHasNoCode(t *testing.T) {
	m := NewManager("secret", "hrms-auth", time.Minute, time.Hour)

	signed, err := m.Activation(7, "MANAGER")
	require.NoError(t, err)

	claims, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.ID)
	assert.Equal(t, KindActivation, claims.Kind)
	assert.Empty(t, claims.Code)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("secret", "hrms-auth", -time.Minute, time.Hour)

	signed, err := m.Session(1, "GUEST", "code")
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := NewManager("secret", "hrms-auth", time.Minute, time.Hour)
	other := NewManager("other-secret", "hrms-auth", time.Minute, time.Hour)

	signed, err := m.Session(1, "GUEST", "code")
	require.NoError(t, err)

	_, err = other.Parse(signed)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	m := NewManager("secret", "hrms-auth", time.Minute, time.Hour)
	other := NewManager("secret", "someone-else", time.Minute, time.Hour)

	signed, err := m.Session(1, "GUEST", "code")
	require.NoError(t, err)

	_, err = other.Parse(signed)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}
