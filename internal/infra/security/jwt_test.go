package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundtrip(t *testing.T) {
	manager := JWTManager{Secret: []byte("test-secret"), TTL: time.Hour}

	token, err := manager.Issue("user-42")
	require.NoError(t, err)

	id, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", string(id))
}

func TestJWTExpiry(t *testing.T) {
	issued := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	manager := JWTManager{
		Secret: []byte("test-secret"),
		TTL:    time.Hour,
		Now:    func() time.Time { return issued },
	}
	token, err := manager.Issue("user-42")
	require.NoError(t, err)

	// still valid just before the deadline
	manager.Now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = manager.Parse(token)
	require.NoError(t, err)

	manager.Now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = manager.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTWrongSecret(t *testing.T) {
	issuer := JWTManager{Secret: []byte("test-secret"), TTL: time.Hour}
	token, err := issuer.Issue("user-42")
	require.NoError(t, err)

	verifier := JWTManager{Secret: []byte("another-secret"), TTL: time.Hour}
	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTGarbageToken(t *testing.T) {
	manager := JWTManager{Secret: []byte("test-secret")}
	_, err := manager.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTDefaultTTL(t *testing.T) {
	issued := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	manager := JWTManager{
		Secret: []byte("test-secret"),
		Now:    func() time.Time { return issued },
	}
	token, err := manager.Issue("user-42")
	require.NoError(t, err)

	manager.Now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = manager.Parse(token)
	require.NoError(t, err)

	manager.Now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = manager.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
