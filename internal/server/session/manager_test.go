package session_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdouchement/findit/internal/database"
	"github.com/mdouchement/findit/internal/fierror"
	"github.com/mdouchement/findit/internal/model"
	"github.com/mdouchement/findit/internal/server/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (database.Client, *model.User) {
	dir, err := os.MkdirTemp("", "findit_session")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	db, err := database.StormOpen(filepath.Join(dir, "findit.db"), database.DefaultCodec)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	user := model.NewUser("george@example.com")
	require.NoError(t, db.Save(user))
	return db, user
}

func parse(t *testing.T, m session.Manager, token string) *session.Claims {
	claims := new(session.Claims)
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.JWTSigningKey(), nil
	})
	require.NoError(t, err)
	return claims
}

func TestManager(t *testing.T) {
	db, user := setup(t)
	m := session.NewManager(db, []byte("secret"), time.Hour)

	sess, err := m.Generate(user, "findit-test")
	require.NoError(t, err)
	assert.Len(t, sess.ID, 24)
	assert.Equal(t, user.ID, sess.UserID)

	token, err := m.Token(sess, user)
	require.NoError(t, err)

	claims := parse(t, m, token)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, sess.ID, claims.ID)
	assert.Equal(t, session.Issuer, claims.Issuer)
	assert.Equal(t, user.Email, claims.Email)

	s, u, err := m.Validate(claims)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, s.ID)
	assert.Equal(t, user.ID, u.ID)

	require.NoError(t, m.Revoke(s))
	_, _, err = m.Validate(claims)
	assert.Equal(t, http.StatusUnauthorized, fierror.StatusCode(err))
}

func TestManager_Validate(t *testing.T) {
	db, user := setup(t)
	m := session.NewManager(db, []byte("secret"), time.Hour)

	sess, err := m.Generate(user, "findit-test")
	require.NoError(t, err)
	token, err := m.Token(sess, user)
	require.NoError(t, err)
	claims := parse(t, m, token)

	t.Run("subject mismatch", func(t *testing.T) {
		forged := *claims
		forged.Subject = "someone-else"
		_, _, err := m.Validate(&forged)
		assert.EqualError(t, err, "Invalid login credentials.")
	})

	t.Run("password changed", func(t *testing.T) {
		user.PasswordUpdatedAt = time.Now().Add(time.Hour).UnixMilli()
		require.NoError(t, db.Save(user))

		_, _, err := m.Validate(claims)
		assert.EqualError(t, err, "Revoked token.")
	})

	t.Run("expired session", func(t *testing.T) {
		sess.ExpireAt = time.Now().Add(-time.Minute)
		require.NoError(t, db.Save(sess))

		_, _, err := m.Validate(claims)
		assert.Equal(t, "expired-session", err.(*fierror.FIError).Tag())
	})
}
