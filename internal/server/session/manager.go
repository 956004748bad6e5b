package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdouchement/findit/internal/database"
	"github.com/mdouchement/findit/internal/fierror"
	"github.com/mdouchement/findit/internal/model"
	"github.com/pkg/errors"
)

// Issuer is the issuer of all the tokens generated by the manager.
const Issuer = "findit"

type (
	// Claims are the claims carried by an access token.
	// Subject is the user ID and ID is the session ID.
	Claims struct {
		jwt.RegisteredClaims
		Email string `json:"email"`
	}

	// A Manager manages sessions.
	Manager interface {
		// JWTSigningKey returns the key used to sign access tokens.
		JWTSigningKey() []byte
		// Generate creates and stores a new session for the given user.
		Generate(user *model.User, userAgent string) (*model.Session, error)
		// Token returns the signed access token of the given session.
		Token(session *model.Session, user *model.User) (string, error)
		// Validate checks the session and the user referenced by the given claims.
		Validate(claims *Claims) (*model.Session, *model.User, error)
		// Revoke removes the given session.
		Revoke(session *model.Session) error
	}

	manager struct {
		db database.Client
		// JWT params
		signingKey []byte
		// Session params
		ttl time.Duration
	}
)

// NewManager returns a new manager.
func NewManager(db database.Client, signingKey []byte, ttl time.Duration) Manager {
	return &manager{
		db:         db,
		signingKey: signingKey,
		ttl:        ttl,
	}
}

func (m *manager) JWTSigningKey() []byte {
	return m.signingKey
}

func (m *manager) Generate(user *model.User, userAgent string) (*model.Session, error) {
	// Opportunistic cleanup.
	if err := m.db.RevokeExpiredSessions(user.ID); err != nil {
		return nil, err
	}

	session := &model.Session{
		ExpireAt:  time.Now().Add(m.ttl).UTC(),
		UserID:    user.ID,
		UserAgent: userAgent,
	}
	session.ID = SecureToken(24)

	return session, errors.Wrap(m.db.Save(session), "could not save session")
}

func (m *manager) Token(session *model.Session, user *model.User) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			ID:        session.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(session.ExpireAt),
		},
		Email: user.Email,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	return token, errors.Wrap(err, "could not sign token")
}

func (m *manager) Validate(claims *Claims) (*model.Session, *model.User, error) {
	session, err := m.db.FindSession(claims.ID)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, nil, fierror.InvalidAuth()
		}
		return nil, nil, errors.Wrap(err, "could not get access to database")
	}

	if !SecureCompare(session.UserID, claims.Subject) {
		return nil, nil, fierror.InvalidAuth()
	}

	if session.Expired() {
		return nil, nil, fierror.NewWithTagCode(http.StatusUnauthorized, "expired-session", "The session has expired.")
	}

	// Get current_user.
	user, err := m.db.FindUser(session.UserID)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, nil, fierror.InvalidAuth()
		}
		return nil, nil, errors.Wrap(err, "could not get access to database")
	}

	// Check if password has changed since token was generated.
	if claims.IssuedAt == nil || claims.IssuedAt.Unix() < user.PasswordUpdatedAt/1000 {
		return nil, nil, fierror.NewWithTagCode(http.StatusUnauthorized, fierror.TagInvalidAuth, "Revoked token.")
	}

	return session, user, nil
}

func (m *manager) Revoke(session *model.Session) error {
	return errors.Wrap(m.db.Delete(session), "could not revoke session")
}
