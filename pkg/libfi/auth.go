package libfi

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// An AuthRepository signs users in and out, reporting each operation as a Resource stream.
type AuthRepository struct {
	auth  Auth
	store Store
	options
}

// NewAuthRepository returns a new AuthRepository.
func NewAuthRepository(auth Auth, store Store, opts ...Option) *AuthRepository {
	return &AuthRepository{
		auth:    auth,
		store:   store,
		options: newOptions(opts),
	}
}

// SignIn opens a session for the given credentials.
func (r *AuthRepository) SignIn(ctx context.Context, email, password string) <-chan Resource[Session] {
	return produce(ctx, r.logger, "Login failed", func(ctx context.Context) (Session, error) {
		email = strings.TrimSpace(email)
		if email == "" || password == "" {
			return NoSession, errors.New(MessageCredentials)
		}
		return r.auth.SignIn(ctx, email, password)
	})
}

// SignUp creates an account and opens its first session.
// It completes once the mirrored profile can be read back.
func (r *AuthRepository) SignUp(ctx context.Context, email, password string) <-chan Resource[Session] {
	return produce(ctx, r.logger, "Sign up failed", func(ctx context.Context) (Session, error) {
		email = strings.TrimSpace(email)
		if email == "" || password == "" {
			return NoSession, errors.New(MessageCredentials)
		}

		session, err := r.auth.SignUp(ctx, email, password)
		if err != nil {
			return NoSession, err
		}

		doc, err := r.store.Get(ctx, session, CollectionUsers, session.UserID)
		if err != nil {
			return NoSession, errors.Wrap(err, "could not read the new profile")
		}
		if _, err = DecodeUser(doc); err != nil {
			return NoSession, err
		}

		return session, nil
	})
}

// SignOut revokes the given session.
// The payload of the success is NoSession.
func (r *AuthRepository) SignOut(ctx context.Context, session Session) <-chan Resource[Session] {
	return produce(ctx, r.logger, "Logout failed", func(ctx context.Context) (Session, error) {
		if !session.Defined() {
			return NoSession, errors.New(MessageNoSession)
		}
		return NoSession, r.auth.SignOut(ctx, session)
	})
}
