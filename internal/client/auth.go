package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/pkg/errors"
)

// Signup creates an account on a FindIt server and stores its session.
func (a *App) Signup() error {
	return a.authenticate(true)
}

// Login connects to a FindIt server and stores the session.
func (a *App) Login() error {
	return a.authenticate(false)
}

func (a *App) authenticate(signup bool) error {
	cfg := Config{}

	endpoint, err := prompt("Endpoint: ")
	if err != nil {
		return err
	}
	cfg.Endpoint = strings.TrimSpace(endpoint)

	client, err := libfi.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach given endpoint")
	}

	email, err := prompt("Email: ")
	if err != nil {
		return err
	}

	password, err := readline.Password("Password: ")
	if err != nil {
		return errors.Wrap(err, "could not read password from stdin")
	}
	if signup {
		confirmation, err := readline.Password("Confirm password: ")
		if err != nil {
			return errors.Wrap(err, "could not read password from stdin")
		}
		if string(confirmation) != string(password) {
			return errors.New("passwords do not match")
		}
	}

	ctx, cancel := a.context()
	defer cancel()

	cfg.Session, err = a.signIn(ctx, libfi.NewAuthRepository(client, client, libfi.WithLogger(a.Logger)), email, string(password), signup)
	if err != nil {
		return err
	}

	return Save(a.Env.Credentials, cfg)
}

func (a *App) signIn(ctx context.Context, auth *libfi.AuthRepository, email, password string, signup bool) (libfi.Session, error) {
	stream := auth.SignIn(ctx, email, password)
	if signup {
		stream = auth.SignUp(ctx, email, password)
	}

	r := await(a.Logger, stream)
	if !r.IsSuccess() {
		return libfi.NoSession, failure(a.Logger, r)
	}

	fmt.Fprintf(a.Out, "Signed in as %s\n", r.Data().Email)
	return r.Data(), nil
}

// Logout revokes the stored session and removes the credentials.
func (a *App) Logout() error {
	cfg, err := Load(a.Env.Credentials)
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	client, err := libfi.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach FindIt endpoint")
	}

	ctx, cancel := a.context()
	defer cancel()

	if err = a.signOut(ctx, libfi.NewAuthRepository(client, client, libfi.WithLogger(a.Logger)), cfg.Session); err != nil {
		return err
	}

	return errors.Wrap(Remove(a.Env.Credentials), "could not remove credentials file")
}

func (a *App) signOut(ctx context.Context, auth *libfi.AuthRepository, session libfi.Session) error {
	r := await(a.Logger, auth.SignOut(ctx, session))
	if !r.IsSuccess() {
		return failure(a.Logger, r)
	}

	fmt.Fprintln(a.Out, "Signed out")
	return nil
}
