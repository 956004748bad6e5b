package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/mdouchement/findit/internal/database"
	"github.com/mdouchement/findit/internal/fierror"
	"github.com/mdouchement/findit/internal/model"
	"github.com/mdouchement/findit/internal/server/serializer"
	"github.com/mdouchement/findit/internal/server/session"
	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
)

type (
	// A UserService handles accounts and profiles.
	UserService interface {
		Register(params RegisterParams) (Render, error)
		Login(params LoginParams) (Render, error)
		Update(user *model.User, params UpdateUserParams) (Render, error)
	}

	// RegisterParams are used to register a user.
	RegisterParams struct {
		Params
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	// LoginParams are used to login a user.
	LoginParams struct {
		Params
		Email    string `json:"email"    validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	// UpdateUserParams are used to merge fields into a user's profile.
	// Absent fields are left untouched.
	UpdateUserParams struct {
		Params
		Name              *string `json:"name"`
		Phone             *string `json:"phone"`
		ProfilePictureURL *string `json:"profilePictureUrl"`
	}

	userService struct {
		db       database.Client
		sessions session.Manager
	}
)

// NewUser returns a new UserService.
func NewUser(db database.Client, sessions session.Manager) UserService {
	return &userService{
		db:       db,
		sessions: sessions,
	}
}

// Register creates the account and mirrors its email in the profile.
func (s *userService) Register(params RegisterParams) (Render, error) {
	email := normalize(params.Email)

	// Check if the email is free to use.
	u, err := s.db.FindUserByMail(email)
	if err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}
	if u != nil {
		return nil, fierror.NewWithTagCode(http.StatusConflict, fierror.TagConflict, "The email address is already in use by another account.")
	}

	// Initialize user
	user := model.NewUser(email)

	// Crypt password
	user.Password, err = argon2.GenerateFromPasswordString(params.Password, argon2.Default)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safe")
	}
	user.PasswordUpdatedAt = time.Now().UnixMilli()

	// Persist the model
	if err := s.db.Save(user); err != nil {
		if s.db.IsAlreadyExists(err) {
			return nil, fierror.NewWithTagCode(http.StatusConflict, fierror.TagConflict, "The email address is already in use by another account.")
		}
		return nil, errors.Wrap(err, "could not persist user")
	}

	return s.success(user, params.Params)
}

// Login authenticates the user and opens a new session.
func (s *userService) Login(params LoginParams) (Render, error) {
	// Retrieve user
	user, err := s.db.FindUserByMail(normalize(params.Email))
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, fierror.NewWithTagCode(http.StatusUnauthorized, fierror.TagInvalidAuth, "Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not get user")
	}

	// Verify password
	if err = argon2.CompareHashAndPasswordString(user.Password, params.Password); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return nil, fierror.NewWithTagCode(http.StatusUnauthorized, fierror.TagInvalidAuth, "Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not validate password")
	}

	return s.success(user, params.Params)
}

// Update merges the given fields into the user's profile.
func (s *userService) Update(user *model.User, params UpdateUserParams) (Render, error) {
	if params.Name != nil {
		user.Name = strings.TrimSpace(*params.Name)
	}
	if params.Phone != nil {
		user.Phone = strings.TrimSpace(*params.Phone)
	}
	if params.ProfilePictureURL != nil {
		user.ProfilePictureURL = *params.ProfilePictureURL
	}

	if err := s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist user")
	}
	return serializer.User(user), nil
}

func (s *userService) success(user *model.User, params Params) (Render, error) {
	session, err := s.sessions.Generate(user, params.UserAgent)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Token(session, user)
	if err != nil {
		return nil, err
	}

	return M{
		"session": serializer.Session(session, user, token),
		"user":    serializer.User(user),
	}, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
