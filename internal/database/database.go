package database

import (
	"github.com/mdouchement/findit/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool
		// IsAlreadyExists returns true if err is an already exists error.
		IsAlreadyExists(err error) bool

		UserInteraction
		SessionInteraction
		ItemInteraction
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByMail returns the user for the given email.
		FindUserByMail(email string) (*model.User, error)
		// DeleteUser deletes the user, their sessions and their items.
		DeleteUser(id string) error
	}

	// An SessionInteraction defines all the methods used to interact with a session record.
	SessionInteraction interface {
		// FindSession returns the session for the given id.
		FindSession(id string) (*model.Session, error)
		// FindSessionsByUserID returns all sessions for the given user id.
		FindSessionsByUserID(userID string) ([]*model.Session, error)
		// RevokeExpiredSessions removes from database all the expired sessions of the given user.
		RevokeExpiredSessions(userID string) error
	}

	// An ItemInteraction defines all the methods used to interact with a item record(s).
	ItemInteraction interface {
		// FindItem returns the item for the given id (UUID).
		FindItem(id string) (*model.Item, error)
		// FindItemsBy returns all the items where the given field equals value,
		// newest first (CreatedAt descending).
		FindItemsBy(field string, value any) ([]*model.Item, error)
		// ClaimItem loads the item, applies fn and saves the result in a single transaction.
		// Nothing is written when fn returns an error.
		ClaimItem(id string, fn func(item *model.Item) error) (*model.Item, error)
		// DeleteItem deletes the item matching the given parameters.
		DeleteItem(id, userID string) error
	}
)
