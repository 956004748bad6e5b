package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/mdouchement/findit/internal/model"
	"github.com/pkg/errors"
)

type strm struct {
	db *storm.DB
}

func open(database, codec string) (*storm.DB, error) {
	c, err := Codec(codec)
	if err != nil {
		return nil, err
	}

	db, err := storm.Open(database, storm.Codec(c))
	return db, errors.Wrap(err, "could not get database connection")
}

// StormInit initializes Storm database.
func StormInit(database, codec string) error {
	db, err := open(database, codec)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Init(&model.User{}); err != nil {
		return errors.Wrap(err, "could not init user index")
	}

	if err := db.Init(&model.Session{}); err != nil {
		return errors.Wrap(err, "could not init session index")
	}

	err = db.Init(&model.Item{})
	return errors.Wrap(err, "could not init item index")
}

// StormReIndex reindex Storm database.
func StormReIndex(database, codec string) error {
	db, err := open(database, codec)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ReIndex(&model.User{}); err != nil {
		return errors.Wrap(err, "could not ReIndex users")
	}

	if err := db.ReIndex(&model.Session{}); err != nil {
		return errors.Wrap(err, "could not ReIndex sessions")
	}

	err = db.ReIndex(&model.Item{})
	return errors.Wrap(err, "could not ReIndex items")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database, codec string) (Client, error) {
	db, err := open(database, codec)
	if err != nil {
		return nil, err
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
// CreatedAt is only set for new entries that do not already carry one.
func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
	}
	if m.GetCreatedAt() == 0 {
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// IsAlreadyExists returns true if err is an already exists error.
func (c *strm) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == storm.ErrAlreadyExists
}

// FindUser returns the user for the given id (UUID).
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

// FindUserByMail returns the user for the given email.
func (c *strm) FindUserByMail(email string) (*model.User, error) {
	var user model.User
	if err := c.db.One("Email", email, &user); err != nil {
		return nil, errors.Wrap(err, "find user by mail")
	}
	return &user, nil
}

// DeleteUser deletes the user, their sessions and their items.
func (c *strm) DeleteUser(id string) error {
	tx, err := c.db.Begin(true)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}
	defer tx.Rollback()

	var user model.User
	if err = tx.One("ID", id, &user); err != nil {
		return errors.Wrap(err, "find user by id")
	}

	err = tx.Select(q.Eq("UserID", id)).Delete(&model.Session{})
	if err != nil && errors.Cause(err) != storm.ErrNotFound {
		return errors.Wrap(err, "could not delete sessions")
	}

	err = tx.Select(q.Eq("PostedID", id)).Delete(&model.Item{})
	if err != nil && errors.Cause(err) != storm.ErrNotFound {
		return errors.Wrap(err, "could not delete items")
	}

	if err = tx.DeleteStruct(&user); err != nil {
		return errors.Wrap(err, "could not delete user")
	}

	return errors.Wrap(tx.Commit(), "could not commit")
}

// FindSession returns the session for the given id.
func (c *strm) FindSession(id string) (*model.Session, error) {
	var session model.Session
	if err := c.db.One("ID", id, &session); err != nil {
		return nil, errors.Wrap(err, "find session by id")
	}
	return &session, nil
}

// FindSessionsByUserID returns all the sessions for the given user id.
func (c *strm) FindSessionsByUserID(userID string) ([]*model.Session, error) {
	sessions := make([]*model.Session, 0)
	err := c.db.Select(q.Eq("UserID", userID)).OrderBy("CreatedAt").Find(&sessions)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find sessions by user id")
	}
	return sessions, nil
}

// RevokeExpiredSessions removes from database all the expired sessions of the given user.
func (c *strm) RevokeExpiredSessions(userID string) error {
	err := c.db.Select(q.Eq("UserID", userID), q.Lt("ExpireAt", time.Now())).Delete(&model.Session{})
	if err != nil && !c.IsNotFound(err) {
		return errors.Wrap(err, "could not revoke expired sessions")
	}
	return nil
}

// FindItem returns the item for the given id (UUID).
func (c *strm) FindItem(id string) (*model.Item, error) {
	var item model.Item
	if err := c.db.One("ID", id, &item); err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}
	return &item, nil
}

// FindItemsBy returns all the items where the given field equals value, newest first.
func (c *strm) FindItemsBy(field string, value any) ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	err := c.db.Select(q.Eq(field, value)).OrderBy("CreatedAt").Reverse().Find(&items)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find items")
	}
	return items, nil
}

// ClaimItem loads the item, applies fn and saves the result in a single transaction.
func (c *strm) ClaimItem(id string, fn func(item *model.Item) error) (*model.Item, error) {
	tx, err := c.db.Begin(true)
	if err != nil {
		return nil, errors.Wrap(err, "could not begin transaction")
	}
	defer tx.Rollback()

	var item model.Item
	if err = tx.One("ID", id, &item); err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}

	if err = fn(&item); err != nil {
		return nil, err
	}

	item.SetUpdatedAt(time.Now().UTC())
	if err = tx.Save(&item); err != nil {
		return nil, errors.Wrap(err, "could not update item")
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "could not commit")
	}
	return &item, nil
}

// DeleteItem deletes the item matching the given parameters.
func (c *strm) DeleteItem(id, userID string) error {
	err := c.db.Select(q.Eq("ID", id), q.Eq("PostedID", userID)).Delete(&model.Item{})
	return errors.Wrap(err, "could not delete item")
}
