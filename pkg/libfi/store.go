package libfi

import (
	"context"
	"encoding/json"
)

// Collections of the document store.
const (
	CollectionItems = "items"
	CollectionUsers = "users"
)

type (
	// A Document is a loosely-typed record of the store.
	// Data is a JSON object decoded by DecodeItem or DecodeUser.
	Document struct {
		ID   string          `json:"id"`
		Data json.RawMessage `json:"data"`
	}

	// A Store is the remote document database.
	// Every call is authenticated with the given session.
	Store interface {
		// Where returns the documents of the collection where field equals value, newest first.
		Where(ctx context.Context, session Session, collection, field, value string) ([]Document, error)
		// Get returns one document.
		Get(ctx context.Context, session Session, collection, id string) (Document, error)
		// Add stores a new document and returns its ID.
		Add(ctx context.Context, session Session, collection string, data map[string]any) (string, error)
		// Merge writes the given fields into the document and returns the stored result.
		Merge(ctx context.Context, session Session, collection, id string, data map[string]any) (Document, error)
		// Delete removes a document.
		Delete(ctx context.Context, session Session, collection, id string) error
		// Call runs a server-side action on a document and returns the stored result.
		Call(ctx context.Context, session Session, collection, id, action string) (Document, error)
	}

	// An Auth is the remote authentication service.
	Auth interface {
		// SignUp creates an account and returns its first session.
		SignUp(ctx context.Context, email, password string) (Session, error)
		// SignIn opens a new session.
		SignIn(ctx context.Context, email, password string) (Session, error)
		// SignOut revokes the session.
		SignOut(ctx context.Context, session Session) error
	}
)
