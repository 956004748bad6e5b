package model

import (
	"time"
)

type (
	// A Model defines an object that can be stored in database.
	Model interface {
		// GetID returns the model's ID.
		GetID() string
		// SetID defines the model's ID.
		SetID(string)
		// GetCreatedAt returns the model's creation date as Unix milliseconds.
		GetCreatedAt() int64
		// SetCreatedAt defines the model's creation date.
		SetCreatedAt(time.Time)
		// GetUpdatedAt returns the model's last update date as Unix milliseconds.
		GetUpdatedAt() int64
		// SetUpdatedAt defines the model's last update date.
		SetUpdatedAt(time.Time)
	}

	// A Base contains the default model fields.
	// Dates are stored as Unix milliseconds, the resolution used on the wire.
	Base struct {
		ID        string `json:"id"         msgpack:"id"         storm:"id"`
		CreatedAt int64  `json:"created_at" msgpack:"created_at" storm:"index"`
		UpdatedAt int64  `json:"updated_at" msgpack:"updated_at" storm:"index"`
	}
)

// GetID returns the model's ID.
func (m *Base) GetID() string {
	return m.ID
}

// SetID defines the model's ID.
func (m *Base) SetID(id string) {
	m.ID = id
}

// GetCreatedAt returns the model's creation date.
func (m *Base) GetCreatedAt() int64 {
	return m.CreatedAt
}

// SetCreatedAt defines the model's creation date.
func (m *Base) SetCreatedAt(t time.Time) {
	m.CreatedAt = t.UnixMilli()
}

// GetUpdatedAt returns the model's last update date.
func (m *Base) GetUpdatedAt() int64 {
	return m.UpdatedAt
}

// SetUpdatedAt defines the model's last update date.
func (m *Base) SetUpdatedAt(t time.Time) {
	m.UpdatedAt = t.UnixMilli()
}
