package model

import (
	"time"
)

// A Session represents a database record.
type Session struct {
	Base `msgpack:",inline" storm:"inline"`

	ExpireAt  time.Time `msgpack:"expire_at"`
	UserID    string    `msgpack:"user_id"    storm:"index"`
	UserAgent string    `msgpack:"user_agent"`
}

// Expired returns true if the session can no longer be used.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpireAt)
}
