package libfi

import "time"

// A Session is the identity of the signed in user.
// The zero value is the "no session" variant, see NoSession.
type Session struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	ExpireAt int64  `json:"expire_at"` // Unix milliseconds
}

// NoSession is used when nobody is signed in.
var NoSession = Session{}

// Defined returns true if session's fields are defined.
func (s Session) Defined() bool {
	return s.UserID != "" && s.Token != ""
}

// ExpiredAt returns true if the session is expired at the given time.
func (s Session) ExpiredAt(t time.Time) bool {
	return !s.Defined() || (s.ExpireAt > 0 && UnixMillisecond(t) > s.ExpireAt)
}

// Expired returns true if the session is expired.
func (s Session) Expired() bool {
	return s.ExpiredAt(time.Now())
}
