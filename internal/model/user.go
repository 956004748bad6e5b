package model

// A User represents a database record.
// It holds both the credentials and the public profile of an account.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	Email    string `msgpack:"email"    storm:"unique"`
	Password string `msgpack:"password,omitempty"`

	// Profile fields
	Name              string `msgpack:"name"`
	Phone             string `msgpack:"phone"`
	ProfilePictureURL string `msgpack:"profile_picture_url"`

	// Custom fields
	PasswordUpdatedAt int64 `msgpack:"password_updated_at"`
}

// NewUser returns a new user mirroring the given email in its profile.
func NewUser(email string) *User {
	return &User{
		Email: email,
	}
}
