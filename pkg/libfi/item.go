package libfi

import (
	"strings"

	"github.com/pkg/errors"
)

// A Status tells whether an item was lost or found.
type Status string

const (
	// StatusLost flags an item someone lost.
	StatusLost Status = "LOST"
	// StatusFound flags an item someone found.
	StatusFound Status = "FOUND"
)

// Statuses lists all the statuses, in feed order.
var Statuses = []Status{StatusLost, StatusFound}

// ParseStatus returns the status for the given text (case insensitive).
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusLost:
		return StatusLost, nil
	case StatusFound:
		return StatusFound, nil
	}
	return "", errors.Errorf("unknown status: %s", s)
}

// Valid returns true if s is one of the two statuses.
func (s Status) Valid() bool {
	return s == StatusLost || s == StatusFound
}

// Label returns a human readable status.
func (s Status) Label() string {
	switch s {
	case StatusLost:
		return "Lost"
	case StatusFound:
		return "Found"
	}
	return string(s)
}

// A Location is where an item was last seen.
// The zero value means that no location was captured.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Captured returns false for the "no location" sentinel.
func (l Location) Captured() bool {
	return l != Location{}
}

// An Item is a lost or found posting.
// Optional fields are empty strings or zero when absent.
type Item struct {
	ID               string // Empty for drafts.
	Title            string
	Description      string
	Category         string
	ImageURL         string // Base64 encoded picture.
	LastSeenLocation Location
	Status           Status
	CreatedAt        int64 // Unix milliseconds, set once at submission.
	PostedID         string
	PosterEmail      string
	PosterPhone      string
	ClaimedBy        string
	ClaimedAt        int64
}

// IsDraft returns true if the item has not been stored yet.
func (i Item) IsDraft() bool {
	return i.ID == ""
}

// Claimed returns true if someone claimed the item.
func (i Item) Claimed() bool {
	return i.ClaimedBy != ""
}

// Record returns the document representation of the item.
// Optional fields are omitted when empty.
func (i Item) Record() map[string]any {
	r := map[string]any{
		"title":       i.Title,
		"description": i.Description,
		"category":    i.Category,
		"imageUrl":    i.ImageURL,
		"lastSeenLocation": map[string]any{
			"latitude":  i.LastSeenLocation.Latitude,
			"longitude": i.LastSeenLocation.Longitude,
			"address":   i.LastSeenLocation.Address,
		},
		"status":    string(i.Status),
		"createdAt": i.CreatedAt,
	}

	optional := map[string]string{
		"postedId":    i.PostedID,
		"posterEmail": i.PosterEmail,
		"posterPhone": i.PosterPhone,
		"claimedBy":   i.ClaimedBy,
	}
	for k, v := range optional {
		if v != "" {
			r[k] = v
		}
	}
	if i.ClaimedAt != 0 {
		r["claimedAt"] = i.ClaimedAt
	}

	return r
}

// A User is the profile of an account.
type User struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	ProfilePictureURL string // Base64 encoded picture.
}

// Record returns the document representation of the user's editable fields.
func (u User) Record() map[string]any {
	return map[string]any{
		"name":              u.Name,
		"phone":             u.Phone,
		"profilePictureUrl": u.ProfilePictureURL,
	}
}
