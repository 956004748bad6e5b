package model

const (
	// StatusLost flags an item someone lost.
	StatusLost = "LOST"
	// StatusFound flags an item someone found.
	StatusFound = "FOUND"
)

// An Item represents a lost or found posting stored in database.
// CreatedAt is the submission date given by the poster.
type Item struct {
	Base `msgpack:",inline" storm:"inline"`

	Title       string   `msgpack:"title"`
	Description string   `msgpack:"description"`
	Category    string   `msgpack:"category"`
	ImageURL    string   `msgpack:"image_url"`
	Location    Location `msgpack:"location"`
	Status      string   `msgpack:"status"       storm:"index"`
	PostedID    string   `msgpack:"posted_id"    storm:"index"`
	PosterEmail string   `msgpack:"poster_email"`
	PosterPhone string   `msgpack:"poster_phone"`

	ClaimedBy string `msgpack:"claimed_by"`
	ClaimedAt int64  `msgpack:"claimed_at"`
}

// A Location is where an item was lost or found.
type Location struct {
	Latitude  float64 `msgpack:"latitude"`
	Longitude float64 `msgpack:"longitude"`
	Address   string  `msgpack:"address"`
}

// Claimed returns true if someone already claimed the item.
func (i *Item) Claimed() bool {
	return i.ClaimedBy != ""
}
