package libfi_test

import (
	"encoding/json"
	"testing"

	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/stretchr/testify/assert"
)

func TestDecodeItem(t *testing.T) {
	doc := libfi.Document{
		ID: "item-1",
		Data: json.RawMessage(`{
			"title": "Red umbrella",
			"description": "Left on the bus",
			"category": "Accessories",
			"imageUrl": "aW1hZ2U=",
			"lastSeenLocation": {"latitude": 48.85, "longitude": 2.35, "address": "Paris"},
			"status": "LOST",
			"createdAt": 1700000000000,
			"postedId": "user-1",
			"posterEmail": "george.abitbol@nowhere.lan",
			"posterPhone": "0102030405",
			"claimedBy": "user-2",
			"claimedAt": 1.7000000001e12
		}`),
	}

	item, err := libfi.DecodeItem(doc)
	assert.NoError(t, err)
	assert.Equal(t, libfi.Item{
		ID:               "item-1",
		Title:            "Red umbrella",
		Description:      "Left on the bus",
		Category:         "Accessories",
		ImageURL:         "aW1hZ2U=",
		LastSeenLocation: libfi.Location{Latitude: 48.85, Longitude: 2.35, Address: "Paris"},
		Status:           libfi.StatusLost,
		CreatedAt:        1700000000000,
		PostedID:         "user-1",
		PosterEmail:      "george.abitbol@nowhere.lan",
		PosterPhone:      "0102030405",
		ClaimedBy:        "user-2",
		ClaimedAt:        1700000000100,
	}, item)
	assert.True(t, item.Claimed())
	assert.False(t, item.IsDraft())
}

func TestDecodeItem_OptionalDefaults(t *testing.T) {
	doc := libfi.Document{
		ID:   "item-1",
		Data: json.RawMessage(`{"title":"Keys","description":"Three keys","category":"Keys","imageUrl":"aW1hZ2U=","status":"FOUND","posterPhone":42}`),
	}

	item, err := libfi.DecodeItem(doc)
	assert.NoError(t, err)
	assert.Equal(t, libfi.StatusFound, item.Status)
	assert.False(t, item.LastSeenLocation.Captured())
	assert.Zero(t, item.CreatedAt)
	assert.Empty(t, item.PostedID)
	assert.Empty(t, item.PosterPhone)
	assert.False(t, item.Claimed())
}

func TestDecodeItem_Invalid(t *testing.T) {
	data := []struct {
		name string
		raw  string
		err  string
	}{
		{
			name: "missing title",
			raw:  `{"description":"d","category":"c","imageUrl":"i","status":"LOST"}`,
			err:  "invalid item item-1: missing required field title",
		},
		{
			name: "null image",
			raw:  `{"title":"t","description":"d","category":"c","imageUrl":null,"status":"LOST"}`,
			err:  "invalid item item-1: missing required field imageUrl",
		},
		{
			name: "mistyped category",
			raw:  `{"title":"t","description":"d","category":42,"imageUrl":"i","status":"LOST"}`,
			err:  "invalid item item-1: field category must be a string",
		},
		{
			name: "unknown status",
			raw:  `{"title":"t","description":"d","category":"c","imageUrl":"i","status":"STOLEN"}`,
			err:  `invalid item item-1: unknown status "STOLEN"`,
		},
		{
			name: "not an object",
			raw:  `[]`,
			err:  "document item-1 is not an object",
		},
	}

	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := libfi.DecodeItem(libfi.Document{ID: "item-1", Data: json.RawMessage(d.raw)})
			assert.EqualError(t, err, d.err)
		})
	}
}

func TestDecodeItem_Record(t *testing.T) {
	item := libfi.Item{
		ID:               "item-1",
		Title:            "Wallet",
		Description:      "Brown leather",
		Category:         "Wallets",
		ImageURL:         "aW1hZ2U=",
		LastSeenLocation: libfi.Location{Latitude: 1.5, Longitude: -2.25, Address: "Station"},
		Status:           libfi.StatusFound,
		CreatedAt:        1700000000000,
		PostedID:         "user-1",
	}

	record := item.Record()
	assert.NotContains(t, record, "posterPhone")
	assert.NotContains(t, record, "claimedAt")

	data, err := json.Marshal(record)
	assert.NoError(t, err)

	decoded, err := libfi.DecodeItem(libfi.Document{ID: item.ID, Data: data})
	assert.NoError(t, err)
	assert.Equal(t, item, decoded)
}

func TestDecodeUser(t *testing.T) {
	user, err := libfi.DecodeUser(libfi.Document{ID: "user-1", Data: json.RawMessage(`{"name":"George","email":"george.abitbol@nowhere.lan","phone":null}`)})
	assert.NoError(t, err)
	assert.Equal(t, libfi.User{ID: "user-1", Name: "George", Email: "george.abitbol@nowhere.lan"}, user)

	_, err = libfi.DecodeUser(libfi.Document{ID: "user-1", Data: json.RawMessage(`{`)})
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := libfi.ParseStatus(" lost ")
	assert.NoError(t, err)
	assert.Equal(t, libfi.StatusLost, s)

	s, err = libfi.ParseStatus("Found")
	assert.NoError(t, err)
	assert.Equal(t, libfi.StatusFound, s)
	assert.Equal(t, "Found", s.Label())

	_, err = libfi.ParseStatus("stolen")
	assert.EqualError(t, err, "unknown status: stolen")
}
