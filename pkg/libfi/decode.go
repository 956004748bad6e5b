package libfi

import (
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// Decoding is explicit: each field is read with its expected type.
// A missing or mistyped required field rejects the whole record,
// an optional one falls back to its zero value.

// DecodeItem returns the item held by the given document.
// title, description, category, imageUrl and status are required.
func DecodeItem(doc Document) (Item, error) {
	v, err := object(doc)
	if err != nil {
		return Item{}, err
	}

	item := Item{ID: doc.ID}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"title", &item.Title},
		{"description", &item.Description},
		{"category", &item.Category},
		{"imageUrl", &item.ImageURL},
	} {
		if *f.dst, err = required(v, f.name); err != nil {
			return Item{}, errors.Wrapf(err, "invalid item %s", doc.ID)
		}
	}

	status, err := required(v, "status")
	if err != nil {
		return Item{}, errors.Wrapf(err, "invalid item %s", doc.ID)
	}
	if item.Status = Status(status); !item.Status.Valid() {
		return Item{}, errors.Errorf("invalid item %s: unknown status %q", doc.ID, status)
	}

	if location := v.Get("lastSeenLocation"); location != nil && location.Type() == fastjson.TypeObject {
		item.LastSeenLocation = Location{
			Latitude:  optionalFloat(location, "latitude"),
			Longitude: optionalFloat(location, "longitude"),
			Address:   optional(location, "address"),
		}
	}

	item.CreatedAt = optionalInt(v, "createdAt")
	item.PostedID = optional(v, "postedId")
	item.PosterEmail = optional(v, "posterEmail")
	item.PosterPhone = optional(v, "posterPhone")
	item.ClaimedBy = optional(v, "claimedBy")
	item.ClaimedAt = optionalInt(v, "claimedAt")

	return item, nil
}

// DecodeUser returns the user profile held by the given document.
// All the fields are optional.
func DecodeUser(doc Document) (User, error) {
	v, err := object(doc)
	if err != nil {
		return User{}, err
	}

	return User{
		ID:                doc.ID,
		Name:              optional(v, "name"),
		Email:             optional(v, "email"),
		Phone:             optional(v, "phone"),
		ProfilePictureURL: optional(v, "profilePictureUrl"),
	}, nil
}

func object(doc Document) (*fastjson.Value, error) {
	v, err := fastjson.ParseBytes(doc.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse document %s", doc.ID)
	}
	if v.Type() != fastjson.TypeObject {
		return nil, errors.Errorf("document %s is not an object", doc.ID)
	}
	return v, nil
}

func required(v *fastjson.Value, field string) (string, error) {
	f := v.Get(field)
	if f == nil || f.Type() == fastjson.TypeNull {
		return "", errors.Errorf("missing required field %s", field)
	}

	b, err := f.StringBytes()
	if err != nil {
		return "", errors.Errorf("field %s must be a string", field)
	}
	return string(b), nil
}

func optional(v *fastjson.Value, field string) string {
	f := v.Get(field)
	if f == nil || f.Type() != fastjson.TypeString {
		return ""
	}
	return string(f.GetStringBytes())
}

func optionalFloat(v *fastjson.Value, field string) float64 {
	f := v.Get(field)
	if f == nil || f.Type() != fastjson.TypeNumber {
		return 0
	}
	return f.GetFloat64()
}

func optionalInt(v *fastjson.Value, field string) int64 {
	f := v.Get(field)
	if f == nil || f.Type() != fastjson.TypeNumber {
		return 0
	}
	if n, err := f.Int64(); err == nil {
		return n
	}
	return int64(f.GetFloat64()) // e.g. 1.7e12
}
