package serializer

import "github.com/mdouchement/findit/internal/model"

// Item serializes the render of an item as a document.
// Optional fields are omitted when empty.
func Item(m *model.Item) map[string]any {
	r := map[string]any{
		"title":       m.Title,
		"description": m.Description,
		"category":    m.Category,
		"imageUrl":    m.ImageURL,
		"lastSeenLocation": map[string]any{
			"latitude":  m.Location.Latitude,
			"longitude": m.Location.Longitude,
			"address":   m.Location.Address,
		},
		"status":    m.Status,
		"createdAt": m.CreatedAt,
	}

	if m.PostedID != "" {
		r["postedId"] = m.PostedID
	}
	if m.PosterEmail != "" {
		r["posterEmail"] = m.PosterEmail
	}
	if m.PosterPhone != "" {
		r["posterPhone"] = m.PosterPhone
	}
	if m.Claimed() {
		r["claimedBy"] = m.ClaimedBy
		r["claimedAt"] = m.ClaimedAt
	}

	return Document(m.ID, r)
}

// Items serializes the render of items.
func Items(m []*model.Item) map[string]any {
	items := make([]map[string]any, len(m))
	for i, item := range m {
		items[i] = Item(item)
	}
	return Documents(items)
}
