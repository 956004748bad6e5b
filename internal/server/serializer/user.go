package serializer

import "github.com/mdouchement/findit/internal/model"

// User serializes the render of a user profile as a document.
func User(m *model.User) map[string]any {
	return Document(m.ID, map[string]any{
		"name":              m.Name,
		"email":             m.Email,
		"phone":             m.Phone,
		"profilePictureUrl": m.ProfilePictureURL,
	})
}
