package serializer

import "github.com/mdouchement/findit/internal/model"

// Session serializes the render of a session and its access token.
func Session(m *model.Session, user *model.User, token string) map[string]any {
	return map[string]any{
		"token":      token,
		"user_id":    user.ID,
		"email":      user.Email,
		"expire_at":  m.ExpireAt.UnixMilli(),
		"created_at": m.CreatedAt,
	}
}
