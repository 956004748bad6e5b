package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/findit/internal/database"
	"github.com/pkg/errors"
)

type sess struct {
	db database.Client
}

// List lists all active sessions for the current user.
func (s *sess) List(c echo.Context) error {
	current := currentSession(c)
	user := currentUser(c)

	sessions, err := s.db.FindSessionsByUserID(user.ID)
	if err != nil {
		return errors.Wrap(err, "could not get sessions")
	}

	render := make([]echo.Map, 0, len(sessions))
	for _, session := range sessions {
		if session.Expired() {
			continue
		}

		render = append(render, echo.Map{
			"id":         session.ID,
			"created_at": session.CreatedAt,
			"expire_at":  session.ExpireAt.UnixMilli(),
			"user_agent": session.UserAgent,
			"current":    session.ID == current.ID,
		})
	}

	return c.JSON(http.StatusOK, render)
}
