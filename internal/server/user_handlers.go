package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/findit/internal/database"
	"github.com/mdouchement/findit/internal/fierror"
	"github.com/mdouchement/findit/internal/model"
	"github.com/mdouchement/findit/internal/server/serializer"
	"github.com/mdouchement/findit/internal/server/service"
	"github.com/mdouchement/findit/internal/server/session"
)

// user contains all the profile handlers.
// A user can only read and write their own profile.
type user struct {
	db       database.Client
	sessions session.Manager
}

///// Show
////
//

// Show returns the profile document of the current user.
func (h *user) Show(c echo.Context) error {
	current, err := h.self(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.User(current))
}

///// Update
////
//

// Update merges the given fields into the profile of the current user.
func (h *user) Update(c echo.Context) error {
	current, err := h.self(c)
	if err != nil {
		return err
	}

	// Filter params
	var params service.UpdateUserParams
	if err := c.Bind(&params); err != nil {
		return fierror.New("Could not get profile's params.")
	}
	params.UserAgent = c.Request().UserAgent()
	params.Session = currentSession(c)

	update, err := service.NewUser(h.db, h.sessions).Update(current, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, update)
}

func (h *user) self(c echo.Context) (*model.User, error) {
	current := currentUser(c)
	if c.Param("id") != current.ID {
		return nil, fierror.NewWithTagCode(http.StatusForbidden, fierror.TagForbidden, "Missing or insufficient permissions.")
	}
	return current, nil
}
