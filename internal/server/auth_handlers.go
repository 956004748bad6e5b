package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/findit/internal/database"
	"github.com/mdouchement/findit/internal/fierror"
	"github.com/mdouchement/findit/internal/server/service"
	"github.com/mdouchement/findit/internal/server/session"
	"github.com/sirupsen/logrus"
)

// auth contains all authentication handlers.
type auth struct {
	db       database.Client
	sessions session.Manager
}

///// Register
////
//

// Register handler is used to register the user.
// The created account gets a profile holding its email.
func (h *auth) Register(c echo.Context) error {
	// Filter params
	var params service.RegisterParams
	if err := c.Bind(&params); err != nil {
		return fierror.New("Could not get user's params.")
	}
	params.UserAgent = c.Request().UserAgent()

	if params.Email == "" {
		return fierror.New("No email provided.")
	}
	if params.Password == "" {
		return fierror.New("No password provided.")
	}
	if err := c.Validate(&params); err != nil {
		return err
	}

	service := service.NewUser(h.db, h.sessions)
	register, err := service.Register(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, register)
}

///// Login
////
//

// Login used for authenticates a user and returns a JWT.
func (h *auth) Login(c echo.Context) error {
	// Filter params
	var params service.LoginParams
	if err := c.Bind(&params); err != nil {
		logrus.WithError(err).Warn("Could not get parameters")
		return fierror.New("Could not get credentials.")
	}
	params.UserAgent = c.Request().UserAgent()

	if params.Email == "" || params.Password == "" {
		return fierror.New("No email or password provided.")
	}

	service := service.NewUser(h.db, h.sessions)
	login, err := service.Login(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, login)
}

///// Logout
////
//

// Logout used for terminates the current session.
func (h *auth) Logout(c echo.Context) error {
	session := currentSession(c)
	if session != nil {
		err := h.sessions.Revoke(session)
		if err != nil && !h.db.IsNotFound(err) {
			return err
		}
	}

	return c.NoContent(http.StatusNoContent)
}
