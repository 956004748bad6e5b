package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/findit/internal/database"
	"github.com/mdouchement/findit/internal/fierror"
	"github.com/mdouchement/findit/internal/server/notifier"
	"github.com/mdouchement/findit/internal/server/service"
)

// item contains all item handlers.
type item struct {
	db       database.Client
	notifier notifier.Notifier
}

///// List
////
//

// List returns the items where the given field equals the given value, newest first.
// e.g. GET /items?field=status&value=LOST
func (h *item) List(c echo.Context) error {
	// Filter params
	var params service.ListItemsParams
	if err := c.Bind(&params); err != nil {
		return fierror.New("Could not get query params.")
	}
	params.UserAgent = c.Request().UserAgent()
	params.Session = currentSession(c)

	if err := c.Validate(&params); err != nil {
		return err
	}

	list, err := service.NewItem(h.db, h.notifier).List(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, list)
}

///// Show
////
//

// Show returns one item.
func (h *item) Show(c echo.Context) error {
	show, err := service.NewItem(h.db, h.notifier).Show(c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, show)
}

///// Create
////
//

// Create stores a new item posted by the current user.
func (h *item) Create(c echo.Context) error {
	// Filter params
	var params service.CreateItemParams
	if err := c.Bind(&params); err != nil {
		return fierror.New("Could not get item's params.")
	}
	params.UserAgent = c.Request().UserAgent()
	params.Session = currentSession(c)

	if err := c.Validate(&params); err != nil {
		return err
	}

	create, err := service.NewItem(h.db, h.notifier).Create(c.Request().Context(), currentUser(c), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, create)
}

///// Claim
////
//

// Claim records the current user as claimer of the item.
func (h *item) Claim(c echo.Context) error {
	claim, err := service.NewItem(h.db, h.notifier).Claim(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, claim)
}

///// Delete
////
//

// Delete removes an item posted by the current user.
func (h *item) Delete(c echo.Context) error {
	err := service.NewItem(h.db, h.notifier).Delete(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
