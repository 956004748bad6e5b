package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/findit/internal/database"
	"github.com/mdouchement/findit/internal/model"
	"github.com/mdouchement/findit/internal/server/middlewares"
	"github.com/mdouchement/findit/internal/server/notifier"
	"github.com/mdouchement/findit/internal/server/session"
)

// A Controller is an Iversion Of Control pattern used to init the server package.
type Controller struct {
	Version        string
	Database       database.Client
	Notifier       notifier.Notifier
	NoRegistration bool
	// JWT params
	SigningKey []byte
	// Session params
	SessionTTL time.Duration
	// Requests per second allowed on sign in, per IP (0 disables the limiter).
	SignInRateLimit float64
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl Controller) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())
	engine.Use(middleware.BodyLimit("16M")) // Pictures are embedded in documents.

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	engine.Validator = middlewares.NewValidator()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	if ctrl.Notifier == nil {
		ctrl.Notifier = notifier.Nop()
	}

	////////////
	// Router //
	////////////

	sessions := session.NewManager(
		ctrl.Database,
		ctrl.SigningKey,
		ctrl.SessionTTL,
	)

	router := engine.Group("")
	restricted := router.Group("")
	restricted.Use(middlewares.Session(sessions))

	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// auth handlers
	//
	auth := &auth{
		db:       ctrl.Database,
		sessions: sessions,
	}
	if !ctrl.NoRegistration {
		router.POST("/auth", auth.Register)
	}
	router.POST("/auth/sign_in", auth.Login, middlewares.RateLimit(ctrl.SignInRateLimit, 3))
	restricted.POST("/auth/sign_out", auth.Logout)

	//
	// session handlers
	//
	session := &sess{
		db: ctrl.Database,
	}
	restricted.GET("/sessions", session.List)

	//
	// user handlers
	//
	user := &user{
		db:       ctrl.Database,
		sessions: sessions,
	}
	restricted.GET("/users/:id", user.Show)
	restricted.PUT("/users/:id", user.Update)

	//
	// item handlers
	//
	item := &item{
		db:       ctrl.Database,
		notifier: ctrl.Notifier,
	}
	restricted.GET("/items", item.List)
	restricted.POST("/items", item.Create)
	restricted.GET("/items/:id", item.Show)
	restricted.POST("/items/:id/claim", item.Claim)
	restricted.DELETE("/items/:id", item.Delete)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentUser(c echo.Context) *model.User {
	user, ok := c.Get(middlewares.CurrentUserContextKey).(*model.User)
	if ok {
		return user
	}
	return nil
}

func currentSession(c echo.Context) *model.Session {
	session, ok := c.Get(middlewares.CurrentSessionContextKey).(*model.Session)
	if ok {
		return session
	}
	return nil
}
