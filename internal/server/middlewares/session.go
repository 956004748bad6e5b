package middlewares

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/findit/internal/fierror"
	"github.com/mdouchement/findit/internal/server/session"
)

const (
	// TokenContextKey is the key to retrieve the parsed JWT from echo.Context.
	TokenContextKey = "token"
	// CurrentUserContextKey is the key to retrieve the current_user from echo.Context.
	CurrentUserContextKey = "current_user"
	// CurrentSessionContextKey is the key to retrieve the current_session from echo.Context.
	CurrentSessionContextKey = "current_session"
)

// Session returns a Session auth middleware.
// It stores current_user and current_session into echo.Context
func Session(m session.Manager) echo.MiddlewareFunc {
	authenticate := echojwt.WithConfig(echojwt.Config{
		SigningKey: m.JWTSigningKey(),
		ContextKey: TokenContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(session.Claims)
		},
		ErrorHandler: func(echo.Context, error) error {
			return fierror.InvalidAuth()
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authenticate(func(c echo.Context) error {
			token, ok := c.Get(TokenContextKey).(*jwt.Token)
			if !ok {
				panic("token implementation has changed")
			}
			claims, ok := token.Claims.(*session.Claims)
			if !ok {
				panic("token implementation has wrong type of claims")
			}

			if claims.Issuer != session.Issuer {
				return fierror.InvalidAuth()
			}

			// Find, validate and store current_session and current_user for handlers.
			sess, user, err := m.Validate(claims)
			if err != nil {
				return err
			}

			c.Set(CurrentSessionContextKey, sess)
			c.Set(CurrentUserContextKey, user)
			return next(c)
		})
	}
}
