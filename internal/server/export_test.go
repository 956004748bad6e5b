package server

import (
	"github.com/mdouchement/findit/internal/model"
	"github.com/mdouchement/findit/internal/server/session"
)

// This file is only for test purpose and is only loaded by test framework.

// TokenFromUser opens a session for the given user and returns its access token.
func TokenFromUser(ctrl Controller, u *model.User) string {
	m := session.NewManager(ctrl.Database, ctrl.SigningKey, ctrl.SessionTTL)
	s, err := m.Generate(u, "findit-test")
	if err != nil {
		panic(err)
	}

	token, err := m.Token(s, u)
	if err != nil {
		panic(err)
	}
	return token
}
