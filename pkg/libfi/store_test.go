package libfi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// memstore is an in-memory Store and Auth.
type memstore struct {
	mu    sync.Mutex
	seq   int
	docs  map[string]map[string]json.RawMessage
	err   error // Returned by all the calls when set.
	calls int
}

func newMemstore() *memstore {
	return &memstore{
		docs: map[string]map[string]json.RawMessage{
			libfi.CollectionItems: {},
			libfi.CollectionUsers: {},
		},
	}
}

func fierror(code int, message string) error {
	err := &libfi.FIError{StatusCode: code}
	err.Err.Message = message
	return err
}

// put stores a raw document.
func (s *memstore) put(collection, id, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[collection][id] = json.RawMessage(raw)
}

func (s *memstore) enter(session libfi.Session) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if !session.Defined() {
		return fierror(http.StatusUnauthorized, "Invalid login credentials.")
	}
	return nil
}

func (s *memstore) Where(_ context.Context, session libfi.Session, collection, field, value string) ([]libfi.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(session); err != nil {
		return nil, err
	}

	docs := make([]libfi.Document, 0)
	for id, data := range s.docs[collection] {
		v := fastjson.MustParseBytes(data)
		if string(v.GetStringBytes(field)) == value {
			docs = append(docs, libfi.Document{ID: id, Data: data})
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		return fastjson.MustParseBytes(docs[i].Data).GetInt64("createdAt") > fastjson.MustParseBytes(docs[j].Data).GetInt64("createdAt")
	})
	return docs, nil
}

func (s *memstore) Get(_ context.Context, session libfi.Session, collection, id string) (libfi.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(session); err != nil {
		return libfi.Document{}, err
	}

	data, ok := s.docs[collection][id]
	if !ok {
		return libfi.Document{}, fierror(http.StatusNotFound, "Document not found")
	}
	return libfi.Document{ID: id, Data: data}, nil
}

func (s *memstore) Add(_ context.Context, session libfi.Session, collection string, data map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(session); err != nil {
		return "", err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	s.seq++
	id := fmt.Sprintf("doc-%d", s.seq)
	s.docs[collection][id] = payload
	return id, nil
}

func (s *memstore) Merge(_ context.Context, session libfi.Session, collection, id string, data map[string]any) (libfi.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(session); err != nil {
		return libfi.Document{}, err
	}

	stored := map[string]any{}
	if raw, ok := s.docs[collection][id]; ok {
		if err := json.Unmarshal(raw, &stored); err != nil {
			return libfi.Document{}, err
		}
	}
	for k, v := range data {
		stored[k] = v
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return libfi.Document{}, err
	}
	s.docs[collection][id] = payload
	return libfi.Document{ID: id, Data: payload}, nil
}

func (s *memstore) Delete(_ context.Context, session libfi.Session, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(session); err != nil {
		return err
	}

	if _, ok := s.docs[collection][id]; !ok {
		return fierror(http.StatusNotFound, "Document not found")
	}
	delete(s.docs[collection], id)
	return nil
}

func (s *memstore) Call(_ context.Context, session libfi.Session, collection, id, action string) (libfi.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(session); err != nil {
		return libfi.Document{}, err
	}

	if action != "claim" {
		return libfi.Document{}, errors.Errorf("unsupported action %s", action)
	}

	raw, ok := s.docs[collection][id]
	if !ok {
		return libfi.Document{}, fierror(http.StatusNotFound, "Item not found")
	}

	stored := map[string]any{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return libfi.Document{}, err
	}
	if _, claimed := stored["claimedBy"]; claimed {
		return libfi.Document{}, fierror(http.StatusConflict, "Item already claimed")
	}
	stored["claimedBy"] = session.UserID
	stored["claimedAt"] = 42

	payload, err := json.Marshal(stored)
	if err != nil {
		return libfi.Document{}, err
	}
	s.docs[collection][id] = payload
	return libfi.Document{ID: id, Data: payload}, nil
}

func (s *memstore) SignUp(_ context.Context, email, password string) (libfi.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return libfi.NoSession, s.err
	}

	s.seq++
	session := libfi.Session{
		UserID: fmt.Sprintf("user-%d", s.seq),
		Email:  email,
		Token:  fmt.Sprintf("token-%d", s.seq),
	}
	s.docs[libfi.CollectionUsers][session.UserID] = json.RawMessage(fmt.Sprintf(`{"email":%q}`, email))
	return session, nil
}

func (s *memstore) SignIn(_ context.Context, email, password string) (libfi.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return libfi.NoSession, s.err
	}

	if password != "password42" {
		return libfi.NoSession, fierror(http.StatusUnauthorized, "Invalid email or password.")
	}
	return libfi.Session{UserID: "user-signin", Email: email, Token: "token-signin"}, nil
}

func (s *memstore) SignOut(_ context.Context, session libfi.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enter(session)
}

// collect drains the stream.
func collect[T any](stream <-chan libfi.Resource[T]) []libfi.Resource[T] {
	var emissions []libfi.Resource[T]
	for r := range stream {
		emissions = append(emissions, r)
	}
	return emissions
}

func states[T any](emissions []libfi.Resource[T]) []libfi.State {
	s := make([]libfi.State, len(emissions))
	for i, r := range emissions {
		s[i] = r.State()
	}
	return s
}
