package libfi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

type (
	// A Client defines all interactions that can be performed on a FindIt backend.
	// It is both the document Store and the Auth service.
	Client interface {
		Store
		Auth
		// Version returns the version of the backend.
		Version(ctx context.Context) (string, error)
	}

	p      map[string]any
	client struct {
		http     *http.Client
		endpoint string
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{endpoint: endpoint, http: c}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) Version(ctx context.Context) (string, error) {
	var version struct {
		Version string `json:"version"`
	}
	err := c.do(ctx, NoSession, http.MethodGet, []string{"version"}, nil, nil, &version)
	return version.Version, err
}

func (c *client) SignUp(ctx context.Context, email, password string) (Session, error) {
	return c.authenticate(ctx, []string{"auth"}, email, password)
}

func (c *client) SignIn(ctx context.Context, email, password string) (Session, error) {
	return c.authenticate(ctx, []string{"auth", "sign_in"}, email, password)
}

func (c *client) authenticate(ctx context.Context, route []string, email, password string) (Session, error) {
	var auth struct {
		Session Session  `json:"session"`
		User    Document `json:"user"`
	}
	err := c.do(ctx, NoSession, http.MethodPost, route, nil, p{"email": email, "password": password}, &auth)
	if err != nil {
		return NoSession, err
	}

	if !auth.Session.Defined() {
		return NoSession, errors.New("no session returned by the server")
	}
	return auth.Session, nil
}

func (c *client) SignOut(ctx context.Context, session Session) error {
	if !session.Defined() {
		return errors.New("no session defined")
	}
	return c.do(ctx, session, http.MethodPost, []string{"auth", "sign_out"}, nil, nil, nil)
}

func (c *client) Where(ctx context.Context, session Session, collection, field, value string) ([]Document, error) {
	query := url.Values{}
	query.Set("field", field)
	query.Set("value", value)

	var list struct {
		Documents []Document `json:"documents"`
	}
	err := c.do(ctx, session, http.MethodGet, []string{collection}, query, nil, &list)
	return list.Documents, err
}

func (c *client) Get(ctx context.Context, session Session, collection, id string) (Document, error) {
	var doc Document
	err := c.do(ctx, session, http.MethodGet, []string{collection, id}, nil, nil, &doc)
	return doc, err
}

func (c *client) Add(ctx context.Context, session Session, collection string, data map[string]any) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, session, http.MethodPost, []string{collection}, nil, data, &created)
	return created.ID, err
}

func (c *client) Merge(ctx context.Context, session Session, collection, id string, data map[string]any) (Document, error) {
	var doc Document
	err := c.do(ctx, session, http.MethodPut, []string{collection, id}, nil, data, &doc)
	return doc, err
}

func (c *client) Delete(ctx context.Context, session Session, collection, id string) error {
	return c.do(ctx, session, http.MethodDelete, []string{collection, id}, nil, nil, nil)
}

func (c *client) Call(ctx context.Context, session Session, collection, id, action string) (Document, error) {
	var doc Document
	err := c.do(ctx, session, http.MethodPost, []string{collection, id, action}, nil, nil, &doc)
	return doc, err
}

// do performs the request and decodes the JSON response into out (when not nil).
// Each route segment is escaped, an ID never changes the route.
func (c *client) do(ctx context.Context, session Session, method string, route []string, query url.Values, payload, out any) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return errors.Wrap(err, "could not parse endpoint")
	}

	escaped := make([]string, 0, len(route))
	for _, segment := range route {
		escaped = append(escaped, url.PathEscape(segment))
	}
	u.RawPath = strings.TrimSuffix(u.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.Join(route, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}

	//
	// Build request
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "could not serialize payload")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Close = true
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if session.Defined() {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", session.Token))
	}

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseFIError(res.Body, res.StatusCode)
	}

	if out == nil {
		return nil
	}

	//
	// Process response
	dec := json.NewDecoder(res.Body)
	return errors.Wrap(dec.Decode(out), "could not parse response")
}
