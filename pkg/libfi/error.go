package libfi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// An FIError reprensents an HTTP error returned by the FindIt backend.
type FIError struct {
	StatusCode int
	Err        struct {
		Tag     string `json:"tag"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseFIError(r io.Reader, code int) error {
	var fierr FIError
	dec := json.NewDecoder(r)
	if err := dec.Decode(&fierr); err != nil {
		fierr.Err.Message = http.StatusText(code)
	}
	fierr.StatusCode = code
	return &fierr
}

func (e *FIError) Error() string {
	return e.Err.Message
}

// IsNotFound returns true if err means that the requested document does not exist.
func IsNotFound(err error) bool {
	fierr, ok := errors.Cause(err).(*FIError)
	return ok && fierr.StatusCode == http.StatusNotFound
}

// message returns the text surfaced in a Resource error.
// The backend message is preferred and fallback is used when there is nothing to show.
func message(err error, fallback string) string {
	if fierr, ok := errors.Cause(err).(*FIError); ok && fierr.Err.Message != "" {
		return fierr.Err.Message
	}
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
