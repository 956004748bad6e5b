package fierror

import "net/http"

// Tags rendered by the server.
const (
	TagInvalidAuth     = "invalid-auth"
	TagNotFound        = "not-found"
	TagForbidden       = "forbidden"
	TagConflict        = "conflict"
	TagInvalidParams   = "invalid-parameters"
	TagMissingIndex    = "failed-precondition"
	TagTooManyRequests = "too-many-requests"
)

type (
	// A FIError represents the error format that can be rendered by findit server.
	FIError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if fierr, ok := err.(*FIError); ok {
		return fierr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new FIError with the given message.
func New(message string) *FIError {
	return &FIError{HTTPCode: http.StatusBadRequest, FieldError: err{Message: message}}
}

// NewWithTagCode returns a new FIError with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *FIError {
	return &FIError{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// NotFound returns a 404 FIError with the given message.
func NotFound(message string) *FIError {
	return NewWithTagCode(http.StatusNotFound, TagNotFound, message)
}

// InvalidAuth returns the error rendered when credentials are wrong or missing.
func InvalidAuth() *FIError {
	return NewWithTagCode(http.StatusUnauthorized, TagInvalidAuth, "Invalid login credentials.")
}

// Error implements error interface.
func (e *FIError) Error() string {
	return e.FieldError.Message
}

// Tag returns the error's tag.
func (e *FIError) Tag() string {
	return e.FieldError.Tag
}
