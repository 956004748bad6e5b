package libfi

// A State is the kind of a Resource.
type State int

// Resource states.
const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// A Resource is the state of an asynchronous operation producing a T.
// Data is only meaningful on success and Message only on error.
type Resource[T any] struct {
	state   State
	data    T
	message string
}

// Idle returns a resource nobody asked for yet.
func Idle[T any]() Resource[T] {
	return Resource[T]{state: StateIdle}
}

// Loading returns an in-flight resource.
func Loading[T any]() Resource[T] {
	return Resource[T]{state: StateLoading}
}

// Success returns a resource holding data.
func Success[T any](data T) Resource[T] {
	return Resource[T]{state: StateSuccess, data: data}
}

// Error returns a failed resource with a human readable message.
func Error[T any](message string) Resource[T] {
	return Resource[T]{state: StateError, message: message}
}

// State returns the resource's state.
func (r Resource[T]) State() State {
	return r.state
}

// Data returns the payload of a successful resource.
func (r Resource[T]) Data() T {
	return r.data
}

// Message returns the message of a failed resource.
func (r Resource[T]) Message() string {
	return r.message
}

// IsIdle returns true if r is idle.
func (r Resource[T]) IsIdle() bool { return r.state == StateIdle }

// IsLoading returns true if r is loading.
func (r Resource[T]) IsLoading() bool { return r.state == StateLoading }

// IsSuccess returns true if r succeeded.
func (r Resource[T]) IsSuccess() bool { return r.state == StateSuccess }

// IsError returns true if r failed.
func (r Resource[T]) IsError() bool { return r.state == StateError }

// Terminal returns true for Success and Error.
func (r Resource[T]) Terminal() bool {
	return r.state == StateSuccess || r.state == StateError
}

// Map transforms the payload of a successful resource and keeps the other states as is.
func Map[T, U any](r Resource[T], fn func(T) U) Resource[U] {
	switch r.state {
	case StateSuccess:
		return Success(fn(r.data))
	case StateError:
		return Error[U](r.message)
	case StateLoading:
		return Loading[U]()
	}
	return Idle[U]()
}

// Last drains the stream and returns its last emission.
// It returns Idle when the stream closes without emitting.
func Last[T any](stream <-chan Resource[T]) Resource[T] {
	last := Idle[T]()
	for r := range stream {
		last = r
	}
	return last
}
