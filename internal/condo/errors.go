package condo

import "fmt"

// SecretError means a required secret could not be resolved. The run aborts
// before any network call is made.
type SecretError struct {
	Name string
	Err  error
}

func (e *SecretError) Error() string {
	return fmt.Sprintf("secret %q: %v", e.Name, e.Err)
}

func (e *SecretError) Unwrap() error { return e.Err }

// AuthError means one of the two login legs did not produce the expected
// redirect-plus-cookie success signal. Stage is "primary login" or
// "secondary auth".
type AuthError struct {
	Stage string
	Err   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// QueryError means the room-search call failed or its response was missing
// the expected data path.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("room query: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// PersistenceError means the final document write failed.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("publish room types: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
