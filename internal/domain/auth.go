package domain

import (
	"errors"
	"fmt"
)

type Action string

const (
	ActionLogin    Action = "login"
	ActionRegister Action = "register"
)

// AuthState is the opaque client-supplied payload round-tripped through the
// provider as the OAuth state parameter. Beyond action and provider it may
// carry arbitrary caller fields, which are echoed back untouched. It is not
// signed; it grants no privilege beyond selecting the flow.
type AuthState map[string]string

func (s AuthState) Action() Action {
	return Action(s["action"])
}

func (s AuthState) Provider() Provider {
	return Provider(s["provider"])
}

// Valid reports whether the state names a supported action and provider.
// Both the entry and the callback endpoint must check this before any effect.
func (s AuthState) Valid() bool {
	if a := s.Action(); a != ActionLogin && a != ActionRegister {
		return false
	}
	return s.Provider().Valid()
}

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrPostNotFound     = errors.New("post not found")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// FlowError is a business-rule failure whose message is surfaced to the
// client verbatim with a 400 status.
type FlowError struct {
	Message string
}

func (e *FlowError) Error() string {
	return e.Message
}

func Flowf(format string, args ...any) *FlowError {
	return &FlowError{Message: fmt.Sprintf(format, args...)}
}
