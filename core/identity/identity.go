// Package identity provides the session identity boundary. The rest of
// the system consumes a resolved Identity per request and never talks to
// the provider that issued the session token.
package identity

import (
	"errors"
	"net/http"
)

// ErrNoSession indicates the request carries no usable session identity.
var ErrNoSession = errors.New("no session identity")

// Identity is the resolved caller of a request.
type Identity struct {
	ID string
}

// Resolver resolves the identity a request was authenticated as.
// Implementations return ErrNoSession when the request carries no valid
// session, regardless of why (absent, malformed, expired).
type Resolver interface {
	ResolveRequest(r *http.Request) (Identity, error)
}
