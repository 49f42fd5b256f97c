// Package auth defines the Authenticator contract used by the LOGIN
// handler to resolve a principal to a User, plus an in-memory
// implementation for tests and standalone deployments.
package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrAuthenticationFailed is returned when a principal fails to
// resolve to a registered User, whether because the user is unknown
// or the verification material does not match.
var ErrAuthenticationFailed = errors.New("auth: authentication failed")

// User is an authenticated principal. Name is the canonical username;
// password material is never exposed once a User has been resolved.
type User struct {
	Name string
}

// Principal carries a username plus verification material presented
// by a client, e.g. via LOGIN. Authenticate is expected to hash and
// compare password material in constant time.
type Principal interface {
	// Username returns the claimed identity.
	Username() string
	// Verify reports whether this principal's secret matches the
	// stored credential for the resolved user.
	Verify(hash string) bool
}

// BasicPrincipal is a username/password pair, the principal built by
// the LOGIN command from its first two arguments.
type BasicPrincipal struct {
	User     string
	Password string
}

func (p BasicPrincipal) Username() string { return p.User }

func (p BasicPrincipal) Verify(hash string) bool {
	return verifyPassword(p.Password, hash)
}

// Authenticator resolves a Principal to a User. The core depends only
// on this interface; implementations may suspend on I/O to a user
// store.
type Authenticator interface {
	Authenticate(ctx context.Context, principal Principal) (User, error)
}

// credential pairs a registered user's name with its password hash.
type credential struct {
	name string
	hash string
}

// InMemoryAuthenticator is an Authenticator backed by a fixed, preloaded
// set of credentials. It is safe for concurrent use; its credential map
// is never mutated after construction.
type InMemoryAuthenticator struct {
	credentials map[string]credential
}

// NewInMemoryAuthenticator builds an authenticator with no registered
// users. Use WithUser to register one.
func NewInMemoryAuthenticator() *InMemoryAuthenticator {
	return &InMemoryAuthenticator{credentials: make(map[string]credential)}
}

// WithUser registers username/password and returns the receiver for
// chaining. Panics if hashing fails, since that indicates a broken
// bcrypt cost rather than a runtime condition callers should handle.
func (a *InMemoryAuthenticator) WithUser(username, password string) *InMemoryAuthenticator {
	hash, err := hashPassword(password)
	if err != nil {
		panic(fmt.Sprintf("auth: hashing password for %q: %v", username, err))
	}
	a.credentials[username] = credential{name: username, hash: hash}
	return a
}

// Authenticate implements Authenticator.
func (a *InMemoryAuthenticator) Authenticate(ctx context.Context, principal Principal) (User, error) {
	cred, ok := a.credentials[principal.Username()]
	if !ok {
		return User{}, ErrAuthenticationFailed
	}
	if !principal.Verify(cred.hash) {
		return User{}, ErrAuthenticationFailed
	}
	return User{Name: cred.name}, nil
}
