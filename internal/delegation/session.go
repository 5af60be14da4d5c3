package delegation

import "context"

// Session provides the authenticated caller's identity. The suite's
// auth layer implements this; every orchestrator operation rejects
// immediately when no caller is signed in.
type Session interface {
	// CurrentUserID returns the caller's canonical user id, or
	// ErrUnauthenticated when nobody is signed in.
	CurrentUserID(ctx context.Context) (string, error)
}

// StaticSession is a Session fixed to a single user id. An empty id
// behaves as signed out.
type StaticSession string

// CurrentUserID implements Session.
func (s StaticSession) CurrentUserID(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrUnauthenticated
	}
	return string(s), nil
}
