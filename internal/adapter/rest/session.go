package rest

import "context"

// Session supplies the bearer token attached to every request. It is an
// injected capability so tests can substitute a fake session; the client
// never reaches into global state for credentials.
type Session interface {
	Token(ctx context.Context) (string, error)
}

// StaticSession is a Session with a fixed token.
type StaticSession string

// Token implements Session.
func (s StaticSession) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// SessionFunc adapts a function to the Session interface.
type SessionFunc func(ctx context.Context) (string, error)

// Token implements Session.
func (f SessionFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}
