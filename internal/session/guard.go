package session

import (
	"context"
	"errors"
)

// ErrNotAuthenticated is returned when a protected command runs without a
// live session.
var ErrNotAuthenticated = errors.New("not authenticated: run 'videoval login' first")

// Checker reports whether the current session cookie is still accepted.
// The check itself never fails on server or transport problems; those count
// as logged out. The only error it may return is context cancellation.
type Checker interface {
	CheckSession(ctx context.Context) (bool, error)
}

// Require gates a protected command behind a fresh session check. The check
// runs on every invocation rather than being cached, since the cookie can
// expire between runs. If the context is cancelled before the check
// resolves, the (possibly in-flight) result is discarded and only the
// cancellation error is reported.
func Require(ctx context.Context, c Checker) error {
	authed, err := c.CheckSession(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !authed {
		return ErrNotAuthenticated
	}
	return nil
}
