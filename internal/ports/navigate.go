package ports

import "context"

// Navigator redirects the user to the authentication entry point during the
// guest handoff. Like Notifier, it is fire-and-forget.
type Navigator interface {
	RedirectToSignIn(ctx context.Context)
}
