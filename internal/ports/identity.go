package ports

import "github.com/hobbyforge/storefront/internal/domain"

// IdentityProvider supplies the current authenticated identity, or none.
// Subscribers are notified on every sign-in and sign-out. The cart engine
// subscribes exactly once at construction.
type IdentityProvider interface {
	Current() (domain.Identity, bool)
	Subscribe(fn func(identity domain.Identity, present bool))
}
