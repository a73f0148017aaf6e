package identity

import (
	"sync"

	"github.com/hobbyforge/storefront/internal/domain"
)

// MemoryProvider holds the browsing session's current identity in process
// memory and fans out change notifications synchronously, in subscription
// order. It is the process-local capability behind the identity port; token
// exchange and credentials live outside this service entirely.
type MemoryProvider struct {
	mu          sync.Mutex
	current     domain.Identity
	present     bool
	subscribers []func(domain.Identity, bool)
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{}
}

func (p *MemoryProvider) Current() (domain.Identity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.present
}

func (p *MemoryProvider) Subscribe(fn func(identity domain.Identity, present bool)) {
	p.mu.Lock()
	p.subscribers = append(p.subscribers, fn)
	p.mu.Unlock()
}

// SignIn sets the current identity and notifies subscribers.
func (p *MemoryProvider) SignIn(identity domain.Identity) {
	p.mu.Lock()
	p.current = identity
	p.present = true
	subs := append([]func(domain.Identity, bool){}, p.subscribers...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(identity, true)
	}
}

// SignOut clears the current identity and notifies subscribers.
func (p *MemoryProvider) SignOut() {
	p.mu.Lock()
	p.current = domain.Identity{}
	p.present = false
	subs := append([]func(domain.Identity, bool){}, p.subscribers...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(domain.Identity{}, false)
	}
}
