package http

import (
	"context"
	"sync"

	"github.com/hobbyforge/storefront/internal/ports"
)

const ctxKeyFeedback ctxKey = "feedback"

// Feedback collects the notices and the redirect the engine emits while
// serving one request, so the handler can hand them back to the client the
// way a toast and a router navigation would surface in a UI.
type Feedback struct {
	mu         sync.Mutex
	notices    []ports.Notice
	redirectTo string
}

func (f *Feedback) add(notice ports.Notice) {
	f.mu.Lock()
	f.notices = append(f.notices, notice)
	f.mu.Unlock()
}

func (f *Feedback) Notices() []ports.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.Notice{}, f.notices...)
}

func (f *Feedback) RedirectTo() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redirectTo
}

// WithFeedback attaches a fresh collector to the context.
func WithFeedback(ctx context.Context) (context.Context, *Feedback) {
	fb := &Feedback{}
	return context.WithValue(ctx, ctxKeyFeedback, fb), fb
}

func feedbackFrom(ctx context.Context) *Feedback {
	fb, _ := ctx.Value(ctxKeyFeedback).(*Feedback)
	return fb
}

// ContextNotifier routes notices into the request's Feedback collector and
// falls back to the wired sink for contexts without one (identity-change
// loads, background work).
type ContextNotifier struct {
	fallback ports.Notifier
}

func NewContextNotifier(fallback ports.Notifier) *ContextNotifier {
	return &ContextNotifier{fallback: fallback}
}

func (n *ContextNotifier) Notify(ctx context.Context, notice ports.Notice) {
	if fb := feedbackFrom(ctx); fb != nil {
		fb.add(notice)
		return
	}
	if n.fallback != nil {
		n.fallback.Notify(ctx, notice)
	}
}

// ContextNavigator records the sign-in redirect into the request's Feedback
// collector; the handler turns it into a response the client can follow.
type ContextNavigator struct {
	signInPath string
}

func NewContextNavigator(signInPath string) *ContextNavigator {
	if signInPath == "" {
		signInPath = "/auth/sign-in"
	}
	return &ContextNavigator{signInPath: signInPath}
}

func (n *ContextNavigator) RedirectToSignIn(ctx context.Context) {
	if fb := feedbackFrom(ctx); fb != nil {
		fb.mu.Lock()
		fb.redirectTo = n.signInPath
		fb.mu.Unlock()
	}
}
