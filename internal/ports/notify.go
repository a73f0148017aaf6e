package ports

import "context"

type Severity string

const (
	SeverityNormal      Severity = "normal"
	SeverityDestructive Severity = "destructive"
)

type Notice struct {
	Severity    Severity
	Title       string
	Description string
}

// Notifier is the fire-and-forget user-facing message sink. Delivery is best
// effort; callers never branch on its outcome.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}
