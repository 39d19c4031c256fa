// Package notify wraps non-critical collaborator calls. History logging and
// account auto-creation must never fail the core exam operation that
// triggered them; failures are logged and swallowed here instead of bubbling
// up through ad hoc error handling at every call site.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Notifier runs best-effort side calls with a bounded timeout.
type Notifier struct {
	logger  zerolog.Logger
	timeout time.Duration
}

func New(logger zerolog.Logger, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Notifier{
		logger:  logger.With().Str("component", "notify").Logger(),
		timeout: timeout,
	}
}

// Do invokes fn and returns nothing: the call cannot fail the caller. The
// context is detached from the request context so an aborted request does not
// cancel the side effect mid-flight.
func (n *Notifier) Do(op string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		n.logger.Warn().Err(err).Str("op", op).Msg("non-critical collaborator call failed")
	}
}
