package transport

import (
	"context"
	"log/slog"

	"github.com/thejerf/suture/v4"
)

// Supervise runs session under a suture supervisor until ctx is done. The
// returned channel yields the supervisor's exit error.
func Supervise(ctx context.Context, session *Session, opts Options) <-chan error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	spec := suture.Spec{
		EventHook: func(e suture.Event) {
			logger.Debug("supervisor event", "event", e.String())
		},
		FailureThreshold: 5,
		FailureDecay:     30,
	}
	if opts.Backoff > 0 {
		spec.FailureBackoff = opts.Backoff
	}
	sup := suture.New("idealdisplay", spec)
	sup.Add(session)
	return sup.ServeBackground(ctx)
}
