package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier delivers events to the store fire-and-forget: a failed write is
// logged and never fails the operation that triggered it.
type Notifier struct {
	store Store
	log   zerolog.Logger
}

func NewNotifier(store Store, log zerolog.Logger) *Notifier {
	return &Notifier{
		store: store,
		log:   log.With().Str("component", "notifier").Logger(),
	}
}

func (n *Notifier) Notify(ctx context.Context, ev Event) {
	rendered := ev.render()
	if len(rendered) == 0 {
		return
	}

	var err error
	if len(rendered) == 1 {
		err = n.store.Create(ctx, rendered[0])
	} else {
		err = n.store.CreateBatch(ctx, rendered)
	}
	if err != nil {
		n.log.Error().Err(err).
			Str("type", rendered[0].Type).
			Msg("notification write failed")
	}
}
