// File: internal/infra/worker/driver.go
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/infra/metrics"
	"genomics-annotation-service/internal/usecase"
)

// Handler processes one message body and reports what should happen to the
// message. It must be tolerant of duplicate deliveries.
type Handler func(ctx context.Context, body []byte) usecase.Result

// Driver is the generic receive-process-acknowledge loop shared by all
// workers. Policy lives in the handler's Result; the driver only owns the
// bounded-wait receive and the acknowledgement.
type Driver struct {
	name    string
	queue   adapter.Queue
	handler Handler
	max     int
	wait    time.Duration
	log     *zerolog.Logger
}

func NewDriver(name string, queue adapter.Queue, handler Handler, maxMessages int, wait time.Duration, logger *zerolog.Logger) *Driver {
	l := logger.With().Str("component", "Driver").Str("queue", name).Logger()
	return &Driver{
		name:    name,
		queue:   queue,
		handler: handler,
		max:     maxMessages,
		wait:    wait,
		log:     &l,
	}
}

// Run polls the channel until the context is cancelled. Receive errors are
// logged and polling continues; there is nothing to acknowledge on that
// path.
func (d *Driver) Run(ctx context.Context) error {
	d.log.Info().Msg("worker started")
	for {
		if err := ctx.Err(); err != nil {
			d.log.Info().Msg("worker stopping")
			return err
		}

		msgs, err := d.queue.Receive(ctx, d.max, d.wait)
		if err != nil {
			if ctx.Err() != nil {
				d.log.Info().Msg("worker stopping")
				return ctx.Err()
			}
			d.log.Error().Err(err).Msg("receive failed")
			continue
		}

		for _, msg := range msgs {
			d.handle(ctx, msg)
		}
	}
}

func (d *Driver) handle(ctx context.Context, msg adapter.Message) {
	start := time.Now()
	res := d.handler(ctx, msg.Body)
	metrics.IncMessageHandled(d.name, res.String())
	metrics.ObserveMessageHandle(d.name, time.Since(start).Seconds())

	switch res {
	case usecase.ResultOK, usecase.ResultDrop:
		if res == usecase.ResultDrop {
			d.log.Warn().Str("message_id", msg.ID).Msg("dropping unusable message")
		}
		if err := d.queue.Delete(ctx, msg.Handle); err != nil {
			// The message will come back; handlers are duplicate-tolerant.
			d.log.Error().Err(err).Str("message_id", msg.ID).Msg("message delete failed")
		}
	case usecase.ResultRetry:
		// Left un-acknowledged; the visibility window schedules the retry.
	}
}
