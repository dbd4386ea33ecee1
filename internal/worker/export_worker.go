// Package worker runs the background export consumer.
package worker

import (
	"context"
	"errors"
	"fmt"

	"cashbook/internal/amqp"
	"cashbook/internal/log"
)

// Consumer delivers export requests until ctx is done.
type Consumer interface {
	ConsumeExportRequested(ctx context.Context, handler func(context.Context, *amqp.ExportRequested) error) error
}

// Handler processes one export request.
type Handler interface {
	Handle(ctx context.Context, msg *amqp.ExportRequested) error
}

// ExportWorker connects the queue consumer to the export handler.
type ExportWorker struct {
	consumer Consumer
	handler  Handler
	logger   *log.Logger
}

func NewExportWorker(consumer Consumer, handler Handler, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportWorker{consumer: consumer, handler: handler, logger: logger.WithComponent(log.ComponentWorker)}
}

// Run blocks until ctx is cancelled or the consumer fails. Cancellation is a clean stop.
func (w *ExportWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Export worker started")
	err := w.consumer.ConsumeExportRequested(ctx, w.handler.Handle)
	if errors.Is(err, context.Canceled) || (err != nil && ctx.Err() != nil) {
		w.logger.InfoContext(ctx, "Export worker stopped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("consume export requests: %w", err)
	}
	return nil
}
