package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cashbook/internal/amqp"
	"cashbook/internal/filter"
	"cashbook/internal/log"
)

// Exporter is the part of TransactionService the export worker needs.
type Exporter interface {
	ExportAt(ctx context.Context, w filter.Window, ref time.Time) (string, error)
}

// ExportProcessor turns queued export requests into exports.
type ExportProcessor struct {
	exporter Exporter
	loc      *time.Location
	logger   *log.Logger
}

func NewExportProcessor(exporter Exporter, loc *time.Location, logger *log.Logger) *ExportProcessor {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportProcessor{exporter: exporter, loc: loc, logger: logger.WithComponent(log.ComponentWorker)}
}

// Handle runs one export request. Month and year windows are resolved against
// the time the request was made, not the time it is processed. A request with
// an unusable window is logged and dropped; export failures are returned so the
// message is redelivered.
func (p *ExportProcessor) Handle(ctx context.Context, msg *amqp.ExportRequested) error {
	w, err := filter.ParseWindow(msg.Range, msg.Start, msg.End, p.loc)
	if err != nil {
		p.logger.WarnContext(ctx, "Dropping export request with invalid window",
			log.FieldRange, msg.Range, log.FieldError, err)
		return nil
	}

	at := msg.RequestedAt
	if at.IsZero() {
		at = time.Now()
	}
	ref, err := p.exporter.ExportAt(ctx, w, at.In(p.loc))
	if errors.Is(err, ErrExportUnavailable) {
		p.logger.ErrorContext(ctx, "Export requested but no exporter configured", log.FieldRange, msg.Range)
		return nil
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", msg.Range, err)
	}

	p.logger.InfoContext(ctx, "Export request processed",
		log.FieldRange, msg.Range,
		log.FieldExportRef, ref,
		"queued_for", time.Since(msg.RequestedAt).Round(time.Millisecond))
	return nil
}
