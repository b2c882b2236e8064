package telemetry

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/oil-strike/internal/storage"
)

// LogSink writes each batch to a logger instead of a remote service.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink creates a sink that logs batches at debug level.
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LogSink{logger: logger.WithPrefix("telemetry")}
}

// Write logs a summary of the batch.
func (s *LogSink) Write(sessionID string, batch []Command) error {
	if len(batch) == 0 {
		return nil
	}
	first, last := batch[0], batch[len(batch)-1]
	s.logger.Debug("batch",
		"session", sessionID,
		"from", first.Seq,
		"to", last.Seq,
		"angle", last.AngleDeg,
		"throttle", last.Throttle,
	)
	return nil
}

// BatchStore is the subset of storage.Store used by StoreSink.
type BatchStore interface {
	SaveTelemetry(sessionID string, batch []storage.TelemetryCommand) error
}

// StoreSink persists batches to the run database.
type StoreSink struct {
	store BatchStore
}

// NewStoreSink creates a sink backed by store.
func NewStoreSink(store BatchStore) *StoreSink {
	return &StoreSink{store: store}
}

// Write converts and saves the batch.
func (s *StoreSink) Write(sessionID string, batch []Command) error {
	rows := make([]storage.TelemetryCommand, len(batch))
	for i, c := range batch {
		rows[i] = storage.TelemetryCommand{
			Seq:      c.Seq,
			DtMs:     c.DtMs,
			AngleDeg: c.AngleDeg,
			Throttle: c.Throttle,
		}
	}
	if err := s.store.SaveTelemetry(sessionID, rows); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// MultiSink writes every batch to all of its sinks.
type MultiSink []Sink

// Write forwards the batch and joins any errors.
func (m MultiSink) Write(sessionID string, batch []Command) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Write(sessionID, batch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
