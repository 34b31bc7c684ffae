package display

import (
	"context"
	"sync"

	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/infrastructure/logging"
)

// Board guarda el último snapshot renderizado para GET /api/v1/display
type Board struct {
	formatter *Formatter

	mu     sync.RWMutex
	latest entities.Snapshot
	seen   bool
}

func NewBoard(formatter *Formatter) *Board {
	return &Board{formatter: formatter}
}

// OnSnapshot implements interfaces.Subscriber.
func (b *Board) OnSnapshot(_ context.Context, s entities.Snapshot) {
	rendered := b.formatter.Render(s)

	b.mu.Lock()
	b.latest = rendered
	b.seen = true
	b.mu.Unlock()
}

// Latest returns the last snapshot, false until the first refresh reached the provider.
func (b *Board) Latest() (entities.Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.seen
}

// LogSink writes every snapshot to the structured log.
type LogSink struct {
	formatter *Formatter
}

func NewLogSink(formatter *Formatter) *LogSink {
	return &LogSink{formatter: formatter}
}

func (l *LogSink) OnSnapshot(ctx context.Context, s entities.Snapshot) {
	rendered := l.formatter.Render(s)
	fields := logging.Fields{
		logging.FieldBase: rendered.Base,
		"rendered":        rendered.Rendered,
		"status":          string(rendered.Status),
	}

	if !rendered.Available() {
		fields[logging.FieldFetchKind] = rendered.ErrorKind
		logging.Warn(ctx, "Display updated: rates unavailable", fields)
		return
	}
	fields["title"] = rendered.Title
	logging.Info(ctx, "Display updated", fields)
}
