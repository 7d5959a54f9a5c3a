// Package emitter materializes an annealer-accepted schedule into the
// external storage shape, grounded on schedule_generator_service.go's Save
// method (itself grounded on original_source/scheduler.py's
// _save_schedule): every non-manual item is written fresh, manual items are
// left untouched, and the write is a single atomic batch.
package emitter

import (
	"context"

	"github.com/noah-isme/timetable-core/internal/domain"
	"github.com/noah-isme/timetable-core/internal/ports"
)

// Emit writes the non-manual items of items through writer as one batch.
// Manual items are assumed already persisted and are filtered out here so
// the caller can pass the full accepted set without bookkeeping which
// items originated from a manual override.
func Emit(ctx context.Context, writer ports.ScheduleWriter, items []domain.ScheduleItem) error {
	fresh := make([]domain.ScheduleItem, 0, len(items))
	for _, it := range items {
		if it.Manual {
			continue
		}
		fresh = append(fresh, it)
	}
	if len(fresh) == 0 {
		return nil
	}
	return writer.WriteSchedule(ctx, fresh)
}
