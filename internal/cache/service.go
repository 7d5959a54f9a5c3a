package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/timetable-core/pkg/errors"
)

// MetricsRecorder decouples the cache service from any one metrics
// implementation; internal/metrics.Collector satisfies it.
type MetricsRecorder interface {
	RecordCacheOperation(hit bool, duration time.Duration)
	ObserveCacheWrite(duration time.Duration)
}

// ConflictQuery is the cache key's value object: spec 6's
// "given (week, day, period, teacherId, roomId, groupIds, excludeItemId?)".
type ConflictQuery struct {
	Week          int
	Day           int
	Period        int
	TeacherID     string
	RoomID        string
	GroupIDs      []string
	ExcludeItemID string
}

// Key derives a deterministic Redis key for q, stable regardless of the
// GroupIDs slice's incoming order.
func (q ConflictQuery) Key(termID string) string {
	groups := append([]string(nil), q.GroupIDs...)
	sortStrings(groups)
	return fmt.Sprintf("conflicts:%s:%d:%d:%d:%s:%s:%s:%s",
		termID, q.Week, q.Day, q.Period, q.TeacherID, q.RoomID, strings.Join(groups, ","), q.ExcludeItemID)
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Service orchestrates memoized conflict lookups, mirroring the teacher's
// CacheService split between a Repository and its metrics/logging wrapper.
type Service struct {
	repo       Repository
	metrics    MetricsRecorder
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewService constructs a conflict-query cache service. enabled lets
// deployments without Redis fall back to always-miss behavior.
func NewService(repo Repository, metrics MetricsRecorder, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *Service {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Lookup returns cached conflict descriptions for q, and whether the cache
// was hit. Callers compute the predicate themselves on a miss and call
// Store to populate it.
func (s *Service) Lookup(ctx context.Context, termID string, q ConflictQuery) ([]string, bool, error) {
	if !s.Enabled() {
		return nil, false, nil
	}
	key := q.Key(termID)
	start := time.Now()
	var descriptions []string
	err := s.repo.Get(ctx, key, &descriptions)
	duration := time.Since(start)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(false, duration)
			}
			return nil, false, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false, duration)
		}
		s.logger.Warn("conflict cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false, err
	}
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(true, duration)
	}
	return descriptions, true, nil
}

// Store memoizes descriptions for q.
func (s *Service) Store(ctx context.Context, termID string, q ConflictQuery, descriptions []string) error {
	if !s.Enabled() {
		return nil
	}
	key := q.Key(termID)
	start := time.Now()
	err := s.repo.Set(ctx, key, descriptions, s.defaultTTL)
	if s.metrics != nil {
		s.metrics.ObserveCacheWrite(time.Since(start))
	}
	if err != nil {
		s.logger.Warn("conflict cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// InvalidateTerm drops every memoized conflict query for termID; callers
// invoke this after a generation run or a manual placement commits, since
// both change the committed schedule the predicate reads from.
func (s *Service) InvalidateTerm(ctx context.Context, termID string) error {
	if !s.Enabled() {
		return nil
	}
	pattern := fmt.Sprintf("conflicts:%s:*", termID)
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("conflict cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}
