// README: Analysis orchestration: quota, one provider call, history, latest slot.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecoroute/internal/ai"
	"ecoroute/internal/trip"
)

// Deps wires the collaborators of Service. Analyzer and Latest are required; History and
// Quota are optional.
type Deps struct {
	Analyzer ai.Analyzer
	History  History
	Latest   LatestSlot
	Quota    Quota
	Logger   *zap.Logger
}

type Service struct {
	analyzer ai.Analyzer
	history  History
	latest   LatestSlot
	quota    Quota
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	latest := deps.Latest
	if latest == nil {
		latest = NewMemorySlot()
	}
	return &Service{
		analyzer: deps.Analyzer,
		history:  deps.History,
		latest:   latest,
		quota:    deps.Quota,
		log:      logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Analyze runs one analysis for clientID. Analyzer and quota errors are returned unchanged
// and leave history and the latest slot untouched. Storage failures after a successful
// analysis are logged and do not fail the call.
func (s *Service) Analyze(ctx context.Context, clientID string, req trip.Request) (*Record, error) {
	if s.quota != nil {
		if err := s.quota.UseToken(ctx, clientID); err != nil {
			return nil, err
		}
	}

	started := s.now()
	result, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		s.log.Warn("route analysis failed",
			zap.String("client_id", clientID),
			zap.String("start_city", req.StartCity),
			zap.String("end_city", req.EndCity),
			zap.Error(err))
		return nil, err
	}

	rec := Record{
		ID:        s.newID(),
		ClientID:  clientID,
		Request:   req,
		Analysis:  *result,
		CreatedAt: s.now().UTC(),
	}
	s.log.Info("route analysis completed",
		zap.String("analysis_id", rec.ID),
		zap.String("client_id", clientID),
		zap.Float64("distance_km", result.DistanceKm),
		zap.Int("stops", len(result.Stops)),
		zap.Int("sources", len(result.Sources)),
		zap.Duration("elapsed", s.now().Sub(started)))

	if s.history != nil {
		if err := s.history.Save(ctx, rec); err != nil {
			s.log.Error("save analysis history", zap.String("analysis_id", rec.ID), zap.Error(err))
		}
	}
	if err := s.latest.Set(ctx, rec); err != nil {
		s.log.Error("update latest analysis", zap.String("client_id", clientID), zap.Error(err))
	}
	return &rec, nil
}

// Latest returns the client's most recent successful analysis.
func (s *Service) Latest(ctx context.Context, clientID string) (*Record, error) {
	return s.latest.Get(ctx, clientID)
}

func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Get(ctx, id)
}

// History lists the client's analyses, newest first. limit is clamped to
// [1, MaxHistoryLimit]; zero or negative means DefaultHistoryLimit.
func (s *Service) History(ctx context.Context, clientID string, limit int) ([]Record, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.history.ListByClient(ctx, clientID, limit)
}

// QuotaRemaining reports how many analyses clientID may still run this month.
func (s *Service) QuotaRemaining(ctx context.Context, clientID string) (int, error) {
	if s.quota == nil {
		return 0, ErrQuotaDisabled
	}
	return s.quota.Remaining(ctx, clientID)
}

// HistoryEnabled reports whether records are persisted beyond the latest slot.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}
