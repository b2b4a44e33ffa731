package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/Aashish23092/payslip-verification/dto"
)

const (
	DefaultSessionTTL    = 24 * time.Hour
	DefaultPurgeSchedule = "@every 1h"
)

// SessionRepository persists sessions and their documents.
type SessionRepository interface {
	CreateSession(ctx context.Context, id string, now time.Time) error
	GetSession(ctx context.Context, id string) (dto.Session, error)
	SavePayslip(ctx context.Context, id string, record dto.PayslipRecord, now time.Time) error
	SaveContract(ctx context.Context, id string, contract dto.ContractBaseline, now time.Time) error
	DeleteSession(ctx context.Context, id string) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionService keeps a payslip and a contract side by side until both are
// present and can be compared.
type SessionService struct {
	repo       SessionRepository
	comparison *ComparisonService
	ttl        time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewSessionService(repo SessionRepository, comparison *ComparisonService, ttl time.Duration, logger *slog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	if comparison == nil {
		comparison = NewComparisonService(logger)
	}
	return &SessionService{
		repo:       repo,
		comparison: comparison,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *SessionService) Create(ctx context.Context) (dto.Session, error) {
	id := uuid.NewString()
	if err := s.repo.CreateSession(ctx, id, s.now()); err != nil {
		return dto.Session{}, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("session.created", "session_id", id)
	return s.repo.GetSession(ctx, id)
}

func (s *SessionService) Get(ctx context.Context, id string) (dto.Session, error) {
	return s.repo.GetSession(ctx, id)
}

func (s *SessionService) SavePayslip(ctx context.Context, id string, record dto.PayslipRecord) (dto.Session, error) {
	if err := s.repo.SavePayslip(ctx, id, record, s.now()); err != nil {
		return dto.Session{}, err
	}
	s.logger.Info("session.payslip.saved", "session_id", id)
	return s.repo.GetSession(ctx, id)
}

// SaveContract validates the contract and fills defaults before storing it.
func (s *SessionService) SaveContract(ctx context.Context, id string, contract dto.ContractBaseline) (dto.Session, error) {
	normalized, err := NormalizeContract(contract)
	if err != nil {
		return dto.Session{}, err
	}
	if err := s.repo.SaveContract(ctx, id, normalized, s.now()); err != nil {
		return dto.Session{}, err
	}
	s.logger.Info("session.contract.saved", "session_id", id)
	return s.repo.GetSession(ctx, id)
}

// Compare runs the comparison once both documents are stored.
func (s *SessionService) Compare(ctx context.Context, id string) (dto.AnalysisResult, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return dto.AnalysisResult{}, err
	}
	if !ReadyToCompare(session) {
		return dto.AnalysisResult{}, dto.ErrIncompleteSession
	}
	return s.comparison.Compare(*session.Payslip, *session.Contract), nil
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return err
	}
	s.logger.Info("session.deleted", "session_id", id)
	return nil
}

// PurgeExpired removes sessions that were not touched within the TTL.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.PurgeBefore(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("session.purged", "count", n, "ttl", s.ttl)
	}
	return n, nil
}

// StartPurgeJob schedules PurgeExpired. The caller stops the returned cron.
func (s *SessionService) StartPurgeJob(schedule string) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if _, err := s.PurgeExpired(context.Background()); err != nil {
			s.logger.Error("session.purge.failed", "err", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	c.Start()
	s.logger.Info("session.purge.scheduled", "schedule", schedule, "ttl", s.ttl)
	return c, nil
}

func ReadyToCompare(session dto.Session) bool {
	return session.Payslip != nil && session.Contract != nil
}
