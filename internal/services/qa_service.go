package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/madkurv/api/internal/domain"
	"github.com/madkurv/api/internal/platform/ids"
	"github.com/madkurv/api/internal/repositories"
)

var (
	ErrQAInvalid  = errors.New("qa: invalid input")
	ErrQANotFound = errors.New("qa: test case not found")
)

type qaService struct {
	cases    repositories.QARepository
	counters repositories.CounterRepository
	now      func() time.Time
}

// QAServiceDeps lists the collaborators of the QA service.
type QAServiceDeps struct {
	Cases    repositories.QARepository
	Counters repositories.CounterRepository
	Clock    Clock
}

// NewQAService validates deps and builds the QA tracking service.
func NewQAService(deps QAServiceDeps) (QAService, error) {
	if deps.Cases == nil {
		return nil, errors.New("qa: case repository is required")
	}
	if deps.Counters == nil {
		return nil, errors.New("qa: counter repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &qaService{
		cases:    deps.Cases,
		counters: deps.Counters,
		now:      func() time.Time { return clock().UTC() },
	}, nil
}

func (s *qaService) Create(ctx context.Context, cmd CreateQACaseCommand) (domain.QATestCase, error) {
	if strings.TrimSpace(cmd.Title) == "" {
		return domain.QATestCase{}, fmt.Errorf("%w: title is required", ErrQAInvalid)
	}

	seq, err := s.counters.Next(ctx, qaCounterName)
	if err != nil {
		return domain.QATestCase{}, err
	}

	now := s.now()
	tc := domain.QATestCase{
		ID:        ids.New(now),
		Code:      formatQACode(seq),
		Title:     strings.TrimSpace(cmd.Title),
		Area:      strings.TrimSpace(cmd.Area),
		Steps:     cmd.Steps,
		Expected:  cmd.Expected,
		Status:    domain.QAStatusOpen,
		Assignee:  cmd.Assignee,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cases.Save(ctx, tc); err != nil {
		return domain.QATestCase{}, err
	}
	return tc, nil
}

func (s *qaService) SetStatus(ctx context.Context, id string, status domain.QAStatus) (domain.QATestCase, error) {
	switch status {
	case domain.QAStatusOpen, domain.QAStatusPassed, domain.QAStatusFailed:
	default:
		return domain.QATestCase{}, fmt.Errorf("%w: unknown status %q", ErrQAInvalid, status)
	}

	tc, err := s.cases.Get(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.QATestCase{}, fmt.Errorf("%w: %s", ErrQANotFound, id)
		}
		return domain.QATestCase{}, err
	}
	tc.Status = status
	tc.UpdatedAt = s.now()
	if err := s.cases.Save(ctx, tc); err != nil {
		return domain.QATestCase{}, err
	}
	return tc, nil
}

func (s *qaService) List(ctx context.Context) ([]domain.QATestCase, error) {
	return s.cases.List(ctx)
}
