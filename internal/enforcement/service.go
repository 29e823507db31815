package enforcement

import (
	"context"
	"fmt"
	"time"

	"coopfund/internal/logger"
	"coopfund/internal/metrics"
	"coopfund/internal/notification"
	"coopfund/internal/week"
)

const (
	statusActive    = "active"
	statusSuspended = "suspended"
	statusBanned    = "banned"
)

type Service interface {
	// RunSweep scans all enforceable members and applies suspension/ban
	// transitions. Per-member failures are counted, not propagated; only a
	// failure to read the member list is returned as an error.
	RunSweep(ctx context.Context, now time.Time) (*Summary, error)

	// CheckMember is the read-only enforcement projection for one member.
	CheckMember(ctx context.Context, memberID int, now time.Time) (*CheckResult, error)
}

type service struct {
	repo              Repository
	notifier          notification.Notifier
	suspendAfterWeeks int
	banAfterWeeks     int
}

func NewService(repo Repository, notifier notification.Notifier, suspendAfterWeeks, banAfterWeeks int) Service {
	return &service{
		repo:              repo,
		notifier:          notifier,
		suspendAfterWeeks: suspendAfterWeeks,
		banAfterWeeks:     banAfterWeeks,
	}
}

// missedWeeks turns a member's contribution tail into a missed-week count.
// With no history the clock starts at the join date; otherwise at the newer
// of the tail's paid_at and created_at.
func (s *service) missedWeeks(m *MemberSnapshot, tail *ContributionTail, now time.Time) int {
	ref := m.JoinedAt
	if tail != nil {
		ref = tail.CreatedAt
		if tail.PaidAt != nil && tail.PaidAt.After(ref) {
			ref = *tail.PaidAt
		}
	}
	return week.MissedWeeks(ref, now)
}

func (s *service) RunSweep(ctx context.Context, now time.Time) (*Summary, error) {
	started := time.Now()
	defer func() {
		metrics.EnforcementSweepDuration.Observe(time.Since(started).Seconds())
	}()

	members, err := s.repo.ListEnforceable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enforceable members: %w", err)
	}

	summary := &Summary{}

	for i := range members {
		m := &members[i]
		summary.Processed++

		if err := s.enforceMember(ctx, m, now, summary); err != nil {
			summary.Failed++
			logger.Errorf("Enforcement failed for member %d: %v", m.ID, err)
		}
	}

	logger.Info("Enforcement sweep finished",
		"processed", summary.Processed,
		"suspended", summary.Suspended,
		"banned", summary.Banned,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	return summary, nil
}

func (s *service) enforceMember(ctx context.Context, m *MemberSnapshot, now time.Time, summary *Summary) error {
	tail, err := s.repo.LatestContribution(ctx, m.ID)
	if err != nil {
		return err
	}

	missed := s.missedWeeks(m, tail, now)

	switch {
	case missed >= s.banAfterWeeks:
		if m.Status == statusBanned {
			summary.Skipped++
			return nil
		}
		reason := fmt.Sprintf("banned after %d missed weekly contributions", missed)
		applied, err := s.repo.Transition(ctx, m.ID, []string{statusActive, statusSuspended}, statusBanned, reason)
		if err != nil {
			return err
		}
		if !applied {
			summary.Skipped++
			logger.Debugf("Member %d already transitioned, skipping ban", m.ID)
			return nil
		}
		summary.Banned++
		metrics.RecordEnforcementAction("ban")
		s.notify(ctx, m.ID, "Account banned",
			fmt.Sprintf("Your account has been banned after %d missed weekly contributions. Contact support to appeal.", missed))

	case missed >= s.suspendAfterWeeks:
		// Suspension only applies to active members; a suspended member
		// stays suspended until they reach the ban threshold or an admin
		// reinstates them.
		if m.Status != statusActive {
			summary.Skipped++
			return nil
		}
		reason := fmt.Sprintf("suspended after %d missed weekly contributions", missed)
		applied, err := s.repo.Transition(ctx, m.ID, []string{statusActive}, statusSuspended, reason)
		if err != nil {
			return err
		}
		if !applied {
			summary.Skipped++
			logger.Debugf("Member %d already transitioned, skipping suspension", m.ID)
			return nil
		}
		summary.Suspended++
		metrics.RecordEnforcementAction("suspend")
		s.notify(ctx, m.ID, "Account suspended",
			fmt.Sprintf("Your account has been suspended after %d missed weekly contributions. Pay your outstanding contributions to request reinstatement.", missed))

	default:
		summary.Skipped++
	}

	return nil
}

// notify is best-effort: the status change committed with its audit entry and
// stands regardless of delivery.
func (s *service) notify(ctx context.Context, memberID int, title, message string) {
	if err := s.notifier.Notify(ctx, memberID, title, message); err != nil {
		logger.Errorf("Failed to notify member %d about enforcement action: %v", memberID, err)
	}
}

func (s *service) CheckMember(ctx context.Context, memberID int, now time.Time) (*CheckResult, error) {
	m, err := s.repo.GetSnapshot(ctx, memberID)
	if err != nil {
		return nil, err
	}

	tail, err := s.repo.LatestContribution(ctx, memberID)
	if err != nil {
		return nil, err
	}

	missed := s.missedWeeks(m, tail, now)

	return &CheckResult{
		MemberID:      memberID,
		MissedWeeks:   missed,
		ShouldSuspend: missed >= s.suspendAfterWeeks && m.Status == statusActive,
		ShouldBan:     missed >= s.banAfterWeeks && m.Status != statusBanned,
		Status:        m.Status,
	}, nil
}
