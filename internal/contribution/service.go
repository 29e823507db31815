package contribution

import (
	"context"
	"fmt"
	"time"

	"coopfund/internal/logger"
	"coopfund/internal/metrics"
	"coopfund/internal/notification"
	"coopfund/internal/week"
)

type Service interface {
	// CanPay evaluates eligibility for this week's payment without side
	// effects. A nil error means the member may pay; the returned state
	// carries the amounts for rendering.
	CanPay(ctx context.Context, memberID int, now time.Time) (*PaymentState, error)
	// Pay executes the weekly payment atomically.
	Pay(ctx context.Context, memberID int, now time.Time) (*PaymentResult, error)
	// RunWeeklyAutomation sends Thursday reminders and lazily creates
	// PENDING rows once the Friday-Saturday window opens.
	RunWeeklyAutomation(ctx context.Context, now time.Time) error

	ListByMember(ctx context.Context, memberID int) ([]Contribution, error)
}

type service struct {
	repo     Repository
	notifier notification.Notifier
}

func NewService(repo Repository, notifier notification.Notifier) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *service) CanPay(ctx context.Context, memberID int, now time.Time) (*PaymentState, error) {
	state, err := s.repo.GetPaymentState(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if err := evaluate(state, now); err != nil {
		return state, err
	}

	return state, nil
}

// evaluate applies the eligibility rules to a snapshot. Pay re-runs the same
// rules inside its transaction; this copy exists for the read-only check.
func evaluate(state *PaymentState, now time.Time) error {
	if state.TierID == nil {
		return ErrNoActiveTier
	}
	if state.WeeksPaid >= state.DurationWeeks {
		return ErrCycleComplete
	}
	if state.LastPaidAt != nil && !state.LastPaidAt.Before(week.WeekStart(now)) {
		return ErrAlreadyPaid
	}
	if state.WalletBalanceCents < state.DueCents() {
		return fmt.Errorf("%w: short by %d cents", ErrInsufficientFunds, state.DueCents()-state.WalletBalanceCents)
	}
	return nil
}

func (s *service) Pay(ctx context.Context, memberID int, now time.Time) (*PaymentResult, error) {
	result, err := s.repo.Pay(ctx, memberID, now)
	if err != nil {
		metrics.RecordContribution("rejected")
		return nil, err
	}

	metrics.RecordContribution("paid")
	metrics.RecordWalletTransaction("contribution", "out")

	title := "Contribution received"
	message := fmt.Sprintf("Week %d contribution of %d cents recorded. %d of your cycle weeks are now paid.",
		result.Contribution.WeekNumber, result.WeeklyAmountCents, result.WeeksPaid)
	if err := s.notifier.Notify(ctx, memberID, title, message); err != nil {
		logger.Errorf("Failed to notify member %d about contribution: %v", memberID, err)
	}

	return result, nil
}

func (s *service) RunWeeklyAutomation(ctx context.Context, now time.Time) error {
	// Settle last week's books before this week's reminders: pending rows
	// whose window has closed become missed.
	missed, err := s.repo.MarkMissed(ctx, week.WeekStart(now))
	if err != nil {
		return fmt.Errorf("failed to mark missed contributions: %w", err)
	}
	if missed > 0 {
		logger.Info("Marked overdue contributions as missed", "count", missed)
	}

	targets, err := s.repo.ListAutomationTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list automation targets: %w", err)
	}

	windowOpen := week.IsContributionWindowOpen(now)
	notificationDay := week.IsNotificationDay(now)

	if !windowOpen && !notificationDay {
		logger.Debug("Weekly automation: nothing to do today")
		return nil
	}

	window := week.ContributionWindow(now)
	created, reminded := 0, 0

	for _, memberID := range targets {
		if notificationDay {
			message := fmt.Sprintf("Your weekly contribution is due this Friday-Saturday (window closes %s).",
				window.Closes.Format("Jan 2, 2006 at 3:04 PM"))
			if err := s.notifier.Notify(ctx, memberID, "Contribution reminder", message); err != nil {
				logger.Errorf("Failed to send reminder to member %d: %v", memberID, err)
				continue
			}
			reminded++
		}

		if windowOpen {
			ok, err := s.repo.CreatePendingWeek(ctx, memberID, window.Closes)
			if err != nil {
				logger.Errorf("Failed to create pending week for member %d: %v", memberID, err)
				continue
			}
			if ok {
				created++
			}
		}
	}

	logger.Info("Weekly automation finished", "targets", len(targets), "reminded", reminded, "pending_created", created)
	return nil
}

func (s *service) ListByMember(ctx context.Context, memberID int) ([]Contribution, error) {
	return s.repo.ListByMember(ctx, memberID)
}
