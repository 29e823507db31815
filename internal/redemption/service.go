package redemption

import (
	"context"
	"errors"
	"fmt"

	"coopfund/internal/audit"
	"coopfund/internal/auth"
	"coopfund/internal/logger"
	"coopfund/internal/member"
	"coopfund/internal/metrics"
	"coopfund/internal/notification"
)

var (
	ErrPinNotSet  = errors.New("transaction pin is not configured")
	ErrInvalidPin = errors.New("invalid transaction pin")
	ErrNoTier     = errors.New("member has no active tier")
)

type Service interface {
	// Redeem validates the member's PIN, tier and the item's stock, then
	// reserves one unit atomically.
	Redeem(ctx context.Context, memberID, itemID int, deliveryAddress, pin string) (*Redemption, error)
	// Approve and Deliver drive the admin status progression
	// requested -> approved -> delivered.
	Approve(ctx context.Context, actor string, redemptionID int) (*Redemption, error)
	Deliver(ctx context.Context, actor string, redemptionID int) (*Redemption, error)

	ListByMember(ctx context.Context, memberID int) ([]Redemption, error)
	List(ctx context.Context, limit, offset int) ([]Redemption, error)
}

type service struct {
	repo       Repository
	memberRepo member.Repository
	notifier   notification.Notifier
	auditor    audit.Recorder
}

func NewService(repo Repository, memberRepo member.Repository, notifier notification.Notifier, auditor audit.Recorder) Service {
	return &service{
		repo:       repo,
		memberRepo: memberRepo,
		notifier:   notifier,
		auditor:    auditor,
	}
}

func (s *service) Redeem(ctx context.Context, memberID, itemID int, deliveryAddress, pin string) (*Redemption, error) {
	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if !m.HasPin() {
		return nil, ErrPinNotSet
	}
	if !auth.CheckPin(*m.TransactionPinHash, pin) {
		return nil, ErrInvalidPin
	}
	if m.TierID == nil {
		return nil, ErrNoTier
	}

	red, err := s.repo.Reserve(ctx, memberID, itemID, deliveryAddress)
	if err != nil {
		if errors.Is(err, ErrItemUnavailable) {
			metrics.RecordRedemption("unavailable")
		}
		return nil, err
	}

	metrics.RecordRedemption("requested")

	if err := s.notifier.Notify(ctx, memberID, "Redemption requested",
		fmt.Sprintf("Your redemption request #%d has been received and is awaiting approval.", red.ID)); err != nil {
		logger.Errorf("Failed to notify member %d about redemption: %v", memberID, err)
	}

	return red, nil
}

func (s *service) Approve(ctx context.Context, actor string, redemptionID int) (*Redemption, error) {
	red, err := s.repo.UpdateStatus(ctx, redemptionID, StatusRequested, StatusApproved)
	if err != nil {
		return nil, err
	}

	metrics.RecordRedemption("approved")
	s.recordAndNotify(ctx, actor, red, "approved",
		fmt.Sprintf("Your redemption request #%d has been approved and is being prepared for delivery.", red.ID))

	return red, nil
}

func (s *service) Deliver(ctx context.Context, actor string, redemptionID int) (*Redemption, error) {
	red, err := s.repo.UpdateStatus(ctx, redemptionID, StatusApproved, StatusDelivered)
	if err != nil {
		return nil, err
	}

	metrics.RecordRedemption("delivered")
	s.recordAndNotify(ctx, actor, red, "delivered",
		fmt.Sprintf("Your redemption request #%d has been delivered.", red.ID))

	return red, nil
}

func (s *service) recordAndNotify(ctx context.Context, actor string, red *Redemption, action, message string) {
	detail := fmt.Sprintf("redemption %d marked %s", red.ID, action)
	if err := s.auditor.Record(ctx, actor, audit.ActionRedemptionMoved, &red.MemberID, detail); err != nil {
		logger.Errorf("Failed to audit redemption %d: %v", red.ID, err)
	}
	if err := s.notifier.Notify(ctx, red.MemberID, "Redemption update", message); err != nil {
		logger.Errorf("Failed to notify member %d about redemption %d: %v", red.MemberID, red.ID, err)
	}
}

func (s *service) ListByMember(ctx context.Context, memberID int) ([]Redemption, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Redemption, error) {
	return s.repo.List(ctx, limit, offset)
}
