package wallet

import (
	"context"
	"errors"
	"fmt"

	"coopfund/internal/audit"
	"coopfund/internal/logger"
	"coopfund/internal/metrics"
	"coopfund/internal/tier"
)

var ErrReasonRequired = errors.New("a reason is required for debit adjustments")

type Service interface {
	// Fund records an externally settled wallet funding.
	Fund(ctx context.Context, memberID int, amountCents int64, reference string) (*Transaction, error)
	// RequestWithdrawal debits the wallet and records the withdrawal for the
	// payment gateway to settle.
	RequestWithdrawal(ctx context.Context, memberID int, amountCents int64) (*Transaction, error)
	// AdminAdjust credits or debits a member's wallet on behalf of an admin.
	AdminAdjust(ctx context.Context, actor string, memberID int, amountCents int64, direction Direction, reason string) (*Transaction, error)
	// UpgradeTier debits the target tier's upgrade fee and reassigns the tier.
	UpgradeTier(ctx context.Context, actor string, memberID, tierID int) (*tier.Tier, *Transaction, error)

	GetBalance(ctx context.Context, memberID int) (int64, error)
	GetTransactions(ctx context.Context, memberID int, limit, offset int) ([]Transaction, error)
}

type service struct {
	repo     Repository
	tierRepo tier.Repository
	auditor  audit.Recorder
}

func NewService(repo Repository, tierRepo tier.Repository, auditor audit.Recorder) Service {
	return &service{
		repo:     repo,
		tierRepo: tierRepo,
		auditor:  auditor,
	}
}

func (s *service) Fund(ctx context.Context, memberID int, amountCents int64, reference string) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, errors.New("funding amount must be positive")
	}

	note := "wallet funding"
	if reference != "" {
		note = "wallet funding, gateway ref " + reference
	}

	record, err := s.repo.Apply(ctx, memberID, amountCents, TypeFunding, DirectionIn, note)
	if err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(string(TypeFunding), string(DirectionIn))
	return record, nil
}

func (s *service) RequestWithdrawal(ctx context.Context, memberID int, amountCents int64) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, errors.New("withdrawal amount must be positive")
	}

	record, err := s.repo.Apply(ctx, memberID, -amountCents, TypeWithdrawal, DirectionOut, "withdrawal request")
	if err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(string(TypeWithdrawal), string(DirectionOut))
	return record, nil
}

func (s *service) AdminAdjust(ctx context.Context, actor string, memberID int, amountCents int64, direction Direction, reason string) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, errors.New("adjustment amount must be positive")
	}

	delta := amountCents
	if direction == DirectionOut {
		if reason == "" {
			return nil, ErrReasonRequired
		}
		delta = -amountCents
	}

	note := "admin adjustment"
	if reason != "" {
		note = "admin adjustment: " + reason
	}

	record, err := s.repo.Apply(ctx, memberID, delta, TypeAdjustment, direction, note)
	if err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(string(TypeAdjustment), string(direction))

	detail := fmt.Sprintf("adjusted wallet by %d cents (%s), reason: %s", amountCents, direction, reason)
	if err := s.auditor.Record(ctx, actor, audit.ActionWalletAdjusted, &memberID, detail); err != nil {
		logger.Errorf("Failed to audit wallet adjustment for member %d: %v", memberID, err)
	}

	return record, nil
}

func (s *service) UpgradeTier(ctx context.Context, actor string, memberID, tierID int) (*tier.Tier, *Transaction, error) {
	target, err := s.tierRepo.GetByID(ctx, tierID)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.repo.UpgradeTier(ctx, memberID, target)
	if err != nil {
		return nil, nil, err
	}

	metrics.RecordTierUpgrade()
	if record != nil {
		metrics.RecordWalletTransaction(string(TypeUpgrade), string(DirectionOut))
	}

	detail := fmt.Sprintf("upgraded to tier %q (fee %d cents)", target.Name, target.UpgradeFeeCents)
	if err := s.auditor.Record(ctx, actor, audit.ActionTierUpgraded, &memberID, detail); err != nil {
		logger.Errorf("Failed to audit tier upgrade for member %d: %v", memberID, err)
	}

	return target, record, nil
}

func (s *service) GetBalance(ctx context.Context, memberID int) (int64, error) {
	return s.repo.GetBalance(ctx, memberID)
}

func (s *service) GetTransactions(ctx context.Context, memberID int, limit, offset int) ([]Transaction, error) {
	return s.repo.GetTransactions(ctx, memberID, limit, offset)
}
