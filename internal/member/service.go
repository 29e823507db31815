package member

import (
	"context"
	"errors"
	"fmt"

	"coopfund/internal/audit"
	"coopfund/internal/auth"
	"coopfund/internal/logger"
	"coopfund/internal/notification"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Member, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*Member, string, string, error)
	GetByID(ctx context.Context, memberID int) (*Member, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *Member, error)
	SetPin(ctx context.Context, memberID int, pin string) error
	// Approve activates a pending member after their payment proof checks
	// out, leaving an audit entry attributed to the approving admin.
	Approve(ctx context.Context, actor string, memberID int) (*Member, error)
	ListPending(ctx context.Context) ([]Member, error)
}

type service struct {
	repo      Repository
	auditor   audit.Recorder
	notifier  notification.Notifier
	jwtSecret string
}

func NewService(repo Repository, auditor audit.Recorder, notifier notification.Notifier, jwtSecret string) Service {
	return &service{
		repo:      repo,
		auditor:   auditor,
		notifier:  notifier,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Member, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	m, err := s.repo.Create(ctx, req.Name, req.Email, passwordHash, "member")
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		m.ID,
		m.Email,
		m.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return m, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Member, string, string, error) {
	m, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(m.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		m.ID,
		m.Email,
		m.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return m, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, memberID int) (*Member, error) {
	return s.repo.FindByID(ctx, memberID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *Member, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	m, err := s.repo.FindByID(ctx, claims.MemberID)
	if err != nil {
		return "", nil, err
	}

	newAccessToken, err := auth.GenerateAccessToken(m.ID, m.Email, m.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, m, nil
}

func (s *service) SetPin(ctx context.Context, memberID int, pin string) error {
	pinHash, err := auth.HashPin(pin)
	if err != nil {
		return err
	}

	return s.repo.SetTransactionPin(ctx, memberID, pinHash)
}

func (s *service) Approve(ctx context.Context, actor string, memberID int) (*Member, error) {
	m, err := s.repo.Approve(ctx, memberID)
	if err != nil {
		return nil, err
	}

	detail := fmt.Sprintf("approved member %s after payment proof review", m.Email)
	if err := s.auditor.Record(ctx, actor, audit.ActionMemberApproved, &m.ID, detail); err != nil {
		logger.Errorf("Failed to audit approval of member %d: %v", m.ID, err)
	}

	if err := s.notifier.Notify(ctx, m.ID, "Account approved",
		"Your membership has been approved. Fund your wallet and pick a tier to start contributing."); err != nil {
		logger.Errorf("Failed to notify member %d about approval: %v", m.ID, err)
	}

	return m, nil
}

func (s *service) ListPending(ctx context.Context) ([]Member, error) {
	return s.repo.ListByStatus(ctx, StatusPendingApproval)
}
