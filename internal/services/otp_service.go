package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/events"
	"github.com/ashika-normality/project-portico-backend/internal/models"
	"github.com/ashika-normality/project-portico-backend/internal/repository"
	"github.com/ashika-normality/project-portico-backend/internal/token"
)

type otpService struct {
	users    repository.UserRepository
	pending  repository.PendingRegistrationRepository
	issuer   *token.Issuer
	otp      *OTPIssuer
	producer *events.Producer
	log      *zap.Logger
}

// NewOTPService wires the login-path OTP lifecycle.
func NewOTPService(
	users repository.UserRepository,
	pending repository.PendingRegistrationRepository,
	issuer *token.Issuer,
	otpIss *OTPIssuer,
	producer *events.Producer,
	log *zap.Logger,
) OTPService {
	return &otpService{
		users:    users,
		pending:  pending,
		issuer:   issuer,
		otp:      otpIss,
		producer: producer,
		log:      log,
	}
}

// Send issues a fresh code for a confirmed user's email or mobile.
func (s *otpService) Send(ctx context.Context, identifier string) (*models.OTPReceipt, error) {
	if _, err := s.users.FindByIdentifier(ctx, identifier); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}
	return s.issue(ctx, identifier)
}

// Resend also accepts identifiers that only exist as a pending instructor
// registration, so the sign-up flow can recover a lost code.
func (s *otpService) Resend(ctx context.Context, identifier string) (*models.OTPReceipt, error) {
	_, userErr := s.users.FindByIdentifier(ctx, identifier)
	if userErr == nil {
		return s.issue(ctx, identifier)
	}
	if !errors.Is(userErr, repository.ErrNotFound) {
		return nil, ErrInternal
	}

	_, pendErr := s.pending.FindByIdentifier(ctx, identifier)
	if pendErr == nil {
		return s.issue(ctx, identifier)
	}
	if errors.Is(pendErr, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return nil, ErrInternal
}

// Verify consumes the code and logs the user in. The entry is deleted
// before tokens are issued, so the same code can never verify twice.
func (s *otpService) Verify(ctx context.Context, identifier, code string) (*models.TokenPair, *models.User, error) {
	entry, err := s.otp.otps.FindByIdentifierAndCode(ctx, identifier, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidOTP
		}
		return nil, nil, ErrInternal
	}
	if entry.Expired(time.Now().UTC()) {
		return nil, nil, ErrOTPExpired
	}

	if err := s.otp.otps.DeleteByID(ctx, entry.ID); err != nil {
		return nil, nil, ErrInternal
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, ErrInternal
	}

	access, refresh, err := s.issuer.Pair(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, nil, ErrInternal
	}
	if err := s.users.PushRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, nil, ErrInternal
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

func (s *otpService) issue(ctx context.Context, identifier string) (*models.OTPReceipt, error) {
	receipt, err := s.otp.issue(ctx, identifier)
	if err != nil {
		return nil, err
	}
	s.producer.Publish(ctx, events.Event{Type: events.TypeOTPSent, Identifier: identifier})
	return receipt, nil
}
