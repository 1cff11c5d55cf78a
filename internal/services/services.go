package services

import (
	"context"
	"errors"
	"time"

	"github.com/ashika-normality/project-portico-backend/internal/models"
)

// Service error taxonomy. Handlers map these onto HTTP statuses; everything
// unrecognised becomes a 500.
var (
	ErrValidation                = errors.New("validation failed")
	ErrDuplicateEmail            = errors.New("email already registered")
	ErrEmailInUse                = errors.New("email already used by another account")
	ErrUserNotFound              = errors.New("user not found")
	ErrProfileNotFound           = errors.New("profile not found")
	ErrNoPendingRegistration     = errors.New("no pending registration found")
	ErrCardNotFound              = errors.New("card not found")
	ErrInvalidOTP                = errors.New("invalid otp")
	ErrOTPExpired                = errors.New("otp has expired")
	ErrOTPRateLimited            = errors.New("too many otp requests")
	ErrOTPDeliveryFailed         = errors.New("otp delivery failed")
	ErrInvalidRefreshToken       = errors.New("invalid refresh token")
	ErrRefreshTokenExpired       = errors.New("refresh token expired")
	ErrRefreshTokenNotRecognized = errors.New("refresh token not recognized")
	ErrUnsupportedProvider       = errors.New("unsupported social login provider")
	ErrSocialTokenInvalid        = errors.New("social login token invalid")
	ErrSocialVerifyUnavailable   = errors.New("social login provider unavailable")
	ErrWrongRole                 = errors.New("operation not available for this role")
	ErrInternal                  = errors.New("internal server error")
)

// AuthService covers registration, login, social login and token refresh.
type AuthService interface {
	RegisterLearner(ctx context.Context, req models.RegisterLearnerRequest) (*models.User, error)
	RegisterInstructor(ctx context.Context, req models.RegisterInstructorRequest, photoRef string) (*models.User, error)
	RegisterInstructorInitiate(ctx context.Context, req models.RegisterInstructorRequest, fileRefs map[string]string) (*models.OTPReceipt, error)
	RegisterInstructorVerify(ctx context.Context, email, code string) (*models.User, error)
	Login(ctx context.Context, email string) (*models.TokenPair, *models.User, error)
	SocialLogin(ctx context.Context, provider, rawToken string) (*models.TokenPair, *models.User, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// OTPService covers the login-path OTP lifecycle.
type OTPService interface {
	Send(ctx context.Context, identifier string) (*models.OTPReceipt, error)
	Resend(ctx context.Context, identifier string) (*models.OTPReceipt, error)
	Verify(ctx context.Context, identifier, code string) (*models.TokenPair, *models.User, error)
}

// ProfileService covers profile reads and upserts for both roles.
type ProfileService interface {
	GetInstructorProfile(ctx context.Context, userID string) (*models.InstructorProfileView, error)
	SaveInstructorProfile(ctx context.Context, userID string, req models.SaveInstructorProfileRequest) (*models.InstructorProfile, error)
	GetLearnerProfile(ctx context.Context, userID string) (*models.LearnerProfileView, error)
	SaveLearnerProfile(ctx context.Context, userID string, req models.SaveLearnerProfileRequest) (*models.LearnerProfile, error)
	SetDefaultCard(ctx context.Context, userID, cardID string) (*models.LearnerProfile, error)
}

// dateLayouts accepted for incoming date strings.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate parses an optional date string; empty input yields nil, and an
// unparseable value is dropped rather than failing the whole request.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
