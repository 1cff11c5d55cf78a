package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/mailer"
	"github.com/ashika-normality/project-portico-backend/internal/models"
	"github.com/ashika-normality/project-portico-backend/internal/repository"
	"github.com/ashika-normality/project-portico-backend/internal/sms"
	"github.com/ashika-normality/project-portico-backend/internal/utils"
)

const otpRateLimitPrefix = "otp_rate_limit:"

// OTPIssuer generates, stores and delivers one-time codes. It is shared by
// the login-path OTP service and the instructor registration flow so both
// enforce the same single-active-code and delivery policies.
type OTPIssuer struct {
	otps      repository.OTPRepository
	smsClient sms.Client
	mail      mailer.Client
	redis     *redis.Client
	ttl       time.Duration
	rateLimit int
	log       *zap.Logger
}

// NewOTPIssuer wires the shared OTP generation/storage/delivery helper.
// rdb may be nil to disable rate limiting.
func NewOTPIssuer(
	otps repository.OTPRepository,
	smsClient sms.Client,
	mail mailer.Client,
	rdb *redis.Client,
	ttl time.Duration,
	rateLimitPerHour int,
	log *zap.Logger,
) *OTPIssuer {
	return &OTPIssuer{
		otps:      otps,
		smsClient: smsClient,
		mail:      mail,
		redis:     rdb,
		ttl:       ttl,
		rateLimit: rateLimitPerHour,
		log:       log,
	}
}

// issue replaces any active code for the identifier with a fresh one and
// delivers it out of band. The code never leaves through the return value:
// callers only get a receipt. If delivery fails the stored code is removed
// again so a dead channel cannot strand a verifiable secret.
func (oi *OTPIssuer) issue(ctx context.Context, identifier string) (*models.OTPReceipt, error) {
	if err := oi.checkRateLimit(ctx, identifier); err != nil {
		return nil, err
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return nil, ErrInternal
	}

	if err := oi.otps.DeleteByIdentifier(ctx, identifier); err != nil {
		return nil, ErrInternal
	}

	entry := &models.OTPEntry{
		Identifier: identifier,
		Code:       code,
		ExpiresAt:  time.Now().UTC().Add(oi.ttl),
	}
	if err := oi.otps.Create(ctx, entry); err != nil {
		return nil, ErrInternal
	}

	if err := oi.deliver(ctx, identifier, code); err != nil {
		oi.log.Error("otp delivery failed", zap.String("identifier", identifier), zap.Error(err))
		_ = oi.otps.DeleteByID(ctx, entry.ID)
		return nil, ErrOTPDeliveryFailed
	}

	return &models.OTPReceipt{Identifier: identifier, ExpiresAt: entry.ExpiresAt}, nil
}

// deliver picks the channel by identifier shape: anything with an @ goes by
// email, everything else by SMS. An unconfigured channel is a deliberate
// dev setup and skips delivery with a warning.
func (oi *OTPIssuer) deliver(ctx context.Context, identifier, code string) error {
	if strings.Contains(identifier, "@") {
		if oi.mail == nil || !oi.mail.IsConfigured() {
			oi.log.Warn("mail client not configured, skipping otp email", zap.String("identifier", identifier))
			return nil
		}
		return oi.mail.SendOTPEmail(ctx, identifier, code, oi.ttl)
	}
	if oi.smsClient == nil || !oi.smsClient.IsConfigured() {
		oi.log.Warn("sms client not configured, skipping otp sms", zap.String("identifier", identifier))
		return nil
	}
	message := fmt.Sprintf("Your Project Portico verification code is %s. It is valid for %d minutes.", code, int(oi.ttl.Minutes()))
	return oi.smsClient.SendSMS(ctx, identifier, message)
}

// checkRateLimit caps sends per identifier per hour via Redis. No Redis
// means no limiting (tests, single-box dev).
func (oi *OTPIssuer) checkRateLimit(ctx context.Context, identifier string) error {
	if oi.redis == nil || oi.rateLimit <= 0 {
		return nil
	}
	key := otpRateLimitPrefix + identifier
	count, err := oi.redis.Incr(ctx, key).Result()
	if err != nil {
		return ErrInternal
	}
	if count == 1 {
		if err := oi.redis.Expire(ctx, key, time.Hour).Err(); err != nil {
			return ErrInternal
		}
	} else if count > int64(oi.rateLimit) {
		oi.redis.Decr(ctx, key)
		return ErrOTPRateLimited
	}
	return nil
}
