package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/events"
	"github.com/ashika-normality/project-portico-backend/internal/models"
	"github.com/ashika-normality/project-portico-backend/internal/repository"
	"github.com/ashika-normality/project-portico-backend/internal/social"
	"github.com/ashika-normality/project-portico-backend/internal/token"
)

type authService struct {
	users            repository.UserRepository
	pending          repository.PendingRegistrationRepository
	instructors      repository.InstructorProfileRepository
	issuer           *token.Issuer
	verifier         social.Verifier
	otp              *OTPIssuer
	producer         *events.Producer
	strictInstructor bool
	log              *zap.Logger
}

// NewAuthService wires the registration, login and token flows.
func NewAuthService(
	users repository.UserRepository,
	pending repository.PendingRegistrationRepository,
	instructors repository.InstructorProfileRepository,
	issuer *token.Issuer,
	verifier social.Verifier,
	otpIss *OTPIssuer,
	producer *events.Producer,
	strictInstructorFields bool,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:            users,
		pending:          pending,
		instructors:      instructors,
		issuer:           issuer,
		verifier:         verifier,
		otp:              otpIss,
		producer:         producer,
		strictInstructor: strictInstructorFields,
		log:              log,
	}
}

// checkInstructorFields applies the configurable strict policy: some schema
// revisions require address line1, city and date of birth for instructors.
func (s *authService) checkInstructorFields(req models.RegisterInstructorRequest) error {
	if !s.strictInstructor {
		return nil
	}
	if req.AddressLine1 == "" || req.City == "" || req.DOB == "" {
		return fmt.Errorf("%w: instructors must provide addressLine1, city and dob", ErrValidation)
	}
	return nil
}

func (s *authService) RegisterLearner(ctx context.Context, req models.RegisterLearnerRequest) (*models.User, error) {
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	user := &models.User{
		Role:         models.RoleLearner,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Address:      req.Address(),
		SignupMethod: models.SignupMethodOTP,
	}
	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}

	s.producer.Publish(ctx, events.Event{Type: events.TypeUserRegistered, UserID: user.ID.Hex(), Role: user.Role})
	return user, nil
}

func (s *authService) RegisterInstructor(ctx context.Context, req models.RegisterInstructorRequest, photoRef string) (*models.User, error) {
	if err := s.checkInstructorFields(req); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	user := &models.User{
		Role:         models.RoleInstructor,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		GivenName:    req.GivenName,
		NickName:     req.NickName,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Address:      req.Address(),
		DOB:          parseDate(req.DOB),
		SignupMethod: models.SignupMethodOTP,
	}
	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}

	profile := &models.InstructorProfile{
		UserID:                  user.ID,
		DrivingLicenseNumber:    req.DrivingLicenseNumber,
		InstructorLicenseNumber: req.InstructorLicenseNumber,
		WWCCNumber:              req.WWCCNumber,
		DrivingSchoolName:       req.DrivingSchoolName,
		Website:                 req.Website,
		Bio:                     req.Bio,
		Address:                 req.Address(),
		ProfileImage:            photoRef,
	}
	if err := s.instructors.Create(ctx, profile); err != nil {
		// Compensate so a half-created account never survives.
		if derr := s.users.Delete(ctx, user.ID); derr != nil {
			s.log.Error("compensating user delete failed", zap.String("userId", user.ID.Hex()), zap.Error(derr))
		}
		return nil, ErrInternal
	}

	s.producer.Publish(ctx, events.Event{Type: events.TypeUserRegistered, UserID: user.ID.Hex(), Role: user.Role})
	return user, nil
}

func (s *authService) RegisterInstructorInitiate(ctx context.Context, req models.RegisterInstructorRequest, fileRefs map[string]string) (*models.OTPReceipt, error) {
	if err := s.checkInstructorFields(req); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	staged := &models.PendingRegistration{
		Identifier: req.Email,
		Data: models.InstructorRegistration{
			FirstName:               req.FirstName,
			LastName:                req.LastName,
			GivenName:               req.GivenName,
			NickName:                req.NickName,
			Email:                   req.Email,
			Mobile:                  req.Mobile,
			Address:                 req.Address(),
			DrivingLicenseNumber:    req.DrivingLicenseNumber,
			InstructorLicenseNumber: req.InstructorLicenseNumber,
			WWCCNumber:              req.WWCCNumber,
			DrivingSchoolName:       req.DrivingSchoolName,
			Website:                 req.Website,
			Bio:                     req.Bio,
			ProfileImage:            fileRefs["profileImage"],
			DrivingLicenseFront:     fileRefs["drivingLicenseFront"],
			DrivingLicenseBack:      fileRefs["drivingLicenseBack"],
			InstructorLicenseFront:  fileRefs["instructorLicenseFront"],
			InstructorLicenseBack:   fileRefs["instructorLicenseBack"],
		},
	}
	if err := s.pending.Upsert(ctx, staged); err != nil {
		return nil, ErrInternal
	}

	receipt, err := s.otp.issue(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	s.producer.Publish(ctx, events.Event{Type: events.TypeOTPSent, Identifier: req.Email})
	return receipt, nil
}

func (s *authService) RegisterInstructorVerify(ctx context.Context, email, code string) (*models.User, error) {
	entry, err := s.otp.otps.FindByIdentifierAndCode(ctx, email, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, ErrInternal
	}
	if entry.Expired(time.Now().UTC()) {
		return nil, ErrOTPExpired
	}

	staged, err := s.pending.FindByIdentifier(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoPendingRegistration
		}
		return nil, ErrInternal
	}

	data := staged.Data
	user := &models.User{
		Role:         models.RoleInstructor,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		GivenName:    data.GivenName,
		NickName:     data.NickName,
		Email:        data.Email,
		Mobile:       data.Mobile,
		Address:      data.Address,
		SignupMethod: models.SignupMethodOTP,
	}
	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}

	profile := &models.InstructorProfile{
		UserID:                  user.ID,
		DrivingLicenseNumber:    data.DrivingLicenseNumber,
		InstructorLicenseNumber: data.InstructorLicenseNumber,
		WWCCNumber:              data.WWCCNumber,
		DrivingSchoolName:       data.DrivingSchoolName,
		Website:                 data.Website,
		Bio:                     data.Bio,
		Address:                 data.Address,
		ProfileImage:            data.ProfileImage,
		DrivingLicenseFront:     data.DrivingLicenseFront,
		DrivingLicenseBack:      data.DrivingLicenseBack,
		InstructorLicenseFront:  data.InstructorLicenseFront,
		InstructorLicenseBack:   data.InstructorLicenseBack,
	}
	if err := s.instructors.Create(ctx, profile); err != nil {
		// Compensate: the pending document stays so the flow can be retried.
		if derr := s.users.Delete(ctx, user.ID); derr != nil {
			s.log.Error("compensating user delete failed", zap.String("userId", user.ID.Hex()), zap.Error(derr))
		}
		return nil, ErrInternal
	}

	// Both writes landed; only now is the staged state consumed.
	if err := s.otp.otps.DeleteByIdentifier(ctx, email); err != nil {
		s.log.Warn("otp cleanup failed", zap.String("identifier", email), zap.Error(err))
	}
	if err := s.pending.DeleteByIdentifier(ctx, email); err != nil {
		s.log.Warn("pending registration cleanup failed", zap.String("identifier", email), zap.Error(err))
	}

	s.producer.Publish(ctx, events.Event{Type: events.TypeUserRegistered, UserID: user.ID.Hex(), Role: user.Role})
	return user, nil
}

func (s *authService) Login(ctx context.Context, email string) (*models.TokenPair, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, ErrInternal
	}
	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *authService) SocialLogin(ctx context.Context, provider, rawToken string) (*models.TokenPair, *models.User, error) {
	identity, err := s.verifier.Verify(ctx, provider, rawToken)
	if err != nil {
		switch {
		case errors.Is(err, social.ErrUnsupportedProvider):
			return nil, nil, ErrUnsupportedProvider
		case errors.Is(err, social.ErrUnavailable):
			return nil, nil, ErrSocialVerifyUnavailable
		default:
			return nil, nil, ErrSocialTokenInvalid
		}
	}

	user, err := s.users.FindByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		// Existing account, whatever its original signup method.
	case errors.Is(err, repository.ErrNotFound):
		first, last := splitName(identity.Name)
		user = &models.User{
			Role:            models.RoleLearner,
			FirstName:       first,
			LastName:        last,
			Email:           identity.Email,
			ProfilePhotoURL: identity.Picture,
			SignupMethod:    strings.ToLower(provider),
		}
		if cerr := s.createUser(ctx, user); cerr != nil {
			return nil, nil, cerr
		}
		s.producer.Publish(ctx, events.Event{Type: events.TypeUserRegistered, UserID: user.ID.Hex(), Role: user.Role})
	default:
		return nil, nil, ErrInternal
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return "", ErrRefreshTokenExpired
		}
		return "", ErrInvalidRefreshToken
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", ErrInternal
	}

	// Signature alone is not enough: the token must still be on the user's
	// issued list, so revocation actually revokes.
	if !user.HasRefreshToken(refreshToken) {
		return "", ErrRefreshTokenNotRecognized
	}

	access, err := s.issuer.Access(user.ID.Hex(), user.Role)
	if err != nil {
		return "", ErrInternal
	}
	return access, nil
}

// ensureEmailFree is the pre-check; the unique index is the backstop for
// races, surfaced by createUser.
func (s *authService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return ErrDuplicateEmail
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return ErrInternal
	}
	return nil
}

func (s *authService) createUser(ctx context.Context, user *models.User) error {
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateEmail
		}
		return ErrInternal
	}
	return nil
}

func (s *authService) issuePair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	access, refresh, err := s.issuer.Pair(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, ErrInternal
	}
	if err := s.users.PushRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, ErrInternal
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	if i := strings.LastIndex(full, " "); i > 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}
