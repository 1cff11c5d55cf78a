package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/models"
	"github.com/ashika-normality/project-portico-backend/internal/social"
	"github.com/ashika-normality/project-portico-backend/internal/token"
)

type authFixture struct {
	svc         AuthService
	users       *fakeUserRepo
	pending     *fakePendingRepo
	instructors *fakeInstructorProfileRepo
	otps        *fakeOTPRepo
	mail        *fakeMailer
	smsc        *fakeSMS
	verifier    *fakeVerifier
	issuer      *token.Issuer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:       newFakeUserRepo(),
		pending:     newFakePendingRepo(),
		instructors: newFakeInstructorProfileRepo(),
		otps:        newFakeOTPRepo(),
		mail:        &fakeMailer{},
		smsc:        &fakeSMS{},
		verifier:    &fakeVerifier{identities: map[string]social.Identity{}},
		issuer:      token.NewIssuer("test-secret", time.Hour, 24*time.Hour),
	}
	otpIss := NewOTPIssuer(f.otps, f.smsc, f.mail, nil, 10*time.Minute, 0, zap.NewNop())
	f.svc = NewAuthService(f.users, f.pending, f.instructors, f.issuer, f.verifier, otpIss, nil, false, zap.NewNop())
	return f
}

func learnerReq(email string) models.RegisterLearnerRequest {
	return models.RegisterLearnerRequest{
		FirstName: "Jamie",
		LastName:  "Lee",
		Email:     email,
		Mobile:    "0400000001",
	}
}

func instructorReq(email string) models.RegisterInstructorRequest {
	return models.RegisterInstructorRequest{
		FirstName:               "Sam",
		LastName:                "Carter",
		Email:                   email,
		Mobile:                  "0400000002",
		DrivingLicenseNumber:    "DL123",
		InstructorLicenseNumber: "IL456",
		DrivingSchoolName:       "Portico Driving",
	}
}

func TestRegisterLearner(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.RegisterLearner(ctx, learnerReq("jamie@example.com"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleLearner, user.Role)
	assert.False(t, user.ID.IsZero())

	_, err = f.svc.RegisterLearner(ctx, learnerReq("jamie@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Email uniqueness is case-insensitive.
	_, err = f.svc.RegisterLearner(ctx, learnerReq("JAMIE@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterInstructorCreatesProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.RegisterInstructor(ctx, instructorReq("sam@example.com"), "/uploads/photo.png")
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, user.Role)

	profile, err := f.instructors.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "DL123", profile.DrivingLicenseNumber)
	assert.Equal(t, "/uploads/photo.png", profile.ProfileImage)
}

func TestRegisterInstructorCompensatesOnProfileFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.instructors.createErr = errors.New("write failed")

	_, err := f.svc.RegisterInstructor(ctx, instructorReq("sam@example.com"), "")
	assert.ErrorIs(t, err, ErrInternal)

	// The half-created user must not survive.
	_, err = f.users.FindByEmail(ctx, "sam@example.com")
	assert.Error(t, err)
	assert.Len(t, f.users.deleted, 1)
}

func TestRegisterInstructorStrictFieldPolicy(t *testing.T) {
	f := newAuthFixture(t)
	otpIss := NewOTPIssuer(f.otps, f.smsc, f.mail, nil, 10*time.Minute, 0, zap.NewNop())
	strict := NewAuthService(f.users, f.pending, f.instructors, f.issuer, f.verifier, otpIss, nil, true, zap.NewNop())

	_, err := strict.RegisterInstructor(context.Background(), instructorReq("sam@example.com"), "")
	assert.ErrorIs(t, err, ErrValidation)

	req := instructorReq("sam@example.com")
	req.AddressLine1 = "1 Main St"
	req.City = "Sydney"
	req.DOB = "1990-04-02"
	_, err = strict.RegisterInstructor(context.Background(), req, "")
	assert.NoError(t, err)
}

func TestRegisterInstructorInitiateAndVerify(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	receipt, err := f.svc.RegisterInstructorInitiate(ctx, instructorReq("sam@example.com"), map[string]string{
		"profileImage":        "/uploads/a.png",
		"drivingLicenseFront": "/uploads/b.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", receipt.Identifier)
	assert.True(t, receipt.ExpiresAt.After(time.Now()))

	// The code travels by email only; pull it from the fake outbox.
	require.Len(t, f.mail.codes, 1)
	code := f.mail.codes[0]

	// No user yet.
	_, err = f.users.FindByEmail(ctx, "sam@example.com")
	assert.Error(t, err)

	_, err = f.svc.RegisterInstructorVerify(ctx, "sam@example.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	user, err := f.svc.RegisterInstructorVerify(ctx, "sam@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, user.Role)

	profile, err := f.instructors.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", profile.ProfileImage)
	assert.Equal(t, "/uploads/b.png", profile.DrivingLicenseFront)

	// Staged state is consumed: a second verify cannot replay.
	_, err = f.svc.RegisterInstructorVerify(ctx, "sam@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestRegisterInstructorVerifyWithoutPending(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	// A stray code without staged data must not create anything.
	otpIss := NewOTPIssuer(f.otps, f.smsc, f.mail, nil, 10*time.Minute, 0, zap.NewNop())
	_, err := otpIss.issue(ctx, "sam@example.com")
	require.NoError(t, err)
	code := f.mail.codes[0]

	_, err = f.svc.RegisterInstructorVerify(ctx, "sam@example.com", code)
	assert.ErrorIs(t, err, ErrNoPendingRegistration)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Login(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	user, err := f.svc.RegisterLearner(ctx, learnerReq("jamie@example.com"))
	require.NoError(t, err)

	pair, got, err := f.svc.Login(ctx, "jamie@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := f.issuer.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleLearner, claims.Role)

	// The refresh token is recorded on the user document.
	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasRefreshToken(pair.RefreshToken))
}

func TestSocialLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.verifier.identities["good-token"] = social.Identity{
		Email:   "casey@example.com",
		Name:    "Casey van Dyk",
		Picture: "https://example.com/p.jpg",
	}

	// First sight creates a learner account.
	pair, user, err := f.svc.SocialLogin(ctx, "google", "good-token")
	require.NoError(t, err)
	assert.Equal(t, models.RoleLearner, user.Role)
	assert.Equal(t, "Casey van", user.FirstName)
	assert.Equal(t, "Dyk", user.LastName)
	assert.Equal(t, "google", user.SignupMethod)
	assert.NotEmpty(t, pair.RefreshToken)

	// Second login reuses the account.
	_, again, err := f.svc.SocialLogin(ctx, "google", "good-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	_, _, err = f.svc.SocialLogin(ctx, "google", "bad-token")
	assert.ErrorIs(t, err, ErrSocialTokenInvalid)

	_, _, err = f.svc.SocialLogin(ctx, "facebook", "good-token")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	f.verifier.err = social.ErrUnavailable
	_, _, err = f.svc.SocialLogin(ctx, "google", "good-token")
	assert.ErrorIs(t, err, ErrSocialVerifyUnavailable)
}

func TestRefreshAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.RegisterLearner(ctx, learnerReq("jamie@example.com"))
	require.NoError(t, err)
	pair, _, err := f.svc.Login(ctx, "jamie@example.com")
	require.NoError(t, err)

	access, err := f.svc.RefreshAccessToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	claims, err := f.issuer.Verify(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)

	// A token signed with another secret is invalid regardless of claims.
	other := token.NewIssuer("other-secret", time.Hour, 24*time.Hour)
	forged, err := other.Refresh(user.ID.Hex(), user.Role)
	require.NoError(t, err)
	_, err = f.svc.RefreshAccessToken(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// A well-signed token that was never issued to the user is rejected too.
	unlisted, err := f.issuer.Refresh(user.ID.Hex(), user.Role)
	require.NoError(t, err)
	_, err = f.svc.RefreshAccessToken(ctx, unlisted)
	assert.ErrorIs(t, err, ErrRefreshTokenNotRecognized)

	// An expired refresh token reports expiry, not plain invalidity.
	shortLived := token.NewIssuer("test-secret", time.Hour, -time.Minute)
	expired, err := shortLived.Refresh(user.ID.Hex(), user.Role)
	require.NoError(t, err)
	_, err = f.svc.RefreshAccessToken(ctx, expired)
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}
