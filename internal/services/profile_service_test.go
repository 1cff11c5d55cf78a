package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/models"
	"github.com/ashika-normality/project-portico-backend/internal/vault"
)

type profileFixture struct {
	svc         ProfileService
	users       *fakeUserRepo
	instructors *fakeInstructorProfileRepo
	learners    *fakeLearnerProfileRepo
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	f := &profileFixture{
		users:       newFakeUserRepo(),
		instructors: newFakeInstructorProfileRepo(),
		learners:    newFakeLearnerProfileRepo(),
	}
	f.svc = NewProfileService(f.users, f.instructors, f.learners, vault.NewLocal(), nil, zap.NewNop())
	return f
}

func (f *profileFixture) addUser(t *testing.T, role, email string) *models.User {
	t.Helper()
	u := &models.User{Role: role, FirstName: "Jamie", LastName: "Lee", Email: email}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func TestGetProfileNotFound(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetLearnerProfile(ctx, "not-a-hex-id")
	assert.ErrorIs(t, err, ErrUserNotFound)

	u := f.addUser(t, models.RoleLearner, "jamie@example.com")
	_, err = f.svc.GetLearnerProfile(ctx, u.ID.Hex())
	assert.ErrorIs(t, err, ErrProfileNotFound)

	i := f.addUser(t, models.RoleInstructor, "sam@example.com")
	_, err = f.svc.GetInstructorProfile(ctx, i.ID.Hex())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSaveLearnerProfileRoundTrip(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	u := f.addUser(t, models.RoleLearner, "jamie@example.com")

	hasLicense := true
	_, err := f.svc.SaveLearnerProfile(ctx, u.ID.Hex(), models.SaveLearnerProfileRequest{
		FirstName:     "Jamie",
		Gender:        "Female",
		DOB:           "2001-07-15",
		AddressLine1:  "1 Main St",
		City:          "Sydney",
		HasLicense:    &hasLicense,
		LicenseType:   "Learner Permit",
		LicenseNumber: "LP-9000",
	})
	require.NoError(t, err)

	view, err := f.svc.GetLearnerProfile(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Female", view.PersonalDetails.Gender)
	require.NotNil(t, view.PersonalDetails.DOB)
	assert.Equal(t, "2001-07-15", view.PersonalDetails.DOB.Format("2006-01-02"))
	assert.Equal(t, "LP-9000", view.LicenseInfo.LicenseNumber)
	require.NotNil(t, view.User)
	assert.Equal(t, u.ID, view.User.ID)

	// A partial follow-up save keeps everything it does not mention.
	_, err = f.svc.SaveLearnerProfile(ctx, u.ID.Hex(), models.SaveLearnerProfileRequest{
		Mobile: "0400000009",
	})
	require.NoError(t, err)

	view, err = f.svc.GetLearnerProfile(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "0400000009", view.PersonalDetails.Mobile)
	assert.Equal(t, "Female", view.PersonalDetails.Gender)
	assert.Equal(t, "LP-9000", view.LicenseInfo.LicenseNumber)
	require.NotNil(t, view.PersonalDetails.Address)
	assert.Equal(t, "1 Main St", view.PersonalDetails.Address.Line1)
}

func TestSaveLearnerProfileSharedFieldsReachUser(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	u := f.addUser(t, models.RoleLearner, "jamie@example.com")

	_, err := f.svc.SaveLearnerProfile(ctx, u.ID.Hex(), models.SaveLearnerProfileRequest{
		FirstName: "Jay",
		Mobile:    "0400000009",
	})
	require.NoError(t, err)

	stored, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jay", stored.FirstName)
	assert.Equal(t, "0400000009", stored.Mobile)
}

func TestSaveLearnerProfileEmailCollision(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	u := f.addUser(t, models.RoleLearner, "jamie@example.com")
	f.addUser(t, models.RoleLearner, "taken@example.com")

	_, err := f.svc.SaveLearnerProfile(ctx, u.ID.Hex(), models.SaveLearnerProfileRequest{
		Email: "taken@example.com",
	})
	assert.ErrorIs(t, err, ErrEmailInUse)

	// Re-submitting your own email is not a collision.
	_, err = f.svc.SaveLearnerProfile(ctx, u.ID.Hex(), models.SaveLearnerProfileRequest{
		Email: "jamie@example.com",
	})
	assert.NoError(t, err)
}

func TestSaveLearnerProfileWrongRole(t *testing.T) {
	f := newProfileFixture(t)
	u := f.addUser(t, models.RoleInstructor, "sam@example.com")

	_, err := f.svc.SaveLearnerProfile(context.Background(), u.ID.Hex(), models.SaveLearnerProfileRequest{})
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestPaymentMethodsTokenized(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	u := f.addUser(t, models.RoleLearner, "jamie@example.com")

	profile, err := f.svc.SaveLearnerProfile(ctx, u.ID.Hex(), models.SaveLearnerProfileRequest{
		PaymentMethods: []models.PaymentMethodInput{
			{
				CardNumber:     "4111111111111111",
				CardHolderName: "Jamie Lee",
				CVV:            "123",
				CardExpiryDate: "2027-09-01",
				SaveCardInfo:   true,
			},
			{
				CardNumber:     "5555444433331111",
				CardHolderName: "Jamie Lee",
				CardExpiryDate: "2028-01-01",
				DefaultCard:    true,
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, profile.PaymentMethods, 2)

	visa, mc := profile.PaymentMethods[0], profile.PaymentMethods[1]
	assert.Equal(t, "1111", visa.CardLast4)
	assert.Equal(t, models.CardTypeVisa, visa.CardType)
	assert.Equal(t, models.CardTypeMasterCard, mc.CardType)
	assert.NotEmpty(t, visa.VaultToken)
	assert.NotContains(t, visa.VaultToken, "4111111111111111")
	assert.False(t, visa.DefaultCard)
	assert.True(t, mc.DefaultCard)
	assert.False(t, visa.ID.IsZero())
	assert.NotEqual(t, visa.ID, mc.ID)
}

func TestDefaultCardLastFlagWins(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	u := f.addUser(t, models.RoleLearner, "jamie@example.com")

	profile, err := f.svc.SaveLearnerProfile(ctx, u.ID.Hex(), models.SaveLearnerProfileRequest{
		PaymentMethods: []models.PaymentMethodInput{
			{CardNumber: "4111111111111111", CardHolderName: "J", CardExpiryDate: "2027-09-01", DefaultCard: true},
			{CardNumber: "4222222222222222", CardHolderName: "J", CardExpiryDate: "2027-09-01", DefaultCard: true},
		},
	})
	require.NoError(t, err)

	defaults := 0
	for _, pm := range profile.PaymentMethods {
		if pm.DefaultCard {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	assert.True(t, profile.PaymentMethods[1].DefaultCard)
}

func TestSetDefaultCard(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	u := f.addUser(t, models.RoleLearner, "jamie@example.com")

	profile, err := f.svc.SaveLearnerProfile(ctx, u.ID.Hex(), models.SaveLearnerProfileRequest{
		PaymentMethods: []models.PaymentMethodInput{
			{CardNumber: "4111111111111111", CardHolderName: "J", CardExpiryDate: "2027-09-01", DefaultCard: true},
			{CardNumber: "4222222222222222", CardHolderName: "J", CardExpiryDate: "2027-09-01"},
		},
	})
	require.NoError(t, err)
	second := profile.PaymentMethods[1].ID

	updated, err := f.svc.SetDefaultCard(ctx, u.ID.Hex(), second.Hex())
	require.NoError(t, err)
	assert.Equal(t, second, updated.DefaultCardID())

	defaults := 0
	for _, pm := range updated.PaymentMethods {
		if pm.DefaultCard {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	_, err = f.svc.SetDefaultCard(ctx, u.ID.Hex(), "ffffffffffffffffffffffff")
	assert.ErrorIs(t, err, ErrCardNotFound)

	_, err = f.svc.SetDefaultCard(ctx, u.ID.Hex(), "not-hex")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestSaveInstructorProfileMerge(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	u := f.addUser(t, models.RoleInstructor, "sam@example.com")

	_, err := f.svc.SaveInstructorProfile(ctx, u.ID.Hex(), models.SaveInstructorProfileRequest{
		DrivingLicenseNumber:    "DL123",
		DrivingLicenseExpiry:    "2029-03-31",
		InstructorLicenseNumber: "IL456",
		ABN:                     "51824753556",
		DrivingSchoolName:       "Portico Driving",
	})
	require.NoError(t, err)

	_, err = f.svc.SaveInstructorProfile(ctx, u.ID.Hex(), models.SaveInstructorProfileRequest{
		Bio: "Patient instructor, manual and auto.",
	})
	require.NoError(t, err)

	view, err := f.svc.GetInstructorProfile(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "DL123", view.DrivingLicenseNumber)
	assert.Equal(t, "51824753556", view.ABN)
	assert.Equal(t, "Patient instructor, manual and auto.", view.Bio)
	require.NotNil(t, view.DrivingLicenseExpiry)
	assert.Equal(t, "2029-03-31", view.DrivingLicenseExpiry.Format("2006-01-02"))

	// Learners cannot write instructor profiles.
	l := f.addUser(t, models.RoleLearner, "jamie@example.com")
	_, err = f.svc.SaveInstructorProfile(ctx, l.ID.Hex(), models.SaveInstructorProfileRequest{})
	assert.ErrorIs(t, err, ErrWrongRole)
}
