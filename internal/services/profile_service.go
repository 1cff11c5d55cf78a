package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/events"
	"github.com/ashika-normality/project-portico-backend/internal/models"
	"github.com/ashika-normality/project-portico-backend/internal/repository"
	"github.com/ashika-normality/project-portico-backend/internal/vault"
)

type profileService struct {
	users       repository.UserRepository
	instructors repository.InstructorProfileRepository
	learners    repository.LearnerProfileRepository
	cards       vault.Tokenizer
	producer    *events.Producer
	log         *zap.Logger
}

// NewProfileService wires profile reads and upserts for both roles.
func NewProfileService(
	users repository.UserRepository,
	instructors repository.InstructorProfileRepository,
	learners repository.LearnerProfileRepository,
	cards vault.Tokenizer,
	producer *events.Producer,
	log *zap.Logger,
) ProfileService {
	return &profileService{
		users:       users,
		instructors: instructors,
		learners:    learners,
		cards:       cards,
		producer:    producer,
		log:         log,
	}
}

func (s *profileService) GetInstructorProfile(ctx context.Context, userID string) (*models.InstructorProfileView, error) {
	id, user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.instructors.FindByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, ErrInternal
	}
	return &models.InstructorProfileView{InstructorProfile: *profile, User: user}, nil
}

func (s *profileService) SaveInstructorProfile(ctx context.Context, userID string, req models.SaveInstructorProfileRequest) (*models.InstructorProfile, error) {
	id, user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleInstructor {
		return nil, ErrWrongRole
	}

	profile, err := s.instructors.FindByUserID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		profile = &models.InstructorProfile{UserID: id}
	} else if err != nil {
		return nil, ErrInternal
	}

	overrideString(&profile.DrivingLicenseNumber, req.DrivingLicenseNumber)
	overrideString(&profile.CardStockNumber, req.CardStockNumber)
	overrideString(&profile.StateIssued, req.StateIssued)
	overrideString(&profile.InstructorLicenseNumber, req.InstructorLicenseNumber)
	overrideString(&profile.InstructorLicenseCondition, req.InstructorLicenseCondition)
	overrideString(&profile.InstructorLicenseStateIssued, req.InstructorLicenseStateIssued)
	overrideString(&profile.WWCCNumber, req.WWCCNumber)
	overrideString(&profile.WWCCType, req.WWCCType)
	overrideString(&profile.WWCCStateIssued, req.WWCCStateIssued)
	overrideString(&profile.ABN, req.ABN)
	overrideString(&profile.BusinessType, req.BusinessType)
	overrideString(&profile.DrivingSchoolName, req.DrivingSchoolName)
	overrideString(&profile.TotalExperience, req.TotalExperience)
	overrideString(&profile.Languages, req.Languages)
	overrideString(&profile.Website, req.Website)
	overrideString(&profile.Bio, req.Bio)

	if t := parseDate(req.DrivingLicenseExpiry); t != nil {
		profile.DrivingLicenseExpiry = t
	}
	if t := parseDate(req.InstructorLicenseExpiry); t != nil {
		profile.InstructorLicenseExpiry = t
	}
	if t := parseDate(req.WWCCExpiry); t != nil {
		profile.WWCCExpiry = t
	}
	if t := parseDate(req.ExperienceDate); t != nil {
		profile.ExperienceDate = t
	}
	if addr := req.Address(); addr != nil {
		profile.Address = mergeAddress(profile.Address, addr)
	}

	if err := s.instructors.Upsert(ctx, profile); err != nil {
		return nil, ErrInternal
	}

	if err := s.applyUserUpdates(ctx, user, req.FirstName, req.LastName, req.Mobile, req.Email, req.Address()); err != nil {
		return nil, err
	}

	s.producer.Publish(ctx, events.Event{Type: events.TypeProfileSaved, UserID: userID, Role: models.RoleInstructor})
	return profile, nil
}

func (s *profileService) GetLearnerProfile(ctx context.Context, userID string) (*models.LearnerProfileView, error) {
	id, user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.learners.FindByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, ErrInternal
	}
	return &models.LearnerProfileView{LearnerProfile: *profile, User: user}, nil
}

func (s *profileService) SaveLearnerProfile(ctx context.Context, userID string, req models.SaveLearnerProfileRequest) (*models.LearnerProfile, error) {
	id, user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleLearner {
		return nil, ErrWrongRole
	}

	// A changed email must not collide with another account.
	if req.Email != "" && !strings.EqualFold(req.Email, user.Email) {
		other, ferr := s.users.FindByEmail(ctx, req.Email)
		if ferr == nil && other.ID != user.ID {
			return nil, ErrEmailInUse
		}
		if ferr != nil && !errors.Is(ferr, repository.ErrNotFound) {
			return nil, ErrInternal
		}
	}

	profile, err := s.learners.FindByUserID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		profile = &models.LearnerProfile{
			UserID:      id,
			LicenseInfo: models.LearnerLicenseInfo{HasLicense: true},
		}
	} else if err != nil {
		return nil, ErrInternal
	}

	pd := &profile.PersonalDetails
	overrideString(&pd.FirstName, req.FirstName)
	overrideString(&pd.LastName, req.LastName)
	overrideString(&pd.Email, req.Email)
	overrideString(&pd.Gender, req.Gender)
	overrideString(&pd.Mobile, req.Mobile)
	if t := parseDate(req.DOB); t != nil {
		pd.DOB = t
	}
	if addr := req.Address(); addr != nil {
		pd.Address = mergeAddress(pd.Address, addr)
	}

	li := &profile.LicenseInfo
	if req.HasLicense != nil {
		li.HasLicense = *req.HasLicense
	}
	overrideString(&li.LicenseType, req.LicenseType)
	overrideString(&li.LicenseNumber, req.LicenseNumber)
	if t := parseDate(req.LicenseIssueDate); t != nil {
		li.IssueDate = t
	}
	if t := parseDate(req.LicenseExpiryDate); t != nil {
		li.ExpiryDate = t
	}

	if req.PaymentMethods != nil {
		methods, perr := s.buildPaymentMethods(ctx, req.PaymentMethods)
		if perr != nil {
			return nil, perr
		}
		profile.PaymentMethods = methods
	}
	if req.EmergencyContacts != nil {
		contacts := make([]models.EmergencyContact, len(req.EmergencyContacts))
		for i, in := range req.EmergencyContacts {
			contacts[i] = models.EmergencyContact{
				Name:         in.Name,
				Relationship: in.Relationship,
				Phone:        in.Phone,
				Email:        in.Email,
			}
		}
		profile.EmergencyContacts = contacts
	}

	if err := s.learners.Upsert(ctx, profile); err != nil {
		return nil, ErrInternal
	}

	if err := s.applyUserUpdates(ctx, user, req.FirstName, req.LastName, req.Mobile, req.Email, req.Address()); err != nil {
		return nil, err
	}

	s.producer.Publish(ctx, events.Event{Type: events.TypeProfileSaved, UserID: userID, Role: models.RoleLearner})
	return profile, nil
}

func (s *profileService) SetDefaultCard(ctx context.Context, userID, cardID string) (*models.LearnerProfile, error) {
	id, _, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	cid, err := primitive.ObjectIDFromHex(cardID)
	if err != nil {
		return nil, ErrCardNotFound
	}

	profile, err := s.learners.FindByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, ErrInternal
	}

	found := false
	for i := range profile.PaymentMethods {
		isTarget := profile.PaymentMethods[i].ID == cid
		profile.PaymentMethods[i].DefaultCard = isTarget
		if isTarget {
			found = true
		}
	}
	if !found {
		return nil, ErrCardNotFound
	}

	if err := s.learners.Upsert(ctx, profile); err != nil {
		return nil, ErrInternal
	}
	return profile, nil
}

// buildPaymentMethods tokenizes incoming cards. The PAN is reduced to its
// last four digits, the CVV is dropped on the floor, and the card type is
// derived from the leading digit when not supplied. At most one card keeps
// the default flag; when several claim it, the last one wins.
func (s *profileService) buildPaymentMethods(ctx context.Context, inputs []models.PaymentMethodInput) ([]models.PaymentMethod, error) {
	methods := make([]models.PaymentMethod, len(inputs))
	defaultIdx := -1
	for i, in := range inputs {
		tok, err := s.cards.Tokenize(ctx, in.CardNumber)
		if err != nil {
			return nil, ErrInternal
		}
		methods[i] = models.PaymentMethod{
			ID:             primitive.NewObjectID(),
			VaultToken:     tok,
			CardLast4:      last4(in.CardNumber),
			CardHolderName: in.CardHolderName,
			CardType:       normalizeCardType(in.CardType, in.CardNumber),
			CardExpiryDate: parseDate(in.CardExpiryDate),
			SaveCardInfo:   in.SaveCardInfo,
		}
		if in.DefaultCard {
			defaultIdx = i
		}
	}
	if defaultIdx >= 0 {
		methods[defaultIdx].DefaultCard = true
	}
	return methods, nil
}

// normalizeCardType falls back to the leading-digit heuristic when no type
// was supplied: 4 is Visa, 5 is MasterCard, anything else is Other.
func normalizeCardType(cardType, number string) string {
	if cardType != "" {
		return cardType
	}
	switch {
	case strings.HasPrefix(number, "4"):
		return models.CardTypeVisa
	case strings.HasPrefix(number, "5"):
		return models.CardTypeMasterCard
	default:
		return models.CardTypeOther
	}
}

func last4(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

// applyUserUpdates pushes shared fields from a profile save back onto the
// user document as a partial update.
func (s *profileService) applyUserUpdates(ctx context.Context, user *models.User, firstName, lastName, mobile, email string, addr *models.Address) error {
	fields := map[string]any{}
	if firstName != "" {
		fields["firstName"] = firstName
	}
	if lastName != "" {
		fields["lastName"] = lastName
	}
	if mobile != "" {
		fields["mobile"] = mobile
	}
	if email != "" && !strings.EqualFold(email, user.Email) {
		fields["email"] = email
	}
	if addr != nil {
		fields["address"] = mergeAddress(user.Address, addr)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailInUse
		}
		return ErrInternal
	}
	return nil
}

// mergeAddress overlays non-empty incoming fields on the existing address.
func mergeAddress(existing, incoming *models.Address) *models.Address {
	if existing == nil {
		out := *incoming
		return &out
	}
	out := *existing
	overrideString(&out.Line1, incoming.Line1)
	overrideString(&out.Line2, incoming.Line2)
	overrideString(&out.City, incoming.City)
	overrideString(&out.State, incoming.State)
	overrideString(&out.Country, incoming.Country)
	overrideString(&out.Postcode, incoming.Postcode)
	return &out
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// resolveUser parses the authenticated id and loads the user.
func (s *profileService) resolveUser(ctx context.Context, userID string) (primitive.ObjectID, *models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, nil, ErrUserNotFound
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, nil, ErrUserNotFound
		}
		return primitive.NilObjectID, nil, ErrInternal
	}
	return id, user, nil
}
