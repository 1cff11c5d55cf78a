package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ashika-normality/project-portico-backend/internal/models"
	"github.com/ashika-normality/project-portico-backend/internal/repository"
	"github.com/ashika-normality/project-portico-backend/internal/social"
)

// In-memory fakes for the Mongo repositories and the outbound clients, so
// service behavior can be exercised without a database.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User

	createErr error
	deleted   []primitive.ObjectID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, identifier) || (u.Mobile != "" && u.Mobile == identifier) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateFields(_ context.Context, id primitive.ObjectID, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "firstName":
			u.FirstName = v.(string)
		case "lastName":
			u.LastName = v.(string)
		case "mobile":
			u.Mobile = v.(string)
		case "email":
			u.Email = v.(string)
		case "address":
			u.Address = v.(*models.Address)
		}
	}
	return nil
}

func (r *fakeUserRepo) PushRefreshToken(_ context.Context, id primitive.ObjectID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshTokens = append(u.RefreshTokens, token)
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeOTPRepo struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]*models.OTPEntry
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{entries: map[primitive.ObjectID]*models.OTPEntry{}}
}

func (r *fakeOTPRepo) Create(_ context.Context, e *models.OTPEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = primitive.NewObjectID()
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *fakeOTPRepo) FindByIdentifierAndCode(_ context.Context, identifier, code string) (*models.OTPEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Identifier == identifier && e.Code == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOTPRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

func (r *fakeOTPRepo) DeleteByIdentifier(_ context.Context, identifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		if e.Identifier == identifier {
			delete(r.entries, id)
		}
	}
	return nil
}

// activeFor returns the single stored code for an identifier, or nil.
func (r *fakeOTPRepo) activeFor(identifier string) *models.OTPEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Identifier == identifier {
			cp := *e
			return &cp
		}
	}
	return nil
}

func (r *fakeOTPRepo) countFor(identifier string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Identifier == identifier {
			n++
		}
	}
	return n
}

type fakePendingRepo struct {
	mu     sync.Mutex
	staged map[string]*models.PendingRegistration
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{staged: map[string]*models.PendingRegistration{}}
}

func (r *fakePendingRepo) Upsert(_ context.Context, p *models.PendingRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	r.staged[p.Identifier] = &cp
	return nil
}

func (r *fakePendingRepo) FindByIdentifier(_ context.Context, identifier string) (*models.PendingRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.staged[identifier]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePendingRepo) DeleteByIdentifier(_ context.Context, identifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.staged, identifier)
	return nil
}

type fakeInstructorProfileRepo struct {
	mu        sync.Mutex
	profiles  map[primitive.ObjectID]*models.InstructorProfile
	createErr error
}

func newFakeInstructorProfileRepo() *fakeInstructorProfileRepo {
	return &fakeInstructorProfileRepo{profiles: map[primitive.ObjectID]*models.InstructorProfile{}}
}

func (r *fakeInstructorProfileRepo) Create(_ context.Context, p *models.InstructorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	p.ID = primitive.NewObjectID()
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *fakeInstructorProfileRepo) Upsert(_ context.Context, p *models.InstructorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *fakeInstructorProfileRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.InstructorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type fakeLearnerProfileRepo struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]*models.LearnerProfile
}

func newFakeLearnerProfileRepo() *fakeLearnerProfileRepo {
	return &fakeLearnerProfileRepo{profiles: map[primitive.ObjectID]*models.LearnerProfile{}}
}

func (r *fakeLearnerProfileRepo) Upsert(_ context.Context, p *models.LearnerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	cp.PaymentMethods = append([]models.PaymentMethod(nil), p.PaymentMethods...)
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *fakeLearnerProfileRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.LearnerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	cp.PaymentMethods = append([]models.PaymentMethod(nil), p.PaymentMethods...)
	return &cp, nil
}

// fakeSMS records sent messages and can be told to fail.
type fakeSMS struct {
	mu       sync.Mutex
	sent     []string
	bodies   []string
	fail     bool
	disabled bool
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("sms gateway down")
	}
	f.sent = append(f.sent, to)
	f.bodies = append(f.bodies, body)
	return nil
}

func (f *fakeSMS) IsConfigured() bool { return !f.disabled }

// fakeMailer records sent codes and can be told to fail.
type fakeMailer struct {
	mu       sync.Mutex
	sent     []string
	codes    []string
	fail     bool
	disabled bool
}

func (f *fakeMailer) SendOTPEmail(_ context.Context, to, code string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("mail api down")
	}
	f.sent = append(f.sent, to)
	f.codes = append(f.codes, code)
	return nil
}

func (f *fakeMailer) IsConfigured() bool { return !f.disabled }

// fakeVerifier resolves social tokens from a fixed table.
type fakeVerifier struct {
	identities map[string]social.Identity
	err        error
}

func (f *fakeVerifier) Verify(_ context.Context, provider, rawToken string) (*social.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !strings.EqualFold(provider, social.ProviderGoogle) {
		return nil, social.ErrUnsupportedProvider
	}
	id, ok := f.identities[rawToken]
	if !ok {
		return nil, social.ErrTokenInvalid
	}
	return &id, nil
}
