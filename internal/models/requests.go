package models

// Typed request bodies for every endpoint. Unknown fields are ignored by
// the JSON decoder; missing required fields are rejected by the validator
// before any service call.

// RegisterLearnerRequest creates a learner account directly, no OTP step.
type RegisterLearnerRequest struct {
	FirstName    string `json:"firstName" form:"firstName" validate:"required"`
	LastName     string `json:"lastName" form:"lastName" validate:"required"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	Mobile       string `json:"mobile" form:"mobile" validate:"required"`
	AddressLine1 string `json:"addressLine1" form:"addressLine1"`
	AddressLine2 string `json:"addressLine2" form:"addressLine2"`
	City         string `json:"city" form:"city"`
	State        string `json:"state" form:"state"`
	Country      string `json:"country" form:"country"`
	Postcode     string `json:"postcode" form:"postcode"`
}

// Address assembles the structured address, or nil when nothing was given.
func (r RegisterLearnerRequest) Address() *Address {
	a := Address{Line1: r.AddressLine1, Line2: r.AddressLine2, City: r.City, State: r.State, Country: r.Country, Postcode: r.Postcode}
	if a.IsZero() {
		return nil
	}
	return &a
}

// RegisterInstructorRequest carries the instructor sign-up form. It is
// parsed from multipart form fields for both the direct and the OTP-gated
// flow; uploaded files are handled separately by the handler.
type RegisterInstructorRequest struct {
	FirstName               string `json:"firstName" form:"firstName" validate:"required"`
	LastName                string `json:"lastName" form:"lastName" validate:"required"`
	GivenName               string `json:"givenName" form:"givenName"`
	NickName                string `json:"nickName" form:"nickName"`
	Email                   string `json:"email" form:"email" validate:"required,email"`
	Mobile                  string `json:"mobile" form:"mobile" validate:"required"`
	AddressLine1            string `json:"addressLine1" form:"addressLine1"`
	AddressLine2            string `json:"addressLine2" form:"addressLine2"`
	City                    string `json:"city" form:"city"`
	State                   string `json:"state" form:"state"`
	Country                 string `json:"country" form:"country"`
	Postcode                string `json:"postcode" form:"postcode"`
	DOB                     string `json:"dob" form:"dob"`
	DrivingLicenseNumber    string `json:"drivingLicenseNumber" form:"drivingLicenseNumber"`
	InstructorLicenseNumber string `json:"instructorLicenseNumber" form:"instructorLicenseNumber"`
	WWCCNumber              string `json:"wwccNumber" form:"wwccNumber"`
	DrivingSchoolName       string `json:"drivingSchoolName" form:"drivingSchoolName"`
	Website                 string `json:"website" form:"website"`
	Bio                     string `json:"bio" form:"bio"`
}

// Address assembles the structured address, or nil when nothing was given.
func (r RegisterInstructorRequest) Address() *Address {
	a := Address{Line1: r.AddressLine1, Line2: r.AddressLine2, City: r.City, State: r.State, Country: r.Country, Postcode: r.Postcode}
	if a.IsZero() {
		return nil
	}
	return &a
}

// RegisterInstructorVerifyRequest confirms an OTP-gated instructor sign-up.
type RegisterInstructorVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// LoginRequest identifies an existing user by email.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SocialLoginRequest carries a provider identity token.
type SocialLoginRequest struct {
	Provider string `json:"provider" validate:"required"`
	Token    string `json:"token" validate:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// SendOTPRequest requests a one-time code for an email or mobile identifier.
type SendOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

// VerifyOTPRequest verifies a one-time code for an identifier.
type VerifyOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	OTP        string `json:"otp" validate:"required,len=6,numeric"`
}

// PaymentMethodInput is an incoming card. The number and CVV exist only in
// flight: the number is tokenized and reduced to its last four digits, the
// CVV is discarded.
type PaymentMethodInput struct {
	CardNumber     string `json:"cardNumber" validate:"required,min=12,max=19,numeric"`
	CardHolderName string `json:"cardHolderName" validate:"required"`
	CVV            string `json:"cvv" validate:"omitempty,min=3,max=4,numeric"`
	CardType       string `json:"cardType" validate:"omitempty,oneof=Visa MasterCard Amex Other"`
	CardExpiryDate string `json:"cardExpiryDate" validate:"required"`
	SaveCardInfo   bool   `json:"saveCardInfo"`
	DefaultCard    bool   `json:"defaultCard"`
}

// EmergencyContactInput is an incoming emergency contact entry.
type EmergencyContactInput struct {
	Name         string `json:"emergencyName" validate:"required"`
	Relationship string `json:"emergencyRelationship" validate:"required"`
	Phone        string `json:"emergencyPhone" validate:"required"`
	Email        string `json:"emergencyEmail" validate:"omitempty,email"`
}

// SaveLearnerProfileRequest upserts a learner profile. Fields left empty
// keep whatever the profile already holds.
type SaveLearnerProfileRequest struct {
	FirstName         string                  `json:"firstName"`
	LastName          string                  `json:"lastName"`
	Email             string                  `json:"email" validate:"omitempty,email"`
	Gender            string                  `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Mobile            string                  `json:"mobile"`
	DOB               string                  `json:"dob"`
	AddressLine1      string                  `json:"addressLine1"`
	AddressLine2      string                  `json:"addressLine2"`
	City              string                  `json:"city"`
	State             string                  `json:"state"`
	Country           string                  `json:"country"`
	Postcode          string                  `json:"postcode"`
	HasLicense        *bool                   `json:"hasLicense"`
	LicenseType       string                  `json:"licenseType"`
	LicenseNumber     string                  `json:"licenseNumber"`
	LicenseIssueDate  string                  `json:"licenseIssueDate"`
	LicenseExpiryDate string                  `json:"licenseExpiryDate"`
	PaymentMethods    []PaymentMethodInput    `json:"paymentMethods" validate:"omitempty,dive"`
	EmergencyContacts []EmergencyContactInput `json:"emergencyContacts" validate:"omitempty,dive"`
}

// Address assembles the structured address, or nil when nothing was given.
func (r SaveLearnerProfileRequest) Address() *Address {
	a := Address{Line1: r.AddressLine1, Line2: r.AddressLine2, City: r.City, State: r.State, Country: r.Country, Postcode: r.Postcode}
	if a.IsZero() {
		return nil
	}
	return &a
}

// SaveInstructorProfileRequest upserts an instructor profile. Date fields
// accept YYYY-MM-DD or RFC 3339.
type SaveInstructorProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
	Mobile    string `json:"mobile"`

	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Postcode     string `json:"postcode"`

	DrivingLicenseNumber string `json:"drivingLicenseNumber"`
	CardStockNumber      string `json:"cardStockNumber"`
	DrivingLicenseExpiry string `json:"drivingLicenseExpiry"`
	StateIssued          string `json:"stateIssued"`

	InstructorLicenseNumber      string `json:"instructorLicenseNumber"`
	InstructorLicenseCondition   string `json:"instructorLicenseCondition"`
	InstructorLicenseExpiry      string `json:"instructorLicenseExpiry"`
	InstructorLicenseStateIssued string `json:"instructorLicenseStateIssued"`

	WWCCNumber      string `json:"wwccNumber"`
	WWCCExpiry      string `json:"wwccExpiry"`
	WWCCType        string `json:"wwccType"`
	WWCCStateIssued string `json:"wwccStateIssued"`

	ABN               string `json:"abn"`
	BusinessType      string `json:"businessType"`
	DrivingSchoolName string `json:"drivingSchoolName"`
	TotalExperience   string `json:"totalExperience"`
	ExperienceDate    string `json:"experienceDate"`
	Languages         string `json:"languages"`
	Website           string `json:"website"`
	Bio               string `json:"bio"`
}

// Address assembles the structured address, or nil when nothing was given.
func (r SaveInstructorProfileRequest) Address() *Address {
	a := Address{Line1: r.AddressLine1, Line2: r.AddressLine2, City: r.City, State: r.State, Country: r.Country, Postcode: r.Postcode}
	if a.IsZero() {
		return nil
	}
	return &a
}
