package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Card types recognised on payment methods.
const (
	CardTypeVisa       = "Visa"
	CardTypeMasterCard = "MasterCard"
	CardTypeAmex       = "Amex"
	CardTypeOther      = "Other"
)

// PaymentMethod is a stored card reference. The PAN is exchanged for an
// opaque vault token before it ever reaches the store; only the last four
// digits survive, and the CVV is never persisted at all.
type PaymentMethod struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VaultToken     string             `bson:"vaultToken" json:"-"`
	CardLast4      string             `bson:"cardLast4" json:"cardLast4"`
	CardHolderName string             `bson:"cardHolderName" json:"cardHolderName"`
	CardType       string             `bson:"cardType" json:"cardType"`
	CardExpiryDate *time.Time         `bson:"cardExpiryDate,omitempty" json:"cardExpiryDate,omitempty"`
	SaveCardInfo   bool               `bson:"saveCardInfo" json:"saveCardInfo"`
	DefaultCard    bool               `bson:"defaultCard" json:"defaultCard"`
}

// EmergencyContact is one entry in a learner's ordered contact list.
type EmergencyContact struct {
	Name         string `bson:"emergencyName" json:"emergencyName"`
	Relationship string `bson:"emergencyRelationship" json:"emergencyRelationship"`
	Phone        string `bson:"emergencyPhone" json:"emergencyPhone"`
	Email        string `bson:"emergencyEmail,omitempty" json:"emergencyEmail,omitempty"`
}

// LearnerPersonalDetails duplicates a handful of user fields inside the
// learner profile, as the original schema does.
type LearnerPersonalDetails struct {
	FirstName string     `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string     `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email     string     `bson:"email,omitempty" json:"email,omitempty"`
	Gender    string     `bson:"gender,omitempty" json:"gender,omitempty"`
	Mobile    string     `bson:"mobile,omitempty" json:"mobile,omitempty"`
	DOB       *time.Time `bson:"dob,omitempty" json:"dob,omitempty"`
	Address   *Address   `bson:"address,omitempty" json:"address,omitempty"`
}

// LearnerLicenseInfo describes the learner's existing licence, if any.
type LearnerLicenseInfo struct {
	HasLicense    bool       `bson:"hasLicense" json:"hasLicense"`
	LicenseType   string     `bson:"licenseType,omitempty" json:"licenseType,omitempty"`
	LicenseNumber string     `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	IssueDate     *time.Time `bson:"issueDate,omitempty" json:"issueDate,omitempty"`
	ExpiryDate    *time.Time `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
}

// LearnerProfile is the one-to-one extension record for learner accounts.
type LearnerProfile struct {
	ID                primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID     `bson:"user" json:"userId"`
	PersonalDetails   LearnerPersonalDetails `bson:"personalDetails" json:"personalDetails"`
	LicenseInfo       LearnerLicenseInfo     `bson:"licenseInfo" json:"licenseInfo"`
	PaymentMethods    []PaymentMethod        `bson:"paymentMethods" json:"paymentMethods"`
	EmergencyContacts []EmergencyContact     `bson:"emergencyContacts" json:"emergencyContacts"`
	CreatedAt         time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// DefaultCardID returns the id of the card currently flagged as default,
// or a zero ObjectID when none is.
func (p *LearnerProfile) DefaultCardID() primitive.ObjectID {
	for _, pm := range p.PaymentMethods {
		if pm.DefaultCard {
			return pm.ID
		}
	}
	return primitive.NilObjectID
}

// LearnerProfileView is a profile joined with a filtered view of its
// owning user.
type LearnerProfileView struct {
	LearnerProfile
	User *User `json:"user"`
}
