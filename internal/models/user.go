package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Role is fixed at creation and never changes afterwards.
const (
	RoleInstructor = "instructor"
	RoleLearner    = "learner"
)

// Signup methods recorded on the user document.
const (
	SignupMethodOTP      = "otp"
	SignupMethodGoogle   = "google"
	SignupMethodFacebook = "facebook"
)

// Address is the structured postal address shared by users and profiles.
type Address struct {
	Line1    string `bson:"line1,omitempty" json:"line1,omitempty"`
	Line2    string `bson:"line2,omitempty" json:"line2,omitempty"`
	City     string `bson:"city,omitempty" json:"city,omitempty"`
	State    string `bson:"state,omitempty" json:"state,omitempty"`
	Country  string `bson:"country,omitempty" json:"country,omitempty"`
	Postcode string `bson:"postcode,omitempty" json:"postcode,omitempty"`
}

// IsZero reports whether no address field has been set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// User is the canonical account record. Email is unique at the store level;
// refresh tokens issued to the user are kept on the document and are never
// serialized into API responses.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role            string             `bson:"role" json:"role"`
	FirstName       string             `bson:"firstName" json:"firstName"`
	LastName        string             `bson:"lastName" json:"lastName"`
	GivenName       string             `bson:"givenName,omitempty" json:"givenName,omitempty"`
	NickName        string             `bson:"nickName,omitempty" json:"nickName,omitempty"`
	Gender          string             `bson:"gender,omitempty" json:"gender,omitempty"`
	DOB             *time.Time         `bson:"dob,omitempty" json:"dob,omitempty"`
	Email           string             `bson:"email" json:"email"`
	Mobile          string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Address         *Address           `bson:"address,omitempty" json:"address,omitempty"`
	ProfilePhotoURL string             `bson:"profilePhotoUrl,omitempty" json:"profilePhotoUrl,omitempty"`
	SignupMethod    string             `bson:"signupMethod" json:"signupMethod"`
	RefreshTokens   []string           `bson:"refreshTokens,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// HasRefreshToken reports whether the given refresh token was issued to this
// user and not revoked since.
func (u *User) HasRefreshToken(token string) bool {
	for _, t := range u.RefreshTokens {
		if t == token {
			return true
		}
	}
	return false
}

// TokenPair is an access/refresh token pair issued on login or verification.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
