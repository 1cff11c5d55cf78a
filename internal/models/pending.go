package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InstructorRegistration is the form data staged while an instructor
// sign-up waits for OTP confirmation. File fields hold relative upload
// references (e.g. /uploads/<name>), not raw bytes.
type InstructorRegistration struct {
	FirstName               string   `bson:"firstName" json:"firstName"`
	LastName                string   `bson:"lastName" json:"lastName"`
	GivenName               string   `bson:"givenName,omitempty" json:"givenName,omitempty"`
	NickName                string   `bson:"nickName,omitempty" json:"nickName,omitempty"`
	Email                   string   `bson:"email" json:"email"`
	Mobile                  string   `bson:"mobile" json:"mobile"`
	Address                 *Address `bson:"address,omitempty" json:"address,omitempty"`
	DrivingLicenseNumber    string   `bson:"drivingLicenseNumber,omitempty" json:"drivingLicenseNumber,omitempty"`
	InstructorLicenseNumber string   `bson:"instructorLicenseNumber,omitempty" json:"instructorLicenseNumber,omitempty"`
	WWCCNumber              string   `bson:"wwccNumber,omitempty" json:"wwccNumber,omitempty"`
	DrivingSchoolName       string   `bson:"drivingSchoolName,omitempty" json:"drivingSchoolName,omitempty"`
	Website                 string   `bson:"website,omitempty" json:"website,omitempty"`
	Bio                     string   `bson:"bio,omitempty" json:"bio,omitempty"`

	ProfileImage           string `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	DrivingLicenseFront    string `bson:"drivingLicenseFront,omitempty" json:"drivingLicenseFront,omitempty"`
	DrivingLicenseBack     string `bson:"drivingLicenseBack,omitempty" json:"drivingLicenseBack,omitempty"`
	InstructorLicenseFront string `bson:"instructorLicenseFront,omitempty" json:"instructorLicenseFront,omitempty"`
	InstructorLicenseBack  string `bson:"instructorLicenseBack,omitempty" json:"instructorLicenseBack,omitempty"`
}

// PendingRegistration buffers an in-flight instructor registration until the
// OTP is confirmed. The collection has a TTL index on createdAt so abandoned
// registrations are reaped after the expiry window.
type PendingRegistration struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"-"`
	Identifier string                 `bson:"identifier" json:"identifier"`
	Data       InstructorRegistration `bson:"registrationData" json:"registrationData"`
	CreatedAt  time.Time              `bson:"createdAt" json:"createdAt"`
}
