package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InstructorProfile is the one-to-one extension record for instructor
// accounts: licensing, background check, business details and uploaded
// document references. The user field carries a unique index.
type InstructorProfile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user" json:"userId"`

	DrivingLicenseNumber string     `bson:"drivingLicenseNumber,omitempty" json:"drivingLicenseNumber,omitempty"`
	CardStockNumber      string     `bson:"cardStockNumber,omitempty" json:"cardStockNumber,omitempty"`
	DrivingLicenseExpiry *time.Time `bson:"drivingLicenseExpiry,omitempty" json:"drivingLicenseExpiry,omitempty"`
	StateIssued          string     `bson:"stateIssued,omitempty" json:"stateIssued,omitempty"`

	InstructorLicenseNumber      string     `bson:"instructorLicenseNumber,omitempty" json:"instructorLicenseNumber,omitempty"`
	InstructorLicenseCondition   string     `bson:"instructorLicenseCondition,omitempty" json:"instructorLicenseCondition,omitempty"`
	InstructorLicenseExpiry      *time.Time `bson:"instructorLicenseExpiry,omitempty" json:"instructorLicenseExpiry,omitempty"`
	InstructorLicenseStateIssued string     `bson:"instructorLicenseStateIssued,omitempty" json:"instructorLicenseStateIssued,omitempty"`

	WWCCNumber      string     `bson:"wwccNumber,omitempty" json:"wwccNumber,omitempty"`
	WWCCExpiry      *time.Time `bson:"wwccExpiry,omitempty" json:"wwccExpiry,omitempty"`
	WWCCType        string     `bson:"wwccType,omitempty" json:"wwccType,omitempty"`
	WWCCStateIssued string     `bson:"wwccStateIssued,omitempty" json:"wwccStateIssued,omitempty"`

	ABN               string     `bson:"abn,omitempty" json:"abn,omitempty"`
	BusinessType      string     `bson:"businessType,omitempty" json:"businessType,omitempty"`
	DrivingSchoolName string     `bson:"drivingSchoolName,omitempty" json:"drivingSchoolName,omitempty"`
	TotalExperience   string     `bson:"totalExperience,omitempty" json:"totalExperience,omitempty"`
	ExperienceDate    *time.Time `bson:"experienceDate,omitempty" json:"experienceDate,omitempty"`
	Languages         string     `bson:"languages,omitempty" json:"languages,omitempty"`
	Website           string     `bson:"website,omitempty" json:"website,omitempty"`
	Bio               string     `bson:"bio,omitempty" json:"bio,omitempty"`

	Address *Address `bson:"address,omitempty" json:"address,omitempty"`

	ProfileImage           string `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	DrivingLicenseFront    string `bson:"drivingLicenseFront,omitempty" json:"drivingLicenseFront,omitempty"`
	DrivingLicenseBack     string `bson:"drivingLicenseBack,omitempty" json:"drivingLicenseBack,omitempty"`
	InstructorLicenseFront string `bson:"instructorLicenseFront,omitempty" json:"instructorLicenseFront,omitempty"`
	InstructorLicenseBack  string `bson:"instructorLicenseBack,omitempty" json:"instructorLicenseBack,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// InstructorProfileView is a profile joined with a filtered view of its
// owning user (refresh tokens and other internals excluded by User's own
// JSON contract).
type InstructorProfileView struct {
	InstructorProfile
	User *User `json:"user"`
}
