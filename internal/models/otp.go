package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTPEntry is a short-lived one-time code keyed by an email or mobile
// identifier. The collection carries a TTL index on expiresAt so the store
// reaps expired entries whether or not they were ever verified.
type OTPEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Identifier string             `bson:"identifier" json:"identifier"`
	Code       string             `bson:"otp" json:"-"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expiresAt"`
}

// Expired reports whether the entry's absolute expiry has passed.
func (e *OTPEntry) Expired(now time.Time) bool {
	return e.ExpiresAt.Before(now)
}

// OTPReceipt is what callers get back after an OTP has been issued. The code
// itself travels only through the out-of-band channel.
type OTPReceipt struct {
	Identifier string    `json:"identifier"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
