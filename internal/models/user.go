package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the persisted account document. Credential and token fields
// are excluded from JSON so a marshaled user is always safe to return
// to a client.
type User struct {
	ID                        primitive.ObjectID `bson:"_id" json:"id"`
	Email                     string             `bson:"email" json:"email"`
	Password                  string             `bson:"password" json:"-"`
	Name                      string             `bson:"name" json:"name"`
	IsVerified                bool               `bson:"isVerified" json:"isVerified"`
	VerificationCode          *string            `bson:"verificationCode,omitempty" json:"-"`
	VerificationCodeExpiresAt *time.Time         `bson:"verificationCodeExpiresAt,omitempty" json:"-"`
	ResetToken                *string            `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpiresAt       *time.Time         `bson:"resetTokenExpiresAt,omitempty" json:"-"`
	LastLoginAt               *time.Time         `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt                 time.Time          `bson:"createdAt" json:"createdAt"`
}
