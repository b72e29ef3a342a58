package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DoctorLetter is a post-procedure letter generated from a session transcript.
type DoctorLetter struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	LetterID string             `bson:"letter_id" json:"letter_id"` // uuid v4

	SessionID     string `bson:"session_id" json:"session_id"`
	ProcedureType string `bson:"procedure_type" json:"procedure_type"`
	Content       string `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
